package config

import "fmt"

// Config is the editor's typed settings, decoded from the merged
// defaults/file/env layers.
type Config struct {
	Editor  EditorConfig
	UI      UIConfig
	Paths   PathsConfig
	Plugins PluginsConfig
}

// EditorConfig mirrors the knobs internal/document and internal/viewport
// take, so app wiring never hand-copies values field by field.
type EditorConfig struct {
	TabWidth   int
	WordWrap   bool
	InsertTabs bool
	LineEnding string // "lf", "crlf", or "cr"
	AutoIndent bool
}

// UIConfig configures the rendered surface.
type UIConfig struct {
	Theme string
}

// PathsConfig names directories the editor reads plugins and persists
// state under.
type PathsConfig struct {
	ConfigDir string
	DataDir   string
}

// PluginsConfig bounds the resources a Lua plugin host may consume, applied
// as internal/plugin.HostOption values when a host is created.
type PluginsConfig struct {
	MemoryLimitBytes   int64
	ExecutionTimeoutMS int
}

// EnvPrefix is the environment variable prefix EnvLoader scans by default.
const EnvPrefix = "CPAD_"

// Defaults returns the built-in settings every layer starts from.
func Defaults() *Config {
	return &Config{
		Editor: EditorConfig{
			TabWidth:   4,
			WordWrap:   true,
			InsertTabs: false,
			LineEnding: "lf",
			AutoIndent: true,
		},
		UI: UIConfig{Theme: "default"},
		Plugins: PluginsConfig{
			MemoryLimitBytes:   10 * 1024 * 1024,
			ExecutionTimeoutMS: 5000,
		},
	}
}

// Load composes Defaults, the TOML file at path (if any), and CPAD_-
// prefixed environment variables, each layer overriding the one before it,
// and decodes the result into a Config.
func Load(path string) (*Config, error) {
	merged := defaultsMap()

	if path != "" {
		fileLayer, err := NewFileLoader(path).Load()
		if err != nil {
			return nil, err
		}
		merged = DeepMerge(merged, fileLayer)
	}

	envLayer, err := NewEnvLoader(EnvPrefix).Load()
	if err != nil {
		return nil, err
	}
	merged = DeepMerge(merged, envLayer)

	return decode(merged)
}

func defaultsMap() map[string]any {
	d := Defaults()
	m := make(map[string]any)
	setByPath(m, "editor.tabWidth", int64(d.Editor.TabWidth))
	setByPath(m, "editor.wordWrap", d.Editor.WordWrap)
	setByPath(m, "editor.insertTabs", d.Editor.InsertTabs)
	setByPath(m, "editor.lineEnding", d.Editor.LineEnding)
	setByPath(m, "editor.autoIndent", d.Editor.AutoIndent)
	setByPath(m, "ui.theme", d.UI.Theme)
	setByPath(m, "paths.configDir", d.Paths.ConfigDir)
	setByPath(m, "paths.dataDir", d.Paths.DataDir)
	setByPath(m, "plugins.memoryLimitBytes", d.Plugins.MemoryLimitBytes)
	setByPath(m, "plugins.executionTimeoutMs", int64(d.Plugins.ExecutionTimeoutMS))
	return m
}

// FieldKind names the Go type a Field decodes its raw map value to before
// Validate and Apply ever see it.
type FieldKind int

const (
	FieldKindInt FieldKind = iota
	FieldKindBool
	FieldKindString
)

// convert coerces a raw value decoded from TOML/env (int64, float64, string,
// bool) to the Go type Kind promises Validate and Apply.
func (k FieldKind) convert(v any) (any, error) {
	switch k {
	case FieldKindInt:
		switch t := v.(type) {
		case int64:
			return int(t), nil
		case int:
			return t, nil
		case float64:
			return int(t), nil
		default:
			return nil, fmt.Errorf("want integer, got %T", v)
		}
	case FieldKindBool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("want bool, got %T", v)
		}
		return b, nil
	case FieldKindString:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("want string, got %T", v)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown field kind %d", k)
	}
}

// Field describes one typed, validated setting path within the merged
// config map. Validate runs on the converted Go value before Apply ever
// touches the Config, mirroring the per-control validation closures the
// original settings dialog attached to each field (entry_dialog.rs) without
// carrying over the dialog itself — decode() is the only caller, but the
// type is exported so a future settings surface can reuse the same table
// instead of re-deriving per-key validation.
type Field struct {
	Path     string
	Kind     FieldKind
	Validate func(v any) error
	Apply    func(cfg *Config, v any)
}

// fields is the closed table of settings Load recognizes. Adding a setting
// means adding one entry here, not a new ad hoc branch in decode.
func fields() []Field {
	return []Field{
		{
			Path: "editor.tabWidth",
			Kind: FieldKindInt,
			Validate: func(v any) error {
				if v.(int) <= 0 {
					return fmt.Errorf("must be positive, got %d", v)
				}
				return nil
			},
			Apply: func(cfg *Config, v any) { cfg.Editor.TabWidth = v.(int) },
		},
		{
			Path:  "editor.wordWrap",
			Kind:  FieldKindBool,
			Apply: func(cfg *Config, v any) { cfg.Editor.WordWrap = v.(bool) },
		},
		{
			Path:  "editor.insertTabs",
			Kind:  FieldKindBool,
			Apply: func(cfg *Config, v any) { cfg.Editor.InsertTabs = v.(bool) },
		},
		{
			Path:  "editor.autoIndent",
			Kind:  FieldKindBool,
			Apply: func(cfg *Config, v any) { cfg.Editor.AutoIndent = v.(bool) },
		},
		{
			Path: "editor.lineEnding",
			Kind: FieldKindString,
			Validate: func(v any) error {
				switch v.(string) {
				case "lf", "crlf", "cr":
					return nil
				default:
					return fmt.Errorf("unknown value %q", v)
				}
			},
			Apply: func(cfg *Config, v any) { cfg.Editor.LineEnding = v.(string) },
		},
		{
			Path:  "ui.theme",
			Kind:  FieldKindString,
			Apply: func(cfg *Config, v any) { cfg.UI.Theme = v.(string) },
		},
		{
			Path:  "paths.configDir",
			Kind:  FieldKindString,
			Apply: func(cfg *Config, v any) { cfg.Paths.ConfigDir = v.(string) },
		},
		{
			Path:  "paths.dataDir",
			Kind:  FieldKindString,
			Apply: func(cfg *Config, v any) { cfg.Paths.DataDir = v.(string) },
		},
		{
			Path: "plugins.memoryLimitBytes",
			Kind: FieldKindInt,
			Validate: func(v any) error {
				if v.(int) <= 0 {
					return fmt.Errorf("must be positive, got %d", v)
				}
				return nil
			},
			Apply: func(cfg *Config, v any) { cfg.Plugins.MemoryLimitBytes = int64(v.(int)) },
		},
		{
			Path: "plugins.executionTimeoutMs",
			Kind: FieldKindInt,
			Validate: func(v any) error {
				if v.(int) <= 0 {
					return fmt.Errorf("must be positive, got %d", v)
				}
				return nil
			},
			Apply: func(cfg *Config, v any) { cfg.Plugins.ExecutionTimeoutMS = v.(int) },
		},
	}
}

func decode(m map[string]any) (*Config, error) {
	cfg := Defaults()

	for _, f := range fields() {
		raw, ok := getByPath(m, f.Path)
		if !ok {
			continue
		}
		v, err := f.Kind.convert(raw)
		if err != nil {
			return nil, fmt.Errorf("config: %s: %w", f.Path, err)
		}
		if f.Validate != nil {
			if err := f.Validate(v); err != nil {
				return nil, fmt.Errorf("config: %s: %w", f.Path, err)
			}
		}
		f.Apply(cfg, v)
	}

	return cfg, nil
}
