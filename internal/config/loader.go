package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Loader reads one configuration layer and returns it as a nested map, or
// nil if the layer's source doesn't exist (not an error).
type Loader interface {
	Load() (map[string]any, error)
}

// FileLoader reads a TOML configuration file.
type FileLoader struct {
	path string
}

// NewFileLoader returns a loader for the TOML file at path.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

// Load reads and parses the configured file. A missing file is not an
// error; it simply contributes nothing to the merge.
func (l *FileLoader) Load() (map[string]any, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", l.path, err)
	}
	var m map[string]any
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", l.path, err)
	}
	return m, nil
}

// EnvLoader reads environment variables with a fixed prefix into a
// dot-path config map, converting CPAD_EDITOR_TAB_WIDTH into
// editor.tabWidth.
type EnvLoader struct {
	prefix string
}

// NewEnvLoader returns a loader scanning variables starting with prefix
// (which should include its trailing underscore, e.g. "CPAD_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{prefix: prefix}
}

// Load scans the process environment for l.prefix-ed variables.
func (l *EnvLoader) Load() (map[string]any, error) {
	out := make(map[string]any)
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		setByPath(out, l.envToPath(name), parseEnvValue(value))
	}
	return out, nil
}

// envToPath converts CPAD_EDITOR_TAB_WIDTH to editor.tabWidth: the segment
// right after the prefix becomes the section, and every remaining
// underscore-separated segment is camelCased into the setting name.
func (l *EnvLoader) envToPath(name string) string {
	rest := strings.TrimPrefix(name, l.prefix)
	parts := strings.Split(rest, "_")
	if len(parts) == 0 {
		return strings.ToLower(rest)
	}
	section := strings.ToLower(parts[0])
	if len(parts) == 1 {
		return section
	}
	var setting strings.Builder
	setting.WriteString(strings.ToLower(parts[1]))
	for _, p := range parts[2:] {
		if p == "" {
			continue
		}
		setting.WriteString(strings.ToUpper(p[:1]))
		setting.WriteString(strings.ToLower(p[1:]))
	}
	return section + "." + setting.String()
}

// parseEnvValue guesses a leaf type for a raw environment string: bool,
// int, duration, then string as the fallback.
func parseEnvValue(s string) any {
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if d, err := time.ParseDuration(s); err == nil && strings.ContainsAny(s, "hms") {
		return d
	}
	return s
}
