package plugin

import (
	"fmt"

	"github.com/inkglass/corepad/internal/overlay"
	"github.com/inkglass/corepad/internal/term"
	lua "github.com/yuin/gopher-lua"
)

// RegisterDocumentModule binds api's document message methods onto the
// global Lua table "ks" (state.go's RegisterModule sets a global, not a
// package.preload entry, so plugin scripts call ks.insertText{...} directly
// rather than through require()), one function per message, each taking a
// single table argument whose keys match the message's field names.
//
// When configStore is non-nil, "ks" also gets getConfig/setConfig
// functions scoped to host.Name()'s own namespace within the store.
// Passing nil omits them, leaving persisted per-plugin settings
// unavailable to that host.
func RegisterDocumentModule(host *Host, api *DocumentAPI, configStore *ConfigStore) {
	bridge := host.Bridge()
	if bridge == nil {
		return
	}

	// scoped wraps fn so a call the plugin's manifest doesn't declare in
	// DocumentScopes is rejected before it ever reaches api, and recorded
	// against the host for Stats()/diagnostics rather than silently dropped.
	scoped := func(scope string, fn func([]any) (any, error)) func([]any) (any, error) {
		return func(args []any) (any, error) {
			if !host.AllowsDocumentScope(scope) {
				host.TrackScopeDenial(scope)
				return nil, fmt.Errorf("plugin %s: %w (scope %q)", host.Name(), ErrDocumentScopeDenied, scope)
			}
			return fn(args)
		}
	}

	funcs := map[string]lua.LGFunction{
		"addOverlay": bridge.WrapGoFunc(scoped("overlay", func(args []any) (any, error) {
			t, err := tableArg(args)
			if err != nil {
				return nil, err
			}
			buf, err := fieldInt(t, "buffer")
			if err != nil {
				return nil, err
			}
			ns, _ := t["namespace"].(string)
			start, end, err := rangeField(t, "range")
			if err != nil {
				return nil, err
			}
			face := faceField(t, "face")
			priority := overlay.Priority(optInt(t, "priority", int64(overlay.PriorityNormal)))
			extend, _ := t["extendToLineEnd"].(bool)
			message, _ := t["message"].(string)

			handle, err := api.AddOverlay(BufferID(buf), ns, start, end, face, priority, extend, message)
			if err != nil {
				return nil, err
			}
			return int64(handle), nil
		})),

		"removeOverlay": bridge.WrapGoFunc(scoped("overlay", func(args []any) (any, error) {
			t, err := tableArg(args)
			if err != nil {
				return nil, err
			}
			buf, err := fieldInt(t, "buffer")
			if err != nil {
				return nil, err
			}
			handle, err := fieldInt(t, "handle")
			if err != nil {
				return nil, err
			}
			return nil, api.RemoveOverlay(BufferID(buf), overlay.Handle(handle))
		})),

		"clearNamespace": bridge.WrapGoFunc(scoped("overlay", func(args []any) (any, error) {
			t, err := tableArg(args)
			if err != nil {
				return nil, err
			}
			buf, err := fieldInt(t, "buffer")
			if err != nil {
				return nil, err
			}
			ns, _ := t["namespace"].(string)
			return nil, api.ClearNamespace(BufferID(buf), ns)
		})),

		"clearOverlays": bridge.WrapGoFunc(scoped("overlay", func(args []any) (any, error) {
			t, err := tableArg(args)
			if err != nil {
				return nil, err
			}
			buf, err := fieldInt(t, "buffer")
			if err != nil {
				return nil, err
			}
			return nil, api.ClearOverlays(BufferID(buf))
		})),

		"clearOverlaysInRange": bridge.WrapGoFunc(scoped("overlay", func(args []any) (any, error) {
			t, err := tableArg(args)
			if err != nil {
				return nil, err
			}
			buf, err := fieldInt(t, "buffer")
			if err != nil {
				return nil, err
			}
			start, end, err := rangeField(t, "range")
			if err != nil {
				return nil, err
			}
			return nil, api.ClearOverlaysInRange(BufferID(buf), start, end)
		})),

		"addVirtualText": bridge.WrapGoFunc(scoped("virtualText", func(args []any) (any, error) {
			t, err := tableArg(args)
			if err != nil {
				return nil, err
			}
			buf, err := fieldInt(t, "buffer")
			if err != nil {
				return nil, err
			}
			id, _ := t["id"].(string)
			text, _ := t["text"].(string)
			offset, err := fieldInt(t, "position")
			if err != nil {
				return nil, err
			}
			placement, _ := t["placement"].(string)
			face := faceField(t, "style")
			return nil, api.AddVirtualText(BufferID(buf), id, vtPlacement(placement), text, face, offset)
		})),

		"setLineIndicator": bridge.WrapGoFunc(scoped("indicator", func(args []any) (any, error) {
			t, err := tableArg(args)
			if err != nil {
				return nil, err
			}
			buf, err := fieldInt(t, "buffer")
			if err != nil {
				return nil, err
			}
			line, err := fieldInt(t, "line")
			if err != nil {
				return nil, err
			}
			ns, _ := t["ns"].(string)
			symbol, _ := t["symbol"].(string)
			handle, err := api.SetLineIndicator(BufferID(buf), line, ns, symbol)
			if err != nil {
				return nil, err
			}
			return int64(handle), nil
		})),

		"clearLineIndicators": bridge.WrapGoFunc(scoped("indicator", func(args []any) (any, error) {
			t, err := tableArg(args)
			if err != nil {
				return nil, err
			}
			buf, err := fieldInt(t, "buffer")
			if err != nil {
				return nil, err
			}
			ns, _ := t["ns"].(string)
			return nil, api.ClearLineIndicators(BufferID(buf), ns)
		})),

		"insertText": bridge.WrapGoFunc(scoped("edit", func(args []any) (any, error) {
			t, err := tableArg(args)
			if err != nil {
				return nil, err
			}
			buf, err := fieldInt(t, "buffer")
			if err != nil {
				return nil, err
			}
			pos, err := fieldInt(t, "position")
			if err != nil {
				return nil, err
			}
			text, _ := t["text"].(string)
			return nil, api.InsertText(BufferID(buf), pos, text)
		})),

		"deleteRange": bridge.WrapGoFunc(scoped("edit", func(args []any) (any, error) {
			t, err := tableArg(args)
			if err != nil {
				return nil, err
			}
			buf, err := fieldInt(t, "buffer")
			if err != nil {
				return nil, err
			}
			start, end, err := rangeField(t, "range")
			if err != nil {
				return nil, err
			}
			return nil, api.DeleteRange(BufferID(buf), start, end)
		})),

		"setBufferCursor": bridge.WrapGoFunc(scoped("cursor", func(args []any) (any, error) {
			t, err := tableArg(args)
			if err != nil {
				return nil, err
			}
			buf, err := fieldInt(t, "buffer")
			if err != nil {
				return nil, err
			}
			pos, err := fieldInt(t, "position")
			if err != nil {
				return nil, err
			}
			return nil, api.SetBufferCursor(BufferID(buf), pos)
		})),

		"setStatus": bridge.WrapGoFunc(scoped("status", func(args []any) (any, error) {
			t, err := tableArg(args)
			if err != nil {
				return nil, err
			}
			message, _ := t["message"].(string)
			api.SetStatus(message)
			return nil, nil
		})),

		"registerCommand": bridge.WrapGoFunc(scoped("command", func(args []any) (any, error) {
			t, err := tableArg(args)
			if err != nil {
				return nil, err
			}
			name, _ := t["name"].(string)
			if name == "" {
				return nil, fmt.Errorf("plugin: registerCommand requires a non-empty name")
			}
			desc, _ := t["description"].(string)
			action, _ := t["action"].(string)
			var contexts []string
			if raw, ok := t["contexts"].([]any); ok {
				for _, c := range raw {
					if s, ok := c.(string); ok {
						contexts = append(contexts, s)
					}
				}
			}
			api.RegisterCommand(Command{Name: name, Description: desc, Action: action, Contexts: contexts})
			return nil, nil
		})),

		"unregister": bridge.WrapGoFunc(scoped("command", func(args []any) (any, error) {
			t, err := tableArg(args)
			if err != nil {
				return nil, err
			}
			name, _ := t["name"].(string)
			api.UnregisterCommand(name)
			return nil, nil
		})),
	}

	if configStore != nil {
		name := host.Name()
		funcs["getConfig"] = bridge.WrapGoFunc(scoped("config", func(args []any) (any, error) {
			t, err := tableArg(args)
			if err != nil {
				return nil, err
			}
			key, _ := t["key"].(string)
			value, ok := configStore.Get(name, key)
			if !ok {
				return nil, nil
			}
			return value, nil
		}))
		funcs["setConfig"] = bridge.WrapGoFunc(scoped("config", func(args []any) (any, error) {
			t, err := tableArg(args)
			if err != nil {
				return nil, err
			}
			key, _ := t["key"].(string)
			return nil, configStore.Set(name, key, t["value"])
		}))
	}

	host.RegisterModule("ks", funcs)
}

func tableArg(args []any) (map[string]any, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("plugin: expected a table argument, got none")
	}
	t, ok := args[0].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("plugin: expected a table argument, got %T", args[0])
	}
	return t, nil
}

func fieldInt(t map[string]any, key string) (int64, error) {
	v, ok := t[key]
	if !ok {
		return 0, fmt.Errorf("plugin: missing field %q", key)
	}
	switch n := v.(type) {
	case int64:
		return n, nil
	case float64:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("plugin: field %q: want number, got %T", key, v)
	}
}

func optInt(t map[string]any, key string, def int64) int64 {
	n, err := fieldInt(t, key)
	if err != nil {
		return def
	}
	return n
}

func rangeField(t map[string]any, key string) (start, end int64, err error) {
	raw, ok := t[key].(map[string]any)
	if !ok {
		return 0, 0, fmt.Errorf("plugin: missing range field %q", key)
	}
	start, err = fieldInt(raw, "start")
	if err != nil {
		return 0, 0, err
	}
	end, err = fieldInt(raw, "end")
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// faceField builds a Face from an optional table: {theme="diagnostic.error"}
// defers to the active theme; {fg="#ff0000", bg="#000000"} is a literal
// style. A missing or malformed face table yields the zero Face.
func faceField(t map[string]any, key string) overlay.Face {
	raw, ok := t[key].(map[string]any)
	if !ok {
		return overlay.Face{}
	}
	if theme, ok := raw["theme"].(string); ok && theme != "" {
		return overlay.Face{ThemeKey: theme}
	}
	var style term.Style
	if fg, ok := raw["fg"].(string); ok && fg != "" {
		if c, err := term.FromHex(fg); err == nil {
			style.Foreground = c
		}
	}
	if bg, ok := raw["bg"].(string); ok && bg != "" {
		if c, err := term.FromHex(bg); err == nil {
			style.Background = c
		}
	}
	return overlay.Face{Style: style}
}

func vtPlacement(s string) overlay.VTPosition {
	switch s {
	case "after":
		return overlay.AfterChar
	case "lineAbove":
		return overlay.LineAbove
	case "lineBelow":
		return overlay.LineBelow
	default:
		return overlay.BeforeChar
	}
}
