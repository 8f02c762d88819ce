package plugin

import (
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ConfigStore holds one JSON document of per-plugin settings, keyed by
// plugin name then a dotted path within that plugin's own namespace
// (typically the keys a plugin's plugin.json configSchema declares
// defaults for). It exists alongside internal/config's typed, merged
// editor configuration rather than inside it: plugin settings are opaque
// key/value blobs the host never needs to decode into a Go struct, so
// gjson/sjson's path-addressed raw-JSON editing fits better here than
// internal/config's typed decode step.
type ConfigStore struct {
	mu  sync.Mutex
	raw []byte
}

// NewConfigStore returns a store seeded with initial JSON bytes (may be
// empty, in which case it behaves as an empty object).
func NewConfigStore(initial []byte) *ConfigStore {
	if len(initial) == 0 {
		initial = []byte("{}")
	}
	return &ConfigStore{raw: initial}
}

// Get reads pluginName.key from the store. ok is false if the path is
// absent.
func (s *ConfigStore) Get(pluginName, key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := gjson.GetBytes(s.raw, pluginName+"."+key)
	if !result.Exists() {
		return nil, false
	}
	return result.Value(), true
}

// Set writes pluginName.key = value, creating intermediate objects as
// needed.
func (s *ConfigStore) Set(pluginName, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	updated, err := sjson.SetBytes(s.raw, pluginName+"."+key, value)
	if err != nil {
		return err
	}
	s.raw = updated
	return nil
}

// All returns every key/value pair stored for pluginName.
func (s *ConfigStore) All(pluginName string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := gjson.GetBytes(s.raw, pluginName)
	if !result.IsObject() {
		return nil
	}
	out := make(map[string]any)
	result.ForEach(func(key, value gjson.Result) bool {
		out[key.String()] = value.Value()
		return true
	})
	return out
}

// Raw returns the underlying JSON document, for persisting to disk.
func (s *ConfigStore) Raw() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]byte, len(s.raw))
	copy(out, s.raw)
	return out
}
