// Package config loads editor settings from three layered sources —
// built-in defaults, a TOML file on disk, and environment variables — and
// merges them into one typed Config, later layers overriding earlier ones.
//
// The merge itself operates on map[string]any so any layer can be partial;
// DeepMerge recurses into nested tables and lets a leaf value from a later
// layer replace one from an earlier layer outright.
package config
