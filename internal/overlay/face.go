package overlay

import "github.com/inkglass/corepad/internal/term"

// Priority orders overlapping overlay faces; higher values override lower
// ones on a direct conflict and weight more heavily in a perceptual blend.
type Priority int32

const (
	PriorityLow      Priority = 50
	PriorityNormal   Priority = 100
	PriorityHigh     Priority = 150
	PriorityCritical Priority = 200
)

// Face is an overlay's visual style. A non-empty ThemeKey defers resolution
// to the active theme at render time instead of carrying a literal Style,
// for decorations (e.g. "diagnostic.error") that should track theme
// changes.
type Face struct {
	Style    term.Style
	ThemeKey string
}

// Resolve returns f's literal style, looking it up in resolve when
// ThemeKey is set.
func (f Face) Resolve(resolve func(key string) (term.Style, bool)) term.Style {
	if f.ThemeKey == "" {
		return f.Style
	}
	if s, ok := resolve(f.ThemeKey); ok {
		return s
	}
	return f.Style
}

// Blend merges two faces that apply to the same cell, weighting toward the
// higher-priority one.
func Blend(lower, higher Face, resolve func(string) (term.Style, bool)) term.Style {
	return term.BlendOverlay(lower.Resolve(resolve), higher.Resolve(resolve), 0.65)
}
