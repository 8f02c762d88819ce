package term

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Attribute is a bitset of text attributes layered independently of color.
type Attribute uint16

const (
	AttrNone Attribute = 0
	AttrBold Attribute = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrBlink
	AttrReverse
	AttrStrikethrough
	AttrHidden
)

func (a Attribute) Has(flag Attribute) bool { return a&flag != 0 }

// UnderlineStyle distinguishes the visual shape of an underline, beyond
// whether one is present at all.
type UnderlineStyle uint8

const (
	UnderlineNone UnderlineStyle = iota
	UnderlineSingle
	UnderlineDouble
	UnderlineCurly
	UnderlineDotted
	UnderlineDashed
)

// Color is either a 24-bit RGB color, an indexed terminal color (0-255), or
// the terminal's default color for its channel.
type Color struct {
	R, G, B byte
	Indexed int16 // -1 when this Color carries an RGB value instead
	Default bool
}

// DefaultColor is the terminal's ambient foreground or background color.
var DefaultColor = Color{Indexed: -1, Default: true}

// RGB constructs an RGB color.
func RGB(r, g, b byte) Color {
	return Color{R: r, G: g, B: b, Indexed: -1}
}

// Indexed256 constructs a color referencing the terminal's 256-color table.
func Indexed256(i int16) Color {
	return Color{Indexed: i}
}

// FromHex parses a "#RRGGBB" string into an RGB Color.
func FromHex(hex string) (Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, fmt.Errorf("term: invalid color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return RGB(r, g, b), nil
}

func (c Color) isRGB() bool { return c.Indexed < 0 && !c.Default }

func (c Color) toColorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Blend perceptually mixes c with other, weighting other by t in [0,1],
// using go-colorful's Lab-space interpolation. Indexed and default colors
// cannot be blended in color space; Blend returns other once t >= 0.5 and
// c otherwise, a deliberately coarse fallback for that case.
func (c Color) Blend(other Color, t float64) Color {
	if !c.isRGB() || !other.isRGB() {
		if t >= 0.5 {
			return other
		}
		return c
	}
	mixed := c.toColorful().BlendLab(other.toColorful(), t)
	r, g, b := mixed.Clamped().RGB255()
	return RGB(r, g, b)
}

// Style is a fully resolved visual style: foreground, background,
// underline treatment, and an attribute bitset.
type Style struct {
	Foreground     Color
	Background     Color
	UnderlineColor Color
	Underline      UnderlineStyle
	Attributes     Attribute
}

// Bold returns a copy of s with AttrBold set.
func (s Style) Bold() Style { s.Attributes |= AttrBold; return s }

// Italic returns a copy of s with AttrItalic set.
func (s Style) Italic() Style { s.Attributes |= AttrItalic; return s }

// Reverse returns a copy of s with AttrReverse set.
func (s Style) Reverse() Style { s.Attributes |= AttrReverse; return s }

// WithUnderline returns a copy of s with the given underline style and
// color.
func (s Style) WithUnderline(style UnderlineStyle, color Color) Style {
	s.Underline = style
	s.UnderlineColor = color
	return s
}

// Merge layers other on top of s: any field other sets to a non-zero value
// overrides s's value, and attribute bits are unioned rather than replaced,
// matching the viewport renderer's layering order (base, syntax, overlay,
// selection, cursor).
func (s Style) Merge(other Style) Style {
	out := s
	if other.Foreground != (Color{}) {
		out.Foreground = other.Foreground
	}
	if other.Background != (Color{}) {
		out.Background = other.Background
	}
	if other.Underline != UnderlineNone {
		out.Underline = other.Underline
		out.UnderlineColor = other.UnderlineColor
	}
	out.Attributes |= other.Attributes
	return out
}

// Equals reports whether s and other render identically.
func (s Style) Equals(other Style) bool {
	return s == other
}

// BlendOverlay merges two overlay faces that apply at the same cell and
// have different priorities, perceptually blending their colors rather
// than letting the higher-priority face flatly replace the lower one,
// weighted toward the higher-priority face.
func BlendOverlay(lower, higher Style, weight float64) Style {
	out := higher
	out.Foreground = lower.Foreground.Blend(higher.Foreground, weight)
	out.Background = lower.Background.Blend(higher.Background, weight)
	out.Attributes = lower.Attributes | higher.Attributes
	return out
}
