package highlight

import "github.com/inkglass/corepad/internal/term"

// Style is an alias for the terminal surface's resolved style, so themes
// and the viewport renderer share one representation with no conversion
// step at the boundary.
type Style = term.Style

// Theme maps token types to resolved styles.
type Theme struct {
	Name       string
	Foreground term.Color
	Background term.Color

	TokenStyles map[TokenType]Style
}

// StyleForToken returns the style for a token type, falling back to the
// theme's plain foreground/background.
func (t *Theme) StyleForToken(tt TokenType) Style {
	if s, ok := t.TokenStyles[tt]; ok {
		return s
	}
	return Style{Foreground: t.Foreground, Background: t.Background}
}

// DefaultTheme returns a dark theme with explicit styles for most built-in
// token types; TokenNone, TokenMarkupQuote and TokenMarkupList have no
// entry and render in the plain foreground.
func DefaultTheme() *Theme {
	comment := term.RGB(106, 153, 85)
	keyword := term.RGB(86, 156, 214)
	str := term.RGB(206, 145, 120)
	number := term.RGB(181, 206, 168)
	function := term.RGB(220, 220, 170)
	typ := term.RGB(78, 201, 176)
	variable := term.RGB(156, 220, 254)
	operator := term.RGB(212, 212, 212)
	invalid := term.RGB(244, 71, 71)

	return &Theme{
		Name:       "Default Dark",
		Foreground: term.RGB(212, 212, 212),
		Background: term.DefaultColor,
		TokenStyles: map[TokenType]Style{
			TokenComment:      {Foreground: comment, Attributes: term.AttrItalic},
			TokenCommentLine:  {Foreground: comment, Attributes: term.AttrItalic},
			TokenCommentBlock: {Foreground: comment, Attributes: term.AttrItalic},

			TokenString:       {Foreground: str},
			TokenStringEscape: {Foreground: term.RGB(215, 186, 125)},
			TokenStringRegexp: {Foreground: str},

			TokenNumber:       {Foreground: number},
			TokenNumberHex:    {Foreground: number},
			TokenNumberOctal:  {Foreground: number},
			TokenNumberBinary: {Foreground: number},

			TokenKeyword:            {Foreground: keyword},
			TokenKeywordControl:     {Foreground: keyword},
			TokenKeywordDeclaration: {Foreground: keyword},
			TokenKeywordOther:       {Foreground: keyword},

			TokenOperator:    {Foreground: operator},
			TokenPunctuation: {Foreground: operator},

			TokenIdentifier:       {Foreground: variable},
			TokenVariable:         {Foreground: variable},
			TokenConstant:         {Foreground: term.RGB(79, 193, 255)},
			TokenConstantLanguage: {Foreground: keyword},

			TokenFunction:        {Foreground: function},
			TokenFunctionBuiltin: {Foreground: function},

			TokenTypeName:    {Foreground: typ},
			TokenTypeBuiltin: {Foreground: typ},

			TokenStorageModifier: {Foreground: keyword},

			TokenMeta: {Foreground: typ},

			TokenMarkupHeading: {Foreground: keyword, Attributes: term.AttrBold},
			TokenMarkupBold:    {Attributes: term.AttrBold},
			TokenMarkupItalic:  {Attributes: term.AttrItalic},
			TokenMarkupStrike:  {Attributes: term.AttrStrikethrough},
			TokenMarkupCode:    {Foreground: str},
			TokenMarkupLink:    {Foreground: typ, Underline: term.UnderlineSingle},

			TokenInvalid: {Foreground: invalid, Attributes: term.AttrBold},
		},
	}
}

// MonoTheme returns a theme with no per-token color: every token renders in
// the plain foreground, useful for terminals without truecolor support or
// as a "no highlighting" fallback distinct from NoneHighlighter (NoneHighlighter
// skips tokenizing at all; MonoTheme still tokenizes but renders flat).
func MonoTheme() *Theme {
	return &Theme{
		Name:        "Mono",
		Foreground:  term.RGB(212, 212, 212),
		Background:  term.DefaultColor,
		TokenStyles: map[TokenType]Style{},
	}
}

// Registry holds named themes and tracks the active one.
type Registry struct {
	themes  map[string]*Theme
	current *Theme
}

// NewRegistry creates a registry seeded with DefaultTheme and MonoTheme.
func NewRegistry() *Registry {
	r := &Registry{themes: make(map[string]*Theme)}
	r.Register(DefaultTheme())
	r.Register(MonoTheme())
	r.current = r.themes["Default Dark"]
	return r
}

// Register adds or replaces a theme.
func (r *Registry) Register(t *Theme) { r.themes[t.Name] = t }

// Get returns a theme by name.
func (r *Registry) Get(name string) (*Theme, bool) {
	t, ok := r.themes[name]
	return t, ok
}

// Current returns the active theme.
func (r *Registry) Current() *Theme { return r.current }

// SetCurrent activates a registered theme by name, reporting whether it
// existed.
func (r *Registry) SetCurrent(name string) bool {
	if t, ok := r.themes[name]; ok {
		r.current = t
		return true
	}
	return false
}
