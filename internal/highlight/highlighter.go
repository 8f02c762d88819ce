package highlight

import "sync"

// Highlighter tokenizes one line at a time, threading lexer state across
// calls for multi-line constructs.
type Highlighter interface {
	// HighlightLine tokenizes line given the state left by the previous
	// line, returning this line's tokens and its own end state.
	HighlightLine(line string, prevState LexerState) ([]Token, LexerState)

	// Language names the language this highlighter targets.
	Language() string

	// FileExtensions lists the file extensions routed to this highlighter.
	FileExtensions() []string
}

// NoneHighlighter never tokenizes; it is the default for files with no
// recognized language, rendering text in the theme's plain style.
type NoneHighlighter struct{}

func (NoneHighlighter) HighlightLine(line string, _ LexerState) ([]Token, LexerState) {
	return nil, LexerStateNormal
}

func (NoneHighlighter) Language() string { return "" }

func (NoneHighlighter) FileExtensions() []string { return nil }

// Registry2 would collide with theme Registry's name, so highlighter
// lookup lives on HighlighterSet instead.

// HighlighterSet resolves a Highlighter by language name or file extension.
type HighlighterSet struct {
	mu          sync.RWMutex
	byLanguage  map[string]Highlighter
	byExtension map[string]Highlighter
}

// NewHighlighterSet creates an empty set.
func NewHighlighterSet() *HighlighterSet {
	return &HighlighterSet{
		byLanguage:  make(map[string]Highlighter),
		byExtension: make(map[string]Highlighter),
	}
}

// Register adds h under its language name and every extension it claims.
func (s *HighlighterSet) Register(h Highlighter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byLanguage[h.Language()] = h
	for _, ext := range h.FileExtensions() {
		s.byExtension[ext] = h
	}
}

// ByLanguage looks up a highlighter by language name.
func (s *HighlighterSet) ByLanguage(language string) (Highlighter, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.byLanguage[language]
	return h, ok
}

// ByExtension looks up a highlighter by file extension (with or without a
// leading dot).
func (s *HighlighterSet) ByExtension(ext string) (Highlighter, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if ext == "" {
		return nil, false
	}
	if ext[0] != '.' {
		ext = "." + ext
	}
	h, ok := s.byExtension[ext]
	return h, ok
}

// cachedLine holds one line's tokenization result, validated by its text.
type cachedLine struct {
	text   string
	tokens []Token
	state  LexerState
}

// Provider bridges a Highlighter and Theme to the viewport renderer,
// caching per-line tokenization so re-rendering an unchanged viewport does
// not retokenize.
type Provider struct {
	mu sync.Mutex

	highlighter Highlighter
	theme       *Theme

	lineCache  map[int64]*cachedLine
	stateCache map[int64]LexerState
	maxCache   int

	lineText func(line int64) (string, bool)
}

// NewProvider creates a Provider. A nil theme defaults to DefaultTheme; a
// non-positive maxCache defaults to 1000 lines.
func NewProvider(theme *Theme, maxCache int) *Provider {
	if theme == nil {
		theme = DefaultTheme()
	}
	if maxCache <= 0 {
		maxCache = 1000
	}
	return &Provider{
		highlighter: NoneHighlighter{},
		theme:       theme,
		lineCache:   make(map[int64]*cachedLine),
		stateCache:  make(map[int64]LexerState),
		maxCache:    maxCache,
	}
}

// SetHighlighter swaps the active highlighter, invalidating every cached
// line.
func (p *Provider) SetHighlighter(h Highlighter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if h == nil {
		h = NoneHighlighter{}
	}
	p.highlighter = h
	p.clearLocked()
}

// SetTheme swaps the active theme without touching tokenization state,
// since theme and token cache are independent.
func (p *Provider) SetTheme(theme *Theme) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.theme = theme
}

// SetLineSource installs the callback used to fetch a line's text for
// tokenization. The document package wires this to the piece tree.
func (p *Provider) SetLineSource(get func(line int64) (string, bool)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lineText = get
}

// SpansForLine returns the styled spans for a line, tokenizing (or serving
// from cache) as needed.
func (p *Provider) SpansForLine(line int64) []Span {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.lineText == nil {
		return nil
	}
	text, ok := p.lineText(line)
	if !ok {
		return nil
	}
	tokens := p.tokensForLineLocked(line, text)
	if len(tokens) == 0 {
		return nil
	}
	spans := make([]Span, len(tokens))
	for i, tok := range tokens {
		spans[i] = Span{StartCol: tok.StartCol, EndCol: tok.EndCol, Style: p.theme.StyleForToken(tok.Type)}
	}
	return spans
}

// InvalidateFrom drops cached tokenization for every line at or after
// line, since an edit there can change the lexer state every following
// line inherits.
func (p *Provider) InvalidateFrom(line int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for l := range p.lineCache {
		if l >= line {
			delete(p.lineCache, l)
			delete(p.stateCache, l)
		}
	}
}

// InvalidateAll drops every cached line.
func (p *Provider) InvalidateAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clearLocked()
}

func (p *Provider) clearLocked() {
	p.lineCache = make(map[int64]*cachedLine)
	p.stateCache = make(map[int64]LexerState)
}

func (p *Provider) tokensForLineLocked(line int64, text string) []Token {
	if cached, ok := p.lineCache[line]; ok && cached.text == text {
		return cached.tokens
	}

	prevState := LexerStateNormal
	if line > 0 {
		if s, ok := p.stateCache[line-1]; ok {
			prevState = s
		} else {
			prevState = p.computeStateUpToLocked(line - 1)
		}
	}

	tokens, endState := p.highlighter.HighlightLine(text, prevState)
	p.cacheResultLocked(line, text, tokens, endState)
	return tokens
}

func (p *Provider) computeStateUpToLocked(target int64) LexerState {
	start := int64(0)
	state := LexerStateNormal
	for l := target; l > 0; l-- {
		if s, ok := p.stateCache[l-1]; ok {
			start = l
			state = s
			break
		}
	}
	for l := start; l <= target; l++ {
		text, ok := p.lineText(l)
		if !ok {
			break
		}
		_, state = p.highlighter.HighlightLine(text, state)
		p.stateCache[l] = state
	}
	return state
}

func (p *Provider) cacheResultLocked(line int64, text string, tokens []Token, state LexerState) {
	if len(p.lineCache) >= p.maxCache {
		p.evictLocked()
	}
	p.lineCache[line] = &cachedLine{text: text, tokens: tokens, state: state}
	p.stateCache[line] = state
}

// evictLocked drops roughly a quarter of the cache, oldest-arbitrary since
// maps have no order; good enough for a soft cap.
func (p *Provider) evictLocked() {
	toRemove := len(p.lineCache) / 4
	if toRemove < 10 {
		toRemove = 10
	}
	removed := 0
	for l := range p.lineCache {
		delete(p.lineCache, l)
		delete(p.stateCache, l)
		removed++
		if removed >= toRemove {
			break
		}
	}
}
