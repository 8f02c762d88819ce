package highlight

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// Rule matches a regexp pattern to a token type.
type Rule struct {
	Pattern   *regexp.Regexp
	TokenType TokenType
	Submatch  int
}

// multiLineRule describes a construct that can span multiple lines, such
// as a block comment.
type multiLineRule struct {
	start     string
	end       string
	tokenType TokenType
	state     LexerState
}

// SimpleHighlighter is a regexp- and keyword-table-driven tokenizer. It
// has no grammar awareness beyond pattern matching, but covers comments,
// strings, numbers and keywords well enough for editor-grade highlighting.
type SimpleHighlighter struct {
	language   string
	extensions []string
	rules      []Rule
	keywords   map[string]TokenType
	multiLine  map[string]multiLineRule
}

// NewSimpleHighlighter creates an empty highlighter for language, routed
// by extensions.
func NewSimpleHighlighter(language string, extensions []string) *SimpleHighlighter {
	return &SimpleHighlighter{
		language:   language,
		extensions: extensions,
		keywords:   make(map[string]TokenType),
		multiLine:  make(map[string]multiLineRule),
	}
}

// AddRule registers a regexp rule, compiled eagerly so a bad pattern fails
// at setup instead of mid-render.
func (h *SimpleHighlighter) AddRule(pattern string, tt TokenType) *SimpleHighlighter {
	h.rules = append(h.rules, Rule{Pattern: regexp.MustCompile(pattern), TokenType: tt})
	return h
}

// AddKeywords maps each word to tt in the identifier scan.
func (h *SimpleHighlighter) AddKeywords(tt TokenType, words ...string) *SimpleHighlighter {
	for _, w := range words {
		h.keywords[w] = tt
	}
	return h
}

// AddMultiLine registers a construct that opens with start and closes with
// end, possibly on a later line, carrying state across HighlightLine calls
// while open.
func (h *SimpleHighlighter) AddMultiLine(start, end string, tt TokenType, state LexerState) *SimpleHighlighter {
	h.multiLine[start] = multiLineRule{start: start, end: end, tokenType: tt, state: state}
	return h
}

func (h *SimpleHighlighter) Language() string        { return h.language }
func (h *SimpleHighlighter) FileExtensions() []string { return h.extensions }

// HighlightLine implements Highlighter.
func (h *SimpleHighlighter) HighlightLine(line string, prevState LexerState) ([]Token, LexerState) {
	if prevState == LexerStateNormal {
		return h.highlightNormal(line)
	}

	endIdx, found := h.findMultiLineEnd(line, prevState)
	if !found {
		return []Token{{Type: h.tokenTypeForState(prevState), StartCol: 0, EndCol: uint32(len(line))}}, prevState
	}

	tokens := []Token{{Type: h.tokenTypeForState(prevState), StartCol: 0, EndCol: uint32(endIdx)}}
	rest := line[endIdx:]
	if len(rest) == 0 {
		return tokens, LexerStateNormal
	}
	restTokens, newState := h.highlightNormal(rest)
	for i := range restTokens {
		restTokens[i].StartCol += uint32(endIdx)
		restTokens[i].EndCol += uint32(endIdx)
	}
	return append(tokens, restTokens...), newState
}

func (h *SimpleHighlighter) highlightNormal(line string) ([]Token, LexerState) {
	var tokens []Token
	covered := make([]bool, len(line))
	state := LexerStateNormal

	for start, rule := range h.multiLine {
		idx := strings.Index(line, start)
		if idx < 0 || h.isCovered(covered, idx, idx+len(start)) {
			continue
		}
		if endIdx := strings.Index(line[idx+len(start):], rule.end); endIdx >= 0 {
			endPos := idx + len(start) + endIdx + len(rule.end)
			tokens = append(tokens, Token{Type: rule.tokenType, StartCol: uint32(idx), EndCol: uint32(endPos)})
			h.markCovered(covered, idx, endPos)
		} else {
			tokens = append(tokens, Token{Type: rule.tokenType, StartCol: uint32(idx), EndCol: uint32(len(line))})
			h.markCovered(covered, idx, len(line))
			state = rule.state
		}
	}

	for _, rule := range h.rules {
		for _, match := range rule.Pattern.FindAllStringSubmatchIndex(line, -1) {
			start, end := match[0], match[1]
			if rule.Submatch > 0 && len(match) > rule.Submatch*2+1 {
				start, end = match[rule.Submatch*2], match[rule.Submatch*2+1]
			}
			if start >= 0 && end > start && !h.isCovered(covered, start, end) {
				tokens = append(tokens, Token{Type: rule.TokenType, StartCol: uint32(start), EndCol: uint32(end)})
				h.markCovered(covered, start, end)
			}
		}
	}

	tokens = append(tokens, h.findIdentifiers(line, covered)...)
	sort.Slice(tokens, func(i, j int) bool { return tokens[i].StartCol < tokens[j].StartCol })
	return tokens, state
}

func (h *SimpleHighlighter) findMultiLineEnd(line string, state LexerState) (int, bool) {
	for _, rule := range h.multiLine {
		if rule.state != state {
			continue
		}
		if idx := strings.Index(line, rule.end); idx >= 0 {
			return idx + len(rule.end), true
		}
		return 0, false
	}
	return 0, false
}

func (h *SimpleHighlighter) tokenTypeForState(state LexerState) TokenType {
	for _, rule := range h.multiLine {
		if rule.state == state {
			return rule.tokenType
		}
	}
	return TokenNone
}

func (h *SimpleHighlighter) findIdentifiers(line string, covered []bool) []Token {
	var tokens []Token
	i := 0
	for i < len(line) {
		if covered[i] {
			i++
			continue
		}
		r := rune(line[i])
		if !unicode.IsLetter(r) && r != '_' {
			i++
			continue
		}
		start := i
		for i < len(line) {
			r = rune(line[i])
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
				break
			}
			i++
		}
		end := i
		if h.isCovered(covered, start, end) {
			continue
		}
		word := line[start:end]
		tt := TokenIdentifier
		if kw, ok := h.keywords[word]; ok {
			tt = kw
		}
		tokens = append(tokens, Token{Type: tt, StartCol: uint32(start), EndCol: uint32(end)})
		h.markCovered(covered, start, end)
	}
	return tokens
}

func (h *SimpleHighlighter) isCovered(covered []bool, start, end int) bool {
	if start < 0 || start >= len(covered) {
		return false
	}
	for i := start; i < end && i < len(covered); i++ {
		if covered[i] {
			return true
		}
	}
	return false
}

func (h *SimpleHighlighter) markCovered(covered []bool, start, end int) {
	if start < 0 {
		start = 0
	}
	for i := start; i < end && i < len(covered); i++ {
		covered[i] = true
	}
}

// GoHighlighter returns a highlighter for Go source.
func GoHighlighter() *SimpleHighlighter {
	h := NewSimpleHighlighter("go", []string{".go"})

	h.AddMultiLine("/*", "*/", TokenCommentBlock, LexerStateBlockComment)
	h.AddMultiLine("`", "`", TokenString, LexerStateStringBacktick)

	h.AddRule(`//.*$`, TokenCommentLine)
	h.AddRule(`"(?:[^"\\]|\\.)*"`, TokenString)
	h.AddRule(`'(?:[^'\\]|\\.)'`, TokenString)
	h.AddRule(`\b0[xX][0-9a-fA-F]+\b`, TokenNumberHex)
	h.AddRule(`\b0[oO][0-7]+\b`, TokenNumberOctal)
	h.AddRule(`\b0[bB][01]+\b`, TokenNumberBinary)
	h.AddRule(`\b\d+\.?\d*(?:[eE][+-]?\d+)?\b`, TokenNumber)

	h.AddKeywords(TokenKeywordControl,
		"if", "else", "for", "range", "switch", "case", "default",
		"break", "continue", "return", "goto", "fallthrough", "select")
	h.AddKeywords(TokenKeywordDeclaration,
		"func", "var", "const", "type", "struct", "interface", "map", "chan")
	h.AddKeywords(TokenKeywordOther,
		"package", "import", "defer", "go")
	h.AddKeywords(TokenConstantLanguage,
		"true", "false", "nil", "iota")
	h.AddKeywords(TokenTypeBuiltin,
		"int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
		"float32", "float64", "complex64", "complex128",
		"bool", "byte", "rune", "string", "error", "any")
	h.AddKeywords(TokenFunctionBuiltin,
		"make", "new", "len", "cap", "append", "copy", "delete",
		"close", "panic", "recover", "print", "println",
		"real", "imag", "complex", "min", "max", "clear")

	return h
}

// MarkdownHighlighter returns a highlighter for Markdown.
func MarkdownHighlighter() *SimpleHighlighter {
	h := NewSimpleHighlighter("markdown", []string{".md", ".markdown"})

	h.AddRule(`^#{1,6}\s+.*$`, TokenMarkupHeading)
	h.AddRule(`\*\*[^*]+\*\*`, TokenMarkupBold)
	h.AddRule(`__[^_]+__`, TokenMarkupBold)
	h.AddRule(`\*[^*]+\*`, TokenMarkupItalic)
	h.AddRule(`_[^_]+_`, TokenMarkupItalic)
	h.AddRule(`~~[^~]+~~`, TokenMarkupStrike)
	h.AddRule("`[^`]+`", TokenMarkupCode)
	h.AddRule("^```.*$", TokenMarkupCode)
	h.AddRule(`^>\s+.*$`, TokenMarkupQuote)
	h.AddRule(`^\s*[-*+]\s+`, TokenMarkupList)
	h.AddRule(`^\s*\d+\.\s+`, TokenMarkupList)
	h.AddRule(`\[([^\]]+)\]\(([^)]+)\)`, TokenMarkupLink)

	return h
}

// RegisterBuiltins adds the bundled language highlighters to s.
func RegisterBuiltins(s *HighlighterSet) {
	s.Register(GoHighlighter())
	s.Register(MarkdownHighlighter())
}
