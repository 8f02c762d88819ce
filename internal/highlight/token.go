package highlight

// TokenType is the semantic class of a highlighted token.
type TokenType uint16

// Token types, following TextMate/VS Code scope naming at a coarse level.
const (
	TokenNone TokenType = iota

	TokenComment
	TokenCommentLine
	TokenCommentBlock

	TokenString
	TokenStringEscape
	TokenStringRegexp

	TokenNumber
	TokenNumberHex
	TokenNumberOctal
	TokenNumberBinary

	TokenKeyword
	TokenKeywordControl
	TokenKeywordDeclaration
	TokenKeywordOther

	TokenOperator
	TokenPunctuation

	TokenIdentifier
	TokenVariable
	TokenConstant
	TokenConstantLanguage

	TokenFunction
	TokenFunctionBuiltin

	TokenTypeName
	TokenTypeBuiltin

	TokenStorageModifier

	TokenMeta

	TokenMarkupHeading
	TokenMarkupBold
	TokenMarkupItalic
	TokenMarkupStrike
	TokenMarkupQuote
	TokenMarkupList
	TokenMarkupLink
	TokenMarkupCode

	TokenInvalid
)

// Token is one highlighted run within a line.
type Token struct {
	Type     TokenType
	StartCol uint32
	EndCol   uint32
}

// Len returns the token's width in bytes.
func (t Token) Len() uint32 { return t.EndCol - t.StartCol }

// Contains reports whether col falls within the token.
func (t Token) Contains(col uint32) bool {
	return col >= t.StartCol && col < t.EndCol
}

// LexerState carries a highlighter's state across a line boundary, for
// multi-line constructs like block comments.
type LexerState uint32

// Built-in lexer states shared across the bundled SimpleHighlighter
// languages; a Highlighter may define more of its own.
const (
	LexerStateNormal LexerState = iota
	LexerStateBlockComment
	LexerStateStringDouble
	LexerStateStringBacktick
)

// Span is a styled run of columns within one line, the unit the viewport
// renderer consumes.
type Span struct {
	StartCol uint32
	EndCol   uint32
	Style    Style
}
