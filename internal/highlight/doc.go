// Package highlight adapts pluggable syntax highlighters to the viewport
// renderer as spans of styled columns.
//
// # Tokens
//
// A Highlighter tokenizes one line at a time, carrying LexerState across
// calls so multi-line constructs (block comments, triple-quoted strings)
// resolve correctly without re-scanning the whole document.
//
// # Provider
//
// Provider wraps a Highlighter with a per-line cache keyed by line number
// and validated by the line's text, so re-rendering an unchanged viewport
// costs no re-tokenization. InvalidateFrom drops cached state from an
// edited line onward, for an edit that may have shifted line boundaries
// below it; InvalidateAll drops the whole cache.
//
// # Built-ins
//
// NoneHighlighter passes every line through unstyled — the default for
// unrecognized file types. SimpleHighlighter is a regexp/keyword-table
// tokenizer good enough for editor-grade highlighting without a full
// incremental parser.
package highlight
