package lspcoord

import "unicode/utf8"

// TextSource is the narrow read surface position translation needs. It is
// satisfied structurally by *document.Document via its embedded
// *piecetree.Tree.
type TextSource interface {
	OffsetToPosition(offset int64) (line, col int64)
	LineStartOffset(line int64) int64
	LineEndOffset(line int64) int64
	Bytes(start, end int64) []byte
}

// Position is a line/UTF-16-column pair, matching the LSP specification's
// Position type (Line, Character), both zero-based.
type Position struct {
	Line      int64
	UTF16Char int64
}

// PositionToLSP converts a byte offset into the document to a line/UTF-16
// column Position.
func PositionToLSP(src TextSource, offset int64) Position {
	line, _ := src.OffsetToPosition(offset)
	lineStart := src.LineStartOffset(line)
	prefix := src.Bytes(lineStart, offset)
	return Position{Line: line, UTF16Char: utf16Units(prefix)}
}

// LSPToPosition converts a line/UTF-16 column Position back to a byte
// offset into the document.
func LSPToPosition(src TextSource, pos Position) int64 {
	lineStart := src.LineStartOffset(pos.Line)
	lineEnd := src.LineEndOffset(pos.Line)
	line := src.Bytes(lineStart, lineEnd)
	return lineStart + byteOffsetFromUTF16Column(line, pos.UTF16Char)
}

// utf16Units counts the UTF-16 code units the UTF-8 bytes in s would decode
// to, treating any codepoint outside the Basic Multilingual Plane as a
// surrogate pair worth two units.
func utf16Units(s []byte) int64 {
	var units int64
	for len(s) > 0 {
		r, size := utf8.DecodeRune(s)
		if r >= 0x10000 {
			units += 2
		} else {
			units++
		}
		s = s[size:]
	}
	return units
}

// byteOffsetFromUTF16Column walks line once, stopping at the byte offset
// whose UTF-16 column equals col.
func byteOffsetFromUTF16Column(line []byte, col int64) int64 {
	var units int64
	var offset int64
	for len(line) > 0 {
		if units >= col {
			break
		}
		r, size := utf8.DecodeRune(line)
		if r >= 0x10000 {
			units += 2
		} else {
			units++
		}
		offset += int64(size)
		line = line[size:]
	}
	return offset
}
