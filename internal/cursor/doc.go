// Package cursor implements the cursor and selection model: cursor
// positions and their optional selection anchors, a multi-cursor set with
// one designated primary, and the word-boundary-aware navigation commands
// (select_word, expand_selection, select_line, add_cursor_above/below,
// add_cursor_next_match).
//
// Every motion clamps to the document's byte length and never lands mid-
// codepoint: character-wise stepping scans for a byte whose top two bits
// are not 0b10, the UTF-8 continuation-byte pattern, exactly as spec'd
// rather than going through a full grapheme-cluster library — a cursor
// position is a byte offset, and codepoint-boundary safety is all that
// guarantees slicing the document there never splits a multi-byte rune.
package cursor
