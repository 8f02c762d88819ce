package piecetree

// OffsetToPosition translates a byte offset into a (line, column_bytes)
// pair. Both are 0-indexed; column is measured in bytes from the start of
// the line. Regions whose newline count is unknown (unloaded large-file
// chunks) contribute zero to the running line count rather than erroring,
// per the piece tree's "line indexing is suspended" contract for those
// regions — callers that need an exact answer there must load the chunk
// first.
func (t *Tree) OffsetToPosition(offset int64) (line, col int64) {
	offset = clamp(offset, 0, t.TotalBytes())
	line = t.countNewlinesBefore(t.root, offset)
	lineStart := t.LineStartOffset(line)
	return line, offset - lineStart
}

// PositionToOffset translates (line, column_bytes) into a byte offset,
// clamping the line to the document's line range and the column to the
// line's length.
func (t *Tree) PositionToOffset(line, col int64) int64 {
	lineStart := t.LineStartOffset(line)
	lineEnd := t.LineEndOffset(line)
	offset := lineStart + col
	if offset > lineEnd {
		offset = lineEnd
	}
	return offset
}

// LineStartOffset returns the byte offset of the first byte of line (the
// byte following its preceding newline, or 0 for line 0). A line number
// past the end of the document clamps to TotalBytes().
func (t *Tree) LineStartOffset(line int64) int64 {
	if line <= 0 {
		return 0
	}
	off, found := t.findNthNewline(t.root, line-1, 0)
	if !found {
		return t.TotalBytes()
	}
	return off + 1
}

// LineEndOffset returns the byte offset of the newline terminating line (or
// TotalBytes() if line is the last, unterminated line).
func (t *Tree) LineEndOffset(line int64) int64 {
	off, found := t.findNthNewline(t.root, line, 0)
	if !found {
		return t.TotalBytes()
	}
	return off
}

func linesOrZero(l Lines) int64 {
	if l == UnknownLines {
		return 0
	}
	return int64(l)
}

// countNewlinesBefore counts newline bytes strictly before offset.
func (t *Tree) countNewlinesBefore(n *node, offset int64) int64 {
	if n == nil || offset <= 0 {
		return 0
	}
	leftBytes := bytesOf(n.left)
	if offset <= leftBytes {
		return t.countNewlinesBefore(n.left, offset)
	}
	total := linesOrZero(linesOf(n.left))
	within := offset - leftBytes
	if within >= n.piece.Length {
		total += linesOrZero(n.piece.Newlines)
		total += t.countNewlinesBefore(n.right, within-n.piece.Length)
		return total
	}
	total += t.countNewlinesInPiecePrefix(n.piece, within)
	return total
}

// countNewlinesInPiecePrefix counts newlines in the first `within` bytes of
// p, reading from the store. A piece with an unknown newline count is, by
// invariant, an unloaded chunk, so its prefix contributes 0 — the known
// answer is unavailable until the chunk is loaded.
func (t *Tree) countNewlinesInPiecePrefix(p Piece, within int64) int64 {
	if p.Newlines == UnknownLines || within <= 0 {
		return 0
	}
	data, ok := t.store.Slice(p.Buffer, p.Offset, within)
	if !ok {
		return 0
	}
	return countNewlines(data)
}

// findNthNewline locates the 0-indexed k-th newline byte in the whole
// document, returning its absolute offset. base is the accumulated byte
// offset of n's subtree start.
func (t *Tree) findNthNewline(n *node, k int64, base int64) (int64, bool) {
	if n == nil || k < 0 {
		return 0, false
	}
	leftLines := linesOrZero(linesOf(n.left))
	if k < leftLines {
		return t.findNthNewline(n.left, k, base)
	}
	k -= leftLines
	leftBytes := bytesOf(n.left)
	pieceLines := linesOrZero(n.piece.Newlines)
	if k < pieceLines {
		off, ok := t.offsetOfNthNewlineInPiece(n.piece, k)
		if !ok {
			return 0, false
		}
		return base + leftBytes + off, true
	}
	k -= pieceLines
	return t.findNthNewline(n.right, k, base+leftBytes+n.piece.Length)
}

// offsetOfNthNewlineInPiece returns the offset, within p, of its k-th
// (0-indexed) newline byte.
func (t *Tree) offsetOfNthNewlineInPiece(p Piece, k int64) (int64, bool) {
	data, ok := t.store.Slice(p.Buffer, p.Offset, p.Length)
	if !ok {
		return 0, false
	}
	var count int64
	for i, b := range data {
		if b == '\n' {
			if count == k {
				return int64(i), true
			}
			count++
		}
	}
	return 0, false
}
