package cursor

// isWordByte reports whether b is a word character per spec's ASCII
// definition: [A-Za-z0-9_]. Hyphen, dot, and '@' are explicit separators,
// along with everything else.
func isWordByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9', b == '_':
		return true
	default:
		return false
	}
}

// wordStart scans left from offset to the start of the word run containing
// or ending at offset.
func wordStart(src TextSource, offset int64) int64 {
	for offset > 0 {
		b, ok := src.ByteAt(offset - 1)
		if !ok || !isWordByte(b) {
			break
		}
		offset--
	}
	return offset
}

// wordEnd scans right from offset to the end of the word run starting at
// or containing offset.
func wordEnd(src TextSource, offset int64) int64 {
	total := src.TotalBytes()
	for offset < total {
		b, ok := src.ByteAt(offset)
		if !ok || !isWordByte(b) {
			break
		}
		offset++
	}
	return offset
}

// nextWordStart scans right from offset past any non-word run to the start
// of the following word.
func nextWordStart(src TextSource, offset int64) int64 {
	total := src.TotalBytes()
	for offset < total {
		b, ok := src.ByteAt(offset)
		if !ok || isWordByte(b) {
			break
		}
		offset++
	}
	return offset
}

// SelectWord expands c's selection to the word containing c.Position. If
// the cursor sits on a non-word byte, it selects from the cursor through
// the end of the next word, Emacs-style.
func SelectWord(src TextSource, c Cursor) Cursor {
	pos := c.Position
	if b, ok := src.ByteAt(pos); ok && isWordByte(b) {
		start := wordStart(src, pos)
		end := wordEnd(src, pos)
		return Cursor{Position: end}.SetAnchor(start)
	}
	// Non-word byte under the cursor: select through the end of the next word.
	nextStart := nextWordStart(src, pos)
	end := wordEnd(src, nextStart)
	return Cursor{Position: end}.SetAnchor(pos)
}

// ExpandSelection grows c's selection by one more word in the direction of
// forward (true = rightward). With no existing selection, it selects from
// the cursor to the end (or start) of the current word.
func ExpandSelection(src TextSource, c Cursor, forward bool) Cursor {
	if !c.HasSelection() {
		if forward {
			if b, ok := src.ByteAt(c.Position); ok && isWordByte(b) {
				return c.SetAnchor(c.Position).moveTo(src, wordEnd(src, c.Position))
			}
			// Non-word byte under the cursor: select through the end of the
			// next word, same fallback as SelectWord.
			nextStart := nextWordStart(src, c.Position)
			return c.SetAnchor(c.Position).moveTo(src, wordEnd(src, nextStart))
		}
		return c.SetAnchor(c.Position).moveTo(src, wordStart(src, c.Position))
	}
	if forward {
		next := nextWordStart(src, c.Position)
		next = wordEnd(src, next)
		return c.moveTo(src, next)
	}
	prevEnd := wordStart(src, c.Position)
	for prevEnd > 0 {
		b, ok := src.ByteAt(prevEnd - 1)
		if !ok || isWordByte(b) {
			break
		}
		prevEnd--
	}
	prevStart := wordStart(src, prevEnd)
	return c.moveTo(src, prevStart)
}

func (c Cursor) moveTo(src TextSource, pos int64) Cursor {
	return c.MoveTo(pos, src.TotalBytes())
}

// SelectLine selects from the start of c's line through the following
// newline inclusive; the last line (with no trailing newline) selects
// through its end.
func SelectLine(src TextSource, c Cursor) Cursor {
	line, _ := src.OffsetToPosition(c.Position)
	start := src.LineStartOffset(line)
	end := src.LineEndOffset(line)
	total := src.TotalBytes()
	if end < total {
		end++ // include the terminating newline
	}
	return Cursor{Position: end}.SetAnchor(start)
}
