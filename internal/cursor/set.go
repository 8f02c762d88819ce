package cursor

import "bytes"

// Set is an ordered collection of cursors with one designated primary.
type Set struct {
	cursors []Cursor
	primary int
}

// NewSet creates a set with a single cursor at position, designated
// primary.
func NewSet(position int64) *Set {
	return &Set{cursors: []Cursor{New(position)}}
}

// Primary returns the primary cursor.
func (s *Set) Primary() Cursor { return s.cursors[s.primary] }

// PrimaryIndex returns the index of the primary cursor within All().
func (s *Set) PrimaryIndex() int { return s.primary }

// All returns every cursor, primary included, in insertion order.
func (s *Set) All() []Cursor {
	out := make([]Cursor, len(s.cursors))
	copy(out, s.cursors)
	return out
}

// SetPrimary replaces the primary cursor's value.
func (s *Set) SetPrimary(c Cursor) { s.cursors[s.primary] = c }

// ReplaceAll replaces every cursor's value, keeping the same primary index
// and cursor count. Used after a piece tree edit has transformed every
// cursor's offset.
func (s *Set) ReplaceAll(cursors []Cursor, primary int) {
	s.cursors = cursors
	s.primary = primary
}

// CollapseToPrimary discards every secondary cursor.
func (s *Set) CollapseToPrimary() {
	s.cursors = []Cursor{s.cursors[s.primary]}
	s.primary = 0
}

// AddCursor appends c as a new secondary cursor and returns its index.
func (s *Set) AddCursor(c Cursor) int {
	s.cursors = append(s.cursors, c)
	return len(s.cursors) - 1
}

// AddCursorAbove adds a cursor at the primary's visual column on the line
// above; if there is no line above, it adds one at the end of the current
// line.
func AddCursorAbove(src TextSource, s *Set) {
	addCursorVertical(src, s, -1)
}

// AddCursorBelow adds a cursor at the primary's visual column on the line
// below; if there is no line below, it adds one at the end of the current
// line.
func AddCursorBelow(src TextSource, s *Set) {
	addCursorVertical(src, s, 1)
}

func addCursorVertical(src TextSource, s *Set, delta int64) {
	p := s.Primary()
	line, col := src.OffsetToPosition(p.Position)
	target := line + delta
	maxLine, _ := src.OffsetToPosition(src.TotalBytes())

	if target < 0 || target > maxLine {
		// No adjacent line in that direction: fall back to the end of the
		// current line, per spec.
		s.AddCursor(New(src.LineEndOffset(line)))
		return
	}
	lineStart := src.LineStartOffset(target)
	lineEnd := src.LineEndOffset(target)
	pos := lineStart + col
	if pos > lineEnd {
		pos = lineEnd
	}
	s.AddCursor(New(pos))
}

// AddCursorNextMatch adds a cursor selecting the next occurrence, after the
// primary cursor's selection, of the text that selection covers. It is a
// no-op if the primary cursor has no selection or the text does not recur.
func AddCursorNextMatch(src TextSource, s *Set) {
	p := s.Primary()
	start, end, ok := p.Range()
	if !ok {
		return
	}
	needle := src.Bytes(start, end)
	if len(needle) == 0 {
		return
	}
	total := src.TotalBytes()
	haystack := src.Bytes(end, total)
	idx := bytes.Index(haystack, needle)
	if idx < 0 {
		// Wrap around: search from the start of the document up to the
		// original selection.
		wrapHaystack := src.Bytes(0, start)
		idx = bytes.Index(wrapHaystack, needle)
		if idx < 0 {
			return
		}
		matchStart := int64(idx)
		s.AddCursor(Cursor{Position: matchStart + int64(len(needle))}.SetAnchor(matchStart))
		return
	}
	matchStart := end + int64(idx)
	s.AddCursor(Cursor{Position: matchStart + int64(len(needle))}.SetAnchor(matchStart))
}

// Sort orders cursors by position, preserving which one (by value) remains
// primary.
func (s *Set) Sort() {
	primaryCursor := s.Primary()
	sortCursors(s.cursors)
	for i, c := range s.cursors {
		if c == primaryCursor {
			s.primary = i
			break
		}
	}
}

func sortCursors(cs []Cursor) {
	for i := 1; i < len(cs); i++ {
		for j := i; j > 0 && cs[j].Position < cs[j-1].Position; j-- {
			cs[j], cs[j-1] = cs[j-1], cs[j]
		}
	}
}
