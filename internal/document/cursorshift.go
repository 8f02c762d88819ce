package document

import "github.com/inkglass/corepad/internal/cursor"

// shiftCursorsOnInsert transforms every cursor's position (and selection
// anchor, if any) for an insertion of length bytes at offset at, the same
// gravity rule marker.List.ShiftOnInsert applies to markers: an offset
// exactly at at shifts past the inserted text, since that is what lets the
// cursor doing the typing end up after what it just typed.
func shiftCursorsOnInsert(cursors []cursor.Cursor, at, length, total int64) []cursor.Cursor {
	out := make([]cursor.Cursor, len(cursors))
	for i, c := range cursors {
		out[i] = shiftOneCursor(c, total, func(off int64) int64 {
			if off >= at {
				return off + length
			}
			return off
		})
	}
	return out
}

// shiftCursorsOnDelete transforms every cursor's position (and selection
// anchor) for a deletion of length bytes starting at at, mirroring
// marker.List.ShiftOnDelete: offsets inside the deleted range collapse to
// at, offsets after it shift left.
func shiftCursorsOnDelete(cursors []cursor.Cursor, at, length, total int64) []cursor.Cursor {
	end := at + length
	out := make([]cursor.Cursor, len(cursors))
	for i, c := range cursors {
		out[i] = shiftOneCursor(c, total, func(off int64) int64 {
			switch {
			case off < at:
				return off
			case off < end:
				return at
			default:
				return off - length
			}
		})
	}
	return out
}

func shiftOneCursor(c cursor.Cursor, total int64, shift func(int64) int64) cursor.Cursor {
	nc := c.MoveTo(shift(c.Position), total)
	if anchor, ok := c.Anchor(); ok {
		nc = nc.SetAnchor(clamp64(shift(anchor), 0, total))
	}
	return nc
}

func clamp64(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
