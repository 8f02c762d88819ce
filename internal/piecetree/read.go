package piecetree

// ByteAt returns the byte at offset, or ok=false if offset is out of range
// or falls in an unloaded piece.
func (t *Tree) ByteAt(offset int64) (b byte, ok bool) {
	if offset < 0 || offset >= t.TotalBytes() {
		return 0, false
	}
	for view := range t.PiecesInRange(offset, offset+1) {
		if len(view.Bytes) == 0 {
			return 0, false
		}
		return view.Bytes[0], true
	}
	return 0, false
}

// Bytes returns the bytes in [start, end), concatenating across pieces.
// Unloaded pieces contribute nothing to the result, so a caller that needs
// a guaranteed-complete read must call EnsureLoaded first.
func (t *Tree) Bytes(start, end int64) []byte {
	out := make([]byte, 0, end-start)
	for view := range t.PiecesInRange(start, end) {
		out = append(out, view.Bytes...)
	}
	return out
}
