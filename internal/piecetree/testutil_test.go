package piecetree

import "github.com/inkglass/corepad/internal/bufstore"

// fromString builds a single-piece tree over s, for test setup.
func fromString(store *bufstore.Store, s string) *Tree {
	t := New(store)
	if s == "" {
		return t
	}
	id := store.NewStored([]byte(s))
	t.root = newLeaf(Piece{Buffer: id, Offset: 0, Length: int64(len(s)), Newlines: Lines(countNewlines([]byte(s)))})
	return t
}

// text reconstructs the tree's full content, for assertions.
func text(t *Tree) string {
	buf := make([]byte, 0, t.TotalBytes())
	for view := range t.PiecesInRange(0, t.TotalBytes()) {
		buf = append(buf, view.Bytes...)
	}
	return string(buf)
}
