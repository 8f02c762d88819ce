package piecetree

import "github.com/inkglass/corepad/internal/bufstore"

// Lines counts newlines within a piece or subtree. UnknownLines marks a
// region whose newline count has not been computed, because it references
// an unloaded chunk of a large file.
type Lines int64

// UnknownLines is the lattice bottom: any aggregate containing an unknown
// descendant is itself unknown.
const UnknownLines Lines = -1

func combineLines(values ...Lines) Lines {
	var total Lines
	for _, v := range values {
		if v == UnknownLines {
			return UnknownLines
		}
		total += v
	}
	return total
}

// Piece is a reference into a backing buffer: the classic piece-table
// triple (buffer, offset, length) plus a cached newline count.
type Piece struct {
	Buffer   bufstore.ID
	Offset   int64
	Length   int64
	Newlines Lines
}

func (p Piece) isZero() bool {
	return p.Buffer == 0 && p.Length == 0
}
