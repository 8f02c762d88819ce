package piecetree

import (
	"fmt"
	"iter"

	"github.com/inkglass/corepad/internal/bufstore"
)

// Tree is an ordered sequence of pieces over a bufstore.Store, representing
// one document's text by concatenation.
type Tree struct {
	root  *node
	store *bufstore.Store
}

// New creates an empty piece tree backed by store.
func New(store *bufstore.Store) *Tree {
	return &Tree{store: store}
}

// TotalBytes returns the document's total length in bytes.
func (t *Tree) TotalBytes() int64 {
	return bytesOf(t.root)
}

// LineCount returns the document's total number of lines (newline count
// plus one), or ok=false if any piece's newline count is unknown.
func (t *Tree) LineCount() (count int64, ok bool) {
	l := linesOf(t.root)
	if l == UnknownLines {
		return 0, false
	}
	return int64(l) + 1, true
}

func clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Insert places a new piece at offset, which is clamped to [0, TotalBytes()].
// It may split an existing piece and will rebalance the tree.
func (t *Tree) Insert(offset int64, p Piece) {
	offset = clamp(offset, 0, t.TotalBytes())
	l, r := split(t.root, offset, t.cutPiece)
	t.root = join(join(l, newLeaf(p)), r)
}

// Delete removes length bytes starting at offset, clamped to document
// bounds. It trims the two boundary pieces and drops every piece fully
// contained in the range.
func (t *Tree) Delete(offset, length int64) {
	total := t.TotalBytes()
	start := clamp(offset, 0, total)
	end := clamp(offset+length, start, total)
	l, mid := split(t.root, start, t.cutPiece)
	_, r := split(mid, end-start, t.cutPiece)
	t.root = join(l, r)
}

// InsertAtPosition inserts p at (line, col), resolved to a byte offset
// through PositionToOffset.
func (t *Tree) InsertAtPosition(line, col int64, p Piece) {
	t.Insert(t.PositionToOffset(line, col), p)
}

// DeletePositionRange deletes the text between (l0,c0) and (l1,c1), each
// endpoint resolved to a byte offset through PositionToOffset.
func (t *Tree) DeletePositionRange(l0, c0, l1, c1 int64) {
	start := t.PositionToOffset(l0, c0)
	end := t.PositionToOffset(l1, c1)
	if end < start {
		start, end = end, start
	}
	t.Delete(start, end-start)
}

// SplitAtOffset forces a piece boundary to exist at offset, without
// changing the document's content. Used before mutating a prefix of a
// piece in place.
func (t *Tree) SplitAtOffset(offset int64) {
	offset = clamp(offset, 0, t.TotalBytes())
	l, r := split(t.root, offset, t.cutPiece)
	t.root = join(l, r)
}

// ReplaceBufferReference rewrites the piece metadata of every piece whose
// (buffer, offset, length) exactly matches the given triple, repointing it
// at a new buffer location without altering the represented text. This is
// how lazy loading swaps an unloaded chunk reference for a loaded one.
func (t *Tree) ReplaceBufferReference(oldBuf bufstore.ID, oldOffset, length int64, newBuf bufstore.ID, newOffset int64, newlines Lines) {
	t.root = replaceRef(t.root, oldBuf, oldOffset, length, newBuf, newOffset, newlines)
}

func replaceRef(n *node, oldBuf bufstore.ID, oldOffset, length int64, newBuf bufstore.ID, newOffset int64, newlines Lines) *node {
	if n == nil {
		return nil
	}
	n.left = replaceRef(n.left, oldBuf, oldOffset, length, newBuf, newOffset, newlines)
	n.right = replaceRef(n.right, oldBuf, oldOffset, length, newBuf, newOffset, newlines)
	if n.piece.Buffer == oldBuf && n.piece.Offset == oldOffset && n.piece.Length == length {
		n.piece = Piece{Buffer: newBuf, Offset: newOffset, Length: length, Newlines: newlines}
	}
	update(n)
	return n
}

// PieceInfo describes the piece containing a byte offset.
type PieceInfo struct {
	Piece         Piece
	DocOffset     int64 // offset of the piece's first byte in the document
	OffsetInPiece int64 // offset within the piece of the queried byte
}

// FindByOffset returns the piece containing offset, clamped to the
// document's bounds.
func (t *Tree) FindByOffset(offset int64) (PieceInfo, error) {
	if t.root == nil {
		return PieceInfo{}, fmt.Errorf("piecetree: empty tree")
	}
	offset = clamp(offset, 0, t.TotalBytes()-1)
	if offset < 0 {
		offset = 0
	}
	n := t.root
	base := int64(0)
	for {
		leftBytes := bytesOf(n.left)
		switch {
		case offset < base+leftBytes:
			n = n.left
		case offset >= base+leftBytes+n.piece.Length:
			base += leftBytes + n.piece.Length
			n = n.right
		default:
			docOffset := base + leftBytes
			return PieceInfo{Piece: n.piece, DocOffset: docOffset, OffsetInPiece: offset - docOffset}, nil
		}
	}
}

// PieceView is one piece's view onto a requested range: its location in
// the tree, its document offset, its offset within its backing buffer, and
// its bytes (nil if the backing buffer is not currently loaded).
type PieceView struct {
	Piece      Piece
	DocOffset  int64
	BufferID   bufstore.ID
	BufferOff  int64
	BufferEnd  int64
	Bytes      []byte
	FromLoaded bool
}

// PiecesInRange yields every piece overlapping [start, end) in document
// order, trimmed to that range's boundaries.
func (t *Tree) PiecesInRange(start, end int64) iter.Seq[PieceView] {
	start = clamp(start, 0, t.TotalBytes())
	end = clamp(end, start, t.TotalBytes())
	return func(yield func(PieceView) bool) {
		if start >= end {
			return
		}
		t.walkRange(t.root, 0, start, end, yield)
	}
}

func (t *Tree) walkRange(n *node, base, start, end int64, yield func(PieceView) bool) bool {
	if n == nil || base >= end {
		return true
	}
	leftBytes := bytesOf(n.left)
	pieceStart := base + leftBytes
	pieceEnd := pieceStart + n.piece.Length

	if pieceEnd > start && n.left != nil {
		if !t.walkRange(n.left, base, start, end, yield) {
			return false
		}
	}
	if pieceEnd > start && pieceStart < end {
		loStart := maxInt64(pieceStart, start)
		hiEnd := minInt64(pieceEnd, end)
		offInPiece := loStart - pieceStart
		length := hiEnd - loStart
		data, loaded := t.store.Slice(n.piece.Buffer, n.piece.Offset+offInPiece, length)
		view := PieceView{
			Piece:      n.piece,
			DocOffset:  loStart,
			BufferID:   n.piece.Buffer,
			BufferOff:  n.piece.Offset + offInPiece,
			BufferEnd:  n.piece.Offset + offInPiece + length,
			Bytes:      data,
			FromLoaded: loaded,
		}
		if !yield(view) {
			return false
		}
	}
	if pieceStart < end {
		return t.walkRange(n.right, pieceEnd, start, end, yield)
	}
	return true
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// cutPiece splits piece p at byte offset cut into it, recomputing newline
// counts for each half from the backing store. A piece with an unknown
// newline count always splits into two unknown-count pieces, since only
// unloaded chunks carry an unknown count and their bytes are not available
// to recount.
func (t *Tree) cutPiece(p Piece, cut int64) (Piece, Piece) {
	left := Piece{Buffer: p.Buffer, Offset: p.Offset, Length: cut}
	right := Piece{Buffer: p.Buffer, Offset: p.Offset + cut, Length: p.Length - cut}
	if p.Newlines == UnknownLines {
		left.Newlines = UnknownLines
		right.Newlines = UnknownLines
		return left, right
	}
	data, ok := t.store.Slice(p.Buffer, p.Offset, p.Length)
	if !ok {
		left.Newlines = UnknownLines
		right.Newlines = UnknownLines
		return left, right
	}
	leftLines := Lines(countNewlines(data[:cut]))
	left.Newlines = leftLines
	right.Newlines = Lines(countNewlines(data[cut:]))
	return left, right
}

func countNewlines(data []byte) int64 {
	var n int64
	for _, b := range data {
		if b == '\n' {
			n++
		}
	}
	return n
}
