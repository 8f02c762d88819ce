// Package marker implements the marker list: an arena mapping opaque
// handles to byte offsets that track edits applied to a document's piece
// tree.
//
// A marker never moves on its own; the document calls ShiftOnInsert or
// ShiftOnDelete in the same transaction as every piece tree mutation, so
// the marker list and the piece tree never observably disagree about where
// a marker points. This is the substrate the overlay engine, virtual text
// and margin indicators anchor to: each needs a marker's offset to survive
// edits that happen anywhere else in the document. Cursors are not markers;
// they carry their own offsets.
//
// Gravity resolves the one ambiguous case, an edit landing exactly on a
// marker: a Left-gravity marker stays put when text is inserted at its
// offset, a Right-gravity marker moves past the inserted text. Pairing a
// Left-gravity start marker with a Right-gravity end marker is how a range
// (an overlay) keeps text typed at either boundary "inside" itself.
package marker
