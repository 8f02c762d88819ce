// Package piecetree implements the piece tree: an AVL-balanced ordered
// collection of pieces that represents a document by concatenation.
//
// Each piece is a reference into a backing buffer owned by a
// bufstore.Store: (buffer ID, buffer offset, byte length, optional newline
// count). Every subtree caches the total byte length and the total newline
// count of its pieces, so offset<->(line,column) translation and range
// queries run in O(log N) plus the size of the result.
//
// The newline count of a piece is unknown only for pieces that reference an
// unloaded chunk of a large file; an unknown count poisons every ancestor
// aggregate up to the root (it is the bottom of a two-point lattice:
// known < unknown), exactly as it poisons line counting for that region
// until the chunk is loaded.
//
// Mutation is expressed as two primitives, split and join, in the style of
// a balanced rope: split(offset) divides a tree into the pieces before and
// after a byte offset (splitting a piece in two when the offset lands
// inside it), and join(left, right) merges two trees back into one,
// rebalancing along the way. Insert and delete are both implemented as a
// split, a local change, and a join.
package piecetree
