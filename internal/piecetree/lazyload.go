package piecetree

import "github.com/inkglass/corepad/internal/bufstore"

// DefaultChunkSize is the default granularity at which an oversized
// unloaded piece is split and swapped in for reading.
const DefaultChunkSize = 1 << 20 // 1 MiB

// EnsureLoaded makes the bytes in [start, end) available for reading,
// performing the large-file lazy-load dance when it lands inside an
// unloaded piece: split the piece to chunk-aligned boundaries, create a
// chunk buffer for the now-isolated piece, load it, and repoint the piece
// tree at the loaded chunk. Already-loaded regions are left untouched.
// Sibling pieces outside [start, end) keep an unknown newline count.
func (t *Tree) EnsureLoaded(start, end int64, chunkSize int64) error {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	start = clamp(start, 0, t.TotalBytes())
	end = clamp(end, start, t.TotalBytes())

	for cursor := start; cursor < end; {
		info, err := t.FindByOffset(cursor)
		if err != nil {
			return err
		}
		if t.store.IsLoaded(info.Piece.Buffer) {
			cursor = info.DocOffset + info.Piece.Length
			continue
		}
		if err := t.loadPieceChunk(info, chunkSize); err != nil {
			return err
		}
		// The tree changed shape; re-resolve from the same document offset.
		info, err = t.FindByOffset(cursor)
		if err != nil {
			return err
		}
		cursor = info.DocOffset + info.Piece.Length
	}
	return nil
}

// loadPieceChunk isolates a chunk-sized (or smaller) region of an unloaded
// piece containing info.DocOffset, loads it, and splices it back in as a
// loaded piece with a now-known newline count.
func (t *Tree) loadPieceChunk(info PieceInfo, chunkSize int64) error {
	pieceStart := info.DocOffset
	pieceEnd := pieceStart + info.Piece.Length

	chunkStart := pieceStart + (info.OffsetInPiece/chunkSize)*chunkSize
	chunkEnd := chunkStart + chunkSize
	if chunkEnd > pieceEnd {
		chunkEnd = pieceEnd
	}

	// Isolate [chunkStart, chunkEnd) as its own piece via two splits.
	l, mid := split(t.root, chunkStart, t.cutPiece)
	midLeft, r := split(mid, chunkEnd-chunkStart, t.cutPiece)
	t.root = join(l, join(midLeft, r))

	isolated, err := t.FindByOffset(chunkStart)
	if err != nil {
		return err
	}

	chunkID, err := t.store.CreateChunk(isolated.Piece.Buffer, isolated.Piece.Offset, isolated.Piece.Length)
	if err != nil {
		return err
	}
	if err := t.store.Load(chunkID); err != nil {
		return err
	}
	data, _ := t.store.Get(chunkID)

	t.ReplaceBufferReference(
		isolated.Piece.Buffer, isolated.Piece.Offset, isolated.Piece.Length,
		chunkID, 0, Lines(countNewlines(data)),
	)
	return nil
}

// NewUnloadedDocument creates a single-piece tree covering an entire file
// that has not been read into memory, for files over the large-file
// threshold. Its newline count starts unknown.
func NewUnloadedDocument(store *bufstore.Store, path string, size int64) *Tree {
	t := New(store)
	id := store.NewUnloadedFile(path, 0, size)
	if size == 0 {
		return t
	}
	t.root = newLeaf(Piece{Buffer: id, Offset: 0, Length: size, Newlines: UnknownLines})
	return t
}
