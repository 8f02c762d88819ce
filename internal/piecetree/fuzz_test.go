package piecetree

import (
	"testing"

	"github.com/inkglass/corepad/internal/bufstore"
)

// FuzzInsertDelete checks the piece tree against a plain-string reference
// model under random sequences of insert and delete.
func FuzzInsertDelete(f *testing.F) {
	f.Add(int64(0), "hello", int64(2), int64(0))
	f.Add(int64(3), "x", int64(1), int64(2))
	f.Add(int64(100), "\n\n\n", int64(0), int64(1))

	f.Fuzz(func(t *testing.T, insertAt int64, inserted string, delAt int64, delLen int64) {
		store := bufstore.NewStore()
		tr := fromString(store, "")
		ref := ""

		apply := func(offset int64, s string) {
			offset = clampInt64(offset, 0, int64(len(ref)))
			id := store.NewStored([]byte(s))
			tr.Insert(offset, Piece{Buffer: id, Offset: 0, Length: int64(len(s)), Newlines: Lines(countNewlines([]byte(s)))})
			ref = ref[:offset] + s + ref[offset:]
		}
		del := func(offset, length int64) {
			offset = clampInt64(offset, 0, int64(len(ref)))
			length = clampInt64(length, 0, int64(len(ref))-offset)
			tr.Delete(offset, length)
			ref = ref[:offset] + ref[offset+length:]
		}

		apply(insertAt, inserted)
		del(delAt, delLen)

		if got := text(tr); got != ref {
			t.Fatalf("tree diverged from reference: got %q, want %q", got, ref)
		}
		if tr.TotalBytes() != int64(len(ref)) {
			t.Fatalf("TotalBytes() = %d, want %d", tr.TotalBytes(), len(ref))
		}
	})
}

func clampInt64(v, lo, hi int64) int64 {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
