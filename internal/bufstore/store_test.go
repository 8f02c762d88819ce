package bufstore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewStoredAndGet(t *testing.T) {
	s := NewStore()
	id := s.NewStored([]byte("hello world"))

	data, ok := s.Get(id)
	if !ok {
		t.Fatalf("expected buffer %d to be loaded", id)
	}
	if string(data) != "hello world" {
		t.Fatalf("got %q, want %q", data, "hello world")
	}

	n, err := s.Len(id)
	if err != nil {
		t.Fatal(err)
	}
	if n != 11 {
		t.Fatalf("Len() = %d, want 11", n)
	}
}

func TestUnknownBuffer(t *testing.T) {
	s := NewStore()
	if _, ok := s.Get(99); ok {
		t.Fatal("expected unknown buffer to report not-ok")
	}
	if _, err := s.Len(99); err != ErrUnknownBuffer {
		t.Fatalf("Len(99) err = %v, want ErrUnknownBuffer", err)
	}
	if _, ok := s.Get(0); ok {
		t.Fatal("id 0 must never resolve to a buffer")
	}
}

func TestAddedBufferAppendInPlace(t *testing.T) {
	s := NewStore()
	id := s.NewAdded("foo")

	active, ok := s.ActiveAdded()
	if !ok || active != id {
		t.Fatalf("ActiveAdded() = (%d, %v), want (%d, true)", active, ok, id)
	}

	tailLen, err := s.Len(id)
	if err != nil {
		t.Fatal(err)
	}
	if !s.CanAppend(id, tailLen) {
		t.Fatal("expected CanAppend to be true for the active Added buffer's tail")
	}

	off, err := s.Append(id, "bar")
	if err != nil {
		t.Fatal(err)
	}
	if off != 3 {
		t.Fatalf("Append offset = %d, want 3", off)
	}

	data, _ := s.Get(id)
	if string(data) != "foobar" {
		t.Fatalf("got %q, want %q", data, "foobar")
	}

	// Appending anywhere but the recorded tail must be rejected by CanAppend.
	if s.CanAppend(id, 2) {
		t.Fatal("CanAppend should be false once the buffer has grown past tailLen")
	}
}

func TestCanAppendRejectsNonActiveOrStoredBuffer(t *testing.T) {
	s := NewStore()
	stored := s.NewStored([]byte("abc"))
	if s.CanAppend(stored, 3) {
		t.Fatal("a Stored buffer must never be appendable")
	}

	added := s.NewAdded("x")
	other := s.NewAdded("y") // creating a new Added buffer retargets the active slot
	if s.CanAppend(added, 1) {
		t.Fatal("a superseded Added buffer must not be appendable")
	}
	if !s.CanAppend(other, 1) {
		t.Fatal("the newest Added buffer should be the active append target")
	}
}

func TestInvalidateActiveAdded(t *testing.T) {
	s := NewStore()
	id := s.NewAdded("abc")
	s.InvalidateActiveAdded()

	if _, ok := s.ActiveAdded(); ok {
		t.Fatal("expected no active Added buffer after invalidation")
	}
	if s.CanAppend(id, 3) {
		t.Fatal("invalidated buffer must not be appendable even at its true tail")
	}
}

func TestUnloadedFileLoadAndSlice(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.txt")
	content := "0123456789abcdef"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewStore()
	id := s.NewUnloadedFile(path, 4, 8) // "456789ab"

	if s.IsLoaded(id) {
		t.Fatal("freshly created file-backed buffer must start unloaded")
	}
	if _, ok := s.Get(id); ok {
		t.Fatal("Get must fail before Load")
	}

	n, err := s.Len(id)
	if err != nil {
		t.Fatal(err)
	}
	if n != 8 {
		t.Fatalf("Len() = %d, want 8", n)
	}

	if err := s.Load(id); err != nil {
		t.Fatal(err)
	}
	if !s.IsLoaded(id) {
		t.Fatal("expected buffer to be loaded after Load")
	}

	data, ok := s.Get(id)
	if !ok {
		t.Fatal("Get must succeed after Load")
	}
	if string(data) != "456789ab" {
		t.Fatalf("got %q, want %q", data, "456789ab")
	}

	// Loading an already-loaded buffer is a no-op, not an error.
	if err := s.Load(id); err != nil {
		t.Fatalf("second Load() should be a no-op, got err %v", err)
	}
}

func TestSliceBoundsChecking(t *testing.T) {
	s := NewStore()
	id := s.NewStored([]byte("hello"))

	if got, ok := s.Slice(id, 1, 3); !ok || string(got) != "ell" {
		t.Fatalf("Slice(1,3) = (%q, %v), want (\"ell\", true)", got, ok)
	}
	if _, ok := s.Slice(id, 3, 10); ok {
		t.Fatal("expected out-of-bounds slice to fail")
	}
	if _, ok := s.Slice(id, -1, 2); ok {
		t.Fatal("expected negative offset to fail")
	}
}

func TestCreateChunkFromLoadedBuffer(t *testing.T) {
	s := NewStore()
	id := s.NewStored([]byte("abcdefghij"))

	chunk, err := s.CreateChunk(id, 2, 4) // "cdef"
	if err != nil {
		t.Fatal(err)
	}
	data, ok := s.Get(chunk)
	if !ok || string(data) != "cdef" {
		t.Fatalf("chunk data = (%q, %v), want (\"cdef\", true)", data, ok)
	}

	// The parent buffer must be untouched.
	parent, _ := s.Get(id)
	if string(parent) != "abcdefghij" {
		t.Fatal("CreateChunk must not mutate its source buffer")
	}
}

func TestCreateChunkFromUnloadedBuffer(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.txt")
	content := "0123456789abcdef"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewStore()
	id := s.NewUnloadedFile(path, 0, 16)

	chunk, err := s.CreateChunk(id, 4, 8) // file offset 4, length 8: "456789ab"
	if err != nil {
		t.Fatal(err)
	}
	if s.IsLoaded(chunk) {
		t.Fatal("a chunk split off an unloaded buffer should itself start unloaded")
	}
	if err := s.Load(chunk); err != nil {
		t.Fatal(err)
	}
	data, _ := s.Get(chunk)
	if string(data) != "456789ab" {
		t.Fatalf("got %q, want %q", data, "456789ab")
	}
}

func TestCreateChunkOutOfBounds(t *testing.T) {
	s := NewStore()
	id := s.NewStored([]byte("abc"))
	if _, err := s.CreateChunk(id, 1, 10); err == nil {
		t.Fatal("expected out-of-bounds chunk request to fail")
	}
}
