package app

import "testing"

func TestSessionOpenScratchBecomesActive(t *testing.T) {
	s := NewSession()
	id := s.OpenScratch("hello")
	active, d, ok := s.Active()
	if !ok || active != id {
		t.Fatalf("want %d active, got %d (ok=%v)", id, active, ok)
	}
	if got := d.TotalBytes(); got != 5 {
		t.Fatalf("want 5 bytes, got %d", got)
	}
}

func TestSessionDocumentResolvesOpenBuffer(t *testing.T) {
	s := NewSession()
	id := s.OpenScratch("x")
	if _, ok := s.Document(id); !ok {
		t.Fatal("want open buffer to resolve")
	}
	if _, ok := s.Document(id + 1); ok {
		t.Fatal("want unknown buffer to fail to resolve")
	}
}

func TestSessionCloseRemovesDocumentAndViews(t *testing.T) {
	s := NewSession()
	id := s.OpenScratch("x")
	view, ok := s.OpenView(id, 80, 24)
	if !ok {
		t.Fatal("want view to open against a live buffer")
	}
	s.Close(id)
	if _, ok := s.Document(id); ok {
		t.Fatal("want document removed")
	}
	if len(s.ViewsForBuffer(id)) != 0 {
		t.Fatal("want views of closed buffer removed")
	}
	_ = view
}

func TestMoveCursorEverywhereUpdatesEveryView(t *testing.T) {
	s := NewSession()
	id := s.OpenScratch("hello world")
	v1, _ := s.OpenView(id, 80, 24)
	v2, _ := s.OpenView(id, 40, 10)

	if ok := s.MoveCursorEverywhere(id, 6); !ok {
		t.Fatal("want move to succeed for open buffer")
	}

	d, _ := s.Document(id)
	if got := d.Cursors().Primary().Position; got != 6 {
		t.Fatalf("want cursor at 6, got %d", got)
	}
	_ = v1
	_ = v2
}

func TestMoveCursorEverywhereUnknownBufferFails(t *testing.T) {
	s := NewSession()
	if ok := s.MoveCursorEverywhere(99, 0); ok {
		t.Fatal("want move against unknown buffer to fail")
	}
}
