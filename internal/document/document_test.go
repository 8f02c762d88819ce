package document

import "testing"

func TestNewFromStringTracksLinesAndBytes(t *testing.T) {
	d := NewFromString("line1\nline2\nline3")
	if got := d.TotalBytes(); got != 17 {
		t.Fatalf("TotalBytes() = %d, want 17", got)
	}
	if n, ok := d.LineCount(); !ok || n != 3 {
		t.Fatalf("LineCount() = (%d, %v), want (3, true)", n, ok)
	}
	text, ok := d.LineText(1)
	if !ok || text != "line2" {
		t.Fatalf("LineText(1) = (%q, %v), want (line2, true)", text, ok)
	}
}

func TestInsertTextAppendsAndShiftsCursor(t *testing.T) {
	d := NewFromString("hello world")
	d.Cursors().SetPrimary(d.Cursors().Primary().MoveTo(5, d.TotalBytes()))

	end, err := d.InsertText(5, ",", CursorIDFor(d.Cursors().PrimaryIndex()))
	if err != nil {
		t.Fatalf("InsertText: %v", err)
	}
	if end != 6 {
		t.Fatalf("InsertText returned %d, want 6", end)
	}
	text, _ := d.LineText(0)
	if text != "hello, world" {
		t.Fatalf("got %q, want %q", text, "hello, world")
	}
	if got := d.Cursors().Primary().Position; got != 6 {
		t.Fatalf("primary cursor at %d, want 6 after typing at its own position", got)
	}
	if !d.Modified() {
		t.Fatal("expected Modified() after an insert")
	}
}

func TestDeleteRangeCollapsesCursorInsideRange(t *testing.T) {
	d := NewFromString("hello world")
	d.Cursors().SetPrimary(d.Cursors().Primary().MoveTo(8, d.TotalBytes()))

	if err := d.DeleteRange(3, 9, 0); err != nil {
		t.Fatalf("DeleteRange: %v", err)
	}
	text, _ := d.LineText(0)
	if text != "helld" {
		t.Fatalf("got %q, want %q", text, "helld")
	}
	if got := d.Cursors().Primary().Position; got != 3 {
		t.Fatalf("cursor inside the deleted range should collapse to its start, got %d", got)
	}
}

func TestUndoRedoRoundTripsInsert(t *testing.T) {
	d := NewFromString("ab")
	if _, err := d.InsertText(2, "c", 0); err != nil {
		t.Fatalf("InsertText: %v", err)
	}
	if text, _ := d.LineText(0); text != "abc" {
		t.Fatalf("got %q, want abc", text)
	}

	if err := d.History().Undo(d); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if text, _ := d.LineText(0); text != "ab" {
		t.Fatalf("after undo, got %q, want ab", text)
	}
	if d.Modified() {
		t.Fatal("expected Modified() false after undoing back to the saved point")
	}

	if err := d.History().Redo(d); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if text, _ := d.LineText(0); text != "abc" {
		t.Fatalf("after redo, got %q, want abc", text)
	}
}

func TestUndoRoundTripsDelete(t *testing.T) {
	d := NewFromString("hello world")
	if err := d.DeleteRange(5, 11, 0); err != nil {
		t.Fatalf("DeleteRange: %v", err)
	}
	if text, _ := d.LineText(0); text != "hello" {
		t.Fatalf("got %q, want hello", text)
	}

	if err := d.History().Undo(d); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if text, _ := d.LineText(0); text != "hello world" {
		t.Fatalf("after undo, got %q, want %q", text, "hello world")
	}
}

func TestReplaceRangeUndoesAsOneGroup(t *testing.T) {
	d := NewFromString("the cat sat")
	if _, err := d.ReplaceRange(4, 7, "dog", 0); err != nil {
		t.Fatalf("ReplaceRange: %v", err)
	}
	if text, _ := d.LineText(0); text != "the dog sat" {
		t.Fatalf("got %q, want %q", text, "the dog sat")
	}

	if err := d.History().Undo(d); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if text, _ := d.LineText(0); text != "the cat sat" {
		t.Fatalf("one undo should revert the whole replace group, got %q", text)
	}
}

func TestReplaceSatisfiesSearchApplier(t *testing.T) {
	d := NewFromString("aa aa aa")
	if err := d.Replace(0, 2, "bb"); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if text, _ := d.LineText(0); text != "bb aa aa" {
		t.Fatalf("got %q, want %q", text, "bb aa aa")
	}
}

func TestDetectLineEndingPrefersMostCommon(t *testing.T) {
	if le := DetectLineEnding("a\r\nb\r\nc\n"); le != LineEndingCRLF {
		t.Fatalf("got %v, want CRLF", le)
	}
	if le := DetectLineEnding("a\nb\nc\n"); le != LineEndingLF {
		t.Fatalf("got %v, want LF", le)
	}
	if le := DetectLineEnding("no newlines here"); le != LineEndingLF {
		t.Fatalf("got %v, want LF default", le)
	}
}

func TestDetectEncodingReadsBOM(t *testing.T) {
	cases := []struct {
		raw  []byte
		want Encoding
	}{
		{[]byte{0xFF, 0xFE, 'a', 0}, EncodingUTF16LE},
		{[]byte{0xFE, 0xFF, 0, 'a'}, EncodingUTF16BE},
		{[]byte("plain text"), EncodingUTF8},
	}
	for _, c := range cases {
		if got := DetectEncoding(c.raw); got != c.want {
			t.Errorf("DetectEncoding(%v) = %v, want %v", c.raw, got, c.want)
		}
	}
}
