package lspcoord_test

import (
	"testing"

	"github.com/inkglass/corepad/internal/document"
	"github.com/inkglass/corepad/internal/lspcoord"
)

func TestPositionToLSPASCII(t *testing.T) {
	d := document.NewFromString("hello\nworld")
	pos := lspcoord.PositionToLSP(d, 8) // "hello\nwo|rld"
	if pos.Line != 1 || pos.UTF16Char != 2 {
		t.Fatalf("got %+v, want {1 2}", pos)
	}
}

func TestLSPToPositionASCII(t *testing.T) {
	d := document.NewFromString("hello\nworld")
	off := lspcoord.LSPToPosition(d, lspcoord.Position{Line: 1, UTF16Char: 2})
	if off != 8 {
		t.Fatalf("got %d, want 8", off)
	}
}

func TestPositionRoundTripsSurrogatePair(t *testing.T) {
	// U+1F600 (😀) is outside the BMP: one rune, four UTF-8 bytes, two
	// UTF-16 code units.
	d := document.NewFromString("a\U0001F600b")
	offAfterEmoji := int64(1 + 4) // "a" + the emoji's 4 UTF-8 bytes

	pos := lspcoord.PositionToLSP(d, offAfterEmoji)
	if pos.Line != 0 || pos.UTF16Char != 3 {
		t.Fatalf("got %+v, want {0 3} (1 for 'a' + 2 for the surrogate pair)", pos)
	}

	back := lspcoord.LSPToPosition(d, pos)
	if back != offAfterEmoji {
		t.Fatalf("round trip: got %d, want %d", back, offAfterEmoji)
	}
}

func TestPositionToLSPLineStart(t *testing.T) {
	d := document.NewFromString("abc\ndef")
	pos := lspcoord.PositionToLSP(d, 4)
	if pos.Line != 1 || pos.UTF16Char != 0 {
		t.Fatalf("got %+v, want {1 0}", pos)
	}
}
