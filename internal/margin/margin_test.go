package margin

import (
	"testing"

	"github.com/inkglass/corepad/internal/marker"
)

func lineOfFixedStarts(starts []int64) LineResolver {
	return func(off int64) int64 {
		line := int64(0)
		for i, s := range starts {
			if off >= s {
				line = int64(i)
			}
		}
		return line
	}
}

func TestAddAndResolveTracksEditsViaMarker(t *testing.T) {
	ml := marker.New()
	list := New(ml)

	h := list.Add("lsp", 20, KindError)
	resolved := list.All()
	if len(resolved) != 1 || resolved[0].Offset != 20 {
		t.Fatalf("expected one indicator at offset 20, got %+v", resolved)
	}

	ml.ShiftOnInsert(0, 5)
	resolved = list.All()
	if resolved[0].Offset != 25 {
		t.Fatalf("expected indicator to shift to 25 after insert, got %d", resolved[0].Offset)
	}

	list.Remove(h)
	if len(list.All()) != 0 {
		t.Fatal("expected indicator removed")
	}
}

func TestRemoveNamespaceClearsOnlyThatNamespace(t *testing.T) {
	ml := marker.New()
	list := New(ml)

	list.Add("lsp", 0, KindError)
	list.Add("lsp", 10, KindWarning)
	list.Add("git", 10, KindGitModified)

	list.RemoveNamespace("lsp")
	remaining := list.All()
	if len(remaining) != 1 || remaining[0].Indicator.Namespace != "git" {
		t.Fatalf("expected only git namespace left, got %+v", remaining)
	}
}

func TestIndicatorsForLineGroupsByResolvedLine(t *testing.T) {
	ml := marker.New()
	list := New(ml)

	starts := []int64{0, 10, 20}
	resolve := lineOfFixedStarts(starts)

	list.Add("lsp", 0, KindError)
	list.Add("git", 12, KindGitAdded)
	list.Add("lsp", 22, KindWarning)

	line1 := list.IndicatorsForLine(1, resolve)
	if len(line1) != 1 || line1[0].Kind != KindGitAdded {
		t.Fatalf("expected one git-added indicator on line 1, got %+v", line1)
	}

	line2 := list.IndicatorsForLine(2, resolve)
	if len(line2) != 1 || line2[0].Kind != KindWarning {
		t.Fatalf("expected one warning indicator on line 2, got %+v", line2)
	}
}

func TestGutterWidthGrowsWithLineCount(t *testing.T) {
	g := New(DefaultConfig())
	g.SetLineCount(5)
	small := g.Width()

	g.SetLineCount(100000)
	large := g.Width()

	if large <= small {
		t.Fatalf("expected gutter to widen for a larger line count: %d vs %d", small, large)
	}
}

func TestRenderLineShowsTildeForNonExistentLine(t *testing.T) {
	g := New(DefaultConfig())
	g.SetLineCount(10)
	cells := g.RenderLine(20, false, nil)

	found := false
	for _, c := range cells {
		if c.Rune == '~' {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a tilde cell for a non-existent line")
	}
}

func TestRenderLinePicksHighestPriorityIndicator(t *testing.T) {
	cfg := DefaultConfig()
	g := New(cfg)
	g.SetLineCount(10)

	indicators := []Indicator{{Kind: KindInfo}, {Kind: KindError}, {Kind: KindWarning}}
	cells := g.RenderLine(0, true, indicators)

	if cells[0].Rune != 'E' || cells[0].Style != StyleError {
		t.Fatalf("expected error indicator to win priority, got %+v", cells[0])
	}
}

func TestRenderLineRightAlignsLineNumber(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ShowIndicators = false
	cfg.MinLineNumberWidth = 4
	g := New(cfg)
	g.SetLineCount(5)

	cells := g.RenderLine(0, true, nil)
	// width = 4 digits + 1 separator = 5; line number "1" right-aligned
	// leaves 3 leading spaces before the separator.
	if cells[3].Rune != '1' {
		t.Fatalf("expected line number digit at column 3, got %q", string(cells[3].Rune))
	}
	for i := 0; i < 3; i++ {
		if cells[i].Rune != ' ' {
			t.Fatalf("expected column %d to be blank padding, got %q", i, string(cells[i].Rune))
		}
	}
}

func TestFormatNumber(t *testing.T) {
	cases := map[int64]string{0: "0", 7: "7", 42: "42", 1000: "1000"}
	for n, want := range cases {
		if got := FormatNumber(n); got != want {
			t.Errorf("FormatNumber(%d) = %q, want %q", n, got, want)
		}
	}
}
