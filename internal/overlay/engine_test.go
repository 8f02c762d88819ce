package overlay

import "testing"

func newTestEngine(total int64) (*Engine, func(int64)) {
	markerList := newSharedMarkers()
	e := New(markerList, func() int64 { return total })
	return e, func(n int64) { total = n }
}

func TestAddRejectsInvertedRange(t *testing.T) {
	e, _ := newTestEngine(100)
	if _, err := e.Add("ns", 10, 5, Face{}, PriorityNormal, "", false); err != ErrInvalidRange {
		t.Fatalf("got %v, want ErrInvalidRange", err)
	}
}

func TestAddClampsToDocumentBounds(t *testing.T) {
	e, _ := newTestEngine(10)
	id, err := e.Add("ns", -5, 100, Face{}, PriorityNormal, "", false)
	if err != nil {
		t.Fatal(err)
	}
	matches := e.QueryViewport(0, 10)
	if len(matches) != 1 || matches[0].Overlay.ID != id {
		t.Fatalf("expected one clamped overlay, got %+v", matches)
	}
	if matches[0].Range.Start != 0 || matches[0].Range.End != 10 {
		t.Fatalf("range not clamped: %+v", matches[0].Range)
	}
}

func TestQueryViewportOrdersByPriorityThenInsertion(t *testing.T) {
	e, _ := newTestEngine(100)
	low, _ := e.Add("a", 0, 10, Face{}, PriorityLow, "", false)
	high, _ := e.Add("b", 0, 10, Face{}, PriorityHigh, "", false)
	normal, _ := e.Add("c", 0, 10, Face{}, PriorityNormal, "", false)

	matches := e.QueryViewport(0, 10)
	if len(matches) != 3 {
		t.Fatalf("got %d matches, want 3", len(matches))
	}
	want := []Handle{high, normal, low}
	for i, h := range want {
		if matches[i].Overlay.ID != h {
			t.Fatalf("order[%d] = %d, want %d", i, matches[i].Overlay.ID, h)
		}
	}
}

func TestRemoveAndClearNamespace(t *testing.T) {
	e, _ := newTestEngine(100)
	a, _ := e.Add("x", 0, 5, Face{}, PriorityNormal, "", false)
	b, _ := e.Add("x", 5, 10, Face{}, PriorityNormal, "", false)
	c, _ := e.Add("y", 10, 15, Face{}, PriorityNormal, "", false)

	e.Remove(a)
	if e.Count() != 2 {
		t.Fatalf("Count() after Remove = %d, want 2", e.Count())
	}

	e.ClearNamespace("x")
	if e.Count() != 1 {
		t.Fatalf("Count() after ClearNamespace = %d, want 1", e.Count())
	}
	remaining := e.QueryViewport(0, 100)
	if len(remaining) != 1 || remaining[0].Overlay.ID != c {
		t.Fatalf("expected only overlay %d to remain, got %+v", c, remaining)
	}
	_ = b
}

func TestOverlayRangeTracksEditsViaMarkers(t *testing.T) {
	e, _ := newTestEngine(100)
	markerList := e.markers
	id, _ := e.Add("ns", 10, 20, Face{}, PriorityNormal, "", false)

	// Simulate an insertion of 5 bytes before the overlay.
	markerList.ShiftOnInsert(0, 5)

	matches := e.QueryViewport(0, 100)
	if len(matches) != 1 || matches[0].Overlay.ID != id {
		t.Fatal("overlay should still be findable after an edit shifts its markers")
	}
	if matches[0].Range.Start != 15 || matches[0].Range.End != 25 {
		t.Fatalf("range did not track the edit: got %+v", matches[0].Range)
	}
}

func TestRemoveInRange(t *testing.T) {
	e, _ := newTestEngine(100)
	inside, _ := e.Add("ns", 10, 20, Face{}, PriorityNormal, "", false)
	outside, _ := e.Add("ns", 50, 60, Face{}, PriorityNormal, "", false)

	e.RemoveInRange(Range{Start: 5, End: 25})

	matches := e.QueryViewport(0, 100)
	if len(matches) != 1 || matches[0].Overlay.ID != outside {
		t.Fatalf("expected only the non-intersecting overlay to survive, got %+v", matches)
	}
	_ = inside
}
