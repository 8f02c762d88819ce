package margin

import (
	"sort"
	"sync"

	"github.com/inkglass/corepad/internal/marker"
)

// Handle identifies a live indicator. The zero Handle is never issued.
type Handle uint32

// Kind is the visual category of an indicator.
type Kind uint8

const (
	KindNone Kind = iota
	KindError
	KindWarning
	KindInfo
	KindBreakpoint
	KindBreakpointConditional
	KindBookmark
	KindGitAdded
	KindGitModified
	KindGitDeleted
)

// Indicator is one gutter annotation anchored to a line's start.
type Indicator struct {
	ID        Handle
	Namespace string
	Kind      Kind

	anchor marker.Handle
	seq    uint64
}

// Resolved pairs a live indicator with its anchor's current byte offset.
type Resolved struct {
	Indicator Indicator
	Offset    int64
}

// LineResolver maps a byte offset to its 0-indexed line number, typically
// backed by a piece tree's OffsetToPosition.
type LineResolver func(offset int64) int64

// List stores indicators anchored through a shared marker list, keyed by
// line start the same way overlays are keyed by range.
type List struct {
	markers *marker.List

	mu         sync.RWMutex
	indicators map[Handle]*Indicator
	nextID     Handle
	seq        uint64
}

// New creates an indicator list anchored on markers.
func New(markers *marker.List) *List {
	return &List{markers: markers, indicators: make(map[Handle]*Indicator)}
}

// Add anchors a new indicator at lineStartOffset, using left gravity so an
// insertion exactly at the line start stays attached to the new content
// rather than sliding onto the previous line.
func (l *List) Add(namespace string, lineStartOffset int64, kind Kind) Handle {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextID++
	id := l.nextID
	l.seq++
	ind := &Indicator{
		ID:        id,
		Namespace: namespace,
		Kind:      kind,
		anchor:    l.markers.Create(lineStartOffset, marker.Left),
		seq:       l.seq,
	}
	l.indicators[id] = ind
	return id
}

// Remove releases one indicator.
func (l *List) Remove(h Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ind, ok := l.indicators[h]
	if !ok {
		return
	}
	l.markers.Release(ind.anchor)
	delete(l.indicators, h)
}

// RemoveNamespace releases every indicator in a namespace, for plugins or
// LSP clients that want to clear and re-publish their own diagnostics in
// one step.
func (l *List) RemoveNamespace(namespace string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for h, ind := range l.indicators {
		if ind.Namespace == namespace {
			l.markers.Release(ind.anchor)
			delete(l.indicators, h)
		}
	}
}

// All resolves every live indicator to its current byte offset, in
// insertion order.
func (l *List) All() []Resolved {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Resolved, 0, len(l.indicators))
	for _, ind := range l.indicators {
		off, err := l.markers.Position(ind.anchor)
		if err != nil {
			continue
		}
		out = append(out, Resolved{Indicator: *ind, Offset: off})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Indicator.seq < out[j].Indicator.seq })
	return out
}

// IndicatorsForLine returns every indicator currently anchored to line, as
// resolved through resolve. A plain scan over the live set: indicator
// counts are small relative to document size, and this runs once per
// gutter repaint rather than per character, matching the overlay engine's
// QueryViewport approach.
func (l *List) IndicatorsForLine(line int64, resolve LineResolver) []Indicator {
	var out []Indicator
	for _, r := range l.All() {
		if resolve(r.Offset) == line {
			out = append(out, r.Indicator)
		}
	}
	return out
}

// Count returns the number of live indicators.
func (l *List) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.indicators)
}
