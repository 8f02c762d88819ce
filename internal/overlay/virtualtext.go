package overlay

import (
	"sort"
	"strings"
	"sync"

	"github.com/inkglass/corepad/internal/marker"
)

// VTPosition anchors a virtual text item relative to the character at its
// marker.
type VTPosition uint8

const (
	BeforeChar VTPosition = iota
	AfterChar
	LineAbove
	LineBelow
)

// VirtualText is a decoration that inserts synthetic glyphs into the
// rendered stream without touching the document.
type VirtualText struct {
	ID        string // optional; non-empty IDs support idempotent replace
	Namespace string
	Position  VTPosition
	Text      string
	Face      Face
	Priority  Priority

	anchor marker.Handle
	seq    uint64
}

// VTMatch pairs a live virtual text item with its current anchor offset.
type VTMatch struct {
	VirtualText VirtualText
	AnchorAt    int64
}

// VirtualTextEngine stores virtual text anchored through a shared marker
// list, indexed separately from Engine's ranged overlays since virtual
// text anchors a single point rather than a span.
type VirtualTextEngine struct {
	markers *marker.List

	mu    sync.RWMutex
	items map[string]*VirtualText // non-empty-ID items, replace-by-ID
	anon  []*VirtualText          // anonymous items, append-only until removed
	seq   uint64
}

// NewVirtualTextEngine creates a virtual text engine anchored on markers.
func NewVirtualTextEngine(markers *marker.List) *VirtualTextEngine {
	return &VirtualTextEngine{markers: markers, items: make(map[string]*VirtualText)}
}

// Add anchors a new virtual text item at offset. If vt.ID is non-empty and
// already present, it replaces the previous item at that ID, releasing the
// old item's anchor marker and creating a new one at offset.
func (e *VirtualTextEngine) Add(vt VirtualText, offset int64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if vt.ID != "" {
		if old, ok := e.items[vt.ID]; ok {
			e.markers.Release(old.anchor)
		}
		vt.anchor = e.markers.Create(offset, marker.Left)
		e.seq++
		vt.seq = e.seq
		e.items[vt.ID] = &vt
		return
	}
	vt.anchor = e.markers.Create(offset, marker.Left)
	e.seq++
	vt.seq = e.seq
	e.anon = append(e.anon, &vt)
}

// RemoveByPrefix removes every ID'd item whose ID starts with prefix, used
// to clear a whole category of hints at once. Anonymous items are not
// affected.
func (e *VirtualTextEngine) RemoveByPrefix(prefix string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for id, vt := range e.items {
		if strings.HasPrefix(id, prefix) {
			e.markers.Release(vt.anchor)
			delete(e.items, id)
		}
	}
}

// ClearNamespace removes every item tagged with namespace, ID'd or not.
func (e *VirtualTextEngine) ClearNamespace(namespace string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for id, vt := range e.items {
		if vt.Namespace == namespace {
			e.markers.Release(vt.anchor)
			delete(e.items, id)
		}
	}
	kept := e.anon[:0]
	for _, vt := range e.anon {
		if vt.Namespace == namespace {
			e.markers.Release(vt.anchor)
			continue
		}
		kept = append(kept, vt)
	}
	e.anon = kept
}

// Clear removes every virtual text item.
func (e *VirtualTextEngine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for id, vt := range e.items {
		e.markers.Release(vt.anchor)
		delete(e.items, id)
	}
	for _, vt := range e.anon {
		e.markers.Release(vt.anchor)
	}
	e.anon = nil
}

// QueryViewport returns every virtual text item anchored in [start, end),
// in priority order, ties broken by insertion order.
func (e *VirtualTextEngine) QueryViewport(start, end int64) []VTMatch {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var out []VTMatch
	collect := func(vt *VirtualText) {
		at, err := e.markers.Position(vt.anchor)
		if err != nil || at < start || at >= end {
			return
		}
		out = append(out, VTMatch{VirtualText: *vt, AnchorAt: at})
	}
	for _, vt := range e.items {
		collect(vt)
	}
	for _, vt := range e.anon {
		collect(vt)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].VirtualText.Priority != out[j].VirtualText.Priority {
			return out[i].VirtualText.Priority > out[j].VirtualText.Priority
		}
		return out[i].VirtualText.seq < out[j].VirtualText.seq
	})
	return out
}
