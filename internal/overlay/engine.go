package overlay

import (
	"errors"
	"sort"
	"sync"

	"github.com/inkglass/corepad/internal/marker"
)

// Handle identifies a live overlay. The zero Handle is never issued.
type Handle uint32

// ErrInvalidRange is returned by Add when end < start.
var ErrInvalidRange = errors.New("overlay: range end precedes start")

// Range is a resolved byte range, [Start, End).
type Range struct {
	Start, End int64
}

func (r Range) IsEmpty() bool        { return r.Start >= r.End }
func (r Range) Intersects(o Range) bool {
	return r.Start < o.End && o.Start < r.End
}

// Overlay is one decoration: a marker-anchored range, a face, a priority,
// and bulk-operation metadata (namespace).
type Overlay struct {
	ID              Handle
	Namespace       string
	Face            Face
	Priority        Priority
	ExtendToLineEnd bool
	Message         string

	start, end marker.Handle
	seq        uint64 // insertion order, for stable priority ties
}

// Match pairs a live overlay with its current resolved byte range.
type Match struct {
	Overlay Overlay
	Range   Range
}

// Engine stores overlays anchored through a shared marker list.
type Engine struct {
	markers    *marker.List
	totalBytes func() int64

	mu       sync.RWMutex
	overlays map[Handle]*Overlay
	nextID   Handle
	seq      uint64
}

// New creates an overlay engine anchored on markers, using totalBytes to
// clamp ranges to the document's current length.
func New(markers *marker.List, totalBytes func() int64) *Engine {
	return &Engine{markers: markers, totalBytes: totalBytes, overlays: make(map[Handle]*Overlay)}
}

// Add creates an overlay over [start, end), clamped to document bounds.
func (e *Engine) Add(namespace string, start, end int64, face Face, priority Priority, message string, extendToLineEnd bool) (Handle, error) {
	if end < start {
		return 0, ErrInvalidRange
	}
	total := e.totalBytes()
	start = clamp(start, 0, total)
	end = clamp(end, start, total)

	e.mu.Lock()
	defer e.mu.Unlock()

	startM := e.markers.Create(start, marker.Left)
	endM := e.markers.Create(end, marker.Right)

	e.nextID++
	id := e.nextID
	e.seq++
	e.overlays[id] = &Overlay{
		ID: id, Namespace: namespace, Face: face, Priority: priority,
		ExtendToLineEnd: extendToLineEnd, Message: message,
		start: startM, end: endM, seq: e.seq,
	}
	return id, nil
}

// Remove deletes one overlay and releases its markers. Removing an unknown
// handle is a no-op.
func (e *Engine) Remove(id Handle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.removeLocked(id)
}

func (e *Engine) removeLocked(id Handle) {
	o, ok := e.overlays[id]
	if !ok {
		return
	}
	e.markers.Release(o.start)
	e.markers.Release(o.end)
	delete(e.overlays, id)
}

// ClearNamespace removes every overlay tagged with namespace.
func (e *Engine) ClearNamespace(namespace string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for id, o := range e.overlays {
		if o.Namespace == namespace {
			e.removeLocked(id)
		}
	}
}

// Clear removes every overlay.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for id := range e.overlays {
		e.removeLocked(id)
	}
}

// RemoveInRange removes every overlay whose resolved range intersects r.
func (e *Engine) RemoveInRange(r Range) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for id, o := range e.overlays {
		if e.resolveLocked(o).Intersects(r) {
			e.removeLocked(id)
		}
	}
}

// Count returns the number of live overlays.
func (e *Engine) Count() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.overlays)
}

func (e *Engine) resolveLocked(o *Overlay) Range {
	start, _ := e.markers.Position(o.start)
	end, _ := e.markers.Position(o.end)
	return Range{Start: start, End: end}
}

// QueryViewport returns every overlay intersecting [start, end), in
// priority order (highest first), ties broken by insertion order. This is
// the one call the renderer makes per repaint rather than querying
// per-character.
func (e *Engine) QueryViewport(start, end int64) []Match {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var matches []Match
	want := Range{Start: start, End: end}
	for _, o := range e.overlays {
		r := e.resolveLocked(o)
		if r.Intersects(want) {
			matches = append(matches, Match{Overlay: *o, Range: r})
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Overlay.Priority != matches[j].Overlay.Priority {
			return matches[i].Overlay.Priority > matches[j].Overlay.Priority
		}
		return matches[i].Overlay.seq < matches[j].Overlay.seq
	})
	return matches
}

func clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
