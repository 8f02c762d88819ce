package marker

import (
	"errors"
	"iter"
	"sort"
	"sync"
)

// Gravity determines a marker's behavior when an edit lands exactly at its
// offset.
type Gravity uint8

const (
	// Left markers stay put when text is inserted at their exact offset.
	Left Gravity = iota
	// Right markers shift past text inserted at their exact offset.
	Right
)

// Handle identifies a marker. The zero Handle is never issued.
type Handle uint32

// ErrReleased is returned by operations on a handle that was never issued
// or has already been released.
var ErrReleased = errors.New("marker: handle is not live")

type entry struct {
	offset  int64
	gravity Gravity
	alive   bool
}

// List is an arena of live markers over one document. It is safe for
// concurrent use, though the editor's single-threaded main task is the
// only expected caller.
type List struct {
	mu      sync.RWMutex
	entries []entry // index 0 unused; handles start at 1
	free    []Handle
}

// New creates an empty marker list.
func New() *List {
	return &List{entries: make([]entry, 1)}
}

// Create allocates a marker at offset with the given gravity and returns
// its handle. Released handles are recycled.
func (l *List) Create(offset int64, gravity Gravity) Handle {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := entry{offset: offset, gravity: gravity, alive: true}
	if n := len(l.free); n > 0 {
		h := l.free[n-1]
		l.free = l.free[:n-1]
		l.entries[h] = e
		return h
	}
	l.entries = append(l.entries, e)
	return Handle(len(l.entries) - 1)
}

// Release frees a marker's handle for reuse. Releasing an already-released
// or unknown handle is a no-op, matching the piece tree's never-panic
// failure style.
func (l *List) Release(h Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.liveLocked(h) {
		return
	}
	l.entries[h] = entry{}
	l.free = append(l.free, h)
}

// Position returns a marker's current byte offset.
func (l *List) Position(h Handle) (int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.liveLocked(h) {
		return 0, ErrReleased
	}
	return l.entries[h].offset, nil
}

func (l *List) liveLocked(h Handle) bool {
	return h != 0 && int(h) < len(l.entries) && l.entries[h].alive
}

// ShiftOnInsert adjusts every marker for an insertion of length bytes at
// offset at. A marker exactly at at shifts only if it has Right gravity;
// markers strictly after at always shift; markers before at are untouched.
func (l *List) ShiftOnInsert(at, length int64) {
	if length == 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.entries {
		e := &l.entries[i]
		if !e.alive {
			continue
		}
		switch {
		case e.offset > at:
			e.offset += length
		case e.offset == at && e.gravity == Right:
			e.offset += length
		}
	}
}

// ShiftOnDelete adjusts every marker for a deletion of length bytes
// starting at offset at. Markers inside [at, at+length) collapse to at;
// markers at or after the end of the range shift left by length; markers
// before at are untouched.
func (l *List) ShiftOnDelete(at, length int64) {
	if length == 0 {
		return
	}
	end := at + length
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.entries {
		e := &l.entries[i]
		if !e.alive {
			continue
		}
		switch {
		case e.offset < at:
			// untouched
		case e.offset < end:
			e.offset = at
		default:
			e.offset -= length
		}
	}
}

// MarkersInRange yields every live marker whose offset falls in [start, end)
// in ascending offset order, breaking ties by handle for determinism.
func (l *List) MarkersInRange(start, end int64) iter.Seq2[Handle, int64] {
	l.mu.RLock()
	type pair struct {
		h Handle
		o int64
	}
	var found []pair
	for i, e := range l.entries {
		if e.alive && e.offset >= start && e.offset < end {
			found = append(found, pair{Handle(i), e.offset})
		}
	}
	l.mu.RUnlock()

	sort.Slice(found, func(i, j int) bool {
		if found[i].o != found[j].o {
			return found[i].o < found[j].o
		}
		return found[i].h < found[j].h
	})

	return func(yield func(Handle, int64) bool) {
		for _, p := range found {
			if !yield(p.h, p.o) {
				return
			}
		}
	}
}

// Count returns the number of currently live markers.
func (l *List) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	n := 0
	for _, e := range l.entries {
		if e.alive {
			n++
		}
	}
	return n
}
