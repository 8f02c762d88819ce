package history

import (
	"errors"
	"sync"
)

// Errors returned by Log operations.
var (
	ErrNothingToUndo = errors.New("history: nothing to undo")
	ErrNothingToRedo = errors.New("history: nothing to redo")
)

// Applier materializes an event against live document state. The package
// that owns the piece tree, marker list and overlays implements this; Log
// itself never touches document state directly.
type Applier interface {
	Apply(Event) error
}

const unsetSavedAt = -1

// Log is a document's append-only edit event log: events[:cursor] are
// applied, events[cursor:] are redoable. Appending past the cursor
// truncates the redo tail first, per spec.
type Log struct {
	mu     sync.Mutex
	events []Event
	cursor int

	savedAt int // cursor value at the last MarkSaved, or unsetSavedAt

	groupDepth int
	maxEvents  int
}

// NewLog creates an empty log. maxEvents bounds the number of retained
// events; non-positive means unbounded.
func NewLog(maxEvents int) *Log {
	return &Log{maxEvents: maxEvents, savedAt: 0}
}

// Append records e as the next applied event, truncating any redo tail
// first.
func (l *Log) Append(e Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cursor < len(l.events) {
		l.events = l.events[:l.cursor]
		if l.savedAt != unsetSavedAt && l.savedAt > l.cursor {
			// The clean point was in the discarded redo tail: it can never
			// be reached again.
			l.savedAt = unsetSavedAt
		}
	}

	l.events = append(l.events, e)
	l.cursor++
	l.trimLocked()
}

func (l *Log) trimLocked() {
	if l.maxEvents <= 0 || len(l.events) <= l.maxEvents {
		return
	}
	excess := len(l.events) - l.maxEvents
	l.events = l.events[excess:]
	l.cursor -= excess
	if l.savedAt != unsetSavedAt {
		l.savedAt -= excess
		if l.savedAt < 0 {
			l.savedAt = unsetSavedAt
		}
	}
}

// BeginGroup opens an atomic undo/redo region; every Append until the
// matching EndGroup undoes or redoes as a single step. Nested calls are
// flattened into the outermost group.
func (l *Log) BeginGroup(name string) {
	l.mu.Lock()
	l.groupDepth++
	l.mu.Unlock()
	l.Append(GroupBeginEvent{Name: name})
}

// EndGroup closes the most recently opened group.
func (l *Log) EndGroup() {
	l.mu.Lock()
	if l.groupDepth > 0 {
		l.groupDepth--
	}
	l.mu.Unlock()
	l.Append(GroupEndEvent{})
}

// IsGrouping reports whether a BeginGroup is currently open.
func (l *Log) IsGrouping() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.groupDepth > 0
}

// GroupScope is a defer-friendly wrapper around BeginGroup/EndGroup,
// mirroring the common "open a scope, always close it" shape.
type GroupScope struct {
	log    *Log
	active bool
}

// GroupScope starts a new group, returning a handle whose End must be
// called (typically via defer) to close it.
func (l *Log) GroupScope(name string) *GroupScope {
	l.BeginGroup(name)
	return &GroupScope{log: l, active: true}
}

// End closes the scope's group. Safe to call more than once.
func (g *GroupScope) End() {
	if g.active {
		g.log.EndGroup()
		g.active = false
	}
}

// CanUndo reports whether any applied event remains to undo.
func (l *Log) CanUndo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cursor > 0
}

// CanRedo reports whether any undone event remains to redo.
func (l *Log) CanRedo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cursor < len(l.events)
}

// Undo steps the cursor back by one semantic edit — a single event, or, if
// it closes with a GroupEndEvent, every event back through its matching
// GroupBeginEvent — applying each event's inverse through applier in
// reverse order.
func (l *Log) Undo(applier Applier) error {
	l.mu.Lock()
	if l.cursor == 0 {
		l.mu.Unlock()
		return ErrNothingToUndo
	}
	start := l.undoSpanStartLocked()
	span := append([]Event(nil), l.events[start:l.cursor]...)
	l.cursor = start
	l.mu.Unlock()

	for i := len(span) - 1; i >= 0; i-- {
		if isGroupMarker(span[i]) {
			continue
		}
		if err := applier.Apply(Invert(span[i])); err != nil {
			return err
		}
	}
	return nil
}

// undoSpanStartLocked returns the index of the first event in the span that
// must undo atomically with the event immediately before the cursor.
func (l *Log) undoSpanStartLocked() int {
	i := l.cursor - 1
	if _, ok := l.events[i].(GroupEndEvent); !ok {
		return i
	}
	depth := 1
	for i--; i >= 0; i-- {
		switch l.events[i].(type) {
		case GroupEndEvent:
			depth++
		case GroupBeginEvent:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return 0
}

// Redo steps the cursor forward by one semantic edit — a single event, or,
// if it opens with a GroupBeginEvent, every event forward through its
// matching GroupEndEvent — replaying each event through applier in order.
func (l *Log) Redo(applier Applier) error {
	l.mu.Lock()
	if l.cursor >= len(l.events) {
		l.mu.Unlock()
		return ErrNothingToRedo
	}
	end := l.redoSpanEndLocked()
	span := append([]Event(nil), l.events[l.cursor:end]...)
	l.cursor = end
	l.mu.Unlock()

	for _, e := range span {
		if isGroupMarker(e) {
			continue
		}
		if err := applier.Apply(e); err != nil {
			return err
		}
	}
	return nil
}

func (l *Log) redoSpanEndLocked() int {
	i := l.cursor
	if _, ok := l.events[i].(GroupBeginEvent); !ok {
		return i + 1
	}
	depth := 1
	for i++; i < len(l.events); i++ {
		switch l.events[i].(type) {
		case GroupBeginEvent:
			depth++
		case GroupEndEvent:
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(l.events)
}

func isGroupMarker(e Event) bool {
	switch e.(type) {
	case GroupBeginEvent, GroupEndEvent:
		return true
	default:
		return false
	}
}

// MarkSaved records the log's current position as the clean point.
func (l *Log) MarkSaved() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.savedAt = l.cursor
}

// Modified reports whether the log's cursor has moved away from the last
// MarkSaved position (or no save point has ever been reachable).
func (l *Log) Modified() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.savedAt == unsetSavedAt || l.savedAt != l.cursor
}

// Len returns the total number of recorded events, applied and redoable.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

// Cursor returns the number of currently-applied events.
func (l *Log) Cursor() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cursor
}

// Events returns a copy of every recorded event, applied and redoable, in
// log order. Intended for inspection and tests.
func (l *Log) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}
