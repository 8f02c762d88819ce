package history

// CursorID identifies the cursor that caused an edit, so the applier can
// restore the right cursor's position on undo/redo. It is opaque to this
// package.
type CursorID uint32

// Range is a half-open byte range [Start, End).
type Range struct {
	Start, End int64
}

// IsEmpty reports whether the range spans zero bytes.
func (r Range) IsEmpty() bool { return r.Start == r.End }

// Event is one semantic edit recorded in a Log. Every concrete event type
// in this package implements it.
type Event interface {
	isEvent()
}

// InsertEvent records text inserted at Position.
type InsertEvent struct {
	Position int64
	Text     string
	CursorID CursorID
}

// DeleteEvent records text removed from Range.
type DeleteEvent struct {
	Range       Range
	DeletedText string
	CursorID    CursorID
}

// AddOverlayEvent records an overlay (or virtual text) created with Handle.
// Spec is an opaque snapshot of the overlay's definition, owned by the
// overlay package, carried here only so RemoveOverlayEvent's inverse can
// restore it.
type AddOverlayEvent struct {
	Handle uint64
	Spec   any
}

// RemoveOverlayEvent records an overlay removed by Handle. Spec must be a
// snapshot of the overlay as it existed immediately before removal, so that
// inverting this event reproduces AddOverlayEvent exactly.
type RemoveOverlayEvent struct {
	Handle uint64
	Spec   any
}

// GroupBeginEvent opens an atomic undo/redo region.
type GroupBeginEvent struct {
	Name string
}

// GroupEndEvent closes the most recently opened atomic undo/redo region.
type GroupEndEvent struct{}

func (InsertEvent) isEvent()        {}
func (DeleteEvent) isEvent()        {}
func (AddOverlayEvent) isEvent()    {}
func (RemoveOverlayEvent) isEvent() {}
func (GroupBeginEvent) isEvent()    {}
func (GroupEndEvent) isEvent()      {}

// Invert returns the event that undoes e. Group brackets have no inverse
// content of their own — a Log never calls Invert on one, since they are
// structural markers consumed by span-walking rather than applied.
func Invert(e Event) Event {
	switch v := e.(type) {
	case InsertEvent:
		end := v.Position + int64(len(v.Text))
		return DeleteEvent{Range: Range{Start: v.Position, End: end}, DeletedText: v.Text, CursorID: v.CursorID}
	case DeleteEvent:
		return InsertEvent{Position: v.Range.Start, Text: v.DeletedText, CursorID: v.CursorID}
	case AddOverlayEvent:
		return RemoveOverlayEvent{Handle: v.Handle, Spec: v.Spec}
	case RemoveOverlayEvent:
		return AddOverlayEvent{Handle: v.Handle, Spec: v.Spec}
	default:
		return e
	}
}

// IsInsert reports whether e is a pure insertion.
func (e InsertEvent) IsInsert() bool { return len(e.Text) > 0 }

// BytesDelta returns the change in document length caused by e.
func (e InsertEvent) BytesDelta() int { return len(e.Text) }

// BytesDelta returns the change in document length caused by e.
func (e DeleteEvent) BytesDelta() int { return -len(e.DeletedText) }
