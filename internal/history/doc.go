// Package history is a document's append-only edit event log: the
// substrate for undo/redo, atomic multi-location edits (rename), and the
// modified flag.
//
// # Events
//
// An Event is one of InsertEvent, DeleteEvent, AddOverlayEvent,
// RemoveOverlayEvent, or the GroupBeginEvent/GroupEndEvent pair that
// brackets a run of events to be undone or redone as one step. Unlike a
// Command object with its own Undo method, each event carries enough state
// to compute its own inverse — Invert(e) — so the log itself knows how to
// walk backward without any type switch living outside this package.
//
// # Log
//
//	log := history.NewLog(1000)
//	log.Append(history.InsertEvent{Position: 0, Text: "hi"})
//	log.Undo(applier)
//	log.Redo(applier)
//
// Undo/Redo never touch document state directly: they invert (or replay)
// events and hand them to an Applier, which is implemented by the package
// that actually owns the piece tree, marker list and overlays.
//
// # Grouping
//
//	defer log.GroupScope("Rename symbol").End()
//	// ... one Append per edit site ...
//
// A GroupBegin/GroupEnd bracket is undone or redone as a single step,
// regardless of how many events it contains — this is how a multi-location
// rename from an external collaborator undoes with one keystroke.
//
// # Modified flag
//
// MarkSaved records the log's current position as the clean point; Modified
// reports whether the cursor has since moved away from it. Undoing back to
// the exact saved position clears the flag again.
package history
