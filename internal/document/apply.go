package document

import (
	"bytes"

	"github.com/inkglass/corepad/internal/bufstore"
	"github.com/inkglass/corepad/internal/history"
	"github.com/inkglass/corepad/internal/piecetree"
)

// InsertText inserts text at offset on behalf of cursorID (history.CursorID(0)
// for an edit with no originating cursor, e.g. a plugin or search/replace),
// recording an InsertEvent. It returns the offset immediately after the
// inserted text.
func (d *Document) InsertText(offset int64, text string, cursorID history.CursorID) (int64, error) {
	if text == "" {
		return offset, nil
	}
	d.mu.Lock()
	text = normalizeLineEndings(text, d.lineEnding)
	d.mu.Unlock()

	if err := d.rawInsert(offset, text, cursorID); err != nil {
		return 0, err
	}
	d.history.Append(history.InsertEvent{Position: offset, Text: text, CursorID: cursorID})
	return offset + int64(len(text)), nil
}

// DeleteRange removes [start, end) on behalf of cursorID, recording a
// DeleteEvent.
func (d *Document) DeleteRange(start, end int64, cursorID history.CursorID) error {
	if start > end {
		return ErrRangeInvalid
	}
	if start == end {
		return nil
	}
	deleted := string(d.Tree.Bytes(start, end))
	if err := d.rawDelete(start, end, cursorID); err != nil {
		return err
	}
	d.history.Append(history.DeleteEvent{
		Range:       history.Range{Start: start, End: end},
		DeletedText: deleted,
		CursorID:    cursorID,
	})
	return nil
}

// ReplaceRange deletes [start, end) and inserts text in its place as one
// undoable group, the single-replacement case of replace-all semantics.
func (d *Document) ReplaceRange(start, end int64, text string, cursorID history.CursorID) (int64, error) {
	scope := d.history.GroupScope("Replace")
	defer scope.End()

	if err := d.DeleteRange(start, end, cursorID); err != nil {
		return 0, err
	}
	return d.InsertText(start, text, cursorID)
}

// Replace implements internal/search.Applier, so ReplaceAll/ReplaceAllRegex
// can drive edits through the same event log every other mutation goes
// through.
func (d *Document) Replace(start, end int64, replacement string) error {
	_, err := d.ReplaceRange(start, end, replacement, 0)
	return err
}

// Apply implements internal/history.Applier: it materializes e against live
// document state without itself appending to the log, since Undo/Redo call
// this directly while walking the log's own cursor.
//
// AddOverlayEvent and RemoveOverlayEvent are accepted for interface
// completeness but are intentionally not round-tripped here: overlay.Engine
// allocates a fresh Handle on every Add, so replaying an AddOverlayEvent
// during redo cannot reproduce the original Handle a plugin or the
// highlighter may still be holding. Diagnostic/decoration overlays are not
// part of the user-facing undo/redo story in this implementation; only text
// edits are.
func (d *Document) Apply(e history.Event) error {
	switch v := e.(type) {
	case history.InsertEvent:
		return d.rawInsert(v.Position, v.Text, v.CursorID)
	case history.DeleteEvent:
		return d.rawDelete(v.Range.Start, v.Range.End, v.CursorID)
	case history.AddOverlayEvent, history.RemoveOverlayEvent:
		return nil
	default:
		return nil
	}
}

// appendTarget returns the backing buffer and offset text's bytes should
// be stored at, reusing the tail of the active Added buffer when possible
// (the classic piece-table optimization, per bufstore's doc comment)
// instead of allocating a new buffer for every single keystroke.
func (d *Document) appendTarget(text string) (bufstore.ID, int64) {
	if activeID, ok := d.store.ActiveAdded(); ok && d.store.CanAppend(activeID, d.activeAddedLen) {
		off, err := d.store.Append(activeID, text)
		if err == nil {
			d.activeAddedLen += int64(len(text))
			return activeID, off
		}
	}
	id := d.store.NewAdded(text)
	d.activeAddedLen = int64(len(text))
	return id, 0
}

// rawInsert performs the piece tree mutation, marker shift, cursor shift
// and highlighter invalidation for an insertion, without touching the
// event log. text must already be line-ending normalized.
func (d *Document) rawInsert(offset int64, text string, cursorID history.CursorID) error {
	total := d.Tree.TotalBytes()
	if offset < 0 || offset > total {
		return ErrOffsetOutOfRange
	}

	bufID, bufOff := d.appendTarget(text)
	piece := piecetree.Piece{
		Buffer:   bufID,
		Offset:   bufOff,
		Length:   int64(len(text)),
		Newlines: piecetree.Lines(bytes.Count([]byte(text), []byte("\n"))),
	}
	d.Tree.Insert(offset, piece)

	d.mu.Lock()
	d.revision++
	d.mu.Unlock()

	length := int64(len(text))
	d.markers.ShiftOnInsert(offset, length)
	newTotal := total + length
	shifted := shiftCursorsOnInsert(d.cursors.All(), offset, length, newTotal)
	d.cursors.ReplaceAll(shifted, d.cursors.PrimaryIndex())
	if cursorID != 0 {
		d.repositionCursor(cursorID, offset+length, newTotal)
	}

	if d.highlight != nil {
		line, _ := d.Tree.OffsetToPosition(offset)
		d.highlight.InvalidateFrom(line)
	}
	return nil
}

// rawDelete performs the piece tree mutation, marker shift, cursor shift
// and highlighter invalidation for a deletion, without touching the event
// log.
func (d *Document) rawDelete(start, end int64, cursorID history.CursorID) error {
	total := d.Tree.TotalBytes()
	if start < 0 || start > end || end > total {
		return ErrRangeInvalid
	}
	if start == end {
		return nil
	}

	length := end - start
	d.Tree.Delete(start, length)
	d.store.InvalidateActiveAdded()
	d.activeAddedLen = 0

	d.mu.Lock()
	d.revision++
	d.mu.Unlock()

	d.markers.ShiftOnDelete(start, length)
	newTotal := total - length
	shifted := shiftCursorsOnDelete(d.cursors.All(), start, length, newTotal)
	d.cursors.ReplaceAll(shifted, d.cursors.PrimaryIndex())
	if cursorID != 0 {
		d.repositionCursor(cursorID, start, newTotal)
	}

	if d.highlight != nil {
		line, _ := d.Tree.OffsetToPosition(start)
		d.highlight.InvalidateFrom(line)
	}
	return nil
}

// repositionCursor snaps the cursor identified by cursorID (1-indexed,
// matching CursorIDFor) to pos exactly, collapsing any selection. It is a
// no-op if the index is out of range, which happens when a cursor named in
// a historical event has since been removed.
func (d *Document) repositionCursor(cursorID history.CursorID, pos, total int64) {
	idx := int(cursorID) - 1
	all := d.cursors.All()
	if idx < 0 || idx >= len(all) {
		return
	}
	all[idx] = all[idx].MoveTo(pos, total).ClearSelection()
	d.cursors.ReplaceAll(all, d.cursors.PrimaryIndex())
}

// CursorIDFor returns the history.CursorID that identifies the cursor at
// index in Cursors().All(), for callers building edit events on behalf of
// a specific cursor (e.g. typing at a multi-cursor position).
func CursorIDFor(index int) history.CursorID { return history.CursorID(index + 1) }
