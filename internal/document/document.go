package document

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/inkglass/corepad/internal/bufstore"
	"github.com/inkglass/corepad/internal/cursor"
	"github.com/inkglass/corepad/internal/highlight"
	"github.com/inkglass/corepad/internal/history"
	"github.com/inkglass/corepad/internal/margin"
	"github.com/inkglass/corepad/internal/marker"
	"github.com/inkglass/corepad/internal/overlay"
	"github.com/inkglass/corepad/internal/piecetree"
)

// Errors returned by Document operations.
var (
	ErrOffsetOutOfRange = errors.New("document: offset out of range")
	ErrRangeInvalid     = errors.New("document: invalid range")
)

// maxHistoryEvents bounds the edit event log to keep memory use for a
// single document session predictable.
const maxHistoryEvents = 10_000

// Document exclusively owns one piece tree, one backing buffer store, one
// marker list, one overlay set (ranged overlays plus virtual text), one
// margin indicator list, one edit event log, and one cursor set.
//
// Embedding *piecetree.Tree promotes TotalBytes, LineCount,
// LineStartOffset, LineEndOffset, Bytes, ByteAt, OffsetToPosition and
// PositionToOffset directly onto Document, which is what lets Document
// satisfy internal/viewport.TextSource, internal/cursor.TextSource and
// internal/search.TextSource without restating their method sets.
type Document struct {
	*piecetree.Tree

	mu sync.RWMutex

	store      *bufstore.Store
	markers    *marker.List
	overlays   *overlay.Engine
	vtext      *overlay.VirtualTextEngine
	indicators *margin.List
	history    *history.Log
	cursors    *cursor.Set
	highlight  *highlight.Provider

	path       string
	encoding   Encoding
	lineEnding LineEnding
	tabWidth   int
	modTime    time.Time

	activeAddedLen int64
	revision       int64
}

// New creates an empty, unsaved document.
func New() *Document {
	store := bufstore.NewStore()
	tree := piecetree.New(store)
	markers := marker.New()
	totalBytes := func() int64 { return tree.TotalBytes() }
	return &Document{
		Tree:       tree,
		store:      store,
		markers:    markers,
		overlays:   overlay.New(markers, totalBytes),
		vtext:      overlay.NewVirtualTextEngine(markers),
		indicators: margin.New(markers),
		history:    history.NewLog(maxHistoryEvents),
		cursors:    cursor.NewSet(0),
		lineEnding: LineEndingLF,
		tabWidth:   8,
		encoding:   EncodingUTF8,
	}
}

// NewFromString creates a document seeded with text, for tests and
// programmatic buffers (e.g. a plugin's scratch document).
func NewFromString(text string) *Document {
	d := New()
	d.lineEnding = DetectLineEnding(text)
	text = normalizeLineEndings(text, d.lineEnding)
	if text != "" {
		id := d.store.NewStored([]byte(text))
		d.Tree.Insert(0, piecetree.Piece{
			Buffer: id, Offset: 0, Length: int64(len(text)),
			Newlines: piecetree.Lines(bytes.Count([]byte(text), []byte("\n"))),
		})
	}
	return d
}

// Open reads path from disk, detecting its byte-order mark (falling back
// to enc when none is present) and line ending, and returns a Document
// positioned at the start of the file.
func Open(path string, enc Encoding) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("document: open %s: %w", path, err)
	}
	detected := DetectEncoding(raw)
	if detected != EncodingUTF8 {
		enc = detected
	}
	text, err := decodeToUTF8(raw, enc)
	if err != nil {
		return nil, err
	}
	d := NewFromString(text)
	d.path = path
	d.encoding = enc
	if info, err := os.Stat(path); err == nil {
		d.modTime = info.ModTime()
	}
	d.history.MarkSaved()
	return d, nil
}

// Save transcodes the document's current text to its configured encoding
// and line ending and writes it to path (or the document's open path if
// path is empty).
func (d *Document) Save(path string) error {
	d.mu.Lock()
	if path == "" {
		path = d.path
	}
	enc, le := d.encoding, d.lineEnding
	d.mu.Unlock()

	if path == "" {
		return errors.New("document: no path to save to")
	}

	text := string(d.Tree.Bytes(0, d.Tree.TotalBytes()))
	text = normalizeLineEndings(text, le)
	raw, err := encodeFromUTF8(text, enc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("document: save %s: %w", path, err)
	}

	d.mu.Lock()
	d.path = path
	if info, err := os.Stat(path); err == nil {
		d.modTime = info.ModTime()
	}
	d.mu.Unlock()
	d.history.MarkSaved()
	return nil
}

// ExternallyModified reports whether the file at the document's path has a
// newer modification time than the one recorded at the last load or save,
// meaning another process touched it since.
func (d *Document) ExternallyModified() (bool, error) {
	d.mu.RLock()
	path, known := d.path, d.modTime
	d.mu.RUnlock()
	if path == "" {
		return false, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.ModTime().After(known), nil
}

// Path returns the document's current file path, or "" for an unsaved
// buffer.
func (d *Document) Path() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.path
}

// Encoding returns the document's on-disk text encoding.
func (d *Document) Encoding() Encoding {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.encoding
}

// SetEncoding changes the encoding Save transcodes to. It does not
// retranscode already-loaded text.
func (d *Document) SetEncoding(enc Encoding) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.encoding = enc
}

// LineEnding returns the document's normalized line ending style.
func (d *Document) LineEnding() LineEnding {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lineEnding
}

// SetLineEnding changes the line ending style future edits are normalized
// to. It does not rewrite already-inserted text.
func (d *Document) SetLineEnding(le LineEnding) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lineEnding = le
}

// TabWidth returns the document's tab width, used by the viewport when
// expanding tabs for display.
func (d *Document) TabWidth() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.tabWidth
}

// SetTabWidth changes the document's tab width.
func (d *Document) SetTabWidth(width int) {
	if width <= 0 {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tabWidth = width
}

// Modified reports whether the document has unsaved changes.
func (d *Document) Modified() bool { return d.history.Modified() }

// Revision returns a counter incremented on every text mutation (including
// undo/redo replays), for correlating external requests (see
// internal/lspcoord.Tracker) against the document state they were issued
// against.
func (d *Document) Revision() int64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.revision
}

// Markers returns the document's shared marker list, the anchoring
// substrate for overlays, virtual text and margin indicators.
func (d *Document) Markers() *marker.List { return d.markers }

// Overlays returns the document's ranged-decoration engine.
func (d *Document) Overlays() *overlay.Engine { return d.overlays }

// VirtualText returns the document's virtual-text engine.
func (d *Document) VirtualText() *overlay.VirtualTextEngine { return d.vtext }

// Indicators returns the document's margin indicator list.
func (d *Document) Indicators() *margin.List { return d.indicators }

// History returns the document's edit event log.
func (d *Document) History() *history.Log { return d.history }

// Cursors returns the document's cursor set.
func (d *Document) Cursors() *cursor.Set { return d.cursors }

// SetHighlighter installs the highlight provider Document keeps line
// tokenization in sync with, wiring its SetLineSource callback to the
// piece tree so InvalidateFrom-driven retokenization can read line text.
func (d *Document) SetHighlighter(p *highlight.Provider) {
	d.highlight = p
	if p != nil {
		p.SetLineSource(d.LineText)
	}
}

// LineText returns the text of line (without its terminator), or
// ok=false if line is past the end of the document.
func (d *Document) LineText(line int64) (string, bool) {
	count, ok := d.Tree.LineCount()
	if ok && line >= count {
		return "", false
	}
	start := d.Tree.LineStartOffset(line)
	end := d.Tree.LineEndOffset(line)
	return string(d.Tree.Bytes(start, end)), true
}
