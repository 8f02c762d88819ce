package plugin

import (
	"fmt"
	"sort"
	"sync"

	"github.com/inkglass/corepad/internal/document"
	"github.com/inkglass/corepad/internal/highlight"
	"github.com/inkglass/corepad/internal/margin"
	"github.com/inkglass/corepad/internal/overlay"
)

// BufferID identifies one of the editor's open documents from a plugin's
// point of view. The plugin package never owns the buffer table itself;
// it is handed one through a Buffers resolver so the same DocumentAPI
// works whether the host keeps one document or a dozen splits of several.
type BufferID int64

// Buffers resolves a BufferID to its live Document, or reports it unknown.
// Moving a cursor in every split showing a buffer is a layout concern the
// plugin package has no visibility into; Buffers need only resolve one
// Document per ID, and fanning a cursor move out across splits sharing
// that Document is app's job.
type Buffers func(id BufferID) (*document.Document, bool)

// Command is one plugin-registered action, installed by a RegisterCommand
// message.
type Command struct {
	Name        string
	Description string
	Action      string // plugin-internal action identifier, opaque to the host
	Contexts    []string
}

// CommandRegistry holds commands plugins have registered, grounded on the
// same register/unregister-by-name shape internal/dispatcher uses for
// action handlers.
type CommandRegistry struct {
	mu       sync.RWMutex
	commands map[string]Command
}

// NewCommandRegistry returns an empty registry.
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{commands: make(map[string]Command)}
}

// Register adds or replaces a command by name.
func (r *CommandRegistry) Register(c Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[c.Name] = c
}

// Unregister removes a command by name. Unregistering an unknown name is a
// no-op: a malformed plugin request is dropped, never crashes the core.
func (r *CommandRegistry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.commands, name)
}

// Get returns the command registered under name.
func (r *CommandRegistry) Get(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.commands[name]
	return c, ok
}

// All returns every registered command, sorted by name for deterministic
// listing (e.g. a command palette).
func (r *CommandRegistry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Command, 0, len(r.commands))
	for _, c := range r.commands {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// HighlightSpan is one entry of a RequestHighlights reply.
type HighlightSpan struct {
	Line     int64
	StartCol uint32
	EndCol   uint32
	Style    highlight.Style
}

// DocumentAPI implements the inbound plugin message table: every method
// validates and clamps its arguments against the target document's
// current bounds before touching an owned subsystem, since the plugin
// host is untrusted with respect to timing. A method operating on an
// unknown BufferID or a malformed argument returns an error describing
// why, which the caller is expected to report back as a trace entry
// rather than propagate as a crash.
type DocumentAPI struct {
	buffers  Buffers
	commands *CommandRegistry
	status   string
	mu       sync.Mutex
}

// NewDocumentAPI returns a DocumentAPI resolving buffers through resolve.
func NewDocumentAPI(resolve Buffers, commands *CommandRegistry) *DocumentAPI {
	return &DocumentAPI{buffers: resolve, commands: commands}
}

func (a *DocumentAPI) doc(id BufferID) (*document.Document, error) {
	d, ok := a.buffers(id)
	if !ok {
		return nil, fmt.Errorf("plugin: unknown buffer %d", id)
	}
	return d, nil
}

// clampRange clamps [start, end) to [0, total] and swaps inverted bounds:
// out-of-range input is clamped silently and proceeds rather than erroring.
func clampRange(start, end, total int64) (int64, int64) {
	if start > end {
		start, end = end, start
	}
	if start < 0 {
		start = 0
	}
	if end > total {
		end = total
	}
	if start > total {
		start = total
	}
	if end < start {
		end = start
	}
	return start, end
}

// AddOverlay implements the AddOverlay message.
func (a *DocumentAPI) AddOverlay(buf BufferID, namespace string, start, end int64, face overlay.Face, priority overlay.Priority, extendToLineEnd bool, message string) (overlay.Handle, error) {
	d, err := a.doc(buf)
	if err != nil {
		return 0, err
	}
	start, end = clampRange(start, end, d.TotalBytes())
	return d.Overlays().Add(namespace, start, end, face, priority, message, extendToLineEnd)
}

// RemoveOverlay implements the RemoveOverlay message.
func (a *DocumentAPI) RemoveOverlay(buf BufferID, handle overlay.Handle) error {
	d, err := a.doc(buf)
	if err != nil {
		return err
	}
	d.Overlays().Remove(handle)
	return nil
}

// ClearNamespace implements the ClearNamespace message.
func (a *DocumentAPI) ClearNamespace(buf BufferID, namespace string) error {
	d, err := a.doc(buf)
	if err != nil {
		return err
	}
	d.Overlays().ClearNamespace(namespace)
	return nil
}

// ClearOverlays implements the ClearOverlays message.
func (a *DocumentAPI) ClearOverlays(buf BufferID) error {
	d, err := a.doc(buf)
	if err != nil {
		return err
	}
	d.Overlays().Clear()
	return nil
}

// ClearOverlaysInRange implements the ClearOverlaysInRange message.
func (a *DocumentAPI) ClearOverlaysInRange(buf BufferID, start, end int64) error {
	d, err := a.doc(buf)
	if err != nil {
		return err
	}
	start, end = clampRange(start, end, d.TotalBytes())
	d.Overlays().RemoveInRange(overlay.Range{Start: start, End: end})
	return nil
}

// AddVirtualText implements the AddVirtualText message. It is idempotent
// by id: VirtualTextEngine.Add already replaces any existing item sharing
// a non-empty ID.
func (a *DocumentAPI) AddVirtualText(buf BufferID, id string, position overlay.VTPosition, text string, face overlay.Face, offset int64) error {
	d, err := a.doc(buf)
	if err != nil {
		return err
	}
	total := d.TotalBytes()
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	d.VirtualText().Add(overlay.VirtualText{
		ID:       id,
		Position: position,
		Text:     text,
		Face:     face,
	}, offset)
	return nil
}

// lineIndicatorKinds maps the plugin-facing symbol name from a
// SetLineIndicator message to the closed margin.Kind enum the gutter
// renders. Unknown names fall back to KindInfo rather than rejecting the
// message outright.
var lineIndicatorKinds = map[string]margin.Kind{
	"error":                  margin.KindError,
	"warning":                margin.KindWarning,
	"info":                   margin.KindInfo,
	"breakpoint":             margin.KindBreakpoint,
	"breakpointConditional":  margin.KindBreakpointConditional,
	"bookmark":               margin.KindBookmark,
	"gitAdded":               margin.KindGitAdded,
	"gitModified":            margin.KindGitModified,
	"gitDeleted":             margin.KindGitDeleted,
}

// SetLineIndicator implements the SetLineIndicator message. The message
// table's color/priority fields have no home in margin.Indicator's
// Kind-only model (the gutter picks a fixed glyph and style per Kind, see
// margin/gutter.go's indicatorGlyph); symbol selects the closed Kind set
// instead of a literal glyph.
func (a *DocumentAPI) SetLineIndicator(buf BufferID, line int64, namespace, symbol string) (margin.Handle, error) {
	d, err := a.doc(buf)
	if err != nil {
		return 0, err
	}
	if line < 0 {
		line = 0
	}
	kind, ok := lineIndicatorKinds[symbol]
	if !ok {
		kind = margin.KindInfo
	}
	lineStart := d.LineStartOffset(line)
	return d.Indicators().Add(namespace, lineStart, kind), nil
}

// ClearLineIndicators implements the ClearLineIndicators message.
func (a *DocumentAPI) ClearLineIndicators(buf BufferID, namespace string) error {
	d, err := a.doc(buf)
	if err != nil {
		return err
	}
	d.Indicators().RemoveNamespace(namespace)
	return nil
}

// InsertText implements the InsertText message: applied as if a user
// edit, appended to the event log, with no originating cursor.
func (a *DocumentAPI) InsertText(buf BufferID, position int64, text string) error {
	d, err := a.doc(buf)
	if err != nil {
		return err
	}
	total := d.TotalBytes()
	if position < 0 {
		position = 0
	}
	if position > total {
		position = total
	}
	_, err = d.InsertText(position, text, 0)
	return err
}

// DeleteRange implements the DeleteRange message.
func (a *DocumentAPI) DeleteRange(buf BufferID, start, end int64) error {
	d, err := a.doc(buf)
	if err != nil {
		return err
	}
	start, end = clampRange(start, end, d.TotalBytes())
	return d.DeleteRange(start, end, 0)
}

// SetBufferCursor implements the SetBufferCursor message, moving the
// primary cursor of the resolved document. Fanning the move out to every
// split currently showing buf is app's responsibility (see Buffers).
func (a *DocumentAPI) SetBufferCursor(buf BufferID, position int64) error {
	d, err := a.doc(buf)
	if err != nil {
		return err
	}
	cursors := d.Cursors()
	moved := cursors.Primary().MoveTo(position, d.TotalBytes()).ClearSelection()
	cursors.SetPrimary(moved)
	return nil
}

// RequestHighlights implements the RequestHighlights message, computing
// spans for every line the byte range touches via the highlight.Provider
// the caller passes; a nil provider yields no spans.
func (a *DocumentAPI) RequestHighlights(buf BufferID, start, end int64, highlighter *highlight.Provider) ([]HighlightSpan, error) {
	d, err := a.doc(buf)
	if err != nil {
		return nil, err
	}
	if highlighter == nil {
		return nil, nil
	}
	start, end = clampRange(start, end, d.TotalBytes())
	startLine, _ := d.OffsetToPosition(start)
	endLine, _ := d.OffsetToPosition(end)

	var spans []HighlightSpan
	for line := startLine; line <= endLine; line++ {
		for _, s := range highlighter.SpansForLine(line) {
			spans = append(spans, HighlightSpan{Line: line, StartCol: s.StartCol, EndCol: s.EndCol, Style: s.Style})
		}
	}
	return spans, nil
}

// SetStatus implements the SetStatus message: an auxiliary status string
// surfaced by the host, independent of any one buffer.
func (a *DocumentAPI) SetStatus(message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.status = message
}

// Status returns the last message set via SetStatus.
func (a *DocumentAPI) Status() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// RegisterCommand implements the RegisterCommand message.
func (a *DocumentAPI) RegisterCommand(c Command) {
	a.commands.Register(c)
}

// UnregisterCommand implements the Unregister message.
func (a *DocumentAPI) UnregisterCommand(name string) {
	a.commands.Unregister(name)
}
