package main

import (
	"errors"

	"github.com/inkglass/corepad/internal/app"
	"github.com/inkglass/corepad/internal/document"
	"github.com/inkglass/corepad/internal/margin"
	"github.com/inkglass/corepad/internal/term"
	"github.com/inkglass/corepad/internal/term/backend"
	"github.com/inkglass/corepad/internal/viewport"
)

// errQuit signals a normal, user-requested exit from loop.
var errQuit = errors.New("main: quit")

// editor owns the single active view this minimal front end renders: the
// rest of the module (splits, plugin-driven overlays, LSP-backed
// highlights) is exercised through Application and Session; this type
// exists only to turn terminal events into edits and cursor moves on the
// active view's document and turn a Session's active view into terminal
// cells each frame.
type editor struct {
	app      *app.Application
	terminal *backend.Terminal
	gutter   *margin.Gutter
	view     *app.View
	quitCh   chan struct{}
}

func newEditor(a *app.Application, t *backend.Terminal) *editor {
	e := &editor{
		app:      a,
		terminal: t,
		gutter:   margin.New(margin.DefaultConfig()),
		quitCh:   make(chan struct{}),
	}
	width, height := t.Size()
	if buf, _, ok := a.Session().Active(); ok {
		e.view, _ = a.Session().OpenView(buf, width, height-1)
	}
	return e
}

func (e *editor) quit() {
	select {
	case <-e.quitCh:
	default:
		close(e.quitCh)
	}
}

// loop polls terminal events, applies them against the active buffer
// through the Session, and redraws until quit() is called.
func (e *editor) loop() error {
	e.render()
	events := make(chan term.Event)
	go func() {
		for {
			ev, ok := e.terminal.PollEvent()
			if !ok {
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case <-e.quitCh:
			return errQuit
		case ev := <-events:
			if e.handle(ev) {
				return errQuit
			}
			e.render()
		}
	}
}

func (e *editor) handle(ev term.Event) (shouldQuit bool) {
	switch ev.Type {
	case term.EventResize:
		if e.view != nil {
			e.view.Viewport.Resize(ev.Width-e.gutter.Width(), ev.Height-1)
		}
		return false
	case term.EventKey:
		return e.handleKey(ev)
	default:
		return false
	}
}

func (e *editor) handleKey(ev term.Event) (shouldQuit bool) {
	buf, d, ok := e.app.Session().Active()
	if !ok {
		return false
	}
	primary := d.Cursors().Primary()
	sess := e.app.Session()

	switch {
	case ev.Mod&term.ModCtrl != 0 && (ev.Rune == 'q' || ev.Rune == 'c'):
		return true
	case ev.Key == term.KeyEscape:
		return true
	case ev.Key == term.KeyRune:
		if pos, err := d.InsertText(primary.Position, string(ev.Rune), 0); err == nil {
			sess.MoveCursorEverywhere(buf, pos)
		}
	case ev.Key == term.KeyEnter:
		if pos, err := d.InsertText(primary.Position, d.LineEnding().Sequence(), 0); err == nil {
			sess.MoveCursorEverywhere(buf, pos)
		}
	case ev.Key == term.KeyTab:
		if pos, err := d.InsertText(primary.Position, "\t", 0); err == nil {
			sess.MoveCursorEverywhere(buf, pos)
		}
	case ev.Key == term.KeyBackspace:
		if primary.Position > 0 {
			start := primary.Position - 1
			if err := d.DeleteRange(start, primary.Position, 0); err == nil {
				sess.MoveCursorEverywhere(buf, start)
			}
		}
	case ev.Key == term.KeyDelete:
		if err := d.DeleteRange(primary.Position, primary.Position+1, 0); err == nil {
			sess.MoveCursorEverywhere(buf, primary.Position)
		}
	case ev.Key == term.KeyLeft:
		sess.MoveCursorEverywhere(buf, primary.Position-1)
	case ev.Key == term.KeyRight:
		sess.MoveCursorEverywhere(buf, primary.Position+1)
	case ev.Key == term.KeyUp:
		line, col := d.OffsetToPosition(primary.Position)
		if line > 0 {
			sess.MoveCursorEverywhere(buf, d.PositionToOffset(line-1, col))
		}
	case ev.Key == term.KeyDown:
		line, col := d.OffsetToPosition(primary.Position)
		sess.MoveCursorEverywhere(buf, d.PositionToOffset(line+1, col))
	}
	return false
}

func (e *editor) render() {
	if e.view == nil {
		return
	}
	buf, d, ok := e.app.Session().Active()
	if !ok || buf != e.view.Buffer {
		return
	}

	width, height := e.terminal.Size()
	gutterWidth := e.gutter.Width()
	e.view.Viewport.Resize(width-gutterWidth, height-1)
	lineCount, _ := d.LineCount()
	e.gutter.SetLineCount(lineCount)

	result := viewport.Render(e.view.Viewport, d, viewport.Options{
		Wrap:        false,
		TabWidth:    d.TabWidth(),
		Overlays:    d.Overlays(),
		VText:       d.VirtualText(),
		Cursors:     d.Cursors(),
		ActiveSplit: true,
	})

	grid := term.NewGrid(width, height)
	for row, line := range result.Lines {
		if row >= height-1 {
			break
		}
		for col, cell := range line.Cells {
			if col >= width-gutterWidth {
				break
			}
			grid.Set(row, gutterWidth+col, cell.Cell)
		}
		e.gutter.SetCurrentLine(line.SourceLine)
		for col, gc := range e.gutter.RenderLine(line.SourceLine, true, nil) {
			grid.Set(row, col, term.Cell{Rune: gc.Rune, Width: 1, Style: gutterStyle(gc.Style)})
		}
	}
	drawStatusLine(grid, height-1, d, e.app)

	e.terminal.Render(grid)
	if result.CursorRow >= 0 {
		e.terminal.SetCursor(result.CursorRow, gutterWidth+result.CursorCol)
	} else {
		e.terminal.HideCursor()
	}
}

func gutterStyle(s margin.CellStyle) term.Style {
	switch s {
	case margin.StyleCurrentLine:
		return term.Style{Attributes: term.AttrBold}
	case margin.StyleError:
		return term.Style{Foreground: term.RGB(220, 80, 80)}
	case margin.StyleWarning:
		return term.Style{Foreground: term.RGB(220, 180, 60)}
	case margin.StyleInfo:
		return term.Style{Foreground: term.RGB(90, 150, 220)}
	default:
		return term.Style{Foreground: term.DefaultColor}
	}
}

func drawStatusLine(grid *term.Grid, row int, d *document.Document, a *app.Application) {
	status := a.DocumentAPI().Status()
	if status == "" {
		status = d.Path()
	}
	for col, r := range []rune(status) {
		if col >= grid.Width {
			break
		}
		grid.Set(row, col, term.Cell{Rune: r, Width: 1, Style: term.Style{Attributes: term.AttrReverse}})
	}
}
