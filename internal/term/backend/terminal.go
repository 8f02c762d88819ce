// Package backend adapts the term package's cell grid and event types to a
// real terminal via tcell.
package backend

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	_ "github.com/gdamore/encoding" // registers legacy terminfo charset tables tcell consults

	"github.com/inkglass/corepad/internal/term"
)

// Terminal drives a real terminal screen: it blits a term.Grid and
// translates tcell's input events into term.Event values.
type Terminal struct {
	screen tcell.Screen
}

// NewTerminal initializes the terminal into raw/alternate-screen mode and
// enables mouse and bracketed-paste reporting.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("backend: create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("backend: init screen: %w", err)
	}
	screen.EnableMouse()
	screen.EnablePaste()
	screen.Clear()
	return &Terminal{screen: screen}, nil
}

// Close restores the terminal to its original mode.
func (t *Terminal) Close() {
	t.screen.Fini()
}

// Size returns the terminal's current width and height in cells.
func (t *Terminal) Size() (width, height int) {
	return t.screen.Size()
}

// Render blits grid to the terminal and makes it visible. The caller is
// responsible for positioning the hardware cursor separately via SetCursor.
func (t *Terminal) Render(grid *term.Grid) {
	for row := 0; row < grid.Height; row++ {
		for col := 0; col < grid.Width; col++ {
			cell := grid.At(row, col)
			if cell.Width == 0 {
				continue // combining mark, already folded into the previous cell
			}
			t.screen.SetContent(col, row, cell.Rune, nil, toTcellStyle(cell.Style))
		}
	}
	t.screen.Show()
}

// SetCursor positions (and shows) the terminal's hardware cursor, used for
// the primary cursor in the active split per the viewport renderer's
// layering rule.
func (t *Terminal) SetCursor(row, col int) {
	t.screen.ShowCursor(col, row)
}

// HideCursor hides the hardware cursor, e.g. while no split is active.
func (t *Terminal) HideCursor() {
	t.screen.HideCursor()
}

// PollEvent blocks until the next input event and translates it into a
// term.Event. It returns ok=false once the underlying screen has been
// finalized (Close called concurrently).
func (t *Terminal) PollEvent() (term.Event, bool) {
	ev := t.screen.PollEvent()
	if ev == nil {
		return term.Event{}, false
	}
	return translateEvent(ev), true
}

func translateEvent(ev tcell.Event) term.Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return translateKey(e)
	case *tcell.EventMouse:
		return translateMouse(e)
	case *tcell.EventPaste:
		if e.Start() {
			return term.Event{Type: term.EventPasteStart}
		}
		return term.Event{Type: term.EventPasteEnd}
	case *tcell.EventResize:
		w, h := e.Size()
		return term.Event{Type: term.EventResize, Width: w, Height: h}
	default:
		return term.Event{}
	}
}

func translateKey(e *tcell.EventKey) term.Event {
	out := term.Event{Type: term.EventKey, Mod: translateMod(e.Modifiers())}
	if e.Key() == tcell.KeyRune {
		out.Key = term.KeyRune
		out.Rune = e.Rune()
		return out
	}
	if k, ok := specialKeys[e.Key()]; ok {
		out.Key = k
		return out
	}
	out.Key = term.KeyRune
	out.Rune = e.Rune()
	return out
}

var specialKeys = map[tcell.Key]term.Key{
	tcell.KeyEnter:     term.KeyEnter,
	tcell.KeyTab:       term.KeyTab,
	tcell.KeyBackspace:  term.KeyBackspace,
	tcell.KeyBackspace2: term.KeyBackspace,
	tcell.KeyDelete:    term.KeyDelete,
	tcell.KeyEscape:    term.KeyEscape,
	tcell.KeyUp:        term.KeyUp,
	tcell.KeyDown:      term.KeyDown,
	tcell.KeyLeft:      term.KeyLeft,
	tcell.KeyRight:     term.KeyRight,
	tcell.KeyHome:      term.KeyHome,
	tcell.KeyEnd:       term.KeyEnd,
	tcell.KeyPgUp:      term.KeyPageUp,
	tcell.KeyPgDn:      term.KeyPageDown,
	tcell.KeyF1:        term.KeyF1,
	tcell.KeyF2:        term.KeyF2,
	tcell.KeyF3:        term.KeyF3,
	tcell.KeyF4:        term.KeyF4,
	tcell.KeyF5:        term.KeyF5,
	tcell.KeyF6:        term.KeyF6,
	tcell.KeyF7:        term.KeyF7,
	tcell.KeyF8:        term.KeyF8,
	tcell.KeyF9:        term.KeyF9,
	tcell.KeyF10:       term.KeyF10,
	tcell.KeyF11:       term.KeyF11,
	tcell.KeyF12:       term.KeyF12,
}

func translateMod(m tcell.ModMask) term.Mod {
	var out term.Mod
	if m&tcell.ModShift != 0 {
		out |= term.ModShift
	}
	if m&tcell.ModAlt != 0 {
		out |= term.ModAlt
	}
	if m&tcell.ModCtrl != 0 {
		out |= term.ModCtrl
	}
	return out
}

func translateMouse(e *tcell.EventMouse) term.Event {
	col, row := e.Position()
	out := term.Event{Type: term.EventMouse, Row: row, Col: col, Mod: translateMod(e.Modifiers())}
	switch {
	case e.Buttons()&tcell.Button1 != 0:
		out.Button = term.MouseLeft
	case e.Buttons()&tcell.Button2 != 0:
		out.Button = term.MouseMiddle
	case e.Buttons()&tcell.Button3 != 0:
		out.Button = term.MouseRight
	case e.Buttons()&tcell.WheelUp != 0:
		out.Button = term.MouseWheelUp
	case e.Buttons()&tcell.WheelDown != 0:
		out.Button = term.MouseWheelDown
	default:
		out.Button = term.MouseNone
	}
	return out
}

func toTcellStyle(s term.Style) tcell.Style {
	st := tcell.StyleDefault
	st = st.Foreground(toTcellColor(s.Foreground)).Background(toTcellColor(s.Background))
	st = st.Bold(s.Attributes.Has(term.AttrBold))
	st = st.Italic(s.Attributes.Has(term.AttrItalic))
	st = st.Dim(s.Attributes.Has(term.AttrDim))
	st = st.Blink(s.Attributes.Has(term.AttrBlink))
	st = st.Reverse(s.Attributes.Has(term.AttrReverse))
	st = st.StrikeThrough(s.Attributes.Has(term.AttrStrikethrough))
	if s.Underline != term.UnderlineNone {
		st = st.Underline(true)
	}
	return st
}

func toTcellColor(c term.Color) tcell.Color {
	if c.Default {
		return tcell.ColorDefault
	}
	if c.Indexed >= 0 {
		return tcell.PaletteColor(int(c.Indexed))
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
