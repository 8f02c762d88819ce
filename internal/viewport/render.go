package viewport

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/inkglass/corepad/internal/cursor"
	"github.com/inkglass/corepad/internal/highlight"
	"github.com/inkglass/corepad/internal/overlay"
	"github.com/inkglass/corepad/internal/term"
)

// TextSource is the narrow slice of document behavior Render needs. A
// *piecetree.Tree satisfies it structurally.
type TextSource interface {
	TotalBytes() int64
	LineCount() (int64, bool)
	LineStartOffset(line int64) int64
	LineEndOffset(line int64) int64
	Bytes(start, end int64) []byte
	OffsetToPosition(offset int64) (line, col int64)
}

// DefaultTabWidth is used when Options.TabWidth is left at zero.
const DefaultTabWidth = 8

// Options configures one Render call.
type Options struct {
	Wrap        bool
	TabWidth    int
	Theme       *highlight.Theme
	Highlighter *highlight.Provider // may be nil for unstyled text
	Overlays    *overlay.Engine     // may be nil
	VText       *overlay.VirtualTextEngine
	Cursors     *cursor.Set
	ActiveSplit bool // primary cursor uses the hardware cursor only when true
}

// Cell is one rendered screen cell paired with the document byte offset it
// displays, or -1 for synthetic glyphs (virtual text and tab continuation
// past the first column).
type Cell struct {
	term.Cell
	Offset int64
}

// Line is one rendered screen row.
type Line struct {
	Cells          []Cell
	SourceLine     int64
	IsContinuation bool
}

// Result is one Render call's output.
type Result struct {
	Lines []Line

	// CursorRow/CursorCol locate the primary cursor on screen, or (-1, -1)
	// if it isn't currently visible.
	CursorRow, CursorCol int
}

// Render runs the style-layering pipeline described by the viewport
// contract: syntax, then overlays in priority order, then selection, then
// reverse-video for secondary/inactive cursors, over logical lines
// starting at the viewport's current scroll position.
func Render(v *Viewport, src TextSource, opts Options) Result {
	if opts.TabWidth <= 0 {
		opts.TabWidth = DefaultTabWidth
	}
	theme := opts.Theme
	if theme == nil {
		theme = highlight.DefaultTheme()
	}
	// No theme-key lookup table exists yet for overlay faces; ThemeKey
	// faces fall back to their literal Style until one is added.
	resolveFace := func(string) (term.Style, bool) { return term.Style{}, false }

	topLine, bottomLine := v.VisibleLineRange()
	leftCol := v.LeftColumn()
	width, height := v.Width(), v.Height()

	viewStart := src.LineStartOffset(topLine)
	viewEnd := src.TotalBytes()
	if lc, ok := src.LineCount(); ok && bottomLine+1 < lc {
		viewEnd = src.LineEndOffset(bottomLine + 1)
	}

	var overlayMatches []overlay.Match
	if opts.Overlays != nil {
		overlayMatches = opts.Overlays.QueryViewport(viewStart, viewEnd)
	}
	var vtext []overlay.VTMatch
	if opts.VText != nil {
		vtext = opts.VText.QueryViewport(viewStart, viewEnd)
	}

	selections := selectionRanges(opts.Cursors)
	secondaryOffsets := secondaryCursorOffsets(opts.Cursors, opts.ActiveSplit)

	var out Result
	out.CursorRow, out.CursorCol = -1, -1

	rowsUsed := 0
	for line := topLine; line <= bottomLine && rowsUsed < height; line++ {
		lineStart := src.LineStartOffset(line)
		lineEnd := src.LineEndOffset(line)
		text := string(src.Bytes(lineStart, lineEnd))

		var spans []highlight.Span
		if opts.Highlighter != nil {
			spans = opts.Highlighter.SpansForLine(line)
		}
		lineOverlays := filterOverlaysForLine(overlayMatches, lineStart, lineEnd)
		lineVText := filterVTextForLine(vtext, lineStart, lineEnd)

		rows := renderLogicalLine(text, lineStart, line, width, leftCol, opts.TabWidth, opts.Wrap,
			theme, spans, lineOverlays, lineVText, selections, secondaryOffsets, resolveFace)

		for _, row := range rows {
			if rowsUsed >= height {
				break
			}
			out.Lines = append(out.Lines, row)
			rowsUsed++
		}
	}

	if opts.Cursors != nil {
		primary := opts.Cursors.Primary()
		out.CursorRow, out.CursorCol = locateCursor(out.Lines, primary.Position, topLine)
	}

	return out
}

// byteRange is a half-open [Start, End) span, reused for selections,
// overlays and virtual-text filtering within one rendered line.
type byteRange struct{ Start, End int64 }

func (r byteRange) contains(off int64) bool { return off >= r.Start && off < r.End }

func selectionRanges(set *cursor.Set) []byteRange {
	if set == nil {
		return nil
	}
	var ranges []byteRange
	for _, c := range set.All() {
		if start, end, ok := c.Range(); ok {
			ranges = append(ranges, byteRange{Start: start, End: end})
		}
	}
	return ranges
}

// secondaryCursorOffsets returns the document offsets that should render
// reverse-video rather than as the hardware cursor. Every cursor but the
// primary always qualifies; when activeSplit is false the split itself
// isn't receiving keyboard input, so its primary cursor renders the same
// way every other split's cursors do.
func secondaryCursorOffsets(set *cursor.Set, activeSplit bool) map[int64]bool {
	out := make(map[int64]bool)
	if set == nil {
		return out
	}
	all := set.All()
	for i, c := range all {
		if i == set.PrimaryIndex() && activeSplit {
			continue
		}
		out[c.Position] = true
	}
	return out
}

func filterOverlaysForLine(matches []overlay.Match, start, end int64) []overlay.Match {
	var out []overlay.Match
	for _, m := range matches {
		if m.Range.Start < end && m.Range.End > start {
			out = append(out, m)
		}
	}
	return out
}

func filterVTextForLine(matches []overlay.VTMatch, start, end int64) []overlay.VTMatch {
	var out []overlay.VTMatch
	for _, m := range matches {
		if m.AnchorAt >= start && m.AnchorAt < end {
			out = append(out, m)
		}
	}
	return out
}

// renderLogicalLine renders one document line into one or more screen rows
// (more than one only when wrapping is enabled), returning already
// width-limited, tab-expanded, style-resolved cells.
func renderLogicalLine(text string, lineStart int64, lineNo int64, width, leftCol, tabWidth int, wrap bool,
	theme *highlight.Theme, spans []highlight.Span, overlays []overlay.Match, vtext []overlay.VTMatch,
	selections []byteRange, secondary map[int64]bool, resolveFace func(string) (term.Style, bool)) []Line {

	base := term.Style{Foreground: theme.Foreground, Background: theme.Background}

	var cells []Cell
	col := 0
	byteOff := 0
	data := []byte(text)

	emitBefore := func(off int64) {
		for _, vt := range vtext {
			if vt.VirtualText.Position != overlay.BeforeChar || vt.AnchorAt != off {
				continue
			}
			cells = append(cells, syntheticCells(vt.VirtualText.Text, vt.VirtualText.Face.Resolve(resolveFace))...)
			col += uniseg.StringWidth(vt.VirtualText.Text)
		}
	}
	emitAfter := func(off int64) {
		for _, vt := range vtext {
			if vt.VirtualText.Position != overlay.AfterChar || vt.AnchorAt != off {
				continue
			}
			cells = append(cells, syntheticCells(vt.VirtualText.Text, vt.VirtualText.Face.Resolve(resolveFace))...)
			col += uniseg.StringWidth(vt.VirtualText.Text)
		}
	}

	for byteOff < len(data) {
		off := lineStart + int64(byteOff)
		emitBefore(off)

		r, runeLen := utf8.DecodeRune(data[byteOff:])
		style := resolveStyle(base, byteOff, spans, overlays, off, selections, secondary, resolveFace)

		if r == '\t' {
			spaces := tabWidth - col%tabWidth
			for i := 0; i < spaces; i++ {
				mapOff := off
				if i > 0 {
					mapOff = -1
				}
				cells = append(cells, Cell{Cell: term.Cell{Rune: ' ', Width: 1, Style: style}, Offset: mapOff})
			}
			col += spaces
		} else {
			// uniseg's East-Asian-width-aware rule: wide runes (CJK,
			// fullwidth forms, most emoji) occupy two terminal columns.
			w := uniseg.StringWidth(string(r))
			if w < 1 {
				w = 1
			}
			cells = append(cells, Cell{Cell: term.Cell{Rune: r, Width: w, Style: style}, Offset: off})
			col += w
		}

		emitAfter(off)
		byteOff += runeLen
	}

	// End-of-line synthetic cursor cell for a cursor resting past content.
	eol := lineStart + int64(len(data))
	if secondary[eol] {
		cells = append(cells, Cell{Cell: term.Cell{Rune: ' ', Width: 1, Style: base.Reverse()}, Offset: eol})
	}

	if !wrap {
		return []Line{{Cells: clampHorizontal(cells, leftCol, width), SourceLine: lineNo}}
	}
	return wrapCells(cells, width, lineNo)
}

func resolveStyle(base term.Style, byteOff int, spans []highlight.Span, overlays []overlay.Match,
	absOff int64, selections []byteRange, secondary map[int64]bool, resolveFace func(string) (term.Style, bool)) term.Style {

	style := base
	col := uint32(byteOff)
	for _, sp := range spans {
		if col >= sp.StartCol && col < sp.EndCol {
			style = style.Merge(sp.Style)
		}
	}
	for _, m := range overlays {
		if absOff >= m.Range.Start && absOff < m.Range.End {
			style = style.Merge(m.Overlay.Face.Resolve(resolveFace))
		}
	}
	for _, sel := range selections {
		if sel.contains(absOff) {
			style = style.Merge(term.Style{Background: term.RGB(60, 90, 130)})
			break
		}
	}
	if secondary[absOff] {
		style = style.Reverse()
	}
	return style
}

func syntheticCells(text string, style term.Style) []Cell {
	cells := make([]Cell, 0, len(text))
	for _, r := range text {
		w := uniseg.StringWidth(string(r))
		if w < 1 {
			w = 1
		}
		cells = append(cells, Cell{Cell: term.Cell{Rune: r, Width: w, Style: style}, Offset: -1})
	}
	return cells
}

func clampHorizontal(cells []Cell, leftCol, width int) []Cell {
	if leftCol >= len(cells) {
		return nil
	}
	end := leftCol + width
	if end > len(cells) {
		end = len(cells)
	}
	if leftCol < 0 {
		leftCol = 0
	}
	return cells[leftCol:end]
}

// wrapCells splits cells into width-wide screen rows, breaking at the last
// space before the boundary when one exists so words aren't split
// mid-token; falls back to a hard break otherwise.
func wrapCells(cells []Cell, width int, lineNo int64) []Line {
	if len(cells) == 0 {
		return []Line{{Cells: nil, SourceLine: lineNo}}
	}
	var lines []Line
	start := 0
	first := true
	for start < len(cells) {
		end := start + width
		if end >= len(cells) {
			end = len(cells)
		} else {
			breakAt := end
			for i := end - 1; i > start; i-- {
				if cells[i].Rune == ' ' {
					breakAt = i + 1
					break
				}
			}
			end = breakAt
		}
		lines = append(lines, Line{Cells: cells[start:end], SourceLine: lineNo, IsContinuation: !first})
		start = end
		first = false
	}
	return lines
}

func locateCursor(lines []Line, offset int64, topLine int64) (row, col int) {
	for r, line := range lines {
		for c, cell := range line.Cells {
			if cell.Offset == offset {
				return r, c
			}
		}
	}
	return -1, -1
}
