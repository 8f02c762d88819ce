package margin

import "sync"

// Config holds gutter configuration.
type Config struct {
	ShowLineNumbers bool

	// LineNumberWidth is a fixed width for line numbers; 0 means
	// auto-calculate from the current line count.
	LineNumberWidth int

	// MinLineNumberWidth floors the auto-calculated width.
	MinLineNumberWidth int

	ShowIndicators      bool
	IndicatorColumnWidth int

	RelativeLineNumbers bool
}

// DefaultConfig returns a gutter with auto-width line numbers (at least
// three columns) and a two-column indicator column.
func DefaultConfig() Config {
	return Config{
		ShowLineNumbers:      true,
		LineNumberWidth:      0,
		MinLineNumberWidth:   3,
		ShowIndicators:       true,
		IndicatorColumnWidth: 2,
		RelativeLineNumbers:  false,
	}
}

// CellStyle describes how to style a gutter cell; resolving it to an
// actual term.Style is the renderer's job, keeping this package free of a
// theme dependency.
type CellStyle uint8

const (
	StyleNormal CellStyle = iota
	StyleCurrentLine
	StyleDim
	StyleError
	StyleWarning
	StyleInfo
	StyleGitAdd
	StyleGitModify
	StyleGitDelete
)

// Cell is a single gutter glyph.
type Cell struct {
	Rune  rune
	Style CellStyle
}

// Gutter renders the line-number and indicator columns for one viewport.
type Gutter struct {
	mu sync.RWMutex

	config Config

	width       int
	lineCount   int64
	currentLine int64
}

// New creates a gutter with the given configuration.
func New(config Config) *Gutter {
	return &Gutter{config: config, width: calculateWidth(config, 1)}
}

// Width returns the gutter's total column width, including the indicator
// column and the trailing separator.
func (g *Gutter) Width() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.width
}

func (g *Gutter) Config() Config {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.config
}

func (g *Gutter) SetConfig(config Config) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.config = config
	g.width = calculateWidth(config, g.lineCount)
}

// SetLineCount updates the document's line count, which can change the
// auto-calculated line-number column width.
func (g *Gutter) SetLineCount(count int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lineCount = count
	g.width = calculateWidth(g.config, count)
}

func (g *Gutter) SetCurrentLine(line int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.currentLine = line
}

// LineNumberWidth returns just the line-number column's width, excluding
// the indicator column and separator.
func (g *Gutter) LineNumberWidth() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.lineNumberWidth()
}

// RenderLine renders the gutter for one screen row. isVisible is false for
// a continuation row past the end of the buffer (a tilde line, as in the
// teacher's editor); indicators holds whatever IndicatorsForLine returned
// for this line, and when more than one is present only the
// highest-priority one is drawn.
func (g *Gutter) RenderLine(line int64, isVisible bool, indicators []Indicator) []Cell {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.width == 0 {
		return nil
	}

	cells := make([]Cell, g.width)
	for i := range cells {
		cells[i] = Cell{Rune: ' ', Style: StyleNormal}
	}

	col := 0

	if g.config.ShowIndicators && g.config.IndicatorColumnWidth > 0 {
		indCells := g.renderIndicators(indicators)
		for i := 0; i < len(indCells) && col < g.width-1; i++ {
			cells[col] = indCells[i]
			col++
		}
	}

	switch {
	case g.config.ShowLineNumbers && isVisible:
		numCells := g.renderLineNumber(line)
		numWidth := g.lineNumberWidth()
		padding := numWidth - len(numCells)
		for i := 0; i < padding && col < g.width-1; i++ {
			cells[col] = Cell{Rune: ' ', Style: g.styleForLine(line)}
			col++
		}
		for i := 0; i < len(numCells) && col < g.width-1; i++ {
			cells[col] = numCells[i]
			col++
		}
	case g.config.ShowLineNumbers && !isVisible:
		numWidth := g.lineNumberWidth()
		for i := 0; i < numWidth-1 && col < g.width-1; i++ {
			cells[col] = Cell{Rune: ' ', Style: StyleDim}
			col++
		}
		if col < g.width-1 {
			cells[col] = Cell{Rune: '~', Style: StyleDim}
			col++
		}
	}

	if g.width > 0 {
		cells[g.width-1] = Cell{Rune: ' ', Style: StyleNormal}
	}

	return cells
}

func (g *Gutter) styleForLine(line int64) CellStyle {
	if line == g.currentLine {
		return StyleCurrentLine
	}
	return StyleDim
}

func (g *Gutter) renderLineNumber(line int64) []Cell {
	style := g.styleForLine(line)

	var num int64
	if g.config.RelativeLineNumbers && line != g.currentLine {
		if line > g.currentLine {
			num = line - g.currentLine
		} else {
			num = g.currentLine - line
		}
	} else {
		num = line + 1
	}

	numStr := FormatNumber(num)
	cells := make([]Cell, len(numStr))
	for i, r := range numStr {
		cells[i] = Cell{Rune: r, Style: style}
	}
	return cells
}

func (g *Gutter) renderIndicators(indicators []Indicator) []Cell {
	cells := make([]Cell, g.config.IndicatorColumnWidth)
	for i := range cells {
		cells[i] = Cell{Rune: ' ', Style: StyleNormal}
	}
	if len(indicators) == 0 {
		return cells
	}
	best := highestPriority(indicators)
	r, style := indicatorGlyph(best.Kind)
	if g.config.IndicatorColumnWidth > 0 {
		cells[0] = Cell{Rune: r, Style: style}
	}
	return cells
}

func (g *Gutter) lineNumberWidth() int {
	if g.config.LineNumberWidth > 0 {
		return g.config.LineNumberWidth
	}
	digits := countDigits(g.lineCount)
	if digits < g.config.MinLineNumberWidth {
		digits = g.config.MinLineNumberWidth
	}
	return digits
}

func calculateWidth(config Config, lineCount int64) int {
	width := 0
	if config.ShowIndicators {
		width += config.IndicatorColumnWidth
	}
	if config.ShowLineNumbers {
		if config.LineNumberWidth > 0 {
			width += config.LineNumberWidth
		} else {
			digits := countDigits(lineCount)
			if digits < config.MinLineNumberWidth {
				digits = config.MinLineNumberWidth
			}
			width += digits
		}
	}
	if width > 0 {
		width++ // separator
	}
	return width
}

func countDigits(n int64) int {
	if n <= 0 {
		return 1
	}
	digits := 0
	for n > 0 {
		digits++
		n /= 10
	}
	return digits
}

// FormatNumber renders n as a decimal string without pulling in strconv.
func FormatNumber(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func highestPriority(indicators []Indicator) Indicator {
	best := indicators[0]
	for _, ind := range indicators[1:] {
		if indicatorPriority(ind.Kind) > indicatorPriority(best.Kind) {
			best = ind
		}
	}
	return best
}

func indicatorPriority(k Kind) int {
	switch k {
	case KindError:
		return 100
	case KindBreakpoint:
		return 90
	case KindBreakpointConditional:
		return 85
	case KindWarning:
		return 80
	case KindInfo:
		return 70
	case KindBookmark:
		return 60
	case KindGitDeleted:
		return 50
	case KindGitModified:
		return 40
	case KindGitAdded:
		return 30
	default:
		return 0
	}
}

func indicatorGlyph(k Kind) (rune, CellStyle) {
	switch k {
	case KindError:
		return 'E', StyleError
	case KindWarning:
		return 'W', StyleWarning
	case KindInfo:
		return 'I', StyleInfo
	case KindBreakpoint:
		return '*', StyleError
	case KindBreakpointConditional:
		return '?', StyleError
	case KindBookmark:
		return '#', StyleInfo
	case KindGitAdded:
		return '+', StyleGitAdd
	case KindGitModified:
		return '~', StyleGitModify
	case KindGitDeleted:
		return '-', StyleGitDelete
	default:
		return ' ', StyleNormal
	}
}
