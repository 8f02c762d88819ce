package viewport

import (
	"math"
	"sync"
)

// Margins keeps this many lines/columns of context between the cursor and
// the edge of the viewport before scrolling.
type Margins struct {
	Top, Bottom int
	Left, Right int
}

// DefaultMargins matches the density a full-screen editor view typically
// wants.
func DefaultMargins() Margins {
	return Margins{Top: 5, Bottom: 5, Left: 10, Right: 10}
}

// Viewport tracks the visible window over a document: which line is at the
// top, which column is at the left, the window's size, and an optional
// smooth-scroll animation toward a target position. It knows nothing about
// document content — only line/column arithmetic.
type Viewport struct {
	mu sync.RWMutex

	topLine    int64
	leftColumn int
	width      int
	height     int

	margins Margins

	targetTopLine    int64
	targetLeftColumn int
	animating        bool
	smoothScroll     bool

	lineCount int64 // 0 means unknown/unbounded
}

// New creates a viewport of the given content size (excluding any gutter),
// clamped to a minimum of one row and column.
func New(width, height int) *Viewport {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &Viewport{width: width, height: height, margins: DefaultMargins(), smoothScroll: true}
}

func (v *Viewport) Width() int  { v.mu.RLock(); defer v.mu.RUnlock(); return v.width }
func (v *Viewport) Height() int { v.mu.RLock(); defer v.mu.RUnlock(); return v.height }

// Resize changes the viewport's content dimensions.
func (v *Viewport) Resize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	v.width, v.height = width, height
}

// SetLineCount records the document's current line count, used to clamp
// scroll targets. A value of 0 means unbounded.
func (v *Viewport) SetLineCount(n int64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lineCount = n
	if n > 0 && v.topLine >= n {
		v.topLine = n - 1
	}
}

func (v *Viewport) SetMargins(m Margins) { v.mu.Lock(); defer v.mu.Unlock(); v.margins = m }
func (v *Viewport) GetMargins() Margins  { v.mu.RLock(); defer v.mu.RUnlock(); return v.margins }

func (v *Viewport) SetSmoothScroll(enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.smoothScroll = enabled
}

// TopLine, LeftColumn report the current scroll position.
func (v *Viewport) TopLine() int64  { v.mu.RLock(); defer v.mu.RUnlock(); return v.topLine }
func (v *Viewport) LeftColumn() int { v.mu.RLock(); defer v.mu.RUnlock(); return v.leftColumn }

// BottomLine returns the last visible line, clamped to the known line
// count.
func (v *Viewport) BottomLine() int64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.bottomLineLocked()
}

func (v *Viewport) bottomLineLocked() int64 {
	bottom := v.topLine + int64(v.height) - 1
	if v.lineCount > 0 && bottom > v.lineCount-1 {
		bottom = v.lineCount - 1
	}
	return bottom
}

// VisibleLineRange returns the inclusive range of currently visible lines.
func (v *Viewport) VisibleLineRange() (start, end int64) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.topLine, v.bottomLineLocked()
}

// ScrollTo moves the top line directly, animated if smooth is requested
// and smooth scrolling is enabled.
func (v *Viewport) ScrollTo(line int64, smooth bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	line = v.clampLineLocked(line)
	v.setTargetLocked(line, v.leftColumn, smooth)
}

// ScrollBy scrolls vertically by a relative number of lines.
func (v *Viewport) ScrollBy(deltaLines int, smooth bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	line := v.clampLineLocked(v.topLine + int64(deltaLines))
	v.setTargetLocked(line, v.leftColumn, smooth)
}

// ScrollHorizontalBy scrolls the left column by a relative number of
// columns, never going negative.
func (v *Viewport) ScrollHorizontalBy(deltaCols int, smooth bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	col := v.leftColumn + deltaCols
	if col < 0 {
		col = 0
	}
	v.setTargetLocked(v.topLine, col, smooth)
}

// ScrollToReveal scrolls the minimum amount needed to bring (line, col)
// outside the configured margins, reporting whether it moved anything.
func (v *Viewport) ScrollToReveal(line int64, col int, smooth bool) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	targetTop, targetLeft := v.topLine, v.leftColumn
	moved := false

	if line < v.topLine+int64(v.margins.Top) {
		if top := line - int64(v.margins.Top); top >= 0 {
			targetTop = top
		} else {
			targetTop = 0
		}
		moved = true
	} else if line > v.bottomLineLocked()-int64(v.margins.Bottom) {
		if v.height > v.margins.Bottom {
			targetTop = line - int64(v.height) + int64(v.margins.Bottom) + 1
		} else {
			targetTop = line
		}
		moved = true
	}

	screenCol := col - v.leftColumn
	if screenCol < v.margins.Left {
		targetLeft = col - v.margins.Left
		if targetLeft < 0 {
			targetLeft = 0
		}
		moved = true
	} else if screenCol > v.width-v.margins.Right {
		targetLeft = col - v.width + v.margins.Right
		moved = true
	}

	targetTop = v.clampLineLocked(targetTop)
	if !moved || (targetTop == v.topLine && targetLeft == v.leftColumn) {
		return false
	}
	v.setTargetLocked(targetTop, targetLeft, smooth)
	return true
}

// CenterOn scrolls so line sits in the vertical middle of the viewport.
func (v *Viewport) CenterOn(line int64, smooth bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	half := int64(v.height / 2)
	target := int64(0)
	if line >= half {
		target = line - half
	}
	v.setTargetLocked(v.clampLineLocked(target), v.leftColumn, smooth)
}

func (v *Viewport) clampLineLocked(line int64) int64 {
	if line < 0 {
		return 0
	}
	if v.lineCount > 0 && line >= v.lineCount {
		if v.lineCount == 0 {
			return 0
		}
		return v.lineCount - 1
	}
	return line
}

func (v *Viewport) setTargetLocked(line int64, col int, smooth bool) {
	if smooth && v.smoothScroll {
		v.targetTopLine, v.targetLeftColumn = line, col
		v.animating = true
		return
	}
	v.topLine, v.leftColumn = line, col
	v.targetTopLine, v.targetLeftColumn = line, col
	v.animating = false
}

// Update advances the scroll animation by dt seconds and reports whether
// the viewport moved. A single exponential-decay factor governs both axes:
// each call closes a fraction 1 - 0.1^(10*dt) of the remaining distance
// (90% per tenth of a second), with a minimum step of one line/column so
// the animation always converges instead of stalling asymptotically.
func (v *Viewport) Update(dt float64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.animating {
		return false
	}

	moved := false
	v.topLine, moved = stepAxis64(v.topLine, v.targetTopLine, dt, moved)
	newLeft, m := stepAxis(v.leftColumn, v.targetLeftColumn, dt)
	v.leftColumn = newLeft
	moved = moved || m

	if v.topLine == v.targetTopLine && v.leftColumn == v.targetLeftColumn {
		v.animating = false
	}
	return moved
}

func stepAxis64(cur, target int64, dt float64, movedSoFar bool) (int64, bool) {
	diff := float64(target - cur)
	if math.Abs(diff) < 0.5 {
		if cur != target {
			return target, true
		}
		return cur, movedSoFar
	}
	step := diff * (1.0 - math.Pow(0.1, dt*10))
	if math.Abs(step) < 1.0 {
		if diff > 0 {
			step = 1.0
		} else {
			step = -1.0
		}
	}
	if math.Abs(step) >= math.Abs(diff) {
		return target, true
	}
	return cur + int64(step), true
}

func stepAxis(cur, target int, dt float64) (int, bool) {
	diff := float64(target - cur)
	if math.Abs(diff) < 0.5 {
		if cur != target {
			return target, true
		}
		return cur, false
	}
	step := diff * (1.0 - math.Pow(0.1, dt*10))
	if math.Abs(step) < 1.0 {
		if diff > 0 {
			step = 1.0
		} else {
			step = -1.0
		}
	}
	if math.Abs(step) >= math.Abs(diff) {
		return target, true
	}
	return cur + int(step), true
}

// StopAnimation cancels any in-flight scroll animation at its current
// position.
func (v *Viewport) StopAnimation() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.animating = false
	v.targetTopLine = v.topLine
	v.targetLeftColumn = v.leftColumn
}

// PageUp/PageDown scroll by a full page minus a two-line overlap for
// context continuity.
func (v *Viewport) PageUp(smooth bool)   { v.ScrollBy(-v.pageSize(), smooth) }
func (v *Viewport) PageDown(smooth bool) { v.ScrollBy(v.pageSize(), smooth) }

func (v *Viewport) pageSize() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	size := v.height - 2
	if size < 1 {
		size = 1
	}
	return size
}

// HalfPageUp/HalfPageDown scroll by half the viewport height.
func (v *Viewport) HalfPageUp(smooth bool)   { v.ScrollBy(-v.halfPage(), smooth) }
func (v *Viewport) HalfPageDown(smooth bool) { v.ScrollBy(v.halfPage(), smooth) }

func (v *Viewport) halfPage() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	half := v.height / 2
	if half < 1 {
		half = 1
	}
	return half
}
