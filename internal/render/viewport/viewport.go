// Package viewport tracks the window onto the document: scroll
// position, size, and the visible line range that virtualization is
// allowed to touch.
package viewport

// Viewport is the visible portion of a document. It works purely in
// line/column numbers; byte offsets stay in the buffer layer. Not
// internally synchronized, like the rest of the editing core.
type Viewport struct {
	top  int
	left int

	width  int
	height int

	// Scroll margins keep the caret away from the window edges during
	// ScrollToReveal.
	marginV int
	marginH int

	lines int
}

// New returns a viewport of the given size. Dimensions are clamped to
// at least one cell.
func New(width, height int) *Viewport {
	v := &Viewport{marginV: 3, marginH: 8, lines: 1}
	v.Resize(width, height)
	return v
}

// Resize updates the window size and re-clamps the scroll position.
func (v *Viewport) Resize(width, height int) {
	v.width = max(width, 1)
	v.height = max(height, 1)
	v.clamp()
}

// SetLineCount tells the viewport how many lines the document has.
func (v *Viewport) SetLineCount(n int) {
	v.lines = max(n, 1)
	v.clamp()
}

// SetMargins sets the vertical and horizontal scroll margins.
func (v *Viewport) SetMargins(vertical, horizontal int) {
	v.marginV = max(vertical, 0)
	v.marginH = max(horizontal, 0)
}

// Top returns the first visible line.
func (v *Viewport) Top() int { return v.top }

// Left returns the first visible column.
func (v *Viewport) Left() int { return v.left }

// Width returns the window width in cells.
func (v *Viewport) Width() int { return v.width }

// Height returns the window height in lines.
func (v *Viewport) Height() int { return v.height }

// LineCount returns the document line count last set.
func (v *Viewport) LineCount() int { return v.lines }

// VisibleLines returns the half-open line range [first, last) on
// screen. last never exceeds the document.
func (v *Viewport) VisibleLines() (first, last int) {
	return v.top, min(v.top+v.height, v.lines)
}

// PageLines is the vertical span of one page movement, the window
// height minus a two-line overlap.
func (v *Viewport) PageLines() int {
	return max(v.height-2, 1)
}

// RowFor maps a document line to its screen row. Reports false when the
// line is off screen.
func (v *Viewport) RowFor(line int) (int, bool) {
	first, last := v.VisibleLines()
	if line < first || line >= last {
		return 0, false
	}
	return line - first, true
}

// ColFor maps a visual document column to its screen column.
func (v *Viewport) ColFor(col int) (int, bool) {
	c := col - v.left
	return c, c >= 0 && c < v.width
}

// ScrollTo puts line at the top of the window.
func (v *Viewport) ScrollTo(line int) {
	v.top = line
	v.clamp()
}

// ScrollBy moves the window by delta lines.
func (v *Viewport) ScrollBy(delta int) {
	v.top += delta
	v.clamp()
}

// ScrollHorizontal moves the window by delta columns.
func (v *Viewport) ScrollHorizontal(delta int) {
	v.left += delta
	v.clamp()
}

// ScrollToReveal scrolls the minimum distance that brings the position
// inside the margins. Reports whether the window moved.
func (v *Viewport) ScrollToReveal(line, col int) bool {
	top, left := v.top, v.left

	if line < v.top+v.marginV {
		v.top = line - v.marginV
	} else if line > v.top+v.height-1-v.marginV {
		v.top = line - v.height + 1 + v.marginV
	}

	if col < v.left+v.marginH {
		v.left = col - v.marginH
	} else if col > v.left+v.width-1-v.marginH {
		v.left = col - v.width + 1 + v.marginH
	}

	v.clamp()
	return v.top != top || v.left != left
}

// CenterOn scrolls so line sits in the middle of the window.
func (v *Viewport) CenterOn(line int) {
	v.top = line - v.height/2
	v.clamp()
}

func (v *Viewport) clamp() {
	if v.top > v.lines-1 {
		v.top = v.lines - 1
	}
	if v.top < 0 {
		v.top = 0
	}
	if v.left < 0 {
		v.left = 0
	}
}
