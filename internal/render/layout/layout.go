// Package layout turns buffer lines into visual cell runs: grapheme
// segmentation, tab expansion, wide-rune widths, soft wrap, and the
// visual/byte column maps cursor drawing needs.
package layout

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Cell is one visual unit of a laid-out line: a grapheme cluster or an
// expanded tab. Wide clusters occupy Width display columns.
type Cell struct {
	// Text is what the terminal paints. Tabs arrive pre-expanded to
	// spaces.
	Text string

	// Width in display columns.
	Width int

	// Byte is the offset of the source cluster within the line.
	Byte int
}

// Line is the visual layout of one buffer line.
type Line struct {
	Number  int
	Cells   []Cell
	Wraps   []int // cell indexes where a new visual row begins
	Width   int   // total unwrapped visual width
	HasTabs bool

	srcLen int
}

// RowCount returns the number of visual rows.
func (l *Line) RowCount() int { return len(l.Wraps) + 1 }

// Row returns the cells of visual row i.
func (l *Line) Row(i int) []Cell {
	start := 0
	if i > 0 {
		start = l.Wraps[min(i, len(l.Wraps))-1]
	}
	end := len(l.Cells)
	if i < len(l.Wraps) {
		end = l.Wraps[i]
	}
	if start > end {
		return nil
	}
	return l.Cells[start:end]
}

// VisualCol maps a byte offset within the line to its unwrapped visual
// column. Offsets at or past the line end map to the line width.
func (l *Line) VisualCol(byteOff int) int {
	if byteOff >= l.srcLen {
		return l.Width
	}
	col := 0
	for _, c := range l.Cells {
		if c.Byte >= byteOff {
			break
		}
		col += c.Width
	}
	return col
}

// ByteAt maps an unwrapped visual column back to a byte offset. Columns
// past the end map to the line length, the caret-at-EOL position.
func (l *Line) ByteAt(visCol int) int {
	col := 0
	for _, c := range l.Cells {
		if visCol < col+c.Width {
			return c.Byte
		}
		col += c.Width
	}
	return l.srcLen
}

// Engine computes line layouts under the current tab and wrap settings.
type Engine struct {
	tabWidth   int
	wrapWidth  int // 0 disables soft wrap
	wrapAtWord bool
}

// NewEngine returns an engine with the given tab width and wrapping
// disabled.
func NewEngine(tabWidth int) *Engine {
	return &Engine{tabWidth: max(tabWidth, 1), wrapAtWord: true}
}

// TabWidth returns the current tab width.
func (e *Engine) TabWidth() int { return e.tabWidth }

// WrapWidth returns the soft-wrap width, 0 when disabled.
func (e *Engine) WrapWidth() int { return e.wrapWidth }

// SetTabWidth changes the tab width. Reports whether the value changed;
// a change invalidates every cached layout, not just dirty lines.
func (e *Engine) SetTabWidth(w int) bool {
	w = max(w, 1)
	if w == e.tabWidth {
		return false
	}
	e.tabWidth = w
	return true
}

// SetWrap changes the wrap settings, reporting whether they changed.
func (e *Engine) SetWrap(width int, atWord bool) bool {
	width = max(width, 0)
	if width == e.wrapWidth && atWord == e.wrapAtWord {
		return false
	}
	e.wrapWidth = width
	e.wrapAtWord = atWord
	return true
}

// wordWrapLookback bounds the backward search for a space to break at.
const wordWrapLookback = 20

// Layout computes the visual layout of one line of text (without its
// newline).
func (e *Engine) Layout(text string, number int) *Line {
	l := &Line{
		Number: number,
		Cells:  make([]Cell, 0, len(text)),
		srcLen: len(text),
	}

	byteOff := 0
	rowWidth := 0
	state := -1
	rest := text
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)

		var cell Cell
		if cluster == "\t" {
			l.HasTabs = true
			stop := e.tabWidth - l.Width%e.tabWidth
			cell = Cell{Text: strings.Repeat(" ", stop), Width: stop, Byte: byteOff}
		} else {
			w := runewidth.StringWidth(cluster)
			if w <= 0 {
				// Control or zero-width cluster: no visual cell.
				byteOff += len(cluster)
				continue
			}
			cell = Cell{Text: cluster, Width: w, Byte: byteOff}
		}

		if e.wrapWidth > 0 && rowWidth > 0 && rowWidth+cell.Width > e.wrapWidth {
			rowStart := 0
			if len(l.Wraps) > 0 {
				rowStart = l.Wraps[len(l.Wraps)-1]
			}
			wrapIdx := e.wrapPoint(l.Cells, rowStart)
			l.Wraps = append(l.Wraps, wrapIdx)
			rowWidth = 0
			for _, moved := range l.Cells[wrapIdx:] {
				rowWidth += moved.Width
			}
		}

		l.Cells = append(l.Cells, cell)
		l.Width += cell.Width
		rowWidth += cell.Width
		byteOff += len(cluster)
	}
	return l
}

// wrapPoint picks the cell index the next row starts at: after the last
// space within the lookback window, or hard at the current cell. The
// break never lands at or before the current row's first cell.
func (e *Engine) wrapPoint(cells []Cell, rowStart int) int {
	hard := len(cells)
	if !e.wrapAtWord {
		return hard
	}
	for i := hard - 1; i > rowStart && i >= hard-wordWrapLookback; i-- {
		if cells[i].Text == " " {
			return i + 1
		}
	}
	return hard
}
