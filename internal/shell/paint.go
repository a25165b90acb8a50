package shell

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/vellum-editor/vellum/internal/engine/buffer"
	"github.com/vellum-editor/vellum/internal/engine/cursor"
	"github.com/vellum-editor/vellum/internal/highlight"
	"github.com/vellum-editor/vellum/internal/render"
	"github.com/vellum-editor/vellum/internal/render/layout"
)

// drawFrame paints one frame onto the screen. Wrapped lines occupy
// consecutive screen rows; rows past the bottom edge are clipped.
func drawFrame(screen tcell.Screen, frame render.Frame, theme *highlight.Theme, primary cursor.Selection, snap buffer.Snapshot) {
	width, height := screen.Size()
	bg := tcellColor(theme.Background)
	base := tcell.StyleDefault.Background(bg).Foreground(tcellColor(theme.Foreground))
	gutterStyle := base.Dim(true)

	fill(screen, width, height, base)
	screen.HideCursor()

	primaryLine := snap.OffsetToPoint(primary.Head).Line

	y := 0
	for _, ln := range frame.Lines {
		if y >= height {
			break
		}
		drawText(screen, 0, y, ln.Number, gutterStyle)

		for row := 0; row < ln.Layout.RowCount() && y < height; row++ {
			x := frame.GutterWidth
			col := rowStartCol(ln.Layout, row)
			for _, cell := range ln.Layout.Row(row) {
				if x >= width {
					break
				}
				style := styleAt(theme, base, ln, col)
				mainc, combc := splitCluster(cell.Text)
				screen.SetContent(x, y, mainc, combc, style)
				x += cell.Width
				col += cell.Width
			}
			// A caret past the last cell sits on the line ending.
			for _, caret := range ln.Carets {
				if caret >= col && ln.Line == primaryLine {
					screen.ShowCursor(frame.GutterWidth+caret, y)
				}
			}
			y++
		}
	}
}

// styleAt resolves the style for one visual column from the line's
// span and selection runs. Selection wins over syntax color.
func styleAt(theme *highlight.Theme, base tcell.Style, ln render.LineFrame, col int) tcell.Style {
	style := base
	for _, span := range ln.Spans {
		if col >= span.Start && col < span.End {
			style = applyStyle(style, theme.StyleFor(span.Kind))
			break
		}
	}
	for _, sel := range ln.Selections {
		if col >= sel.Start && col < sel.End {
			style = style.Background(tcellColor(theme.Selection))
			break
		}
	}
	for _, caret := range ln.Carets {
		if col == caret {
			style = style.Reverse(true)
			break
		}
	}
	return style
}

func applyStyle(base tcell.Style, st highlight.Style) tcell.Style {
	if st.HasColor {
		base = base.Foreground(tcellColor(st.Foreground))
	}
	return base.Bold(st.Bold).Italic(st.Italic).Underline(st.Underline)
}

// rowStartCol returns the visual column where a wrapped row begins.
func rowStartCol(ln *layout.Line, row int) int {
	col := 0
	for i := 0; i < row; i++ {
		for _, cell := range ln.Row(i) {
			col += cell.Width
		}
	}
	return col
}

// splitCluster splits a grapheme cluster into tcell's main rune plus
// combining runes.
func splitCluster(s string) (rune, []rune) {
	runes := []rune(s)
	if len(runes) == 0 {
		return ' ', nil
	}
	if len(runes) == 1 {
		return runes[0], nil
	}
	return runes[0], runes[1:]
}

func drawText(screen tcell.Screen, x, y int, s string, style tcell.Style) {
	for _, r := range s {
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func fill(screen tcell.Screen, width, height int, style tcell.Style) {
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			screen.SetContent(x, y, ' ', nil, style)
		}
	}
}

func tcellColor(c colorful.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
