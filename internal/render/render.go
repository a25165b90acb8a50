// Package render assembles frames: for every visible line its layout,
// highlight runs, selection runs, caret columns and gutter text. It
// virtualizes aggressively; per frame it touches only the visible lines
// plus a small overscan, whatever the document size.
package render

import (
	"context"

	"github.com/vellum-editor/vellum/internal/engine/buffer"
	"github.com/vellum-editor/vellum/internal/engine/cursor"
	"github.com/vellum-editor/vellum/internal/highlight"
	"github.com/vellum-editor/vellum/internal/render/gutter"
	"github.com/vellum-editor/vellum/internal/render/layout"
	"github.com/vellum-editor/vellum/internal/render/viewport"
)

// DefaultOverscan is how many lines beyond the window are laid out to
// keep small scrolls cheap.
const DefaultOverscan = 2

// Run is a half-open visual column range on one line.
type Run struct {
	Start, End int
}

// SpanRun is a highlight span projected onto one line's visual columns.
type SpanRun struct {
	Run
	Kind highlight.Kind
}

// LineFrame is everything needed to paint one visible line.
type LineFrame struct {
	Line       int
	Number     string
	Layout     *layout.Line
	Spans      []SpanRun
	Selections []Run
	Carets     []int // visual caret columns
}

// Frame is one rendered snapshot of the window.
type Frame struct {
	Revision    buffer.Revision
	First, Last int // half-open visible line range
	GutterWidth int
	Lines       []LineFrame

	// LayoutsComputed counts cache misses while building this frame,
	// the virtualization cost of the frame.
	LayoutsComputed int
}

// Renderer owns the window state and layout cache for one document.
type Renderer struct {
	View *viewport.Viewport

	engine   *layout.Engine
	cache    *layout.Cache
	gutter   *gutter.Gutter
	overscan int
}

// New returns a renderer for a window of the given size.
func New(width, height int) *Renderer {
	return &Renderer{
		View:     viewport.New(width, height),
		engine:   layout.NewEngine(4),
		cache:    layout.NewCache(0),
		gutter:   gutter.New(),
		overscan: DefaultOverscan,
	}
}

// SetTabWidth updates the tab width, dropping every cached layout when
// it actually changes.
func (r *Renderer) SetTabWidth(w int) {
	if r.engine.SetTabWidth(w) {
		r.cache.DropAll()
	}
}

// SetWrap updates soft-wrap settings, dropping the cache on change.
func (r *Renderer) SetWrap(width int, atWord bool) {
	if r.engine.SetWrap(width, atWord) {
		r.cache.DropAll()
	}
}

// SetRelativeNumbers switches the gutter numbering mode.
func (r *Renderer) SetRelativeNumbers(on bool) {
	r.gutter.SetRelative(on)
}

// GutterWidth returns the current gutter width.
func (r *Renderer) GutterWidth() int { return r.gutter.Width() }

// TabWidth returns the active tab stop interval.
func (r *Renderer) TabWidth() int { return r.engine.TabWidth() }

// ResetCache drops every cached layout, for document replacement.
func (r *Renderer) ResetCache() {
	r.cache.DropAll()
}

// ApplyEdit revalidates the layout cache for a committed edit: layouts
// above the dirty region survive, the rest recompute on demand.
func (r *Renderer) ApplyEdit(snap buffer.Snapshot, res buffer.EditResult) {
	firstDirty := snap.OffsetToPoint(res.Dirty.Start).Line
	r.cache.Commit(res.Revision, firstDirty)
	r.View.SetLineCount(snap.LineCount())
	r.gutter.Update(snap.LineCount())
}

// Frame builds the frame for the current scroll position. hl may be
// nil for an unhighlighted document.
func (r *Renderer) Frame(ctx context.Context, snap buffer.Snapshot, sels []cursor.Selection, hl *highlight.Highlighter) Frame {
	lineCount := snap.LineCount()
	r.View.SetLineCount(lineCount)
	r.gutter.Update(lineCount)

	first, last := r.View.VisibleLines()
	layFirst := max(first-r.overscan, 0)
	layLast := min(last+r.overscan, lineCount)

	var spans []highlight.Span
	if hl != nil {
		window := buffer.NewRange(
			snap.LineToOffset(layFirst),
			snap.LineEndOffset(layLast-1),
		)
		spans = hl.SpansIn(ctx, snap, window)
	}

	caretLine := 0
	if len(sels) > 0 {
		caretLine = snap.OffsetToPoint(sels[0].Head).Line
	}

	frame := Frame{
		Revision:    snap.Revision(),
		First:       first,
		Last:        last,
		GutterWidth: r.gutter.Width(),
		Lines:       make([]LineFrame, 0, last-first),
	}

	for line := layFirst; line < layLast; line++ {
		lay := r.layoutLine(snap, line, &frame.LayoutsComputed)
		if line < first || line >= last {
			continue
		}

		ls := snap.LineToOffset(line)
		le := snap.LineEndOffset(line)
		lf := LineFrame{
			Line:   line,
			Number: r.gutter.Format(line, caretLine),
			Layout: lay,
		}

		for _, sp := range spans {
			if run, ok := projectRun(lay, ls, le, sp.Range); ok {
				lf.Spans = append(lf.Spans, SpanRun{Run: run, Kind: sp.Kind})
			}
		}
		for _, sel := range sels {
			if !sel.IsCaret() {
				if run, ok := projectRun(lay, ls, le, sel.Range()); ok {
					lf.Selections = append(lf.Selections, run)
				}
			}
			if sel.Head >= ls && sel.Head <= le {
				lf.Carets = append(lf.Carets, lay.VisualCol(int(sel.Head-ls)))
			}
		}
		frame.Lines = append(frame.Lines, lf)
	}
	return frame
}

// layoutLine fetches or computes the layout for one line.
func (r *Renderer) layoutLine(snap buffer.Snapshot, line int, computed *int) *layout.Line {
	if lay, ok := r.cache.Get(snap.Revision(), line); ok {
		return lay
	}
	lay := r.engine.Layout(snap.Line(line), line)
	r.cache.Put(snap.Revision(), line, lay)
	*computed++
	return lay
}

// projectRun clips a byte range to one line and converts it to visual
// columns. An empty intersection reports false; a selection covering
// the newline extends one cell past the line end.
func projectRun(lay *layout.Line, lineStart, lineEnd buffer.Offset, rng buffer.Range) (Run, bool) {
	if rng.End <= lineStart || rng.Start > lineEnd {
		return Run{}, false
	}
	a := max(rng.Start, lineStart)
	b := min(rng.End, lineEnd)
	run := Run{
		Start: lay.VisualCol(int(a - lineStart)),
		End:   lay.VisualCol(int(b - lineStart)),
	}
	if rng.End > lineEnd {
		run.End++
	}
	if run.End <= run.Start {
		return Run{}, false
	}
	return run, true
}
