package engine

import (
	"strings"

	"github.com/vellum-editor/vellum/internal/engine/buffer"
	"github.com/vellum-editor/vellum/internal/engine/cursor"
	"github.com/vellum-editor/vellum/internal/engine/history"
	"github.com/vellum-editor/vellum/internal/engine/search"
	"github.com/vellum-editor/vellum/internal/highlight"
	"github.com/vellum-editor/vellum/internal/render"
)

// Model is the engine's complete state: one document and its window.
// Update is the only writer; everything else reads snapshots.
type Model struct {
	Doc    *Document
	Render *render.Renderer
}

// NewModel returns a model over doc with a window of the given size.
func NewModel(doc *Document, width, height int) Model {
	m := Model{Doc: doc, Render: render.New(width, height)}
	m.Render.View.SetLineCount(doc.Buf.LineCount())
	return m
}

// Update advances the model by one message and returns the commands the
// host should run. It is synchronous and deterministic; a rejected or
// empty operation returns the model unchanged with no commands.
func Update(m Model, msg Msg) (Model, []Command) {
	d := m.Doc
	switch msg := msg.(type) {
	case InsertText:
		if msg.Text == "" {
			return m, nil
		}
		edits := make([]buffer.Edit, 0, d.Cursors.Count())
		for _, sel := range d.Cursors.All() {
			edits = append(edits, buffer.Edit{Range: sel.Range(), NewText: msg.Text})
		}
		kind := history.KindTyping
		if strings.ContainsRune(msg.Text, '\n') {
			kind = history.KindOther
		}
		if !m.commit(edits, kind, true) {
			return m, nil
		}
		return m, m.reveal()

	case DeleteBackward:
		return m.deleteAdjacent(cursor.Left)

	case DeleteForward:
		return m.deleteAdjacent(cursor.Right)

	case DeleteRange:
		if !m.commit([]buffer.Edit{buffer.Deletion(msg.Range.Start, msg.Range.End)}, history.KindOther, false) {
			return m, nil
		}
		return m, m.reveal()

	case MoveCursor:
		mv := m.mover()
		d.Cursors.Map(func(sel cursor.Selection) cursor.Selection {
			return mv.Move(sel, msg.Dir, msg.Gran, false)
		})
		return m, m.reveal()

	case ExtendSelection:
		mv := m.mover()
		d.Cursors.Map(func(sel cursor.Selection) cursor.Selection {
			return mv.Move(sel, msg.Dir, msg.Gran, true)
		})
		return m, m.reveal()

	case AddCursorAbove:
		all := d.Cursors.All()
		if c, ok := m.mover().CloneAbove(all[0]); ok {
			d.Cursors.Add(c)
		}
		return m, nil

	case AddCursorBelow:
		all := d.Cursors.All()
		if c, ok := m.mover().CloneBelow(all[len(all)-1]); ok {
			d.Cursors.Add(c)
		}
		return m, nil

	case CollapseCursors:
		d.Cursors.Collapse()
		return m, m.reveal()

	case SelectAll:
		d.Cursors.Replace(cursor.Select(0, d.Buf.Len()))
		return m, nil

	case Copy:
		text, ok := m.selectedText()
		if !ok {
			return m, nil
		}
		return m, []Command{SetClipboard{Text: text}}

	case Cut:
		text, ok := m.selectedText()
		if !ok {
			return m, nil
		}
		edits := make([]buffer.Edit, 0, d.Cursors.Count())
		for _, r := range d.Cursors.Ranges() {
			if !r.IsEmpty() {
				edits = append(edits, buffer.Deletion(r.Start, r.End))
			}
		}
		if !m.commit(edits, history.KindOther, false) {
			return m, nil
		}
		return m, append([]Command{SetClipboard{Text: text}}, m.reveal()...)

	case Find:
		s, err := search.Compile(msg.Query)
		if err != nil {
			d.SearchErr = err
			return m, nil
		}
		d.Search = s
		d.SearchErr = nil
		return m.jumpToMatch(d.Cursors.Primary().Start(), false)

	case FindNext:
		if d.Search == nil {
			return m, nil
		}
		return m.jumpToMatch(d.Cursors.Primary().End(), false)

	case FindPrev:
		if d.Search == nil {
			return m, nil
		}
		return m.jumpToMatch(d.Cursors.Primary().Start(), true)

	case ReplaceAll:
		if d.Search == nil {
			return m, nil
		}
		edits, n := d.Search.ReplaceAll(d.Buf.Snapshot(), msg.Replacement)
		if n == 0 || !m.commit(edits, history.KindOther, false) {
			return m, nil
		}
		return m, m.reveal()

	case Undo:
		rec, ok := d.History.Undo()
		if !ok {
			return m, nil
		}
		return m.applyHistory(rec.Invert(), rec.Before)

	case Redo:
		rec, ok := d.History.Redo()
		if !ok {
			return m, nil
		}
		return m.applyHistory(rec.Edits, rec.After)

	case Scroll:
		m.Render.View.ScrollBy(msg.Lines)
		return m, nil

	case Resize:
		m.Render.View.Resize(msg.Width, msg.Height)
		return m, m.reveal()

	case SetLanguage:
		d.Hl.Close()
		d.Hl = highlight.ForLanguage(msg.Language, d.hlOpts...)
		return m, nil

	case Load:
		return m, []Command{RequestLoad{Path: msg.Path}}

	case Loaded:
		d.Hl.Close()
		d.Path = msg.Path
		d.Buf = buffer.FromString(msg.Content,
			buffer.WithLineEnding(buffer.DetectLineEnding(msg.Content)))
		d.Cursors = cursor.NewSet(0)
		d.History.Clear()
		d.Hl = highlight.ForFile(msg.Path, d.hlOpts...)
		d.Search = nil
		d.SearchErr = nil
		d.Modified = false
		m.Render.ResetCache()
		m.Render.View.SetLineCount(d.Buf.LineCount())
		m.Render.View.ScrollTo(0)
		return m, nil

	case Save:
		d.Modified = false
		return m, []Command{RequestSave{Path: d.Path, Content: d.Buf.Serialize()}}
	}
	return m, nil
}

// commit applies one batch atomically and updates every piece of
// derived state. typing places a caret after each replacement instead
// of delta-transforming the old selections. Reports whether anything
// changed.
func (m Model) commit(edits []buffer.Edit, kind history.Kind, typing bool) bool {
	d := m.Doc
	pre := d.Buf.Snapshot()
	before := d.Cursors.All()

	res, err := d.Buf.Apply(edits)
	if err != nil || len(res.Applied) == 0 {
		return false
	}

	if typing {
		d.Cursors.ReplaceAll(cursor.CaretsAfterTyping(res.Applied))
	} else {
		d.Cursors.ApplyEdits(res.Applied)
	}
	d.Cursors.Clamp(d.Buf.Len())

	d.History.Push(&history.Record{
		Kind:    kind,
		Edits:   res.Applied,
		OldText: res.OldText,
		Before:  before,
		After:   d.Cursors.All(),
	})
	d.Hl.Invalidate(pre, res)
	m.Render.ApplyEdit(d.Buf.Snapshot(), res)
	d.Modified = true
	return true
}

// applyHistory replays an undo or redo batch and restores the recorded
// cursor set.
func (m Model) applyHistory(edits []buffer.Edit, sels []cursor.Selection) (Model, []Command) {
	d := m.Doc
	pre := d.Buf.Snapshot()
	res, err := d.Buf.Apply(edits)
	if err != nil {
		return m, nil
	}
	d.Cursors = cursor.FromSelections(sels)
	d.Cursors.Clamp(d.Buf.Len())
	d.Hl.Invalidate(pre, res)
	m.Render.ApplyEdit(d.Buf.Snapshot(), res)
	d.Modified = true
	return m, m.reveal()
}

// deleteAdjacent handles backspace and forward delete: selections are
// removed, carets eat one grapheme cluster in the given direction.
func (m Model) deleteAdjacent(dir cursor.Direction) (Model, []Command) {
	d := m.Doc
	mv := m.mover()
	edits := make([]buffer.Edit, 0, d.Cursors.Count())
	for _, sel := range d.Cursors.All() {
		if !sel.IsCaret() {
			r := sel.Range()
			edits = append(edits, buffer.Deletion(r.Start, r.End))
			continue
		}
		other := mv.Move(sel, dir, cursor.Char, false).Head
		if other == sel.Head {
			continue
		}
		if dir == cursor.Left {
			edits = append(edits, buffer.Deletion(other, sel.Head))
		} else {
			edits = append(edits, buffer.Deletion(sel.Head, other))
		}
	}
	kind := history.KindBackspace
	if dir == cursor.Right {
		kind = history.KindOther
	}
	if !m.commit(edits, kind, false) {
		return m, nil
	}
	return m, m.reveal()
}

// jumpToMatch selects the match found from the given offset and reveals
// it. Finding nothing leaves the model unchanged.
func (m Model) jumpToMatch(from buffer.Offset, backward bool) (Model, []Command) {
	d := m.Doc
	snap := d.Buf.Snapshot()
	match, ok := d.Search.FindNext(snap, from)
	if backward {
		match, ok = d.Search.FindPrev(snap, from)
	}
	if !ok {
		return m, nil
	}
	d.Cursors.Replace(cursor.Select(match.Range.Start, match.Range.End))
	return m, m.reveal()
}

// selectedText joins the selected runs with newlines. Reports false
// when every cursor is a bare caret.
func (m Model) selectedText() (string, bool) {
	if !m.Doc.Cursors.HasSelection() {
		return "", false
	}
	parts := make([]string, 0, m.Doc.Cursors.Count())
	for _, r := range m.Doc.Cursors.Ranges() {
		if !r.IsEmpty() {
			parts = append(parts, m.Doc.Buf.Slice(r.Start, r.End))
		}
	}
	return strings.Join(parts, "\n"), true
}

// mover builds a cursor mover over the current content and page size.
func (m Model) mover() cursor.Mover {
	return cursor.Mover{
		Snap:      m.Doc.Buf.Snapshot(),
		PageLines: m.Render.View.PageLines(),
		TabWidth:  m.Render.TabWidth(),
	}
}

// reveal scrolls the window to keep the primary head visible and
// reports the move to the host.
func (m Model) reveal() []Command {
	p := m.Doc.Buf.OffsetToPoint(m.Doc.Cursors.Primary().Head)
	if m.Render.View.ScrollToReveal(p.Line, p.Column) {
		return []Command{ScrollTo{Line: m.Render.View.Top(), Col: m.Render.View.Left()}}
	}
	return nil
}
