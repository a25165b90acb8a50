package engine

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/vellum-editor/vellum/internal/engine/buffer"
	"github.com/vellum-editor/vellum/internal/engine/cursor"
	"github.com/vellum-editor/vellum/internal/engine/search"
)

func newModel(t *testing.T, content string) Model {
	t.Helper()
	doc := NewDocument("scratch.txt", content, zerolog.Nop())
	t.Cleanup(doc.Close)
	return NewModel(doc, 80, 24)
}

func heads(m Model) []buffer.Offset {
	sels := m.Doc.Cursors.All()
	out := make([]buffer.Offset, len(sels))
	for i, s := range sels {
		out[i] = s.Head
	}
	return out
}

func TestDocumentLoggerCarriesIdentity(t *testing.T) {
	var out bytes.Buffer
	doc := NewDocument("notes.txt", "hello", zerolog.New(&out))
	defer doc.Close()

	doc.Log.Warn().Msg("save failed")
	if !strings.Contains(out.String(), doc.ID.String()) {
		t.Errorf("log entry %q lacks document id %s", out.String(), doc.ID)
	}
}

func TestInsertAtCaret(t *testing.T) {
	m := newModel(t, "hello world")
	m.Doc.Cursors.Replace(cursor.Caret(5))
	before := m.Doc.Buf.Revision()

	m, _ = Update(m, InsertText{Text: "x"})

	if got := m.Doc.Buf.Text(); got != "hellox world" {
		t.Errorf("text = %q", got)
	}
	if got := heads(m); len(got) != 1 || got[0] != 6 {
		t.Errorf("caret = %v, want [6]", got)
	}
	if m.Doc.Buf.Revision() != before+1 {
		t.Errorf("revision advanced by %d", m.Doc.Buf.Revision()-before)
	}
	if !m.Doc.Modified {
		t.Error("document not marked modified")
	}
}

func TestTwoCaretsTypeOnce(t *testing.T) {
	m := newModel(t, "abcdefghij")
	m.Doc.Cursors.ReplaceAll([]cursor.Selection{cursor.Caret(0), cursor.Caret(6)})
	before := m.Doc.Buf.Revision()

	m, _ = Update(m, InsertText{Text: "Z"})

	if got := m.Doc.Buf.Text(); got != "ZabcdefZghij" {
		t.Fatalf("text = %q", got)
	}
	if got := heads(m); len(got) != 2 || got[0] != 1 || got[1] != 8 {
		t.Errorf("carets = %v, want [1 8]", got)
	}
	if m.Doc.Buf.Revision() != before+1 {
		t.Errorf("batch took %d revisions, want 1", m.Doc.Buf.Revision()-before)
	}
}

func TestInsertReplacesSelection(t *testing.T) {
	m := newModel(t, "hello world")
	m.Doc.Cursors.Replace(cursor.Select(0, 5))

	m, _ = Update(m, InsertText{Text: "goodbye"})
	if got := m.Doc.Buf.Text(); got != "goodbye world" {
		t.Errorf("text = %q", got)
	}
	if got := heads(m); got[0] != 7 {
		t.Errorf("caret = %v, want after replacement", got)
	}
}

func TestBackspaceGraphemeAndMerge(t *testing.T) {
	m := newModel(t, "xe\u0301y") // e + combining acute, 3-byte cluster
	m.Doc.Cursors.Replace(cursor.Caret(4))

	m, _ = Update(m, DeleteBackward{})
	if got := m.Doc.Buf.Text(); got != "xy" {
		t.Errorf("text = %q, want cluster deleted whole", got)
	}

	// Two carets whose gap is deleted collapse to one.
	m2 := newModel(t, "abcdef")
	m2.Doc.Cursors.ReplaceAll([]cursor.Selection{cursor.Caret(3), cursor.Caret(4)})
	m2, _ = Update(m2, DeleteBackward{})
	if got := m2.Doc.Buf.Text(); got != "abef" {
		t.Errorf("text = %q", got)
	}
	if m2.Doc.Cursors.Count() != 1 {
		t.Errorf("cursors = %d, want merged to 1", m2.Doc.Cursors.Count())
	}
}

func TestTypingCoalescesIntoOneUndo(t *testing.T) {
	m := newModel(t, "")
	for _, ch := range []string{"a", "b", "c"} {
		m, _ = Update(m, InsertText{Text: ch})
	}
	m, _ = Update(m, Undo{})
	if got := m.Doc.Buf.Text(); got != "" {
		t.Errorf("one undo after typing run left %q", got)
	}
	m, _ = Update(m, Redo{})
	if got := m.Doc.Buf.Text(); got != "abc" {
		t.Errorf("redo restored %q", got)
	}
}

func TestUndoRestoresCursors(t *testing.T) {
	m := newModel(t, "abcdefghij")
	m.Doc.Cursors.ReplaceAll([]cursor.Selection{cursor.Caret(0), cursor.Caret(6)})
	m, _ = Update(m, InsertText{Text: "Z"})
	m, _ = Update(m, Undo{})

	if got := m.Doc.Buf.Text(); got != "abcdefghij" {
		t.Fatalf("text = %q", got)
	}
	if got := heads(m); len(got) != 2 || got[0] != 0 || got[1] != 6 {
		t.Errorf("cursors after undo = %v, want [0 6]", got)
	}
}

func TestReplaceAllScenario(t *testing.T) {
	m := newModel(t, "one cat two cat red cat blue cat")
	before := m.Doc.Buf.Revision()

	m, _ = Update(m, Find{Query: search.Query{Pattern: "cat"}})
	m, _ = Update(m, ReplaceAll{Replacement: "dog"})

	if got := m.Doc.Buf.Text(); got != "one dog two dog red dog blue dog" {
		t.Fatalf("text = %q", got)
	}
	if m.Doc.Buf.Revision() != before+1 {
		t.Errorf("replace-all took %d revisions, want 1", m.Doc.Buf.Revision()-before)
	}

	// One undo step reverts the whole substitution.
	m, _ = Update(m, Undo{})
	if got := m.Doc.Buf.Text(); got != "one cat two cat red cat blue cat" {
		t.Errorf("after undo: %q", got)
	}
}

func TestFindSelectsAndAdvances(t *testing.T) {
	m := newModel(t, "ab ab ab")

	m, _ = Update(m, Find{Query: search.Query{Pattern: "ab"}})
	if sel := m.Doc.Cursors.Primary(); sel.Start() != 0 || sel.End() != 2 {
		t.Errorf("first match = %v", sel)
	}
	m, _ = Update(m, FindNext{})
	if sel := m.Doc.Cursors.Primary(); sel.Start() != 3 {
		t.Errorf("next match = %v", sel)
	}
	m, _ = Update(m, FindPrev{})
	if sel := m.Doc.Cursors.Primary(); sel.Start() != 0 {
		t.Errorf("prev match = %v", sel)
	}
}

func TestInvalidPatternLeavesModelUnchanged(t *testing.T) {
	m := newModel(t, "hello")
	m, _ = Update(m, Find{Query: search.Query{Pattern: "hello"}})
	good := m.Doc.Search

	m, _ = Update(m, Find{Query: search.Query{Pattern: "([", Regex: true}})
	if !errors.Is(m.Doc.SearchErr, search.ErrInvalidPattern) {
		t.Errorf("SearchErr = %v", m.Doc.SearchErr)
	}
	if m.Doc.Search != good {
		t.Error("previous query was discarded")
	}
	if got := m.Doc.Buf.Text(); got != "hello" {
		t.Errorf("buffer changed: %q", got)
	}
}

func TestAddCursorBelowAndCollapse(t *testing.T) {
	m := newModel(t, "abc\ndef\nghi")
	m.Doc.Cursors.Replace(cursor.Caret(1))

	m, _ = Update(m, AddCursorBelow{})
	m, _ = Update(m, AddCursorBelow{})
	if m.Doc.Cursors.Count() != 3 {
		t.Fatalf("cursors = %d, want 3", m.Doc.Cursors.Count())
	}

	// At the last line the clone fails and the count holds.
	m, _ = Update(m, AddCursorBelow{})
	if m.Doc.Cursors.Count() != 3 {
		t.Errorf("clone past last line grew the set to %d", m.Doc.Cursors.Count())
	}

	m, _ = Update(m, CollapseCursors{})
	if m.Doc.Cursors.Count() != 1 || !m.Doc.Cursors.Primary().IsCaret() {
		t.Errorf("collapse left %v", m.Doc.Cursors.All())
	}
}

func TestCutCopyCommands(t *testing.T) {
	m := newModel(t, "hello world")
	m.Doc.Cursors.Replace(cursor.Select(0, 5))

	_, cmds := Update(m, Copy{})
	if len(cmds) != 1 {
		t.Fatalf("commands = %v", cmds)
	}
	if cb, ok := cmds[0].(SetClipboard); !ok || cb.Text != "hello" {
		t.Errorf("clipboard = %+v", cmds[0])
	}

	m, cmds = Update(m, Cut{})
	if got := m.Doc.Buf.Text(); got != " world" {
		t.Errorf("text after cut = %q", got)
	}
	if len(cmds) == 0 {
		t.Fatal("cut emitted no commands")
	}
	if cb, ok := cmds[0].(SetClipboard); !ok || cb.Text != "hello" {
		t.Errorf("cut clipboard = %+v", cmds[0])
	}
}

func TestLoadSaveCommands(t *testing.T) {
	m := newModel(t, "draft")

	_, cmds := Update(m, Load{Path: "notes.md"})
	if len(cmds) != 1 {
		t.Fatalf("commands = %v", cmds)
	}
	if rl, ok := cmds[0].(RequestLoad); !ok || rl.Path != "notes.md" {
		t.Errorf("load command = %+v", cmds[0])
	}

	m, _ = Update(m, Loaded{Path: "notes.md", Content: "# title\r\nbody\r\n"})
	if got := m.Doc.Buf.Text(); got != "# title\nbody\n" {
		t.Errorf("normalized content = %q", got)
	}
	if m.Doc.Modified {
		t.Error("freshly loaded document marked modified")
	}

	_, cmds = Update(m, Save{})
	rs, ok := cmds[0].(RequestSave)
	if !ok || rs.Path != "notes.md" {
		t.Fatalf("save command = %+v", cmds[0])
	}
	if rs.Content != "# title\r\nbody\r\n" {
		t.Errorf("serialized = %q, want CRLF round-trip", rs.Content)
	}
}

func TestMoveRevealsScrollCommand(t *testing.T) {
	var content string
	for i := 0; i < 200; i++ {
		content += "line\n"
	}
	m := newModel(t, content)

	m, cmds := Update(m, MoveCursor{Dir: cursor.Down, Gran: cursor.Document})
	if len(cmds) != 1 {
		t.Fatalf("commands = %v, want a scroll", cmds)
	}
	st, ok := cmds[0].(ScrollTo)
	if !ok {
		t.Fatalf("command = %+v", cmds[0])
	}
	first, last := m.Render.View.VisibleLines()
	caretLine := m.Doc.Buf.OffsetToPoint(m.Doc.Cursors.Primary().Head).Line
	if caretLine < first || caretLine >= last {
		t.Errorf("caret line %d outside window [%d, %d) after ScrollTo %+v", caretLine, first, last, st)
	}
}

func TestSelectAllThenType(t *testing.T) {
	m := newModel(t, "old text")
	m, _ = Update(m, SelectAll{})
	m, _ = Update(m, InsertText{Text: "new"})
	if got := m.Doc.Buf.Text(); got != "new" {
		t.Errorf("text = %q", got)
	}
}

func TestEditReplayRoundTrip(t *testing.T) {
	m := newModel(t, "The quick brown fox\njumps over\nthe lazy dog\n")
	msgs := []Msg{
		MoveCursor{Dir: cursor.Right, Gran: cursor.Word},
		InsertText{Text: "!"},
		ExtendSelection{Dir: cursor.Right, Gran: cursor.Word},
		InsertText{Text: "swift"},
		DeleteBackward{},
		InsertText{Text: "\n"},
	}
	for _, msg := range msgs {
		m, _ = Update(m, msg)
	}
	final := m.Doc.Buf.Text()

	// Undo everything, then redo everything: same final content.
	for m.Doc.History.CanUndo() {
		m, _ = Update(m, Undo{})
	}
	if got := m.Doc.Buf.Text(); got != "The quick brown fox\njumps over\nthe lazy dog\n" {
		t.Fatalf("full undo left %q", got)
	}
	for m.Doc.History.CanRedo() {
		m, _ = Update(m, Redo{})
	}
	if got := m.Doc.Buf.Text(); got != final {
		t.Errorf("replay = %q, want %q", got, final)
	}
}
