package engine

import (
	"github.com/vellum-editor/vellum/internal/engine/buffer"
	"github.com/vellum-editor/vellum/internal/engine/cursor"
	"github.com/vellum-editor/vellum/internal/engine/search"
)

// Msg is an input to Update. Messages describe intent; the engine maps
// each to at most one atomic edit batch.
type Msg interface{ isMsg() }

// InsertText types text at every cursor, replacing any selections.
type InsertText struct{ Text string }

// DeleteBackward deletes the selection, or one grapheme cluster before
// each caret.
type DeleteBackward struct{}

// DeleteForward deletes the selection, or one grapheme cluster after
// each caret.
type DeleteForward struct{}

// DeleteRange deletes an explicit byte range.
type DeleteRange struct{ Range buffer.Range }

// MoveCursor moves every cursor, collapsing selections.
type MoveCursor struct {
	Dir  cursor.Direction
	Gran cursor.Granularity
}

// ExtendSelection moves every head, holding anchors.
type ExtendSelection struct {
	Dir  cursor.Direction
	Gran cursor.Granularity
}

// AddCursorAbove clones the topmost cursor one line up.
type AddCursorAbove struct{}

// AddCursorBelow clones the bottommost cursor one line down.
type AddCursorBelow struct{}

// CollapseCursors drops to a single caret at the primary position.
type CollapseCursors struct{}

// SelectAll selects the whole document.
type SelectAll struct{}

// Copy emits the selected text as a SetClipboard command.
type Copy struct{}

// Cut is Copy followed by deleting the selections, one undo step.
type Cut struct{}

// Find compiles a query and selects the first match at or after the
// primary cursor. A bad pattern records SearchErr and changes nothing
// else.
type Find struct{ Query search.Query }

// FindNext advances the primary cursor to the next match, wrapping.
type FindNext struct{}

// FindPrev moves the primary cursor to the previous match, wrapping.
type FindPrev struct{}

// ReplaceAll substitutes every match of the active query in one batch,
// one revision, one undo step.
type ReplaceAll struct{ Replacement string }

// Undo reverts the most recent undo step.
type Undo struct{}

// Redo re-applies the most recently undone step.
type Redo struct{}

// Scroll moves the viewport by whole lines without touching cursors.
type Scroll struct{ Lines int }

// Resize updates the window size.
type Resize struct{ Width, Height int }

// SetLanguage switches the highlight language by name.
type SetLanguage struct{ Language string }

// Load asks the host to read a file; content arrives as Loaded.
type Load struct{ Path string }

// Loaded replaces the document content. Cursors, history and highlight
// state reset.
type Loaded struct {
	Path    string
	Content string
}

// Save asks the host to persist the serialized content.
type Save struct{}

func (InsertText) isMsg()      {}
func (DeleteBackward) isMsg()  {}
func (DeleteForward) isMsg()   {}
func (DeleteRange) isMsg()     {}
func (MoveCursor) isMsg()      {}
func (ExtendSelection) isMsg() {}
func (AddCursorAbove) isMsg()  {}
func (AddCursorBelow) isMsg()  {}
func (CollapseCursors) isMsg() {}
func (SelectAll) isMsg()       {}
func (Copy) isMsg()            {}
func (Cut) isMsg()             {}
func (Find) isMsg()            {}
func (FindNext) isMsg()        {}
func (FindPrev) isMsg()        {}
func (ReplaceAll) isMsg()      {}
func (Undo) isMsg()            {}
func (Redo) isMsg()            {}
func (Scroll) isMsg()          {}
func (Resize) isMsg()          {}
func (SetLanguage) isMsg()     {}
func (Load) isMsg()            {}
func (Loaded) isMsg()          {}
func (Save) isMsg()            {}
