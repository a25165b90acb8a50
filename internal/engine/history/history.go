// Package history implements linear undo/redo over committed edit
// batches. Each record stores the applied batch, the text it replaced
// and the cursor sets on both sides, so undo restores exactly the state
// the user saw, multi-cursor edits included.
package history

import (
	"github.com/vellum-editor/vellum/internal/engine/buffer"
	"github.com/vellum-editor/vellum/internal/engine/cursor"
)

// Kind classifies a record for coalescing.
type Kind uint8

const (
	// KindOther never coalesces.
	KindOther Kind = iota
	// KindTyping marks plain character insertion; consecutive typing
	// records collapse into one undo step.
	KindTyping
	// KindBackspace marks single-character deletion before the caret.
	KindBackspace
)

// Record is one undoable step.
type Record struct {
	Kind Kind

	// Edits is the batch as applied, in pre-edit coordinates,
	// descending by offset. OldText holds the replaced text per edit.
	Edits   []buffer.Edit
	OldText []string

	// Before and After are the selection sets around the step.
	Before []cursor.Selection
	After  []cursor.Selection
}

// Invert returns the batch that reverses the record, in post-edit
// coordinates, ready to hand to Buffer.Apply.
func (r *Record) Invert() []buffer.Edit {
	// Walk the applied edits ascending, tracking how much earlier edits
	// shifted later offsets.
	n := len(r.Edits)
	inv := make([]buffer.Edit, 0, n)
	var delta buffer.Offset
	for i := n - 1; i >= 0; i-- {
		e := r.Edits[i]
		start := e.Range.Start + delta
		inv = append(inv, buffer.Edit{
			Range:   buffer.Range{Start: start, End: start + buffer.Offset(len(e.NewText))},
			NewText: r.OldText[i],
		})
		delta += e.Delta()
	}
	return inv
}

// History holds the undo and redo stacks. A new push clears redo.
type History struct {
	undo  []*Record
	redo  []*Record
	limit int
}

// DefaultLimit caps retained undo steps.
const DefaultLimit = 1000

// New returns a history retaining at most limit steps; limit <= 0 uses
// DefaultLimit.
func New(limit int) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &History{limit: limit}
}

// Push records a committed step, coalescing consecutive typing into one
// step per run.
func (h *History) Push(rec *Record) {
	h.redo = h.redo[:0]

	if rec.Kind == KindTyping && len(h.undo) > 0 {
		if last := h.undo[len(h.undo)-1]; last.Kind == KindTyping && continuesTyping(last, rec) {
			merge(last, rec)
			return
		}
	}

	h.undo = append(h.undo, rec)
	if len(h.undo) > h.limit {
		h.undo = h.undo[1:]
	}
}

// Undo pops the most recent record. The caller applies rec.Invert() and
// restores rec.Before.
func (h *History) Undo() (*Record, bool) {
	if len(h.undo) == 0 {
		return nil, false
	}
	rec := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, rec)
	return rec, true
}

// Redo re-applies the most recently undone record. The caller applies
// rec.Edits and restores rec.After.
func (h *History) Redo() (*Record, bool) {
	if len(h.redo) == 0 {
		return nil, false
	}
	rec := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, rec)
	return rec, true
}

// CanUndo reports whether an undo step exists.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether a redo step exists.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Len returns the number of undo steps retained.
func (h *History) Len() int { return len(h.undo) }

// Clear drops both stacks, e.g. on document reload.
func (h *History) Clear() {
	h.undo = h.undo[:0]
	h.redo = h.redo[:0]
}

// continuesTyping reports whether next extends last's typing run: the
// same cursor count, each insertion starting exactly where the previous
// one ended, and no newline (a newline starts a fresh step).
func continuesTyping(last, next *Record) bool {
	if len(last.Edits) != len(next.Edits) {
		return false
	}
	if len(last.After) != len(next.Before) {
		return false
	}
	for i := range next.Edits {
		e := next.Edits[i]
		if !e.Range.IsEmpty() || e.NewText == "" {
			return false
		}
		for j := 0; j < len(e.NewText); j++ {
			if e.NewText[j] == '\n' {
				return false
			}
		}
	}
	for i := range last.After {
		if last.After[i].Head != next.Before[i].Head {
			return false
		}
	}
	return true
}

// merge folds next into last. Both are pure insertion batches with equal
// cursor counts; edits pair up positionally (both are kept descending by
// offset, so index i in both batches belongs to the same caret).
func merge(last, next *Record) {
	for i := range last.Edits {
		last.Edits[i].NewText += next.Edits[i].NewText
	}
	last.After = next.After
}
