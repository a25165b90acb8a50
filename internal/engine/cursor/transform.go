package cursor

import (
	"sort"

	"github.com/vellum-editor/vellum/internal/engine/buffer"
)

// Edit is re-exported for callers assembling batches.
type Edit = buffer.Edit

// Bias controls how an offset behaves when an insertion lands exactly on
// it: BiasAfter rides to the end of the inserted text, BiasBefore stays
// put. Heads use BiasAfter so a caret ends up after what it typed.
type Bias uint8

const (
	BiasAfter Bias = iota
	BiasBefore
)

// TransformOffset maps a pre-edit offset to its post-edit position by
// forward delta accumulation over edits sorted ascending by start. An
// offset inside a replaced range lands at the end of the replacement.
func TransformOffset(offset Offset, edits []Edit, bias Bias) Offset {
	var delta Offset
	for _, e := range edits {
		switch {
		case e.Range.End < offset,
			e.Range.End == offset && !(bias == BiasBefore && e.Range.IsEmpty() && e.Range.Start == offset):
			delta += e.Delta()
		case e.Range.Start >= offset:
			// Ascending order: nothing further can affect this offset.
			return offset + delta
		default:
			// Edit spans the offset.
			return e.Range.Start + delta + Offset(len(e.NewText))
		}
	}
	return offset + delta
}

// SortAscending orders edits by ascending start offset, the order
// TransformOffset consumes.
func SortAscending(edits []Edit) {
	sort.Slice(edits, func(i, j int) bool {
		return edits[i].Range.Start < edits[j].Range.Start
	})
}

// ApplyEdits recomputes every selection in the set for a committed batch
// and re-normalizes, merging any selections the edit pushed together.
// The batch may be in any order; it is not modified.
func (s *Set) ApplyEdits(edits []Edit) {
	if len(edits) == 0 {
		return
	}
	asc := append([]Edit(nil), edits...)
	SortAscending(asc)
	s.Map(func(sel Selection) Selection {
		return Selection{
			Anchor: TransformOffset(sel.Anchor, asc, BiasBefore),
			Head:   TransformOffset(sel.Head, asc, BiasAfter),
			Sticky: NoSticky,
		}
	})
}

// CaretsAfterTyping places one caret immediately after each edit's
// replacement text, the standard result of a multi-cursor type or paste.
func CaretsAfterTyping(edits []Edit) []Selection {
	asc := append([]Edit(nil), edits...)
	SortAscending(asc)
	sels := make([]Selection, 0, len(asc))
	var delta Offset
	for _, e := range asc {
		end := e.Range.Start + delta + Offset(len(e.NewText))
		sels = append(sels, Caret(end))
		delta += e.Delta()
	}
	return sels
}
