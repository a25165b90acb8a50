package buffer

import (
	"fmt"
	"sort"
)

// Edit replaces a byte range with new text. An Edit with an empty range is
// an insertion; one with empty NewText is a deletion.
type Edit struct {
	Range   Range
	NewText string
}

// Insertion returns an edit inserting text at offset.
func Insertion(offset Offset, text string) Edit {
	return Edit{Range: Range{Start: offset, End: offset}, NewText: text}
}

// Deletion returns an edit removing [start, end).
func Deletion(start, end Offset) Edit {
	return Edit{Range: NewRange(start, end)}
}

// Delta returns the change in buffer length this edit causes.
func (e Edit) Delta() Offset {
	return Offset(len(e.NewText)) - e.Range.Len()
}

// IsNoop reports whether the edit changes nothing.
func (e Edit) IsNoop() bool {
	return e.Range.IsEmpty() && e.NewText == ""
}

// NewRange returns the range the replacement text occupies after the edit
// is applied, in post-edit coordinates.
func (e Edit) NewRange() Range {
	return Range{Start: e.Range.Start, End: e.Range.Start + Offset(len(e.NewText))}
}

func (e Edit) String() string {
	switch {
	case e.Range.IsEmpty():
		return fmt.Sprintf("insert %q at %d", e.NewText, e.Range.Start)
	case e.NewText == "":
		return fmt.Sprintf("delete %s", e.Range)
	default:
		return fmt.Sprintf("replace %s with %q", e.Range, e.NewText)
	}
}

// Invert returns the edit that undoes e. oldText must be the text the
// original range covered before the edit.
func (e Edit) Invert(oldText string) Edit {
	return Edit{Range: e.NewRange(), NewText: oldText}
}

// SortDescending orders edits by descending start offset, the order
// required for batch application: applying from the highest offset down
// means earlier edits never invalidate later targets.
func SortDescending(edits []Edit) {
	sort.Slice(edits, func(i, j int) bool {
		return edits[i].Range.Start > edits[j].Range.Start
	})
}

// ValidateBatch checks that descending-sorted edits do not overlap.
func ValidateBatch(edits []Edit) error {
	for i := 1; i < len(edits); i++ {
		if edits[i].Range.End > edits[i-1].Range.Start {
			return ErrEditsOverlap
		}
	}
	return nil
}

// BatchDirty returns the dirty range a batch produces, in post-edit
// coordinates: from the lowest edited offset to the highest, shifted by
// the accumulated delta of preceding edits. Returns false for an empty
// batch.
func BatchDirty(edits []Edit) (Range, bool) {
	if len(edits) == 0 {
		return Range{}, false
	}
	// Edits arrive descending; the last is the lowest.
	low := edits[len(edits)-1].Range.Start
	var delta Offset
	for i := len(edits) - 1; i > 0; i-- {
		delta += edits[i].Delta()
	}
	top := edits[0]
	high := top.Range.Start + Offset(len(top.NewText)) + delta
	if high < low {
		high = low
	}
	// A pure deletion still dirties at least the join point.
	if high == low {
		high++
	}
	return Range{Start: low, End: high}, true
}
