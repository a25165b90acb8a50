package cursor

import "sort"

// Set is an ordered collection of non-overlapping selections. The first
// selection is primary. After every operation the set is re-normalized:
// sorted by start and merged on overlap, so two selections never cover
// the same byte.
type Set struct {
	sels []Selection
}

// NewSet returns a set holding a single caret at offset.
func NewSet(offset Offset) *Set {
	return &Set{sels: []Selection{Caret(offset)}}
}

// FromSelections builds a normalized set. An empty input yields a caret
// at offset 0.
func FromSelections(sels []Selection) *Set {
	if len(sels) == 0 {
		return NewSet(0)
	}
	s := &Set{sels: append([]Selection(nil), sels...)}
	s.normalize()
	return s
}

// Primary returns the first selection.
func (s *Set) Primary() Selection { return s.sels[0] }

// All returns a copy of the selections in order.
func (s *Set) All() []Selection {
	return append([]Selection(nil), s.sels...)
}

// Count returns the number of selections.
func (s *Set) Count() int { return len(s.sels) }

// HasSelection reports whether any selection has extent.
func (s *Set) HasSelection() bool {
	for _, sel := range s.sels {
		if !sel.IsCaret() {
			return true
		}
	}
	return false
}

// Add inserts a selection, merging on overlap.
func (s *Set) Add(sel Selection) {
	s.sels = append(s.sels, sel)
	s.normalize()
}

// Replace substitutes the whole set with a single selection.
func (s *Set) Replace(sel Selection) {
	s.sels = append(s.sels[:0], sel)
}

// ReplaceAll substitutes the whole set.
func (s *Set) ReplaceAll(sels []Selection) {
	if len(sels) == 0 {
		s.Replace(Caret(0))
		return
	}
	s.sels = append(s.sels[:0], sels...)
	s.normalize()
}

// Collapse reduces the set to its primary selection as a caret.
func (s *Set) Collapse() {
	s.Replace(s.Primary().Collapse())
}

// Map rewrites each selection through fn, then re-normalizes.
func (s *Set) Map(fn func(Selection) Selection) {
	for i, sel := range s.sels {
		s.sels[i] = fn(sel)
	}
	s.normalize()
}

// Clamp restricts every selection to [0, limit].
func (s *Set) Clamp(limit Offset) {
	s.Map(func(sel Selection) Selection { return sel.Clamp(limit) })
}

// Clone returns an independent copy.
func (s *Set) Clone() *Set {
	return &Set{sels: append([]Selection(nil), s.sels...)}
}

// Ranges returns each selection's covered interval in order.
func (s *Set) Ranges() []Range {
	out := make([]Range, len(s.sels))
	for i, sel := range s.sels {
		out[i] = sel.Range()
	}
	return out
}

// Equal reports whether two sets hold identical selections.
func (s *Set) Equal(o *Set) bool {
	if o == nil || len(s.sels) != len(o.sels) {
		return false
	}
	for i := range s.sels {
		if s.sels[i].Anchor != o.sels[i].Anchor || s.sels[i].Head != o.sels[i].Head {
			return false
		}
	}
	return true
}

// normalize sorts by start offset and merges selections that overlap;
// adjacent selections merge too, but a caret sitting at a selection's
// boundary is a distinct cursor and survives, as do carets at distinct
// offsets. A caret strictly inside another selection is absorbed.
func (s *Set) normalize() {
	if len(s.sels) <= 1 {
		return
	}
	sort.SliceStable(s.sels, func(i, j int) bool {
		si, sj := s.sels[i].Start(), s.sels[j].Start()
		if si != sj {
			return si < sj
		}
		return s.sels[i].End() > s.sels[j].End()
	})

	out := s.sels[:1]
	for _, sel := range s.sels[1:] {
		last := &out[len(out)-1]
		switch {
		case sel.Start() < last.End():
			// Strict overlap always merges.
			*last = last.Merge(sel)
		case sel.Start() == last.End() && sel.IsCaret() && last.IsCaret() && sel.Start() == last.Start():
			// Identical carets collapse to one.
		case sel.Start() == last.End() && !sel.IsCaret() && !last.IsCaret():
			// Adjacent selections merge. Half-open ranges make a caret
			// at a selection's end a separate cursor, so it is kept.
			*last = last.Merge(sel)
		default:
			out = append(out, sel)
		}
	}
	s.sels = out
}
