// Package cursor implements cursors and selections over buffer offsets.
//
// Positions are plain byte offsets recomputed on every mutation, never
// references into buffer internals, so there is no dangling-position
// class of bug: after any edit the whole set is re-derived by offset
// transformation.
package cursor

import (
	"fmt"

	"github.com/vellum-editor/vellum/internal/engine/buffer"
)

// Offset is a byte position in the buffer.
type Offset = buffer.Offset

// Range is a half-open byte interval.
type Range = buffer.Range

// NoSticky marks a selection without a remembered vertical-motion column.
const NoSticky = -1

// Selection is a cursor/selection pair. Anchor is the fixed end, Head the
// moving end; Anchor == Head is a caret. Sticky remembers the visual
// column that vertical motion aims for, so traversing short lines does
// not drift the cursor.
type Selection struct {
	Anchor Offset
	Head   Offset
	Sticky int
}

// Caret returns a zero-width selection at offset.
func Caret(offset Offset) Selection {
	return Selection{Anchor: offset, Head: offset, Sticky: NoSticky}
}

// Select returns a selection from anchor to head.
func Select(anchor, head Offset) Selection {
	return Selection{Anchor: anchor, Head: head, Sticky: NoSticky}
}

// IsCaret reports whether the selection has no extent.
func (s Selection) IsCaret() bool { return s.Anchor == s.Head }

// Start returns the lower of anchor and head.
func (s Selection) Start() Offset { return min(s.Anchor, s.Head) }

// End returns the higher of anchor and head.
func (s Selection) End() Offset { return max(s.Anchor, s.Head) }

// Range returns the covered interval [Start, End).
func (s Selection) Range() Range {
	return Range{Start: s.Start(), End: s.End()}
}

// Reversed reports whether head precedes anchor.
func (s Selection) Reversed() bool { return s.Head < s.Anchor }

// Collapse returns a caret at the head, dropping any extent.
func (s Selection) Collapse() Selection {
	return Selection{Anchor: s.Head, Head: s.Head, Sticky: s.Sticky}
}

// WithHead moves the head, keeping the anchor, for selection extension.
func (s Selection) WithHead(head Offset) Selection {
	return Selection{Anchor: s.Anchor, Head: head, Sticky: NoSticky}
}

// Merge returns the union of two overlapping selections. Direction
// follows the receiver; sticky columns do not survive a merge.
func (s Selection) Merge(o Selection) Selection {
	start := min(s.Start(), o.Start())
	end := max(s.End(), o.End())
	if s.Reversed() {
		return Selection{Anchor: end, Head: start, Sticky: NoSticky}
	}
	return Selection{Anchor: start, Head: end, Sticky: NoSticky}
}

// Clamp restricts both ends to [0, limit].
func (s Selection) Clamp(limit Offset) Selection {
	clamp := func(o Offset) Offset {
		if o < 0 {
			return 0
		}
		if o > limit {
			return limit
		}
		return o
	}
	s.Anchor = clamp(s.Anchor)
	s.Head = clamp(s.Head)
	return s
}

func (s Selection) String() string {
	if s.IsCaret() {
		return fmt.Sprintf("caret@%d", s.Head)
	}
	return fmt.Sprintf("sel(%d->%d)", s.Anchor, s.Head)
}
