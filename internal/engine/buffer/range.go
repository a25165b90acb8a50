package buffer

import (
	"fmt"

	"github.com/vellum-editor/vellum/internal/engine/rope"
)

// Offset is a byte position in the buffer.
type Offset = rope.Offset

// Point is a 0-indexed line/column position.
type Point = rope.Point

// Range is a half-open byte interval [Start, End).
type Range struct {
	Start Offset
	End   Offset
}

// NewRange returns a normalized range regardless of argument order.
func NewRange(a, b Offset) Range {
	if a > b {
		a, b = b, a
	}
	return Range{Start: a, End: b}
}

// Len returns the range's byte length.
func (r Range) Len() Offset { return r.End - r.Start }

// IsEmpty reports whether the range covers no bytes.
func (r Range) IsEmpty() bool { return r.Start >= r.End }

// Contains reports whether offset lies within the range.
func (r Range) Contains(offset Offset) bool {
	return offset >= r.Start && offset < r.End
}

// Overlaps reports whether two ranges share at least one byte.
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

// Touches reports whether two ranges overlap or are adjacent.
func (r Range) Touches(other Range) bool {
	return r.Start <= other.End && other.Start <= r.End
}

// Union returns the smallest range covering both.
func (r Range) Union(other Range) Range {
	return Range{Start: min(r.Start, other.Start), End: max(r.End, other.End)}
}

// Intersect returns the overlapping part of two ranges. The second result
// is false when they do not overlap.
func (r Range) Intersect(other Range) (Range, bool) {
	out := Range{Start: max(r.Start, other.Start), End: min(r.End, other.End)}
	if out.Start >= out.End {
		return Range{}, false
	}
	return out, true
}

// Clamp restricts the range to [0, limit].
func (r Range) Clamp(limit Offset) Range {
	if r.Start < 0 {
		r.Start = 0
	}
	if r.End > limit {
		r.End = limit
	}
	if r.Start > r.End {
		r.Start = r.End
	}
	return r
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}
