package buffer

import "github.com/vellum-editor/vellum/internal/engine/rope"

// Snapshot is a read-only view of buffer content at a revision. Because
// ropes are immutable, a snapshot stays valid and consistent while the
// buffer moves on to newer revisions.
type Snapshot struct {
	rope     rope.Rope
	revision Revision
}

// Revision returns the revision this snapshot was taken at.
func (s Snapshot) Revision() Revision { return s.revision }

// Len returns the snapshot's byte length.
func (s Snapshot) Len() Offset { return s.rope.Len() }

// Text returns the full content.
func (s Snapshot) Text() string { return s.rope.String() }

// Slice returns the text in [start, end).
func (s Snapshot) Slice(start, end Offset) string { return s.rope.Slice(start, end) }

// LineCount returns the number of lines.
func (s Snapshot) LineCount() int { return s.rope.LineCount() }

// Line returns a line's text without its newline.
func (s Snapshot) Line(line int) string { return s.rope.Line(line) }

// LineToOffset returns the byte offset where line starts.
func (s Snapshot) LineToOffset(line int) Offset { return s.rope.LineStart(line) }

// LineEndOffset returns the offset of a line's end, before its newline.
func (s Snapshot) LineEndOffset(line int) Offset { return s.rope.LineEnd(line) }

// OffsetToPoint converts a byte offset to line/column.
func (s Snapshot) OffsetToPoint(offset Offset) Point { return s.rope.OffsetToPoint(offset) }

// PointToOffset converts line/column to a byte offset.
func (s Snapshot) PointToOffset(p Point) Offset { return s.rope.PointToOffset(p) }

// Lines returns an iterator positioned before the given line.
func (s Snapshot) Lines(from int) *rope.LineIter { return s.rope.LinesFrom(from) }

// Rope exposes the underlying rope for components that need structural
// access, such as the search scanner.
func (s Snapshot) Rope() rope.Rope { return s.rope }
