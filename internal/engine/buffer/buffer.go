// Package buffer implements the editable text buffer at the core of a
// document: a rope plus a monotonically increasing revision counter,
// line-ending normalization and atomic batch edits. Derived state
// (highlighting, layout) keys its caches on the revision and never holds
// pointers into the buffer.
package buffer

import (
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/vellum-editor/vellum/internal/engine/rope"
)

var (
	// ErrOffsetOutOfRange reports an offset outside [0, Len].
	ErrOffsetOutOfRange = errors.New("offset out of range")

	// ErrRangeInvalid reports an inverted or out-of-bounds range.
	ErrRangeInvalid = errors.New("invalid range")

	// ErrEditsOverlap reports a batch whose edits overlap or are not in
	// descending order.
	ErrEditsOverlap = errors.New("edits overlap or are out of order")
)

// Revision identifies a buffer content version. It increments by exactly
// one on every committed mutation, so derived caches can compare instead
// of recompute.
type Revision uint64

// LineEnding is the newline convention a buffer normalizes to.
type LineEnding uint8

const (
	LineEndingLF LineEnding = iota
	LineEndingCRLF
	LineEndingCR
)

// Sequence returns the literal bytes of the line ending.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// Buffer is an editable text sequence. It is the single source of truth
// for document content. Buffer is not internally synchronized: the engine
// guarantees a single writer during an update step, and readers use
// Snapshot for concurrent access.
type Buffer struct {
	rope       rope.Rope
	revision   Revision
	lineEnding LineEnding
}

// New returns an empty buffer.
func New(opts ...Option) *Buffer {
	b := &Buffer{rope: rope.New(), revision: 1}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// FromString returns a buffer holding s, normalized to the buffer's line
// ending convention.
func FromString(s string, opts ...Option) *Buffer {
	b := New(opts...)
	b.rope = rope.FromString(b.normalize(s))
	return b
}

// FromReader returns a buffer read from r.
func FromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return FromString(string(data), opts...), nil
}

// normalize rewrites line endings to the buffer's convention. Internally
// the rope always stores LF; CRLF/CR buffers convert on save.
func (b *Buffer) normalize(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Revision returns the current revision.
func (b *Buffer) Revision() Revision { return b.revision }

// LineEnding returns the buffer's serialization convention.
func (b *Buffer) LineEnding() LineEnding { return b.lineEnding }

// Len returns the byte length of the content.
func (b *Buffer) Len() Offset { return b.rope.Len() }

// IsEmpty reports whether the buffer holds no text.
func (b *Buffer) IsEmpty() bool { return b.rope.Len() == 0 }

// Text returns the entire content. Prefer Slice for bounded reads.
func (b *Buffer) Text() string { return b.rope.String() }

// Slice returns the text in [start, end), clamped to the buffer.
func (b *Buffer) Slice(start, end Offset) string { return b.rope.Slice(start, end) }

// Serialize returns the content in the buffer's line-ending convention,
// suitable for handing back to the file-I/O layer. A buffer loaded and
// serialized without edits round-trips byte for byte.
func (b *Buffer) Serialize() string {
	text := b.rope.String()
	if seq := b.lineEnding.Sequence(); seq != "\n" {
		text = strings.ReplaceAll(text, "\n", seq)
	}
	return text
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() int { return b.rope.LineCount() }

// Line returns a line's text without its newline.
func (b *Buffer) Line(line int) string { return b.rope.Line(line) }

// LineToOffset returns the byte offset where line starts. O(log n).
func (b *Buffer) LineToOffset(line int) Offset { return b.rope.LineStart(line) }

// LineEndOffset returns the offset of a line's end, before its newline.
func (b *Buffer) LineEndOffset(line int) Offset { return b.rope.LineEnd(line) }

// OffsetToLine returns the line containing offset. O(log n).
func (b *Buffer) OffsetToLine(offset Offset) int {
	return b.rope.OffsetToPoint(offset).Line
}

// OffsetToPoint converts a byte offset to line/column.
func (b *Buffer) OffsetToPoint(offset Offset) Point {
	return b.rope.OffsetToPoint(offset)
}

// PointToOffset converts line/column to a byte offset.
func (b *Buffer) PointToOffset(p Point) Offset {
	return b.rope.PointToOffset(p)
}

// RuneAt decodes the rune starting at offset. Returns utf8.RuneError with
// size 0 when offset is out of range.
func (b *Buffer) RuneAt(offset Offset) (rune, int) {
	if offset < 0 || offset >= b.rope.Len() {
		return utf8.RuneError, 0
	}
	end := min(offset+utf8.UTFMax, b.rope.Len())
	return utf8.DecodeRuneInString(b.rope.Slice(offset, end))
}

// RuneBefore decodes the rune ending at offset.
func (b *Buffer) RuneBefore(offset Offset) (rune, int) {
	if offset <= 0 || offset > b.rope.Len() {
		return utf8.RuneError, 0
	}
	start := max(offset-utf8.UTFMax, 0)
	return utf8.DecodeLastRuneInString(b.rope.Slice(start, offset))
}

// EditResult describes a committed mutation.
type EditResult struct {
	// Dirty is the invalidated byte interval in post-edit coordinates.
	// It drives incremental re-parse and layout recompute scope.
	Dirty Range

	// OldText is the replaced text, retained for undo.
	OldText []string

	// Applied holds the edits as applied, descending by offset.
	Applied []Edit

	// Revision is the buffer revision after the commit.
	Revision Revision
}

// Apply validates and applies a batch of edits atomically, committing one
// revision increment for the whole batch. Edits are sorted descending
// internally; they must not overlap. On any validation error the buffer
// is left unchanged.
func (b *Buffer) Apply(edits []Edit) (EditResult, error) {
	batch := make([]Edit, 0, len(edits))
	for _, e := range edits {
		if !e.IsNoop() {
			batch = append(batch, e)
		}
	}
	if len(batch) == 0 {
		return EditResult{Revision: b.revision}, nil
	}

	SortDescending(batch)
	if err := ValidateBatch(batch); err != nil {
		return EditResult{}, err
	}
	limit := b.rope.Len()
	for i := range batch {
		e := batch[i]
		if e.Range.Start < 0 || e.Range.Start > e.Range.End || e.Range.End > limit {
			return EditResult{}, ErrRangeInvalid
		}
		batch[i].NewText = b.normalize(e.NewText)
	}

	old := make([]string, len(batch))
	r := b.rope
	for i, e := range batch {
		old[i] = r.Slice(e.Range.Start, e.Range.End)
		r = r.Replace(e.Range.Start, e.Range.End, e.NewText)
	}
	b.rope = r
	b.revision++

	dirty, _ := BatchDirty(batch)
	dirty = dirty.Clamp(b.rope.Len() + 1)
	return EditResult{
		Dirty:    dirty,
		OldText:  old,
		Applied:  batch,
		Revision: b.revision,
	}, nil
}

// Insert inserts text at offset. Offsets outside the buffer are rejected
// with ErrOffsetOutOfRange; callers clamp explicitly so cursor targets
// never silently diverge from the applied edit.
func (b *Buffer) Insert(offset Offset, text string) (EditResult, error) {
	if offset < 0 || offset > b.rope.Len() {
		return EditResult{}, ErrOffsetOutOfRange
	}
	return b.Apply([]Edit{Insertion(offset, text)})
}

// Delete removes [start, end).
func (b *Buffer) Delete(start, end Offset) (EditResult, error) {
	return b.Apply([]Edit{Deletion(start, end)})
}

// Replace substitutes [start, end) with text.
func (b *Buffer) Replace(start, end Offset, text string) (EditResult, error) {
	return b.Apply([]Edit{{Range: NewRange(start, end), NewText: text}})
}

// Snapshot returns an immutable view of the current content. Snapshots
// are cheap: the underlying rope is shared, never copied.
func (b *Buffer) Snapshot() Snapshot {
	return Snapshot{rope: b.rope, revision: b.revision}
}
