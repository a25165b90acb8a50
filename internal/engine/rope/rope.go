// Package rope implements an immutable rope over UTF-8 text.
//
// A rope is a balanced tree whose leaves hold short string fragments and
// whose internal nodes carry aggregated metrics (bytes, runes, newlines)
// for their subtrees. Insert, delete, slice and line lookups are all
// O(log n) in document length; because ropes are immutable, snapshots are
// free and safe to read concurrently with edits against newer versions.
package rope

import (
	"io"
	"strings"
)

// Rope is an immutable text sequence. The zero value is an empty rope.
// All operations return new Rope values and never modify the receiver.
type Rope struct {
	root *node
}

// New returns an empty rope.
func New() Rope {
	return Rope{root: leaf("")}
}

// FromString builds a rope from s.
func FromString(s string) Rope {
	if len(s) == 0 {
		return New()
	}
	var b Builder
	b.WriteString(s)
	return b.Rope()
}

// FromReader builds a rope by consuming r.
func FromReader(r io.Reader) (Rope, error) {
	var b Builder
	buf := make([]byte, 64*1024)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			b.WriteString(string(buf[:n]))
		}
		if err == io.EOF {
			return b.Rope(), nil
		}
		if err != nil {
			return Rope{}, err
		}
	}
}

// Len returns the total byte length.
func (r Rope) Len() Offset {
	if r.root == nil {
		return 0
	}
	return r.root.length()
}

// LineCount returns the number of lines, which is newlines + 1. An empty
// rope has one (empty) line.
func (r Rope) LineCount() int {
	if r.root == nil {
		return 1
	}
	return r.root.summary.Newlines + 1
}

// Summary returns the aggregated metrics for the whole rope.
func (r Rope) Summary() Summary {
	if r.root == nil {
		return emptySummary()
	}
	return r.root.summary
}

// String materializes the full text. Intended for tests and small ropes;
// prefer Slice for bounded reads.
func (r Rope) String() string {
	if r.root == nil {
		return ""
	}
	var b strings.Builder
	b.Grow(int(r.Len()))
	r.root.writeTo(&b)
	return b.String()
}

// Slice returns the text in [start, end). Bounds are clamped to the rope.
func (r Rope) Slice(start, end Offset) string {
	if r.root == nil {
		return ""
	}
	if start < 0 {
		start = 0
	}
	if end > r.Len() {
		end = r.Len()
	}
	if start >= end {
		return ""
	}
	var b strings.Builder
	b.Grow(int(end - start))
	r.root.writeRange(&b, start, end)
	return b.String()
}

// ByteAt returns the byte at offset and whether the offset was in range.
func (r Rope) ByteAt(offset Offset) (byte, bool) {
	if r.root == nil || offset < 0 || offset >= r.Len() {
		return 0, false
	}
	return r.root.byteAt(offset), true
}

// Insert returns a rope with text inserted at offset. Offsets outside
// [0, Len] are clamped; callers that need strict bounds check first.
func (r Rope) Insert(offset Offset, text string) Rope {
	if len(text) == 0 {
		return r
	}
	if r.root == nil || r.Len() == 0 {
		return FromString(text)
	}
	if offset < 0 {
		offset = 0
	}
	if offset > r.Len() {
		offset = r.Len()
	}
	left, right := r.root.split(offset)
	mid := FromString(text).root
	return Rope{root: join(join(left, mid), right)}
}

// Delete returns a rope with [start, end) removed.
func (r Rope) Delete(start, end Offset) Rope {
	if r.root == nil {
		return r
	}
	if start < 0 {
		start = 0
	}
	if end > r.Len() {
		end = r.Len()
	}
	if start >= end {
		return r
	}
	left, rest := r.root.split(start)
	_, right := rest.split(end - start)
	return Rope{root: join(left, right)}
}

// Replace returns a rope with [start, end) replaced by text.
func (r Rope) Replace(start, end Offset, text string) Rope {
	if start >= end {
		return r.Insert(start, text)
	}
	if len(text) == 0 {
		return r.Delete(start, end)
	}
	return r.Delete(start, end).Insert(start, text)
}

// Split divides the rope into [0, offset) and [offset, Len).
func (r Rope) Split(offset Offset) (Rope, Rope) {
	if r.root == nil {
		return New(), New()
	}
	l, rr := r.root.split(offset)
	return Rope{root: l}, Rope{root: rr}
}

// Concat appends other to r.
func (r Rope) Concat(other Rope) Rope {
	if r.root == nil {
		return other
	}
	if other.root == nil {
		return r
	}
	return Rope{root: join(r.root, other.root)}
}

// LineStart returns the byte offset at which line begins. Lines are
// 0-indexed; out-of-range lines return Len.
func (r Rope) LineStart(line int) Offset {
	if r.root == nil || line <= 0 {
		return 0
	}
	if line > r.root.summary.Newlines {
		return r.Len()
	}
	// Offset just past the line-th newline.
	return offsetAfterNewline(r.root, line)
}

// LineEnd returns the byte offset of the end of line, excluding its
// trailing newline.
func (r Rope) LineEnd(line int) Offset {
	if r.root == nil {
		return 0
	}
	if line >= r.LineCount()-1 {
		return r.Len()
	}
	return r.LineStart(line+1) - 1
}

// Line returns the text of a line without its trailing newline.
func (r Rope) Line(line int) string {
	return r.Slice(r.LineStart(line), r.LineEnd(line))
}

// OffsetToPoint converts a byte offset into a line/column position.
// Column is the byte offset within the line.
func (r Rope) OffsetToPoint(offset Offset) Point {
	if r.root == nil || offset <= 0 {
		return Point{}
	}
	if offset > r.Len() {
		offset = r.Len()
	}
	line := newlinesBefore(r.root, offset)
	return Point{Line: line, Column: int(offset - r.LineStart(line))}
}

// PointToOffset converts a line/column position into a byte offset.
// Columns beyond the line clamp to the line end.
func (r Rope) PointToOffset(p Point) Offset {
	if r.root == nil {
		return 0
	}
	start := r.LineStart(p.Line)
	end := r.LineEnd(p.Line)
	if Offset(p.Column) > end-start {
		return end
	}
	return start + Offset(p.Column)
}

// offsetAfterNewline returns the offset just past the nth newline
// (1-indexed) in the subtree. n must be within the subtree's count.
func offsetAfterNewline(n *node, nth int) Offset {
	var at Offset
	for !n.isLeaf() {
		for _, c := range n.children {
			if c.summary.Newlines >= nth {
				n = c
				break
			}
			nth -= c.summary.Newlines
			at += c.length()
		}
	}
	return at + Offset(nthNewline(n.text, nth)) + 1
}

// newlinesBefore counts newlines strictly before offset.
func newlinesBefore(n *node, offset Offset) int {
	count := 0
	for !n.isLeaf() {
		if offset >= n.length() {
			return count + n.summary.Newlines
		}
		for _, c := range n.children {
			if clen := c.length(); offset < clen {
				n = c
				break
			} else {
				count += c.summary.Newlines
				offset -= clen
			}
		}
	}
	if offset > Offset(len(n.text)) {
		offset = Offset(len(n.text))
	}
	return count + countNewlines(n.text[:offset])
}

// Equal reports whether two ropes hold the same text. It compares content,
// not structure.
func (r Rope) Equal(other Rope) bool {
	if r.Len() != other.Len() {
		return false
	}
	a := r.Chunks()
	b := other.Chunks()
	var sa, sb string
	for {
		if sa == "" {
			if !a.Next() {
				return sb == "" && !b.Next()
			}
			sa = a.Text()
		}
		if sb == "" {
			if !b.Next() {
				return false
			}
			sb = b.Text()
		}
		n := min(len(sa), len(sb))
		if sa[:n] != sb[:n] {
			return false
		}
		sa, sb = sa[n:], sb[n:]
	}
}
