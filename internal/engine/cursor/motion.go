package cursor

import (
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/vellum-editor/vellum/internal/engine/buffer"
)

// Direction of a cursor movement.
type Direction uint8

const (
	Left Direction = iota
	Right
	Up
	Down
)

// Granularity of a cursor movement.
type Granularity uint8

const (
	// Char moves by one grapheme cluster.
	Char Granularity = iota
	// Word moves to the next/previous word boundary.
	Word
	// Line moves vertically, holding the sticky column.
	Line
	// LineBoundary moves to line start/end.
	LineBoundary
	// Page moves vertically by a page of lines.
	Page
	// Document moves to buffer start/end.
	Document
)

// Mover computes cursor movement against a buffer snapshot. PageLines is
// the vertical span of a Page movement, supplied by the viewport.
// TabWidth is the tab stop interval for sticky-column math; zero means
// DefaultTabWidth.
type Mover struct {
	Snap      buffer.Snapshot
	PageLines int
	TabWidth  int
}

// DefaultTabWidth is the tab stop interval used when the Mover carries
// none.
const DefaultTabWidth = 4

// Move returns sel moved in the given direction and granularity. With
// extend the anchor is held; otherwise the result is a caret. Moving a
// non-extended caret Left/Right off a selection collapses to the
// selection's edge first, the common editor convention.
func (m Mover) Move(sel Selection, dir Direction, gran Granularity, extend bool) Selection {
	if !extend && !sel.IsCaret() && gran == Char {
		switch dir {
		case Left:
			return Caret(sel.Start())
		case Right:
			return Caret(sel.End())
		}
	}

	head := sel.Head
	sticky := sel.Sticky

	switch gran {
	case Char:
		head = m.stepChar(head, dir)
		sticky = NoSticky
	case Word:
		head = m.stepWord(head, dir)
		sticky = NoSticky
	case Line, Page:
		lines := 1
		if gran == Page {
			lines = max(m.PageLines, 1)
		}
		head, sticky = m.stepVertical(head, dir, lines, sticky)
	case LineBoundary:
		line := m.Snap.OffsetToPoint(head).Line
		if dir == Left {
			head = m.Snap.LineToOffset(line)
		} else {
			head = m.Snap.LineEndOffset(line)
		}
		sticky = NoSticky
	case Document:
		if dir == Left || dir == Up {
			head = 0
		} else {
			head = m.Snap.Len()
		}
		sticky = NoSticky
	}

	if extend {
		return Selection{Anchor: sel.Anchor, Head: head, Sticky: sticky}
	}
	return Selection{Anchor: head, Head: head, Sticky: sticky}
}

// CloneAbove returns a caret one line above sel at its sticky column, for
// add-cursor-above. Returns false at the first line.
func (m Mover) CloneAbove(sel Selection) (Selection, bool) {
	return m.cloneVertical(sel, Up)
}

// CloneBelow returns a caret one line below sel at its sticky column.
func (m Mover) CloneBelow(sel Selection) (Selection, bool) {
	return m.cloneVertical(sel, Down)
}

func (m Mover) cloneVertical(sel Selection, dir Direction) (Selection, bool) {
	p := m.Snap.OffsetToPoint(sel.Head)
	if dir == Up && p.Line == 0 {
		return Selection{}, false
	}
	if dir == Down && p.Line >= m.Snap.LineCount()-1 {
		return Selection{}, false
	}
	head, sticky := m.stepVertical(sel.Head, dir, 1, sel.Sticky)
	return Selection{Anchor: head, Head: head, Sticky: sticky}, true
}

// stepChar moves one grapheme cluster left or right.
func (m Mover) stepChar(offset Offset, dir Direction) Offset {
	switch dir {
	case Left:
		if offset <= 0 {
			return 0
		}
		line := m.Snap.OffsetToPoint(offset).Line
		start := m.Snap.LineToOffset(line)
		if offset == start {
			// Cross the newline onto the previous line's end.
			return offset - 1
		}
		return start + prevGraphemeBoundary(m.Snap.Slice(start, offset))
	case Right:
		limit := m.Snap.Len()
		if offset >= limit {
			return limit
		}
		line := m.Snap.OffsetToPoint(offset).Line
		end := m.Snap.LineEndOffset(line)
		if offset >= end {
			return offset + 1
		}
		g, _, _, _ := uniseg.FirstGraphemeClusterInString(m.Snap.Slice(offset, end), -1)
		return offset + Offset(len(g))
	}
	return offset
}

// prevGraphemeBoundary returns the byte index of the start of the last
// grapheme cluster in s.
func prevGraphemeBoundary(s string) Offset {
	var last int
	state := -1
	for rest, i := s, 0; len(rest) > 0; {
		g, tail, _, st := uniseg.FirstGraphemeClusterInString(rest, state)
		if len(tail) == 0 {
			last = i
			break
		}
		i += len(g)
		rest = tail
		state = st
	}
	return Offset(last)
}

// stepWord moves to the previous word start or the next word end.
func (m Mover) stepWord(offset Offset, dir Direction) Offset {
	snap := m.Snap
	switch dir {
	case Left:
		// Skip separators, then the word run.
		for offset > 0 {
			r, size := runeBefore(snap, offset)
			if isWordRune(r) {
				break
			}
			offset -= Offset(size)
		}
		for offset > 0 {
			r, size := runeBefore(snap, offset)
			if !isWordRune(r) {
				break
			}
			offset -= Offset(size)
		}
	case Right:
		limit := snap.Len()
		for offset < limit {
			r, size := runeAt(snap, offset)
			if isWordRune(r) {
				break
			}
			offset += Offset(size)
		}
		for offset < limit {
			r, size := runeAt(snap, offset)
			if !isWordRune(r) {
				break
			}
			offset += Offset(size)
		}
	}
	return offset
}

// stepVertical moves by whole lines, aiming for the sticky column and
// remembering it for subsequent vertical steps.
func (m Mover) stepVertical(offset Offset, dir Direction, lines int, sticky int) (Offset, int) {
	p := m.Snap.OffsetToPoint(offset)
	col := sticky
	if col == NoSticky {
		col = m.visualColumn(m.Snap.Slice(m.Snap.LineToOffset(p.Line), offset))
	}

	target := p.Line
	if dir == Up {
		target -= lines
	} else {
		target += lines
	}
	if target < 0 {
		if p.Line == 0 {
			return 0, col
		}
		target = 0
	}
	if last := m.Snap.LineCount() - 1; target > last {
		if p.Line == last {
			return m.Snap.Len(), col
		}
		target = last
	}

	start := m.Snap.LineToOffset(target)
	end := m.Snap.LineEndOffset(target)
	return start + m.offsetAtVisualColumn(m.Snap.Slice(start, end), col), col
}

func (m Mover) tabWidth() int {
	if m.TabWidth > 0 {
		return m.TabWidth
	}
	return DefaultTabWidth
}

// visualColumn measures s in screen cells, expanding tabs to the next
// tab stop, so the sticky column survives lines with tabs or wide
// clusters.
func (m Mover) visualColumn(s string) int {
	width := 0
	state := -1
	for len(s) > 0 {
		var g string
		g, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		if g == "\t" {
			width += m.tabWidth() - width%m.tabWidth()
		} else {
			width += runewidth.StringWidth(g)
		}
	}
	return width
}

// offsetAtVisualColumn returns the byte offset of the cluster covering
// visual column col, clamped to the end of s. A column inside a wide
// cluster or a tab resolves to the cluster's start.
func (m Mover) offsetAtVisualColumn(s string, col int) Offset {
	var off Offset
	width := 0
	state := -1
	for len(s) > 0 {
		var g string
		g, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		w := runewidth.StringWidth(g)
		if g == "\t" {
			w = m.tabWidth() - width%m.tabWidth()
		}
		if width+w > col {
			return off
		}
		width += w
		off += Offset(len(g))
	}
	return off
}

// WordRangeAt returns the word range surrounding offset, for
// double-click style selection. Returns false when offset is not on a
// word rune.
func (m Mover) WordRangeAt(offset Offset) (Range, bool) {
	r, _ := runeAt(m.Snap, offset)
	if !isWordRune(r) {
		return Range{}, false
	}
	start, end := offset, offset
	for start > 0 {
		r, size := runeBefore(m.Snap, start)
		if !isWordRune(r) {
			break
		}
		start -= Offset(size)
	}
	limit := m.Snap.Len()
	for end < limit {
		r, size := runeAt(m.Snap, end)
		if !isWordRune(r) {
			break
		}
		end += Offset(size)
	}
	return Range{Start: start, End: end}, true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func runeAt(snap buffer.Snapshot, offset Offset) (rune, int) {
	end := min(offset+utf8.UTFMax, snap.Len())
	return utf8.DecodeRuneInString(snap.Slice(offset, end))
}

func runeBefore(snap buffer.Snapshot, offset Offset) (rune, int) {
	start := max(offset-utf8.UTFMax, 0)
	return utf8.DecodeLastRuneInString(snap.Slice(start, offset))
}
