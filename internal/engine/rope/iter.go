package rope

// ChunkIter walks the rope's leaf fragments in order without
// materializing the full text.
type ChunkIter struct {
	stack []*node
	cur   string
}

// Chunks returns an iterator over the rope's leaf fragments.
func (r Rope) Chunks() *ChunkIter {
	it := &ChunkIter{}
	if r.root != nil && r.root.length() > 0 {
		it.stack = append(it.stack, r.root)
	}
	return it
}

// Next advances to the next fragment. It returns false when exhausted.
func (it *ChunkIter) Next() bool {
	for len(it.stack) > 0 {
		n := it.stack[len(it.stack)-1]
		it.stack = it.stack[:len(it.stack)-1]
		if n.isLeaf() {
			it.cur = n.text
			return true
		}
		for i := len(n.children) - 1; i >= 0; i-- {
			it.stack = append(it.stack, n.children[i])
		}
	}
	it.cur = ""
	return false
}

// Text returns the current fragment.
func (it *ChunkIter) Text() string { return it.cur }

// LineIter walks lines in order, each yielded without its newline.
// It slices the rope lazily, so iterating a window of a large document
// does not touch the rest of it.
type LineIter struct {
	r    Rope
	line int
	last int
	cur  string
}

// LinesFrom returns an iterator positioned before the given line.
func (r Rope) LinesFrom(line int) *LineIter {
	return &LineIter{r: r, line: line, last: r.LineCount() - 1}
}

// Next advances to the next line, returning false past the last line.
func (it *LineIter) Next() bool {
	if it.line > it.last {
		it.cur = ""
		return false
	}
	it.cur = it.r.Line(it.line)
	it.line++
	return true
}

// Text returns the current line's text.
func (it *LineIter) Text() string { return it.cur }

// Line returns the 0-indexed number of the current line.
func (it *LineIter) Line() int { return it.line - 1 }
