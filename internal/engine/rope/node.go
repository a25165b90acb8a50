package rope

import "strings"

// Tree fan-out. Leaves hold a single string of at most maxLeafBytes;
// internal nodes hold between 2 and maxFanout children except at the root.
const (
	maxLeafBytes = 512
	minLeafBytes = maxLeafBytes / 2
	maxFanout    = 8
)

// node is a node in the rope tree. Nodes are immutable once linked into a
// rope; edits build new spines and share untouched subtrees.
type node struct {
	summary  Summary
	height   int     // 0 for leaves
	text     string  // leaf payload
	children []*node // internal payload
}

func leaf(text string) *node {
	return &node{summary: summarize(text), text: text}
}

func internal(children []*node) *node {
	n := &node{
		height:   children[0].height + 1,
		children: children,
		summary:  emptySummary(),
	}
	for _, c := range children {
		n.summary = n.summary.Add(c.summary)
	}
	return n
}

func (n *node) isLeaf() bool { return n.height == 0 }

func (n *node) length() Offset { return n.summary.Bytes }

// writeTo appends the subtree's text to b.
func (n *node) writeTo(b *strings.Builder) {
	if n.isLeaf() {
		b.WriteString(n.text)
		return
	}
	for _, c := range n.children {
		c.writeTo(b)
	}
}

// writeRange appends the text of [start, end) to b. Bounds are relative
// to this subtree and assumed valid.
func (n *node) writeRange(b *strings.Builder, start, end Offset) {
	if start >= end {
		return
	}
	if n.isLeaf() {
		b.WriteString(n.text[start:end])
		return
	}
	var at Offset
	for _, c := range n.children {
		clen := c.length()
		if at >= end {
			break
		}
		if at+clen > start {
			s, e := Offset(0), clen
			if start > at {
				s = start - at
			}
			if end < at+clen {
				e = end - at
			}
			c.writeRange(b, s, e)
		}
		at += clen
	}
}

// byteAt returns the byte at offset, which must be in range.
func (n *node) byteAt(offset Offset) byte {
	for !n.isLeaf() {
		for _, c := range n.children {
			if clen := c.length(); offset < clen {
				n = c
				break
			} else {
				offset -= clen
			}
		}
	}
	return n.text[offset]
}

// split divides the subtree into [0, offset) and [offset, len).
func (n *node) split(offset Offset) (*node, *node) {
	if offset <= 0 {
		return leaf(""), n
	}
	if offset >= n.length() {
		return n, leaf("")
	}
	if n.isLeaf() {
		return leaf(n.text[:offset]), leaf(n.text[offset:])
	}

	var left, right []*node
	var at Offset
	for _, c := range n.children {
		clen := c.length()
		switch {
		case at+clen <= offset:
			left = append(left, c)
		case at >= offset:
			right = append(right, c)
		default:
			l, r := c.split(offset - at)
			if l.length() > 0 {
				left = append(left, l)
			}
			if r.length() > 0 {
				right = append(right, r)
			}
		}
		at += clen
	}
	return fromNodes(left), fromNodes(right)
}

// fromNodes builds a balanced subtree over nodes of equal height.
func fromNodes(nodes []*node) *node {
	switch len(nodes) {
	case 0:
		return leaf("")
	case 1:
		return nodes[0]
	}
	for len(nodes) > maxFanout {
		var parents []*node
		for i := 0; i < len(nodes); i += maxFanout {
			end := min(i+maxFanout, len(nodes))
			parents = append(parents, internal(nodes[i:end:end]))
		}
		nodes = parents
	}
	return internal(nodes)
}

// join concatenates two subtrees of arbitrary heights.
func join(left, right *node) *node {
	if left.length() == 0 {
		return right
	}
	if right.length() == 0 {
		return left
	}

	// Small adjacent leaves merge to keep the tree dense.
	if left.isLeaf() && right.isLeaf() &&
		len(left.text)+len(right.text) <= maxLeafBytes {
		return leaf(left.text + right.text)
	}

	switch {
	case left.height == right.height:
		if left.isLeaf() {
			return internal([]*node{left, right})
		}
		merged := make([]*node, 0, len(left.children)+len(right.children))
		merged = append(merged, left.children...)
		merged = append(merged, right.children...)
		return fromNodes(merged)
	case left.height > right.height:
		last := left.children[len(left.children)-1]
		sub := join(last, right)
		return replaceTail(left, sub)
	default:
		first := right.children[0]
		sub := join(left, first)
		return replaceHead(right, sub)
	}
}

// replaceTail rebuilds n with its last child replaced by sub, which may be
// one level taller than the original child.
func replaceTail(n *node, sub *node) *node {
	rest := n.children[:len(n.children)-1]
	if sub.height == n.height-1 {
		merged := make([]*node, 0, len(rest)+1)
		merged = append(merged, rest...)
		merged = append(merged, sub)
		return fromNodes(merged)
	}
	// sub grew a level: splice its children in at this level.
	merged := make([]*node, 0, len(rest)+len(sub.children))
	merged = append(merged, rest...)
	merged = append(merged, sub.children...)
	return fromNodes(merged)
}

func replaceHead(n *node, sub *node) *node {
	rest := n.children[1:]
	if sub.height == n.height-1 {
		merged := make([]*node, 0, len(rest)+1)
		merged = append(merged, sub)
		merged = append(merged, rest...)
		return fromNodes(merged)
	}
	merged := make([]*node, 0, len(rest)+len(sub.children))
	merged = append(merged, sub.children...)
	merged = append(merged, rest...)
	return fromNodes(merged)
}
