package rope

// Builder assembles a rope from sequential writes in O(n) without the
// repeated splits an Insert-per-write loop would cost. The zero value is
// ready to use.
type Builder struct {
	leaves  []*node
	pending []byte
}

// WriteString appends s to the rope under construction.
func (b *Builder) WriteString(s string) {
	for len(s) > 0 {
		room := maxLeafBytes - len(b.pending)
		if room == 0 {
			b.flush()
			room = maxLeafBytes
		}
		n := min(room, len(s))
		b.pending = append(b.pending, s[:n]...)
		s = s[n:]
	}
}

// Write implements io.Writer.
func (b *Builder) Write(p []byte) (int, error) {
	b.WriteString(string(p))
	return len(p), nil
}

// Len returns the number of bytes written so far.
func (b *Builder) Len() Offset {
	var n Offset
	for _, l := range b.leaves {
		n += l.length()
	}
	return n + Offset(len(b.pending))
}

func (b *Builder) flush() {
	if len(b.pending) > 0 {
		b.leaves = append(b.leaves, leaf(string(b.pending)))
		b.pending = b.pending[:0]
	}
}

// Rope finalizes and returns the built rope. The builder must not be
// reused afterwards.
func (b *Builder) Rope() Rope {
	b.flush()
	if len(b.leaves) == 0 {
		return New()
	}
	return Rope{root: fromNodes(b.leaves)}
}
