// Package gutter computes the line-number margin: its width, which
// only changes when the maximum line number gains or loses a digit, and
// the formatted number for each row.
package gutter

import "strconv"

// padding is one space on each side of the number.
const padding = 2

// Gutter renders line numbers. The zero value is not ready; use New.
type Gutter struct {
	relative bool
	digits   int
}

// New returns a gutter in absolute numbering mode.
func New() *Gutter {
	return &Gutter{digits: 1}
}

// SetRelative switches between absolute and cursor-relative numbering.
func (g *Gutter) SetRelative(relative bool) { g.relative = relative }

// Width returns the current gutter width in cells.
func (g *Gutter) Width() int { return g.digits + padding }

// Update recomputes the width for a document of lineCount lines.
// Reports whether the width changed, which is exactly when the digit
// count of the last line number changed; unchanged updates are free.
func (g *Gutter) Update(lineCount int) bool {
	d := digitsOf(max(lineCount, 1))
	if d == g.digits {
		return false
	}
	g.digits = d
	return true
}

// Format renders the number cell for a document line (0-based), given
// the line the primary caret is on. The result is exactly Width wide.
func (g *Gutter) Format(line, caretLine int) string {
	n := line + 1
	if g.relative && line != caretLine {
		n = line - caretLine
		if n < 0 {
			n = -n
		}
	}
	s := strconv.Itoa(n)
	if len(s) > g.digits {
		g.digits = len(s)
	}
	buf := make([]byte, g.Width())
	for i := range buf {
		buf[i] = ' '
	}
	copy(buf[g.Width()-1-len(s):], s)
	return string(buf)
}

func digitsOf(n int) int {
	d := 1
	for n >= 10 {
		n /= 10
		d++
	}
	return d
}
