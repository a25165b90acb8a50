package rope

import "unicode/utf8"

// Offset is an absolute byte position in the rope.
type Offset int

// Point is a 0-indexed line/column position. Column is a byte offset
// within the line.
type Point struct {
	Line   int
	Column int
}

// Summary holds aggregated text metrics for a span. Summaries form a
// monoid under Add, which is what makes O(log n) seeking possible: every
// tree node stores the Summary of its subtree.
type Summary struct {
	Bytes    Offset
	Runes    int
	UTF16    int // UTF-16 code units, kept for protocol positions
	Newlines int
	ASCII    bool // every byte < 0x80
}

// emptySummary is the identity element.
func emptySummary() Summary {
	return Summary{ASCII: true}
}

// Add combines two adjacent spans' summaries.
func (s Summary) Add(o Summary) Summary {
	if s.Bytes == 0 {
		return o
	}
	if o.Bytes == 0 {
		return s
	}
	return Summary{
		Bytes:    s.Bytes + o.Bytes,
		Runes:    s.Runes + o.Runes,
		UTF16:    s.UTF16 + o.UTF16,
		Newlines: s.Newlines + o.Newlines,
		ASCII:    s.ASCII && o.ASCII,
	}
}

// summarize computes the Summary of a string.
func summarize(s string) Summary {
	sum := Summary{Bytes: Offset(len(s)), ASCII: true}
	if len(s) == 0 {
		return sum
	}

	// Fast path: pure ASCII can be counted bytewise.
	ascii := true
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			ascii = false
			break
		}
	}
	if ascii {
		sum.Runes = len(s)
		sum.UTF16 = len(s)
		for i := 0; i < len(s); i++ {
			if s[i] == '\n' {
				sum.Newlines++
			}
		}
		return sum
	}

	sum.ASCII = false
	for _, r := range s {
		sum.Runes++
		if r > 0xFFFF {
			sum.UTF16 += 2
		} else {
			sum.UTF16++
		}
		if r == '\n' {
			sum.Newlines++
		}
	}
	return sum
}

// countNewlines reports the number of '\n' bytes in s.
func countNewlines(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
		}
	}
	return n
}

// nthNewline returns the byte index of the nth newline in s (1-indexed),
// or -1 when s contains fewer than n newlines.
func nthNewline(s string, n int) int {
	if n <= 0 {
		return -1
	}
	seen := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			seen++
			if seen == n {
				return i
			}
		}
	}
	return -1
}
