package gutter

import "testing"

func TestWidthTracksDigits(t *testing.T) {
	g := New()

	if !g.Update(5) && g.Width() != 3 {
		t.Fatalf("width = %d for 5 lines", g.Width())
	}

	tests := []struct {
		lines   int
		width   int
		changed bool
	}{
		{9, 3, false},    // still one digit
		{10, 4, true},    // two digits
		{99, 4, false},   // still two
		{100, 5, true},   // three
		{100000, 8, true}, // six digits for a 100k-line file
	}
	for _, tt := range tests {
		changed := g.Update(tt.lines)
		if changed != tt.changed {
			t.Errorf("Update(%d) changed = %v, want %v", tt.lines, changed, tt.changed)
		}
		if g.Width() != tt.width {
			t.Errorf("Update(%d) width = %d, want %d", tt.lines, g.Width(), tt.width)
		}
	}
}

func TestFormatAbsolute(t *testing.T) {
	g := New()
	g.Update(100)

	if got := g.Format(0, 0); got != "   1 " {
		t.Errorf("Format(0) = %q", got)
	}
	if got := g.Format(41, 0); got != "  42 " {
		t.Errorf("Format(41) = %q", got)
	}
	if len(g.Format(99, 0)) != g.Width() {
		t.Errorf("formatted width mismatch")
	}
}

func TestFormatRelative(t *testing.T) {
	g := New()
	g.Update(100)
	g.SetRelative(true)

	if got := g.Format(10, 10); got != "  11 " {
		t.Errorf("caret line shows absolute: %q", got)
	}
	if got := g.Format(7, 10); got != "   3 " {
		t.Errorf("three above = %q", got)
	}
	if got := g.Format(13, 10); got != "   3 " {
		t.Errorf("three below = %q", got)
	}
}
