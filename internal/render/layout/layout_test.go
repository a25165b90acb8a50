package layout

import "testing"

func TestTabExpansion(t *testing.T) {
	e := NewEngine(4)

	tests := []struct {
		name string
		text string
		want int // visual width
	}{
		{"tab at start", "\tx", 5},
		{"tab mid stop", "ab\tx", 5},
		{"tab at stop boundary", "abcd\tx", 9},
		{"two tabs", "\t\t", 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := e.Layout(tt.text, 0)
			if l.Width != tt.want {
				t.Errorf("width = %d, want %d", l.Width, tt.want)
			}
			if !l.HasTabs {
				t.Error("HasTabs = false")
			}
		})
	}
}

func TestWideAndCombined(t *testing.T) {
	e := NewEngine(4)

	l := e.Layout("a漢b", 0)
	if l.Width != 4 {
		t.Errorf("width with CJK = %d, want 4", l.Width)
	}
	if len(l.Cells) != 3 || l.Cells[1].Width != 2 {
		t.Errorf("cells = %+v", l.Cells)
	}

	// e + combining acute is one cluster, one cell.
	l = e.Layout("xéy", 0)
	if len(l.Cells) != 3 {
		t.Errorf("combining cluster split: %+v", l.Cells)
	}
	if l.Cells[2].Byte != 4 {
		t.Errorf("byte of y = %d, want 4", l.Cells[2].Byte)
	}
}

func TestColumnMaps(t *testing.T) {
	e := NewEngine(4)
	l := e.Layout("ab\t漢x", 0)
	// Visual: a b _ _ 漢 漢 x  (tab expands to 2, CJK is 2 wide)

	if got := l.VisualCol(2); got != 2 {
		t.Errorf("VisualCol(tab byte) = %d, want 2", got)
	}
	if got := l.VisualCol(3); got != 4 {
		t.Errorf("VisualCol(CJK byte) = %d, want 4", got)
	}
	if got := l.VisualCol(99); got != l.Width {
		t.Errorf("VisualCol past end = %d, want width %d", got, l.Width)
	}

	if got := l.ByteAt(5); got != 3 {
		t.Errorf("ByteAt(second CJK column) = %d, want 3", got)
	}
	if got := l.ByteAt(6); got != 6 {
		t.Errorf("ByteAt(x) = %d, want 6", got)
	}
	if got := l.ByteAt(99); got != 7 {
		t.Errorf("ByteAt past end = %d, want line length", got)
	}
}

func TestHardWrap(t *testing.T) {
	e := NewEngine(4)
	e.SetWrap(4, false)

	l := e.Layout("abcdefghij", 0)
	if l.RowCount() != 3 {
		t.Fatalf("rows = %d, want 3", l.RowCount())
	}
	if got := string(l.Row(0)[0].Text + l.Row(0)[3].Text); got != "ad" {
		t.Errorf("row 0 = %q", got)
	}
	if l.Row(2)[0].Text != "i" {
		t.Errorf("row 2 starts with %q", l.Row(2)[0].Text)
	}
}

func TestWordWrap(t *testing.T) {
	e := NewEngine(4)
	e.SetWrap(8, true)

	l := e.Layout("foo bar baz", 0)
	if l.RowCount() != 2 {
		t.Fatalf("rows = %d, want 2", l.RowCount())
	}
	if l.Row(1)[0].Text != "b" {
		t.Errorf("second row starts with %q, want b of baz", l.Row(1)[0].Text)
	}
}

func TestSettingChangesReport(t *testing.T) {
	e := NewEngine(4)
	if e.SetTabWidth(4) {
		t.Error("unchanged tab width reported as change")
	}
	if !e.SetTabWidth(8) {
		t.Error("tab width change not reported")
	}
	if !e.SetWrap(80, true) {
		t.Error("wrap change not reported")
	}
	if e.SetWrap(80, true) {
		t.Error("unchanged wrap reported as change")
	}
}

func TestCacheCommit(t *testing.T) {
	e := NewEngine(4)
	c := NewCache(0)

	for i := 0; i < 10; i++ {
		c.Put(1, i, e.Layout("line", i))
	}

	// Edit dirties line 6 onward; earlier lines survive into rev 2.
	c.Commit(2, 6)
	if _, ok := c.Get(2, 3); !ok {
		t.Error("clean line evicted by commit")
	}
	if _, ok := c.Get(2, 6); ok {
		t.Error("dirty line survived commit")
	}
	if _, ok := c.Get(1, 3); ok {
		t.Error("old revision still hits")
	}
}

func TestCacheDropAll(t *testing.T) {
	c := NewCache(0)
	e := NewEngine(4)
	c.Put(1, 0, e.Layout("x", 0))
	c.DropAll()
	if c.Len() != 0 {
		t.Errorf("len = %d after DropAll", c.Len())
	}
}

func TestCacheEvicts(t *testing.T) {
	c := NewCache(8)
	e := NewEngine(4)
	for i := 0; i < 50; i++ {
		c.Put(1, i, e.Layout("x", i))
	}
	if c.Len() > 8 {
		t.Errorf("len = %d, want <= 8", c.Len())
	}
}
