package highlight

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/vellum-editor/vellum/internal/engine/buffer"
)

const goSrc = "package main\n\nfunc add(x int) int {\n\treturn x + 1\n}\n"

func fullRange(snap buffer.Snapshot) buffer.Range {
	return buffer.NewRange(0, snap.Len())
}

func spansEqual(a, b []Span) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// kindAt returns the kind of the span covering offset, or KindNone.
func kindAt(spans []Span, off buffer.Offset) Kind {
	for _, s := range spans {
		if s.Range.Contains(off) {
			return s.Kind
		}
	}
	return KindNone
}

func TestGoSpans(t *testing.T) {
	buf := buffer.FromString(goSrc)
	h := ForFile("main.go")
	defer h.Close()

	snap := buf.Snapshot()
	spans := h.SpansIn(context.Background(), snap, fullRange(snap))
	if len(spans) == 0 {
		t.Fatal("no spans for Go source")
	}

	tests := []struct {
		name string
		off  buffer.Offset
		want Kind
	}{
		{"package keyword", buffer.Offset(strings.Index(goSrc, "package")), KindKeyword},
		{"func keyword", buffer.Offset(strings.Index(goSrc, "func")), KindKeyword},
		{"function name", buffer.Offset(strings.Index(goSrc, "add")), KindFunction},
		{"type name", buffer.Offset(strings.Index(goSrc, "int")), KindType},
		{"number literal", buffer.Offset(strings.Index(goSrc, "1\n")), KindNumber},
		{"package name", buffer.Offset(strings.Index(goSrc, "main")), KindNamespace},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := kindAt(spans, tt.off); got != tt.want {
				t.Errorf("kind at %d = %v, want %v", tt.off, got, tt.want)
			}
		})
	}

	for i := 1; i < len(spans); i++ {
		if spans[i].Range.Start < spans[i-1].Range.End {
			t.Fatalf("spans out of order or overlapping: %v then %v", spans[i-1], spans[i])
		}
	}
}

func TestSpansIdempotent(t *testing.T) {
	buf := buffer.FromString(goSrc)
	h := ForFile("main.go")
	defer h.Close()

	snap := buf.Snapshot()
	first := h.SpansIn(context.Background(), snap, fullRange(snap))
	second := h.SpansIn(context.Background(), snap, fullRange(snap))
	if !spansEqual(first, second) {
		t.Error("repeated query over unchanged content differs")
	}
	if h.State() != StateFresh || h.Revision() != snap.Revision() {
		t.Errorf("state = %v rev %d, want fresh at %d", h.State(), h.Revision(), snap.Revision())
	}
}

func TestIncrementalMatchesFull(t *testing.T) {
	buf := buffer.FromString(goSrc)
	h := ForFile("main.go")
	defer h.Close()

	// Prime the tree, then edit a few times.
	snap := buf.Snapshot()
	h.SpansIn(context.Background(), snap, fullRange(snap))

	edits := [][]buffer.Edit{
		{buffer.Insertion(buf.Len(), "\nfunc sub(a, b int) int {\n\treturn a - b\n}\n")},
		{{Range: buffer.NewRange(
			buffer.Offset(strings.Index(goSrc, "add")),
			buffer.Offset(strings.Index(goSrc, "add")+3),
		), NewText: "plus"}},
	}
	for _, batch := range edits {
		pre := buf.Snapshot()
		res, err := buf.Apply(batch)
		if err != nil {
			t.Fatal(err)
		}
		h.Invalidate(pre, res)
		if h.State() != StateStale {
			t.Fatalf("state after edit = %v, want stale", h.State())
		}
	}

	snap = buf.Snapshot()
	incremental := h.SpansIn(context.Background(), snap, fullRange(snap))

	fresh := ForFile("main.go")
	defer fresh.Close()
	full := fresh.SpansIn(context.Background(), snap, fullRange(snap))

	if !spansEqual(incremental, full) {
		t.Errorf("incremental spans differ from full parse:\n inc: %v\nfull: %v", incremental, full)
	}
}

func TestOversizedDirtyFallsBack(t *testing.T) {
	buf := buffer.FromString(goSrc)
	h := ForFile("main.go", WithFallbackRatio(0.01))
	defer h.Close()

	snap := buf.Snapshot()
	h.SpansIn(context.Background(), snap, fullRange(snap))

	// One large edit exceeds the ratio immediately; the query after it
	// must still produce correct spans through the full-reparse path.
	pre := buf.Snapshot()
	res, err := buf.Replace(0, buf.Len(), "package other\n\nvar n = 42\n")
	if err != nil {
		t.Fatal(err)
	}
	h.Invalidate(pre, res)

	snap = buf.Snapshot()
	got := h.SpansIn(context.Background(), snap, fullRange(snap))

	fresh := ForFile("main.go")
	defer fresh.Close()
	want := fresh.SpansIn(context.Background(), snap, fullRange(snap))
	if !spansEqual(got, want) {
		t.Errorf("post-fallback spans differ:\n got: %v\nwant: %v", got, want)
	}
}

func TestChromaFallbackLanguage(t *testing.T) {
	buf := buffer.FromString("def greet(name):\n    return \"hi \" + name\n")
	h := ForFile("greet.py")
	defer h.Close()

	if h.LanguageName() == "" {
		t.Fatal("expected a fallback lexer for .py")
	}
	snap := buf.Snapshot()
	spans := h.SpansIn(context.Background(), snap, fullRange(snap))
	if len(spans) == 0 {
		t.Fatal("no spans from fallback lexer")
	}
	if got := kindAt(spans, 0); got != KindKeyword {
		t.Errorf("kind at 0 = %v, want keyword for def", got)
	}
}

func TestUnknownFileYieldsNoSpans(t *testing.T) {
	buf := buffer.FromString("plain text, nothing to see")
	h := ForFile("blob.vellumdata")
	defer h.Close()

	snap := buf.Snapshot()
	if spans := h.SpansIn(context.Background(), snap, fullRange(snap)); spans != nil {
		t.Errorf("spans = %v, want none", spans)
	}
	if h.LanguageName() != "" {
		t.Errorf("language = %q, want none", h.LanguageName())
	}
}

func TestInterruptedReparseRetries(t *testing.T) {
	buf := buffer.FromString("x = 1\n")
	h := ForFile("x.py")
	defer h.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	snap := buf.Snapshot()
	if spans := h.SpansIn(ctx, snap, fullRange(snap)); spans != nil {
		t.Errorf("interrupted parse returned spans: %v", spans)
	}
	if h.State() == StateFresh {
		t.Error("interrupted parse marked the highlighter fresh")
	}

	// A healthy query at the same revision retries and succeeds; no
	// edit is needed in between.
	if spans := h.SpansIn(context.Background(), snap, fullRange(snap)); len(spans) == 0 {
		t.Error("highlighting did not recover after an interrupted parse")
	}
	if h.State() != StateFresh || h.Revision() != snap.Revision() {
		t.Errorf("state = %v rev = %d after recovery", h.State(), h.Revision())
	}
}

// haltingParser cancels its first reparse after absorbing the edits,
// the way a parser interrupted mid-parse has already applied them to
// its tree. editCounts records the batch size of every call.
type haltingParser struct {
	halted     bool
	editCounts []int
	spans      []Span
}

func (p *haltingParser) Name() string { return "halting" }

func (p *haltingParser) Reparse(ctx context.Context, src []byte, edits []TextEdit, fromScratch bool) error {
	p.editCounts = append(p.editCounts, len(edits))
	if !p.halted {
		p.halted = true
		return fmt.Errorf("parse halting: %w", context.DeadlineExceeded)
	}
	p.spans = []Span{{Range: buffer.NewRange(0, buffer.Offset(len(src))), Kind: KindKeyword}}
	return nil
}

func (p *haltingParser) SpansIn(r buffer.Range) []Span { return p.spans }

func (p *haltingParser) Close() {}

func TestInterruptedReparseDoesNotReplayEdits(t *testing.T) {
	buf := buffer.FromString("one\n")
	p := &haltingParser{}
	h := New(p)
	defer h.Close()

	pre := buf.Snapshot()
	res, err := buf.Insert(0, "zero\n")
	if err != nil {
		t.Fatal(err)
	}
	h.Invalidate(pre, res)

	snap := buf.Snapshot()
	if spans := h.SpansIn(context.Background(), snap, fullRange(snap)); spans != nil {
		t.Errorf("interrupted parse returned spans: %v", spans)
	}
	if h.State() == StateFresh {
		t.Error("interrupted parse marked the highlighter fresh")
	}

	if spans := h.SpansIn(context.Background(), snap, fullRange(snap)); len(spans) == 0 {
		t.Fatal("no spans after retry")
	}
	// The interrupted call consumed the edit batch; the retry must not
	// hand it to the parser a second time.
	want := []int{1, 0}
	if len(p.editCounts) != len(want) || p.editCounts[0] != want[0] || p.editCounts[1] != want[1] {
		t.Errorf("edit batch sizes = %v, want %v", p.editCounts, want)
	}
}

// flakyParser fails a set number of reparses with a non-context error.
type flakyParser struct {
	failures int
	spans    []Span
}

func (p *flakyParser) Name() string { return "flaky" }

func (p *flakyParser) Reparse(ctx context.Context, src []byte, edits []TextEdit, fromScratch bool) error {
	if p.failures > 0 {
		p.failures--
		return errors.New("grammar exploded")
	}
	p.spans = []Span{{Range: buffer.NewRange(0, buffer.Offset(len(src))), Kind: KindComment}}
	return nil
}

func (p *flakyParser) SpansIn(r buffer.Range) []Span { return p.spans }

func (p *flakyParser) Close() {}

func TestParseFailureDegrades(t *testing.T) {
	buf := buffer.FromString("x = 1\n")
	h := New(&flakyParser{failures: 1})
	defer h.Close()

	snap := buf.Snapshot()
	if spans := h.SpansIn(context.Background(), snap, fullRange(snap)); spans != nil {
		t.Errorf("failed parse returned spans: %v", spans)
	}

	// Degradation is sticky for the failed revision; repeated healthy
	// queries do not re-run the parse.
	if spans := h.SpansIn(context.Background(), snap, fullRange(snap)); spans != nil {
		t.Errorf("degraded query returned spans: %v", spans)
	}

	// The next edit retriggers a resync; a healthy parse recovers.
	pre := buf.Snapshot()
	res, err := buf.Insert(0, "y = 2\n")
	if err != nil {
		t.Fatal(err)
	}
	h.Invalidate(pre, res)
	snap = buf.Snapshot()
	if spans := h.SpansIn(context.Background(), snap, fullRange(snap)); len(spans) == 0 {
		t.Error("highlighting did not recover after a failed parse")
	}
}

func TestWindowedQueryPrunes(t *testing.T) {
	var b strings.Builder
	b.WriteString("package big\n\n")
	for i := 0; i < 500; i++ {
		b.WriteString("func f")
		b.WriteString(strings.Repeat("x", i%7+1))
		b.WriteString("() {}\n")
	}
	buf := buffer.FromString(b.String())
	h := ForFile("big.go")
	defer h.Close()

	snap := buf.Snapshot()
	window := buffer.NewRange(snap.LineToOffset(100), snap.LineToOffset(140))
	spans := h.SpansIn(context.Background(), snap, window)
	if len(spans) == 0 {
		t.Fatal("no spans in window")
	}
	for _, s := range spans {
		if !s.Range.Overlaps(window) {
			t.Fatalf("span %v outside window %v", s, window)
		}
	}
}
