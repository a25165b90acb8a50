// Package highlight computes syntax highlight spans over buffer
// snapshots. A Highlighter pairs a per-language parser with a staleness
// state machine: edits mark it stale and never block, the next span
// query resynchronizes. Languages with a tree-sitter grammar reparse
// incrementally; everything else falls back to a chroma lexer.
package highlight

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/vellum-editor/vellum/internal/engine/buffer"
)

// Kind is the semantic category of a highlight span.
type Kind uint8

const (
	KindNone Kind = iota
	KindComment
	KindString
	KindNumber
	KindKeyword
	KindOperator
	KindPunct
	KindFunction
	KindType
	KindVariable
	KindProperty
	KindConstant
	KindNamespace
	KindLabel

	kindCount
)

var kindNames = [kindCount]string{
	KindNone:      "none",
	KindComment:   "comment",
	KindString:    "string",
	KindNumber:    "number",
	KindKeyword:   "keyword",
	KindOperator:  "operator",
	KindPunct:     "punctuation",
	KindFunction:  "function",
	KindType:      "type",
	KindVariable:  "variable",
	KindProperty:  "property",
	KindConstant:  "constant",
	KindNamespace: "namespace",
	KindLabel:     "label",
}

// String returns the kind's theme-facing name.
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "none"
}

// KindFromName maps a theme-facing name back to a kind.
func KindFromName(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return KindNone, false
}

// Span is one highlighted byte range. Spans from a single query are
// ordered by start and do not overlap.
type Span struct {
	Range buffer.Range
	Kind  Kind
}

// State is the highlighter's synchronization state with the buffer.
type State uint8

const (
	// StateFresh means spans match the revision last resynced to.
	StateFresh State = iota
	// StateStale means edits have landed since the last resync.
	StateStale
	// StateReparsing is the transient state during a resync.
	StateReparsing
)

// DefaultFallbackRatio is the fraction of the document the accumulated
// dirty bytes may reach before an incremental reparse is abandoned for
// a full one.
const DefaultFallbackRatio = 0.5

// Highlighter owns one document's highlight state.
type Highlighter struct {
	parser Parser
	log    zerolog.Logger

	state    State
	fresh    buffer.Revision
	degraded bool

	pending    []TextEdit
	dirtyBytes int
	ratio      float64
}

// Option configures a Highlighter.
type Option func(*Highlighter)

// WithFallbackRatio overrides DefaultFallbackRatio. Values outside
// (0, 1] are ignored.
func WithFallbackRatio(r float64) Option {
	return func(h *Highlighter) {
		if r > 0 && r <= 1 {
			h.ratio = r
		}
	}
}

// WithLogger routes degraded-mode warnings to log. The default discards
// them.
func WithLogger(log zerolog.Logger) Option {
	return func(h *Highlighter) { h.log = log }
}

// New returns a highlighter over the given parser. A nil parser is
// valid and yields zero spans, the degraded mode for unsupported files.
func New(parser Parser, opts ...Option) *Highlighter {
	h := &Highlighter{
		parser: parser,
		log:    zerolog.Nop(),
		state:  StateStale,
		ratio:  DefaultFallbackRatio,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ForFile returns a highlighter for a file name, choosing tree-sitter
// when a grammar exists and a chroma lexer otherwise.
func ForFile(name string, opts ...Option) *Highlighter {
	return New(parserForFile(name), opts...)
}

// ForLanguage returns a highlighter for an explicit language name.
func ForLanguage(lang string, opts ...Option) *Highlighter {
	return New(parserForLanguage(lang), opts...)
}

// State returns the current synchronization state.
func (h *Highlighter) State() State { return h.state }

// Revision returns the buffer revision the spans are fresh for.
func (h *Highlighter) Revision() buffer.Revision { return h.fresh }

// LanguageName returns the active language, or "" for none.
func (h *Highlighter) LanguageName() string {
	if h.parser == nil {
		return ""
	}
	return h.parser.Name()
}

// Invalidate records a committed edit batch. It never parses; it only
// accumulates the tree edits and dirty volume for the next resync. Any
// resync target from before this call is superseded.
func (h *Highlighter) Invalidate(pre buffer.Snapshot, res buffer.EditResult) {
	if h.parser == nil {
		return
	}
	for _, e := range res.Applied {
		te := makeTextEdit(pre, e)
		h.pending = append(h.pending, te)
		h.dirtyBytes += int(max(te.OldEnd-te.Start, te.NewEnd-te.Start))
	}
	h.state = StateStale
}

// SpansIn returns the highlight spans overlapping r, resynchronizing
// with the snapshot first if stale. Parse failure degrades to zero
// spans; the error is logged, never surfaced to the edit path.
func (h *Highlighter) SpansIn(ctx context.Context, snap buffer.Snapshot, r buffer.Range) []Span {
	if h.parser == nil {
		return nil
	}
	if h.state != StateFresh || h.fresh != snap.Revision() {
		h.resync(ctx, snap)
	}
	if h.state != StateFresh || h.degraded {
		return nil
	}
	return h.parser.SpansIn(r)
}

// resync brings the parser up to the snapshot, incrementally when the
// accumulated dirty volume allows it.
func (h *Highlighter) resync(ctx context.Context, snap buffer.Snapshot) {
	h.state = StateReparsing
	src := []byte(snap.Text())

	fromScratch := h.fresh == 0
	if !fromScratch && h.dirtyBytes > 0 && len(src) > 0 &&
		float64(h.dirtyBytes) > h.ratio*float64(len(src)) {
		h.log.Debug().
			Int("dirty_bytes", h.dirtyBytes).
			Int("doc_bytes", len(src)).
			Msg("dirty range oversized, full reparse")
		fromScratch = true
	}

	err := h.parser.Reparse(ctx, src, h.pending, fromScratch)
	h.pending = h.pending[:0]
	h.dirtyBytes = 0

	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			// The frame budget ran out. The parser has already absorbed
			// the pending edits, so the next query retries the parse
			// without them instead of degrading.
			h.state = StateStale
			h.log.Debug().Str("language", h.parser.Name()).
				Msg("reparse interrupted, will retry")
			return
		}
		h.fresh = snap.Revision()
		h.state = StateFresh
		h.log.Warn().Err(err).Str("language", h.parser.Name()).
			Msg("parse failed, highlighting degraded")
		h.degraded = true
		return
	}

	h.fresh = snap.Revision()
	h.state = StateFresh
	h.degraded = false
}

// Close releases parser resources.
func (h *Highlighter) Close() {
	if h.parser != nil {
		h.parser.Close()
	}
}
