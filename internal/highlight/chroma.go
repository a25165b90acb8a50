package highlight

import (
	"context"
	"fmt"
	"sort"

	"github.com/alecthomas/chroma/v2"

	"github.com/vellum-editor/vellum/internal/engine/buffer"
)

// chromaParser is the fallback for languages without a grammar binding.
// Chroma lexers expose no resumable per-line state, so a resync re-lexes
// the whole document; that also makes incremental and full results
// identical by construction.
type chromaParser struct {
	name  string
	lexer chroma.Lexer
	spans []Span
}

func newChromaParser(lexer chroma.Lexer) *chromaParser {
	cfg := lexer.Config()
	return &chromaParser{name: cfg.Name, lexer: chroma.Coalesce(lexer)}
}

func (p *chromaParser) Name() string { return p.name }

func (p *chromaParser) Reparse(ctx context.Context, src []byte, edits []TextEdit, fromScratch bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	it, err := p.lexer.Tokenise(nil, string(src))
	if err != nil {
		return fmt.Errorf("lex %s: %w", p.name, err)
	}

	p.spans = p.spans[:0]
	var off buffer.Offset
	for tok := it(); tok != chroma.EOF; tok = it() {
		n := buffer.Offset(len(tok.Value))
		if kind := kindFromChroma(tok.Type); kind != KindNone && n > 0 {
			p.spans = append(p.spans, Span{
				Range: buffer.NewRange(off, off+n),
				Kind:  kind,
			})
		}
		off += n
	}
	return nil
}

func (p *chromaParser) SpansIn(r buffer.Range) []Span {
	// Spans are sorted and disjoint; binary-search the window.
	lo := sort.Search(len(p.spans), func(i int) bool {
		return p.spans[i].Range.End > r.Start
	})
	hi := sort.Search(len(p.spans), func(i int) bool {
		return p.spans[i].Range.Start >= r.End
	})
	if lo >= hi {
		return nil
	}
	return p.spans[lo:hi]
}

func (p *chromaParser) Close() {}

func kindFromChroma(t chroma.TokenType) Kind {
	switch {
	case t.InCategory(chroma.Comment):
		return KindComment
	case t.InSubCategory(chroma.LiteralString):
		return KindString
	case t.InSubCategory(chroma.LiteralNumber):
		return KindNumber
	case t.InCategory(chroma.Keyword):
		return KindKeyword
	case t.InCategory(chroma.Operator):
		return KindOperator
	case t.InCategory(chroma.Punctuation):
		return KindPunct
	case t == chroma.NameFunction:
		return KindFunction
	case t == chroma.NameClass, t == chroma.NameBuiltin:
		return KindType
	case t == chroma.NameConstant:
		return KindConstant
	case t == chroma.NameNamespace:
		return KindNamespace
	case t == chroma.NameAttribute, t == chroma.NameProperty:
		return KindProperty
	case t == chroma.NameLabel:
		return KindLabel
	}
	return KindNone
}
