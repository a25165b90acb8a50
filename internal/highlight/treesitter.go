package highlight

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/vellum-editor/vellum/internal/engine/buffer"
)

// treeParser highlights through a tree-sitter grammar. It keeps the
// previous parse tree and feeds each buffer edit to it, so a reparse
// only re-lexes the subtrees the edits touched.
type treeParser struct {
	name   string
	parser *sitter.Parser
	tree   *sitter.Tree
}

func newTreeParser(name string, lang *sitter.Language) *treeParser {
	p := sitter.NewParser()
	p.SetLanguage(lang)
	return &treeParser{name: name, parser: p}
}

func (p *treeParser) Name() string { return p.name }

func (p *treeParser) Reparse(ctx context.Context, src []byte, edits []TextEdit, fromScratch bool) error {
	if fromScratch && p.tree != nil {
		p.tree.Close()
		p.tree = nil
	}
	if p.tree != nil {
		for _, e := range edits {
			p.tree.Edit(sitter.EditInput{
				StartIndex:  uint32(e.Start),
				OldEndIndex: uint32(e.OldEnd),
				NewEndIndex: uint32(e.NewEnd),
				StartPoint:  sitterPoint(e.StartPoint),
				OldEndPoint: sitterPoint(e.OldEndPoint),
				NewEndPoint: sitterPoint(e.NewEndPoint),
			})
		}
	}

	tree, err := p.parser.ParseCtx(ctx, p.tree, src)
	if err != nil {
		return fmt.Errorf("parse %s: %w", p.name, err)
	}
	if p.tree != nil {
		p.tree.Close()
	}
	p.tree = tree
	return nil
}

func (p *treeParser) SpansIn(r buffer.Range) []Span {
	if p.tree == nil {
		return nil
	}
	var spans []Span
	collectSpans(p.tree.RootNode(), r, &spans)
	return spans
}

func (p *treeParser) Close() {
	if p.tree != nil {
		p.tree.Close()
		p.tree = nil
	}
	p.parser.Close()
}

func sitterPoint(pt buffer.Point) sitter.Point {
	return sitter.Point{Row: uint32(pt.Line), Column: uint32(pt.Column)}
}

// collectSpans walks node in document order, emitting a span for every
// classified node and descending into the rest. Subtrees outside r are
// pruned, which keeps viewport queries cheap on large documents.
func collectSpans(node *sitter.Node, r buffer.Range, spans *[]Span) {
	start := buffer.Offset(node.StartByte())
	end := buffer.Offset(node.EndByte())
	if end <= r.Start || start >= r.End || start == end {
		return
	}

	if kind := classifyNode(node); kind != KindNone {
		*spans = append(*spans, Span{Range: buffer.NewRange(start, end), Kind: kind})
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		collectSpans(node.Child(i), r, spans)
	}
}

// classifyNode maps a syntax node to a span kind. Anonymous nodes are
// the grammar's literal tokens: alphabetic ones are keywords, the rest
// operators and punctuation. Returning KindNone means "descend".
func classifyNode(node *sitter.Node) Kind {
	t := node.Type()
	if !node.IsNamed() {
		if isAlphaToken(t) {
			return KindKeyword
		}
		if len(t) == 1 && isPunctByte(t[0]) {
			return KindPunct
		}
		return KindOperator
	}

	switch t {
	case "comment":
		return KindComment
	case "interpreted_string_literal", "raw_string_literal", "rune_literal":
		return KindString
	case "int_literal", "float_literal", "imaginary_literal":
		return KindNumber
	case "true", "false", "nil", "iota":
		return KindConstant
	case "type_identifier":
		return KindType
	case "field_identifier":
		return KindProperty
	case "package_identifier":
		return KindNamespace
	case "label_name":
		return KindLabel
	case "identifier":
		return classifyIdentifier(node)
	}
	return KindNone
}

// classifyIdentifier resolves a bare identifier from its parent: a
// declared or called function name highlights as a function, anything
// else keeps the default style.
func classifyIdentifier(node *sitter.Node) Kind {
	parent := node.Parent()
	if parent == nil {
		return KindNone
	}
	switch parent.Type() {
	case "function_declaration", "method_declaration":
		if name := parent.ChildByFieldName("name"); name != nil && name.Equal(node) {
			return KindFunction
		}
	case "call_expression":
		if fn := parent.ChildByFieldName("function"); fn != nil && fn.Equal(node) {
			return KindFunction
		}
	case "const_spec":
		return KindConstant
	}
	return KindNone
}

func isAlphaToken(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '_' && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}

func isPunctByte(c byte) bool {
	switch c {
	case '(', ')', '{', '}', '[', ']', ',', ';', ':', '.':
		return true
	}
	return false
}
