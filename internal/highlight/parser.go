package highlight

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/vellum-editor/vellum/internal/engine/buffer"
)

// Parser is the per-language highlight capability: consume edits and
// source, answer span queries. Implementations are not safe for
// concurrent use; the owning Highlighter serializes calls.
type Parser interface {
	// Name returns the language name.
	Name() string

	// Reparse brings the parser up to src. edits describe every change
	// since the previous call, oldest first, so incremental parsers can
	// shift their prior state; fromScratch discards that state.
	Reparse(ctx context.Context, src []byte, edits []TextEdit, fromScratch bool) error

	// SpansIn returns the spans overlapping r, ordered by start.
	SpansIn(r buffer.Range) []Span

	// Close releases any native resources.
	Close()
}

// TextEdit is one applied edit in the coordinates the parser's previous
// source had at the moment the edit landed. Points carry byte columns.
type TextEdit struct {
	Start  buffer.Offset
	OldEnd buffer.Offset
	NewEnd buffer.Offset

	StartPoint  buffer.Point
	OldEndPoint buffer.Point
	NewEndPoint buffer.Point
}

// makeTextEdit converts a committed edit. Batches apply descending by
// offset, so for each edit the pre-batch snapshot still has valid
// coordinates at and before the edited range.
func makeTextEdit(pre buffer.Snapshot, e buffer.Edit) TextEdit {
	start := e.Range.Start
	sp := pre.OffsetToPoint(start)
	te := TextEdit{
		Start:       start,
		OldEnd:      e.Range.End,
		NewEnd:      start + buffer.Offset(len(e.NewText)),
		StartPoint:  sp,
		OldEndPoint: pre.OffsetToPoint(e.Range.End),
	}
	if i := strings.LastIndexByte(e.NewText, '\n'); i >= 0 {
		te.NewEndPoint = buffer.Point{
			Line:   sp.Line + strings.Count(e.NewText, "\n"),
			Column: len(e.NewText) - i - 1,
		}
	} else {
		te.NewEndPoint = buffer.Point{Line: sp.Line, Column: sp.Column + len(e.NewText)}
	}
	return te
}

// grammars maps language names to tree-sitter grammars. Extend here
// when more grammar bindings are linked in.
var grammars = map[string]func() *sitter.Language{
	"go": golang.GetLanguage,
}

var extLanguages = map[string]string{
	".go": "go",
}

// parserForFile picks the best parser for a file name: tree-sitter when
// a grammar is linked, otherwise a chroma lexer matched on the name,
// otherwise nil.
func parserForFile(name string) Parser {
	ext := strings.ToLower(filepath.Ext(name))
	if lang, ok := extLanguages[ext]; ok {
		return newTreeParser(lang, grammars[lang]())
	}
	if lex := lexers.Match(filepath.Base(name)); lex != nil {
		return newChromaParser(lex)
	}
	return nil
}

// parserForLanguage picks a parser for an explicit language name.
func parserForLanguage(lang string) Parser {
	if g, ok := grammars[lang]; ok {
		return newTreeParser(lang, g())
	}
	if lex := lexers.Get(lang); lex != nil {
		return newChromaParser(lex)
	}
	return nil
}
