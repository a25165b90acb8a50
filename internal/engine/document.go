package engine

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vellum-editor/vellum/internal/engine/buffer"
	"github.com/vellum-editor/vellum/internal/engine/cursor"
	"github.com/vellum-editor/vellum/internal/engine/history"
	"github.com/vellum-editor/vellum/internal/engine/search"
	"github.com/vellum-editor/vellum/internal/highlight"
)

// Document is one open file: its buffer, cursors, history, highlighter
// and search state. The engine is its single writer.
type Document struct {
	ID   uuid.UUID
	Path string

	Buf     *buffer.Buffer
	Cursors *cursor.Set
	History *history.History
	Hl      *highlight.Highlighter

	// Search is the last successfully compiled query; a failed compile
	// leaves it untouched.
	Search    *search.Searcher
	SearchErr error

	// Log carries the document identity, so diagnostics from sessions
	// with several documents stay attributable.
	Log zerolog.Logger

	Modified bool

	hlOpts []highlight.Option
}

// NewDocument returns a document over the given content. path selects
// the highlight language and may be empty for a scratch document.
func NewDocument(path, content string, log zerolog.Logger, hlOpts ...highlight.Option) *Document {
	id := uuid.New()
	docLog := log.With().Stringer("doc", id).Logger()
	hlOpts = append(hlOpts, highlight.WithLogger(docLog))
	return &Document{
		ID:      id,
		Path:    path,
		Buf:     buffer.FromString(content, buffer.WithLineEnding(buffer.DetectLineEnding(content))),
		Cursors: cursor.NewSet(0),
		History: history.New(0),
		Hl:      highlight.ForFile(path, hlOpts...),
		Log:     docLog,
		hlOpts:  hlOpts,
	}
}

// Close releases the document's parser resources.
func (d *Document) Close() {
	if d.Hl != nil {
		d.Hl.Close()
	}
}
