// Package search finds and replaces text in buffer snapshots. Literal
// queries use Unicode case folding so "STRASSE" matches "straße" when
// case is ignored; pattern queries use RE2 syntax. Replace-all emits a
// single edit batch so the whole operation commits as one revision and
// one undo step.
package search

import (
	"errors"
	"fmt"
	"regexp"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/search"

	"github.com/vellum-editor/vellum/internal/engine/buffer"
)

// ErrInvalidPattern reports a query whose pattern does not compile.
var ErrInvalidPattern = errors.New("invalid search pattern")

// Query describes what to look for.
type Query struct {
	// Pattern is the literal text or, with Regex set, an RE2 expression.
	Pattern string

	// Regex interprets Pattern as a regular expression.
	Regex bool

	// CaseSensitive disables case folding. Off by default.
	CaseSensitive bool

	// WholeWord keeps only matches bounded by non-word runes.
	WholeWord bool
}

// Match is one occurrence of a query.
type Match struct {
	Range buffer.Range
}

// Searcher is a compiled query, reusable across snapshots.
type Searcher struct {
	query Query
	re    *regexp.Regexp  // pattern mode
	pat   *search.Pattern // literal mode
}

// Compile prepares a query for matching. An empty pattern or a pattern
// that does not compile yields ErrInvalidPattern.
func Compile(q Query) (*Searcher, error) {
	if q.Pattern == "" {
		return nil, fmt.Errorf("%w: empty pattern", ErrInvalidPattern)
	}
	s := &Searcher{query: q}
	if q.Regex {
		expr := q.Pattern
		if !q.CaseSensitive {
			expr = "(?i)" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
		}
		s.re = re
		return s, nil
	}
	var opts []search.Option
	if !q.CaseSensitive {
		opts = append(opts, search.IgnoreCase)
	}
	s.pat = search.New(language.Und, opts...).CompileString(q.Pattern)
	return s, nil
}

// FindAll returns every match in the snapshot, ascending and
// non-overlapping. limit caps the result count; limit <= 0 means
// unbounded.
func (s *Searcher) FindAll(snap buffer.Snapshot, limit int) []Match {
	return s.findAllIn(snap.Text(), limit)
}

// FindNext returns the first match starting at or after from, wrapping
// to the top when none follows. Returns false when the snapshot has no
// match at all.
func (s *Searcher) FindNext(snap buffer.Snapshot, from buffer.Offset) (Match, bool) {
	matches := s.findAllIn(snap.Text(), 0)
	if len(matches) == 0 {
		return Match{}, false
	}
	for _, m := range matches {
		if m.Range.Start >= from {
			return m, true
		}
	}
	return matches[0], true
}

// FindPrev returns the last match ending at or before from, wrapping to
// the bottom when none precedes.
func (s *Searcher) FindPrev(snap buffer.Snapshot, from buffer.Offset) (Match, bool) {
	matches := s.findAllIn(snap.Text(), 0)
	if len(matches) == 0 {
		return Match{}, false
	}
	for i := len(matches) - 1; i >= 0; i-- {
		if matches[i].Range.End <= from {
			return matches[i], true
		}
	}
	return matches[len(matches)-1], true
}

// Count returns the number of matches in the snapshot.
func (s *Searcher) Count(snap buffer.Snapshot) int {
	return len(s.findAllIn(snap.Text(), 0))
}

// ReplaceAll builds the batch that substitutes replacement for every
// match. In pattern mode the replacement may reference groups with $1
// or ${name}. The batch belongs in a single Buffer.Apply call so the
// substitution is one revision and one undo step. The returned count is
// the number of matches replaced.
func (s *Searcher) ReplaceAll(snap buffer.Snapshot, replacement string) ([]buffer.Edit, int) {
	text := snap.Text()
	if s.re != nil {
		return s.replaceAllRegex(text, replacement)
	}
	matches := s.findAllIn(text, 0)
	edits := make([]buffer.Edit, 0, len(matches))
	for _, m := range matches {
		edits = append(edits, buffer.Edit{Range: m.Range, NewText: replacement})
	}
	return edits, len(matches)
}

func (s *Searcher) replaceAllRegex(text, replacement string) ([]buffer.Edit, int) {
	locs := s.regexMatches(text, 0)
	edits := make([]buffer.Edit, 0, len(locs))
	for _, loc := range locs {
		expanded := s.re.ExpandString(nil, replacement, text, loc)
		edits = append(edits, buffer.Edit{
			Range:   buffer.NewRange(buffer.Offset(loc[0]), buffer.Offset(loc[1])),
			NewText: string(expanded),
		})
	}
	return edits, len(edits)
}

func (s *Searcher) findAllIn(text string, limit int) []Match {
	var matches []Match
	if s.re != nil {
		for _, loc := range s.regexMatches(text, limit) {
			matches = append(matches, Match{Range: buffer.NewRange(buffer.Offset(loc[0]), buffer.Offset(loc[1]))})
		}
		return matches
	}

	// Literal mode. The matcher reports byte offsets relative to the
	// slice it was handed, so track the scan base explicitly.
	base := 0
	for base <= len(text) {
		start, end := s.pat.IndexString(text[base:])
		if start < 0 {
			break
		}
		lo, hi := base+start, base+end
		if !s.query.WholeWord || wholeWordAt(text, lo, hi) {
			matches = append(matches, Match{Range: buffer.NewRange(buffer.Offset(lo), buffer.Offset(hi))})
			if limit > 0 && len(matches) >= limit {
				break
			}
		}
		if hi > base {
			base = hi
		} else {
			// Zero-width match; step one rune to guarantee progress.
			_, size := utf8.DecodeRuneInString(text[base:])
			base += max(size, 1)
		}
	}
	return matches
}

// regexMatches returns capture-group submatch indexes for every
// accepted match, filtered for whole-word when requested.
func (s *Searcher) regexMatches(text string, limit int) [][]int {
	all := s.re.FindAllStringSubmatchIndex(text, -1)
	if !s.query.WholeWord && limit <= 0 {
		return all
	}
	var out [][]int
	for _, loc := range all {
		if s.query.WholeWord && !wholeWordAt(text, loc[0], loc[1]) {
			continue
		}
		out = append(out, loc)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// wholeWordAt reports whether [lo, hi) is bounded by non-word runes.
func wholeWordAt(text string, lo, hi int) bool {
	if lo > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:lo])
		if isWordRune(r) {
			return false
		}
	}
	if hi < len(text) {
		r, _ := utf8.DecodeRuneInString(text[hi:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
