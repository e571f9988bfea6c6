// Package comments finds and strips C-style comments with plain regular
// expressions.
//
// The scanner does not tokenize the surrounding language: a // or /* */
// sequence inside a string literal is reported like any other comment.
// Every function here is pure and safe for concurrent use.
package comments

import (
	"regexp"

	"github.com/phyten/devdeck/internal/model"
)

var (
	// A line comment runs up to, but not including, the line break. \r is
	// excluded so CRLF buffers keep their line endings intact.
	lineCommentRe = regexp.MustCompile(`//[^\r\n]*`)
	// Shortest /* ... */ run; an opener without a closer never matches.
	blockCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// FindSpans returns the comment spans of text selected by scope.
//
// Line comment spans come first, then block comment spans; each family is in
// ascending order. Both families are matched against the original text, so a
// // inside a block comment is reported twice (once as part of the block).
func FindSpans(text string, scope Scope) []model.Span {
	if text == "" {
		return nil
	}
	var (
		spans []model.Span
		idx   *lineIndex
	)
	collect := func(re *regexp.Regexp, kind model.CommentKind) {
		locs := re.FindAllStringIndex(text, -1)
		if len(locs) == 0 {
			return
		}
		if idx == nil {
			idx = newLineIndex(text)
		}
		for _, loc := range locs {
			spans = append(spans, idx.span(kind, loc[0], loc[1]))
		}
	}
	if scope.IncludesLine() {
		collect(lineCommentRe, model.CommentKindLine)
	}
	if scope.IncludesBlock() {
		collect(blockCommentRe, model.CommentKindBlock)
	}
	return spans
}

// Remove deletes the comments selected by scope.
//
// The line comment pass runs first and the block pass runs on its output.
// The trailing line break of a line comment is kept.
func Remove(text string, scope Scope) string {
	out := text
	if scope.IncludesLine() {
		out = lineCommentRe.ReplaceAllLiteralString(out, "")
	}
	if scope.IncludesBlock() {
		out = blockCommentRe.ReplaceAllLiteralString(out, "")
	}
	return out
}

// Stats summarises a scan for reporting.
type Stats struct {
	Line    int `json:"line"`
	Block   int `json:"block"`
	Removed int `json:"removed_bytes"`
}

// Total returns the number of spans counted.
func (s Stats) Total() int {
	return s.Line + s.Block
}

// Result is the outcome of Strip.
type Result struct {
	Text  string
	Spans []model.Span
	Stats Stats
}

// Changed reports whether stripping altered the text.
func (r Result) Changed() bool {
	return r.Stats.Removed > 0
}

// Strip runs FindSpans and Remove over the same buffer.
func Strip(text string, scope Scope) Result {
	spans := FindSpans(text, scope)
	out := Remove(text, scope)
	stats := Count(spans)
	stats.Removed = len(text) - len(out)
	return Result{Text: out, Spans: spans, Stats: stats}
}

// Count tallies spans by kind.
func Count(spans []model.Span) Stats {
	var st Stats
	for _, sp := range spans {
		switch sp.Kind {
		case model.CommentKindLine:
			st.Line++
		case model.CommentKindBlock:
			st.Block++
		}
	}
	return st
}
