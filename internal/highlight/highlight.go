// Package highlight renders comment spans for a terminal.
package highlight

import (
	"sort"
	"strings"

	"github.com/phyten/devdeck/internal/model"
	"github.com/phyten/devdeck/internal/termcolor"
)

// Default markers used when colors are disabled.
const (
	DefaultOpen  = "«"
	DefaultClose = "»"
)

// Options controls rendering. With Color false each region is wrapped in
// Open/Close markers instead of escape codes.
type Options struct {
	Color   bool
	Scheme  termcolor.Scheme
	Profile termcolor.Profile
	Open    string
	Close   string
}

// Region is a merged, non-overlapping byte range [Start, End).
type Region struct {
	Kind  model.CommentKind
	Start int
	End   int
}

// Merge sorts spans by start and joins overlapping or touching ones. The kind
// of a merged region is that of its earliest span. Spans outside [0, size]
// are clipped; empty ones are dropped. The input slice is not modified.
func Merge(spans []model.Span, size int) []Region {
	regions := make([]Region, 0, len(spans))
	for _, s := range spans {
		start, end := max(s.ByteStart, 0), min(s.ByteEnd, size)
		if start >= end {
			continue
		}
		regions = append(regions, Region{Kind: s.Kind, Start: start, End: end})
	}
	sort.SliceStable(regions, func(i, j int) bool {
		return regions[i].Start < regions[j].Start
	})
	out := regions[:0]
	for _, r := range regions {
		if n := len(out); n > 0 && r.Start <= out[n-1].End {
			out[n-1].End = max(out[n-1].End, r.End)
			continue
		}
		out = append(out, r)
	}
	return out
}

// Render returns text with every span styled.
func Render(text string, spans []model.Span, opts Options) string {
	regions := Merge(spans, len(text))
	if len(regions) == 0 {
		return text
	}
	open, closing := opts.Open, opts.Close
	if open == "" && closing == "" {
		open, closing = DefaultOpen, DefaultClose
	}
	var b strings.Builder
	b.Grow(len(text) + len(regions)*16)
	prev := 0
	for _, r := range regions {
		b.WriteString(text[prev:r.Start])
		seg := text[r.Start:r.End]
		if opts.Color {
			style := termcolor.CommentStyle(r.Kind, opts.Scheme, opts.Profile)
			b.WriteString(termcolor.ApplyLines(style, seg, true))
		} else {
			b.WriteString(open)
			b.WriteString(seg)
			b.WriteString(closing)
		}
		prev = r.End
	}
	b.WriteString(text[prev:])
	return b.String()
}
