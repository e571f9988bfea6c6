// Package textdiff renders unified line diffs.
package textdiff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DefaultContext is the number of unchanged lines kept around each change.
const DefaultContext = 3

const noNewline = "\\ No newline at end of file\n"

type line struct {
	op   diffmatchpatch.Operation
	text string
}

// Unified returns a unified diff of a and b, or "" when they are equal.
// A negative context selects DefaultContext.
func Unified(oldName, newName, a, b string, context int) string {
	if a == b {
		return ""
	}
	if context < 0 {
		context = DefaultContext
	}
	lines := diffLines(a, b)

	var out strings.Builder
	fmt.Fprintf(&out, "--- %s\n+++ %s\n", oldName, newName)
	for _, h := range hunks(lines, context) {
		writeHunk(&out, lines, h)
	}
	return out.String()
}

func diffLines(a, b string) []line {
	dmp := diffmatchpatch.New()
	ca, cb, table := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), table)
	var out []line
	for _, d := range diffs {
		for _, t := range strings.SplitAfter(d.Text, "\n") {
			if t != "" {
				out = append(out, line{op: d.Type, text: t})
			}
		}
	}
	return out
}

type hunk struct {
	start, end int
}

// hunks groups changed lines, merging groups whose context would overlap.
func hunks(lines []line, context int) []hunk {
	var out []hunk
	for i, l := range lines {
		if l.op == diffmatchpatch.DiffEqual {
			continue
		}
		start := max(0, i-context)
		end := min(len(lines), i+context+1)
		if n := len(out); n > 0 && start <= out[n-1].end {
			out[n-1].end = max(out[n-1].end, end)
			continue
		}
		out = append(out, hunk{start: start, end: end})
	}
	return out
}

func writeHunk(out *strings.Builder, lines []line, h hunk) {
	oldStart, newStart := 1, 1
	for _, l := range lines[:h.start] {
		if l.op != diffmatchpatch.DiffInsert {
			oldStart++
		}
		if l.op != diffmatchpatch.DiffDelete {
			newStart++
		}
	}
	oldCount, newCount := 0, 0
	for _, l := range lines[h.start:h.end] {
		if l.op != diffmatchpatch.DiffInsert {
			oldCount++
		}
		if l.op != diffmatchpatch.DiffDelete {
			newCount++
		}
	}
	fmt.Fprintf(out, "@@ -%s +%s @@\n", rangeHeader(oldStart, oldCount), rangeHeader(newStart, newCount))
	for _, l := range lines[h.start:h.end] {
		switch l.op {
		case diffmatchpatch.DiffInsert:
			out.WriteByte('+')
		case diffmatchpatch.DiffDelete:
			out.WriteByte('-')
		default:
			out.WriteByte(' ')
		}
		out.WriteString(l.text)
		if !strings.HasSuffix(l.text, "\n") {
			out.WriteString("\n")
			out.WriteString(noNewline)
		}
	}
}

// rangeHeader follows GNU diff: an empty range points at the line before.
func rangeHeader(start, count int) string {
	switch count {
	case 0:
		return fmt.Sprintf("%d,0", start-1)
	case 1:
		return fmt.Sprintf("%d", start)
	default:
		return fmt.Sprintf("%d,%d", start, count)
	}
}
