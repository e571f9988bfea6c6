// Package textutil measures and trims task text by terminal cell width.
// Widths follow runewidth per grapheme cluster, so a ZWJ emoji sequence is
// never split.
package textutil

import (
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Ellipsis marks text cut by Clip.
const Ellipsis = "…"

// CSI and OSC sequences, which is what termcolor and hyperlinks emit.
var escapeRe = regexp.MustCompile(`\x1b\[[0-?]*[ -/]*[@-~]|\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)`)

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// StripEscapes drops terminal escape sequences from s.
func StripEscapes(s string) string {
	if strings.IndexByte(s, 0x1b) < 0 {
		return s
	}
	return escapeRe.ReplaceAllString(s, "")
}

// OneLine folds every line break in s into a single space.
func OneLine(s string) string {
	return lineBreaks.Replace(s)
}

// eachCluster walks the grapheme clusters of s until fn returns false.
func eachCluster(s string, fn func(cluster string, width int) bool) {
	state := -1
	for s != "" {
		var cluster string
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		if !fn(cluster, runewidth.StringWidth(cluster)) {
			return
		}
	}
}

// VisibleWidth reports how many terminal cells s occupies once escape
// sequences are removed.
func VisibleWidth(s string) int {
	n := 0
	eachCluster(StripEscapes(s), func(_ string, w int) bool {
		n += w
		return true
	})
	return n
}

// TruncateByWidth shortens s to at most width cells. A cut string ends in
// ellipsis when the ellipsis fits and loses its escape sequences.
func TruncateByWidth(s string, width int, ellipsis string) string {
	if width <= 0 {
		return ""
	}
	if VisibleWidth(s) <= width {
		return s
	}
	budget := width - runewidth.StringWidth(ellipsis)
	if budget < 0 {
		budget, ellipsis = width, ""
	}
	var b strings.Builder
	used := 0
	eachCluster(StripEscapes(s), func(cluster string, w int) bool {
		if used+w > budget {
			return false
		}
		b.WriteString(cluster)
		used += w
		return true
	})
	b.WriteString(ellipsis)
	return b.String()
}

// Clip flattens s to one line and truncates it to width cells with Ellipsis.
func Clip(s string, width int) string {
	return TruncateByWidth(OneLine(s), width, Ellipsis)
}

// PadRight appends spaces until s spans width cells.
func PadRight(s string, width int) string {
	if gap := width - VisibleWidth(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
