package textdiff

import (
	"strings"

	"github.com/phyten/devdeck/internal/termcolor"
)

func basic(n int) *int { return &n }

var (
	fileStyle   = termcolor.Style{Bold: true}
	hunkStyle   = termcolor.Style{FGBasic: basic(6)}
	removeStyle = termcolor.Style{FGBasic: basic(1)}
	addStyle    = termcolor.Style{FGBasic: basic(2)}
)

// Colorize styles the lines of a unified diff. Disabled input is returned
// unchanged.
func Colorize(diff string, enabled bool) string {
	if !enabled || diff == "" {
		return diff
	}
	lines := strings.SplitAfter(diff, "\n")
	var b strings.Builder
	b.Grow(len(diff) + len(lines)*8)
	for _, line := range lines {
		body, nl := strings.CutSuffix(line, "\n")
		var style termcolor.Style
		switch {
		case strings.HasPrefix(body, "--- "), strings.HasPrefix(body, "+++ "):
			style = fileStyle
		case strings.HasPrefix(body, "@@"):
			style = hunkStyle
		case strings.HasPrefix(body, "-"):
			style = removeStyle
		case strings.HasPrefix(body, "+"):
			style = addStyle
		}
		b.WriteString(termcolor.Apply(style, body, true))
		if nl {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
