package termcolor

import (
	"strconv"
	"strings"
)

const reset = "\x1b[0m"

// Style is a set of SGR attributes. Only the richest foreground that is set
// is emitted (FGTrue, then FG256, then FGBasic).
type Style struct {
	Bold      bool
	Dim       bool
	Italic    bool
	Underline bool
	FGBasic   *int
	FG256     *int
	FGTrue    *[3]uint8
}

// IsZero reports whether s emits no escape codes.
func (s Style) IsZero() bool {
	return s.sequence() == ""
}

// sequence renders the opening escape, or "" for a plain style.
func (s Style) sequence() string {
	var params []string
	for _, attr := range []struct {
		on   bool
		code string
	}{{s.Bold, "1"}, {s.Dim, "2"}, {s.Italic, "3"}, {s.Underline, "4"}} {
		if attr.on {
			params = append(params, attr.code)
		}
	}
	switch {
	case s.FGTrue != nil:
		params = append(params, "38;2;"+strconv.Itoa(int(s.FGTrue[0]))+";"+strconv.Itoa(int(s.FGTrue[1]))+";"+strconv.Itoa(int(s.FGTrue[2])))
	case s.FG256 != nil:
		params = append(params, "38;5;"+strconv.Itoa(*s.FG256))
	case s.FGBasic != nil:
		params = append(params, "3"+strconv.Itoa(*s.FGBasic))
	}
	if len(params) == 0 {
		return ""
	}
	return "\x1b[" + strings.Join(params, ";") + "m"
}

// Apply wraps text in s and a trailing reset. Disabled or empty input is
// returned unchanged.
func Apply(s Style, text string, enabled bool) string {
	if !enabled || text == "" {
		return text
	}
	seq := s.sequence()
	if seq == "" {
		return text
	}
	return seq + text + reset
}

// ApplyLines styles every line on its own so pagers that reset attributes
// at line ends keep the styling. Empty lines stay bare.
func ApplyLines(s Style, text string, enabled bool) string {
	if !enabled {
		return text
	}
	var b strings.Builder
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(Apply(s, line, true))
	}
	return b.String()
}
