package termcolor

import (
	"strings"

	"github.com/phyten/devdeck/internal/colorutil"
	"github.com/phyten/devdeck/internal/model"
)

type swatch struct {
	dark  colorutil.RGB
	light colorutil.RGB
	basic int
}

var (
	tagSwatches = map[string]swatch{
		"TODO":  {dark: colorutil.MustHex("#f59e0b"), light: colorutil.MustHex("#b45309"), basic: 3},
		"FIXME": {dark: colorutil.MustHex("#f87171"), light: colorutil.MustHex("#b91c1c"), basic: 1},
		"CHECK": {dark: colorutil.MustHex("#34d399"), light: colorutil.MustHex("#047857"), basic: 2},
	}
	commentSwatches = map[model.CommentKind]swatch{
		model.CommentKindLine:  {dark: colorutil.MustHex("#60a5fa"), light: colorutil.MustHex("#1d4ed8"), basic: 4},
		model.CommentKindBlock: {dark: colorutil.MustHex("#c084fc"), light: colorutil.MustHex("#7e22ce"), basic: 5},
	}
)

func HeaderStyle() Style {
	return Style{Bold: true, Underline: true}
}

// TypeStyle colors a task tag. Unknown tags are left plain.
func TypeStyle(tag string, scheme Scheme, profile Profile) Style {
	sw, ok := tagSwatches[strings.ToUpper(strings.TrimSpace(tag))]
	if !ok {
		return Style{}
	}
	s := foreground(sw, scheme, profile)
	s.Bold = true
	return s
}

// CommentStyle is the highlight style for a comment span.
func CommentStyle(kind model.CommentKind, scheme Scheme, profile Profile) Style {
	sw, ok := commentSwatches[kind]
	if !ok {
		return Style{Underline: true}
	}
	s := foreground(sw, scheme, profile)
	s.Italic = true
	return s
}

// StatusStyle dims completed tasks.
func StatusStyle(completed bool) Style {
	if completed {
		return Style{Dim: true}
	}
	return Style{Bold: true}
}

func foreground(sw swatch, scheme Scheme, profile Profile) Style {
	fg := sw.dark
	if scheme == SchemeLight {
		fg = sw.light
	}
	fg = fg.ReadableOn(scheme.Background(), colorutil.AA)
	switch profile {
	case ProfileTrueColor:
		rgb := fg.Array()
		return Style{FGTrue: &rgb}
	case ProfileANSI256:
		idx := fg.ANSI256()
		return Style{FG256: &idx}
	default:
		basic := sw.basic
		return Style{FGBasic: &basic}
	}
}
