package comments

import (
	"sort"
	"unicode/utf8"

	"github.com/phyten/devdeck/internal/model"
)

// lineIndex converts byte offsets into 1-based line and rune columns.
type lineIndex struct {
	text   string
	starts []int
}

func newLineIndex(text string) *lineIndex {
	starts := make([]int, 1, 64)
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{text: text, starts: starts}
}

func (x *lineIndex) position(off int) (line, col int) {
	i := sort.Search(len(x.starts), func(i int) bool { return x.starts[i] > off }) - 1
	if i < 0 {
		i = 0
	}
	return i + 1, utf8.RuneCountInString(x.text[x.starts[i]:off]) + 1
}

func (x *lineIndex) span(kind model.CommentKind, start, end int) model.Span {
	sl, sc := x.position(start)
	el, ec := x.position(end)
	return model.Span{
		Kind:      kind,
		ByteStart: start,
		ByteEnd:   end,
		StartLine: sl,
		StartCol:  sc,
		EndLine:   el,
		EndCol:    ec,
	}
}
