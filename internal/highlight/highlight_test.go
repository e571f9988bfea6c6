package highlight

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/phyten/devdeck/internal/comments"
	"github.com/phyten/devdeck/internal/model"
	"github.com/phyten/devdeck/internal/termcolor"
)

func TestMergeJoinsOverlaps(t *testing.T) {
	spans := []model.Span{
		{Kind: model.CommentKindBlock, ByteStart: 10, ByteEnd: 20},
		{Kind: model.CommentKindLine, ByteStart: 0, ByteEnd: 5},
		{Kind: model.CommentKindLine, ByteStart: 15, ByteEnd: 30},
		{Kind: model.CommentKindLine, ByteStart: 30, ByteEnd: 32},
		{Kind: model.CommentKindLine, ByteStart: 40, ByteEnd: 99},
		{Kind: model.CommentKindLine, ByteStart: 7, ByteEnd: 7},
	}
	orig := append([]model.Span(nil), spans...)
	got := Merge(spans, 50)
	want := []Region{
		{Kind: model.CommentKindLine, Start: 0, End: 5},
		{Kind: model.CommentKindBlock, Start: 10, End: 32},
		{Kind: model.CommentKindLine, Start: 40, End: 50},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Merge mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, orig, spans)
}

func TestRenderWithMarkers(t *testing.T) {
	text := "a := 1 // one\n/* two */ b := 2\n"
	spans := comments.FindSpans(text, comments.ScopeBoth)
	got := Render(text, spans, Options{})
	require.Equal(t, "a := 1 «// one»\n«/* two */» b := 2\n", got)

	got = Render(text, spans, Options{Open: "[", Close: "]"})
	require.Equal(t, "a := 1 [// one]\n[/* two */] b := 2\n", got)
}

func TestRenderOverlappingSpansOnce(t *testing.T) {
	text := "/* a // b */"
	spans := comments.FindSpans(text, comments.ScopeBoth)
	require.Len(t, spans, 2)
	require.Equal(t, "«/* a // b */»", Render(text, spans, Options{}))
}

func TestRenderWithColor(t *testing.T) {
	text := "x /* a\nb */"
	spans := comments.FindSpans(text, comments.ScopeMulti)
	got := Render(text, spans, Options{Color: true, Scheme: termcolor.SchemeDark, Profile: termcolor.ProfileBasic8})
	require.Equal(t, "x \x1b[3;35m/* a\x1b[0m\n\x1b[3;35mb */\x1b[0m", got)
}

func TestRenderWithoutSpans(t *testing.T) {
	require.Equal(t, "plain", Render("plain", nil, Options{Color: true}))
}
