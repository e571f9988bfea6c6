package termcolor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestApply(t *testing.T) {
	boldRed := Style{Bold: true, FGBasic: ptr(1)}
	require.Equal(t, "\x1b[1;31mHello\x1b[0m", Apply(boldRed, "Hello", true))
	require.Equal(t, "Hello", Apply(boldRed, "Hello", false))
	require.Equal(t, "Hello", Apply(Style{}, "Hello", true))
	require.Empty(t, Apply(boldRed, "", true))
}

func TestApplyPrefersRichestForeground(t *testing.T) {
	s := Style{Italic: true, FGBasic: ptr(4), FG256: ptr(33), FGTrue: &[3]uint8{1, 2, 3}}
	require.Equal(t, "\x1b[3;38;2;1;2;3mx\x1b[0m", Apply(s, "x", true))
	s.FGTrue = nil
	require.Equal(t, "\x1b[3;38;5;33mx\x1b[0m", Apply(s, "x", true))
	s.FG256 = nil
	require.Equal(t, "\x1b[3;34mx\x1b[0m", Apply(s, "x", true))
}

func TestApplyLines(t *testing.T) {
	dim := Style{Dim: true, Underline: true}
	require.Equal(t, "\x1b[2;4ma\x1b[0m\n\n\x1b[2;4mb\x1b[0m", ApplyLines(dim, "a\n\nb", true))
	require.Equal(t, "\x1b[2;4mone\x1b[0m", ApplyLines(dim, "one", true))
	require.Equal(t, "a\nb", ApplyLines(dim, "a\nb", false))
}

func TestIsZero(t *testing.T) {
	require.True(t, Style{}.IsZero())
	require.False(t, Style{Dim: true}.IsZero())
	require.False(t, Style{FG256: ptr(0)}.IsZero())
}
