package textdiff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnifiedEqual(t *testing.T) {
	require.Equal(t, "", Unified("a", "b", "same\n", "same\n", 3))
}

func TestUnifiedSingleChange(t *testing.T) {
	a := "package main\n\n// hello\nfunc main() {}\n"
	b := "package main\n\n\nfunc main() {}\n"
	want := "--- a/main.go\n+++ b/main.go\n" +
		"@@ -1,4 +1,4 @@\n" +
		" package main\n" +
		" \n" +
		"-// hello\n" +
		"+\n" +
		" func main() {}\n"
	require.Equal(t, want, Unified("a/main.go", "b/main.go", a, b, -1))
}

func TestUnifiedSplitsDistantHunks(t *testing.T) {
	var a, b strings.Builder
	for i := 1; i <= 20; i++ {
		line := "line\n"
		if i == 2 || i == 18 {
			a.WriteString("x // c\n")
			b.WriteString("x \n")
			continue
		}
		a.WriteString(line)
		b.WriteString(line)
	}
	got := Unified("old", "new", a.String(), b.String(), 1)
	require.Equal(t, 2, strings.Count(got, "@@ -"))
	require.Contains(t, got, "@@ -1,3 +1,3 @@\n")
	require.Contains(t, got, "@@ -17,3 +17,3 @@\n")
}

func TestUnifiedMissingTrailingNewline(t *testing.T) {
	got := Unified("a", "b", "x /* c */", "x ", 0)
	want := "--- a\n+++ b\n" +
		"@@ -1 +1 @@\n" +
		"-x /* c */\n" + noNewline +
		"+x \n" + noNewline
	require.Equal(t, want, got)
}

func TestUnifiedPureDeletion(t *testing.T) {
	got := Unified("a", "b", "keep\ndrop\n", "keep\n", 0)
	require.Contains(t, got, "@@ -2 +1,0 @@\n-drop\n")
}

func TestColorize(t *testing.T) {
	diff := "--- a/x.c\n+++ b/x.c\n@@ -1,2 +1,1 @@\n-// c\n int x;\n"
	require.Equal(t, diff, Colorize(diff, false))
	require.Equal(t,
		"\x1b[1m--- a/x.c\x1b[0m\n"+
			"\x1b[1m+++ b/x.c\x1b[0m\n"+
			"\x1b[36m@@ -1,2 +1,1 @@\x1b[0m\n"+
			"\x1b[31m-// c\x1b[0m\n"+
			" int x;\n",
		Colorize(diff, true))
}
