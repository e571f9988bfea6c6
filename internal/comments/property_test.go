package comments

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/phyten/devdeck/internal/model"
)

func scopeGen() *rapid.Generator[Scope] {
	return rapid.SampledFrom(allScopes)
}

// sourceGen builds buffers out of code, line comments and block comments.
// Segments are separated by a space and code never contains '/' or '*', so
// removing a comment cannot glue two delimiters together.
func sourceGen() *rapid.Generator[string] {
	segment := rapid.OneOf(
		rapid.StringMatching(`[a-z0-9(){};=\n]{1,12}`),
		rapid.Map(rapid.StringMatching(`[a-z ]{0,8}`), func(s string) string { return "//" + s + "\n" }),
		rapid.Map(rapid.StringMatching(`[a-z \n]{0,10}`), func(s string) string { return "/*" + s + "*/" }),
	)
	return rapid.Map(rapid.SliceOfN(segment, 0, 12), func(parts []string) string {
		return strings.Join(parts, " ")
	})
}

// commentFreeGen never produces // or /*: every slash sits between letters.
func commentFreeGen() *rapid.Generator[string] {
	token := rapid.SampledFrom([]string{"a", "b", "*", " ", "\n", "\t", "(", ")", ";", "a/b", "2*3", `"s"`, "é"})
	return rapid.Map(rapid.SliceOfN(token, 0, 40), func(parts []string) string {
		return strings.Join(parts, "")
	})
}

// anyGen is deliberately hostile: dense slashes, stars and line breaks.
func anyGen() *rapid.Generator[string] {
	return rapid.StringMatching(`[a/*\n\r ]{0,40}`)
}

func TestPropertyRemoveIsIdempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		text := sourceGen().Draw(rt, "text")
		scope := scopeGen().Draw(rt, "scope")
		once := Remove(text, scope)
		require.Equal(rt, once, Remove(once, scope))
	})
}

func TestPropertyIdentityWithoutComments(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		text := commentFreeGen().Draw(rt, "text")
		scope := scopeGen().Draw(rt, "scope")
		require.Equal(rt, text, Remove(text, scope))
		require.Empty(rt, FindSpans(text, scope))
	})
}

func TestPropertySpanCoverage(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		text := anyGen().Draw(rt, "text")
		scope := scopeGen().Draw(rt, "scope")
		prevEnd := map[model.CommentKind]int{}
		for _, sp := range FindSpans(text, scope) {
			require.True(rt, 0 <= sp.ByteStart && sp.ByteStart <= sp.ByteEnd && sp.ByteEnd <= len(text), "span out of range: %+v", sp)
			require.GreaterOrEqual(rt, sp.ByteStart, prevEnd[sp.Kind], "spans of one family must be sorted and disjoint")
			prevEnd[sp.Kind] = sp.ByteEnd
			body := sp.Text(text)
			switch sp.Kind {
			case model.CommentKindLine:
				require.True(rt, scope.IncludesLine())
				require.True(rt, strings.HasPrefix(body, "//"), body)
				require.False(rt, strings.ContainsAny(body, "\r\n"), body)
			case model.CommentKindBlock:
				require.True(rt, scope.IncludesBlock())
				require.True(rt, strings.HasPrefix(body, "/*"), body)
				require.True(rt, strings.HasSuffix(body, "*/"), body)
				require.GreaterOrEqual(rt, len(body), 4)
			default:
				rt.Fatalf("unexpected kind %q", sp.Kind)
			}
		}
	})
}

func TestPropertyLengthMonotonic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		text := anyGen().Draw(rt, "text")
		scope := scopeGen().Draw(rt, "scope")
		out := Remove(text, scope)
		spans := FindSpans(text, scope)
		require.LessOrEqual(rt, len(out), len(text))
		require.Equal(rt, len(spans) == 0, len(out) == len(text))
	})
}

func TestPropertyRemovedTextHasNoSelectedComments(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		text := sourceGen().Draw(rt, "text")
		scope := scopeGen().Draw(rt, "scope")
		require.Empty(rt, FindSpans(Remove(text, scope), scope))
	})
}
