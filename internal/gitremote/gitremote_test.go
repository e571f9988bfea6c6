package gitremote

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/require"

	"github.com/phyten/devdeck/internal/execx"
)

func TestParseはリモート形式ごとにホストとリポジトリを取り出す(t *testing.T) {
	for _, tt := range []struct {
		raw  string
		want Info
	}{
		{"git@github.com:owner/repo.git", Info{Host: "github.com", Owner: "owner", Repo: "repo"}},
		{"https://example.com/org/project.git", Info{Host: "example.com", Owner: "org", Repo: "project", Scheme: "https"}},
		{"https://ghes.local:8443/org/project.git", Info{Host: "ghes.local:8443", Owner: "org", Repo: "project", Scheme: "https"}},
		{"http://git.example.com:8080/org/project", Info{Host: "git.example.com:8080", Owner: "org", Repo: "project", Scheme: "http"}},
		{"ssh://git@ghes.local:2222/org/project.git", Info{Host: "ghes.local:2222", Owner: "org", Repo: "project"}},
		{"https://deploy@github.example.com/team/repo/", Info{Host: "github.example.com", Owner: "team", Repo: "repo", Scheme: "https"}},
		{"https://example.com/org\\repo.git", Info{Host: "example.com", Owner: "org", Repo: "repo", Scheme: "https"}},
	} {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := Parse(tt.raw)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseは不正なリモートを拒否する(t *testing.T) {
	for _, raw := range []string{"", "git@github.com", "ftp://example.com/a/b", "https://example.com/only", "/local/path"} {
		_, err := Parse(raw)
		require.Error(t, err, raw)
	}
}

func TestBlobは行番号付きURLを返す(t *testing.T) {
	info := Info{Host: "ghes.local:8443", Owner: "team", Repo: "demo"}
	require.Equal(t, "https://ghes.local:8443/team/demo/blob/abc123/src/main.go#L42", info.Blob("abc123", "src/main.go", 42))
	require.Equal(t, "https://ghes.local:8443/team/demo/blob/abc123/docs/read%20me.md?plain=1#L3", info.Blob("abc123", "docs/read me.md", 3))

	info.Scheme = "http"
	require.Equal(t, "http://ghes.local:8443/team/demo", info.WebURL())

	require.Empty(t, info.Blob("", "a.go", 1))
	require.Empty(t, info.Blob("abc", "", 1))
	require.Empty(t, info.Blob("abc", "a.go", 0))
}

func fakeGit(t *testing.T, replies map[string]string) execx.Runner {
	return execx.RunnerFunc(func(_ context.Context, _ string, name string, args ...string) ([]byte, []byte, error) {
		require.Equal(t, "git", name)
		key := args[len(args)-1]
		if out, ok := replies[key]; ok {
			return []byte(out), nil, nil
		}
		return nil, []byte("fatal: not found\n"), errors.New("exit status 1")
	})
}

func TestDetectはリモート名を選べる(t *testing.T) {
	runner := fakeGit(t, map[string]string{
		"remote.origin.url":   "https://github.com/example/default.git\n",
		"remote.upstream.url": "ssh://git@github.example.com:2222/team/demo.git\n",
	})
	info, err := Detect(context.Background(), runner, ".", "")
	require.NoError(t, err)
	require.Equal(t, "example", info.Owner)

	info, err = Detect(context.Background(), runner, ".", "upstream")
	require.NoError(t, err)
	require.Equal(t, Info{Host: "github.example.com:2222", Owner: "team", Repo: "demo"}, info)

	_, err = Detect(context.Background(), runner, ".", "missing")
	require.ErrorContains(t, err, "remote.missing.url")
	require.ErrorContains(t, err, "fatal: not found")
}

func TestHeadはSHAを返す(t *testing.T) {
	sha, err := Head(context.Background(), fakeGit(t, map[string]string{"HEAD": "0123abc\n"}), ".")
	require.NoError(t, err)
	require.Equal(t, "0123abc", sha)

	_, err = Head(context.Background(), fakeGit(t, nil), ".")
	require.ErrorContains(t, err, "resolve HEAD")
}
