package execx

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/require"
)

func TestOutputは標準エラーの先頭行を含める(t *testing.T) {
	r := RunnerFunc(func(ctx context.Context, dir, name string, args ...string) ([]byte, []byte, error) {
		require.Equal(t, "/repo", dir)
		require.Equal(t, []string{"rev-parse", "HEAD"}, args)
		return nil, []byte("  fatal: not a git repository\nhint: more\n"), errors.New("exit status 128")
	})
	_, err := Output(context.Background(), r, "/repo", "git", "rev-parse", "HEAD")
	require.EqualError(t, err, "git: fatal: not a git repository: exit status 128")

	var ee *Error
	require.ErrorAs(t, err, &ee)
	require.Equal(t, "git", ee.Name)
	require.False(t, ee.NotFound())
}

func TestOutputは標準エラーが空でも名前を付ける(t *testing.T) {
	r := RunnerFunc(func(context.Context, string, string, ...string) ([]byte, []byte, error) {
		return nil, nil, errors.New("signal: killed")
	})
	_, err := Output(context.Background(), r, "", "git")
	require.EqualError(t, err, "git: signal: killed")
}

func TestLineは空白を除く(t *testing.T) {
	r := RunnerFunc(func(context.Context, string, string, ...string) ([]byte, []byte, error) {
		return []byte("c0ffee\n"), nil, nil
	})
	line, err := Line(context.Background(), r, "", "git", "rev-parse", "HEAD")
	require.NoError(t, err)
	require.Equal(t, "c0ffee", line)

	empty := RunnerFunc(func(context.Context, string, string, ...string) ([]byte, []byte, error) {
		return []byte("\n"), nil, nil
	})
	_, err = Line(context.Background(), empty, "", "git", "config", "--get", "remote.origin.url")
	require.EqualError(t, err, "git config --get remote.origin.url: empty output")
}

func TestSystemは存在しないコマンドを判別する(t *testing.T) {
	_, err := Output(context.Background(), nil, "", "devdeck-command-that-does-not-exist")
	var ee *Error
	require.ErrorAs(t, err, &ee)
	require.True(t, ee.NotFound())
}
