package termcolor

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	for in, want := range map[string]ColorMode{"": ModeAuto, " Auto ": ModeAuto, "always": ModeAlways, "NEVER": ModeNever} {
		got, err := ParseMode(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
		require.Equal(t, want.String(), got.String())
	}
	_, err := ParseMode("rainbow")
	require.EqualError(t, err, "unknown color mode: rainbow")
}

func TestDetectModeEnvironment(t *testing.T) {
	_, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	for _, tc := range []struct {
		name string
		env  map[string]string
		want ColorMode
	}{
		{"plain pipe", nil, ModeNever},
		{"no color", map[string]string{"NO_COLOR": "1"}, ModeNever},
		{"clicolor off", map[string]string{"CLICOLOR": "0"}, ModeNever},
		{"clicolor force", map[string]string{"CLICOLOR_FORCE": "2"}, ModeAlways},
		{"force color", map[string]string{"FORCE_COLOR": "1"}, ModeAlways},
		{"force color zero", map[string]string{"FORCE_COLOR": "0"}, ModeNever},
		{"no color beats force", map[string]string{"NO_COLOR": "1", "FORCE_COLOR": "1"}, ModeNever},
		{"dumb beats force", map[string]string{"TERM": "dumb", "CLICOLOR_FORCE": "1"}, ModeNever},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, DetectMode(w, tc.env))
		})
	}
}

func TestDetectModeWriters(t *testing.T) {
	var buf bytes.Buffer
	require.Equal(t, ModeNever, DetectMode(&buf, nil))
	require.Equal(t, ModeAlways, DetectMode(&buf, map[string]string{"FORCE_COLOR": "1"}))
	require.Equal(t, ModeNever, DetectMode(nil, map[string]string{"FORCE_COLOR": "1"}))
	require.False(t, IsTerminal(&buf))
}

func TestDetectProfile(t *testing.T) {
	require.Equal(t, ProfileTrueColor, DetectProfile(map[string]string{"COLORTERM": "24bit"}))
	require.Equal(t, ProfileTrueColor, DetectProfile(map[string]string{"COLORTERM": "TrueColor", "TERM": "xterm"}))
	require.Equal(t, ProfileANSI256, DetectProfile(map[string]string{"TERM": "screen-256color"}))
	require.Equal(t, ProfileBasic8, DetectProfile(nil))
}

func TestEnvMap(t *testing.T) {
	require.Equal(t, map[string]string{"FOO": "bar", "BARE": "", "EQ": "a=b"}, EnvMap([]string{"FOO=bar", "BARE", "", "EQ=a=b"}))
}

func TestResolve(t *testing.T) {
	var buf bytes.Buffer
	env := map[string]string{"COLORTERM": "truecolor", "COLORFGBG": "0;15"}
	out, err := Resolve("always", &buf, env)
	require.NoError(t, err)
	require.Equal(t, Output{Enabled: true, Scheme: SchemeLight, Profile: ProfileTrueColor}, out)

	out, err = Resolve("", &buf, env)
	require.NoError(t, err)
	require.False(t, out.Enabled)
	require.Equal(t, SchemeLight, out.Scheme)

	_, err = Resolve("sometimes", &buf, env)
	require.Error(t, err)
}
