package termcolor

import (
	"io"
	"strings"

	"github.com/go-faster/errors"
	"golang.org/x/term"
)

// ColorMode is the value of --color.
type ColorMode int

const (
	ModeAuto ColorMode = iota
	ModeAlways
	ModeNever
)

var modeNames = map[ColorMode]string{ModeAuto: "auto", ModeAlways: "always", ModeNever: "never"}

func (m ColorMode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "auto"
}

// ParseMode reads a --color value; empty means auto.
func ParseMode(v string) (ColorMode, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return ModeAuto, nil
	}
	for mode, name := range modeNames {
		if name == v {
			return mode, nil
		}
	}
	return ModeAuto, errors.Errorf("unknown color mode: %s", v)
}

// Profile is how many colors the terminal can show.
type Profile int

const (
	ProfileBasic8 Profile = iota
	ProfileANSI256
	ProfileTrueColor
)

// Output is the resolved coloring decision for one writer.
type Output struct {
	Enabled bool
	Scheme  Scheme
	Profile Profile
}

// Resolve combines the --color flag, the environment and the writer into a
// single decision. Scheme and profile are detected even when colors are off.
func Resolve(flag string, out io.Writer, env map[string]string) (Output, error) {
	mode, err := ParseMode(flag)
	if err != nil {
		return Output{}, err
	}
	if mode == ModeAuto {
		mode = DetectMode(out, env)
	}
	return Output{
		Enabled: mode == ModeAlways,
		Scheme:  DetectScheme(env),
		Profile: DetectProfile(env),
	}, nil
}

// EnvMap turns KEY=VALUE pairs into a map. Entries without "=" map to "".
func EnvMap(values []string) map[string]string {
	env := make(map[string]string, len(values))
	for _, entry := range values {
		if entry == "" {
			continue
		}
		k, v, _ := strings.Cut(entry, "=")
		env[k] = v
	}
	return env
}

// envRule maps an environment check to a decision. Rules are tried in
// order and the first match wins, so the "off" switches precede the forcing
// ones.
type envRule struct {
	match func(env map[string]string) bool
	mode  ColorMode
}

var envRules = []envRule{
	{func(env map[string]string) bool { return strings.EqualFold(strings.TrimSpace(env["TERM"]), "dumb") }, ModeNever},
	{func(env map[string]string) bool { return strings.TrimSpace(env["NO_COLOR"]) != "" }, ModeNever},
	{func(env map[string]string) bool { return strings.TrimSpace(env["CLICOLOR"]) == "0" }, ModeNever},
	{func(env map[string]string) bool { return forced(env["CLICOLOR_FORCE"]) || forced(env["FORCE_COLOR"]) }, ModeAlways},
}

// DetectMode decides auto mode from TERM=dumb, NO_COLOR, CLICOLOR=0,
// CLICOLOR_FORCE and FORCE_COLOR, falling back to whether out is a terminal.
// A nil writer never gets colors.
func DetectMode(out io.Writer, env map[string]string) ColorMode {
	if out == nil {
		return ModeNever
	}
	for _, r := range envRules {
		if r.match(env) {
			return r.mode
		}
	}
	if IsTerminal(out) {
		return ModeAlways
	}
	return ModeNever
}

// DetectProfile reads COLORTERM and TERM.
func DetectProfile(env map[string]string) Profile {
	colorterm := strings.ToLower(env["COLORTERM"])
	for _, marker := range []string{"truecolor", "24bit", "24-bit"} {
		if strings.Contains(colorterm, marker) {
			return ProfileTrueColor
		}
	}
	if strings.Contains(strings.ToLower(env["TERM"]), "256color") {
		return ProfileANSI256
	}
	return ProfileBasic8
}

// IsTerminal reports whether w is a file descriptor attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

func forced(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && v != "0"
}
