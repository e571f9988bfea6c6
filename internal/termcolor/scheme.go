package termcolor

import (
	"strconv"
	"strings"

	"github.com/phyten/devdeck/internal/colorutil"
)

// Scheme is the terminal background brightness.
type Scheme int

const (
	SchemeUnknown Scheme = iota
	SchemeDark
	SchemeLight
)

var (
	darkBackground  = colorutil.MustHex("#111827")
	lightBackground = colorutil.MustHex("#f9fafb")
)

func (s Scheme) String() string {
	switch s {
	case SchemeLight:
		return "light"
	case SchemeDark:
		return "dark"
	default:
		return "unknown"
	}
}

// Background is the reference background used for contrast checks.
// Unknown schemes are treated as dark.
func (s Scheme) Background() colorutil.RGB {
	if s == SchemeLight {
		return lightBackground
	}
	return darkBackground
}

// DetectScheme guesses the background from COLORFGBG, then TERM. Dark wins
// when nothing is known.
func DetectScheme(env map[string]string) Scheme {
	if env == nil {
		return SchemeDark
	}
	if raw := strings.TrimSpace(env["COLORFGBG"]); raw != "" {
		parts := strings.Split(raw, ";")
		bgRaw := strings.TrimSpace(parts[len(parts)-1])
		if bgRaw == "" && len(parts) >= 2 {
			bgRaw = strings.TrimSpace(parts[len(parts)-2])
		}
		if bg, err := strconv.Atoi(bgRaw); err == nil && bg >= 0 {
			if bg >= 7 {
				return SchemeLight
			}
			return SchemeDark
		}
	}
	if strings.Contains(strings.ToLower(env["TERM"]), "light") {
		return SchemeLight
	}
	return SchemeDark
}
