package termcolor

import (
	"testing"

	"github.com/phyten/devdeck/internal/colorutil"
)

func TestDetectSchemeFromColorfgbg(t *testing.T) {
	cases := map[string]Scheme{
		"7;0":     SchemeDark,
		"15;7":    SchemeLight,
		"15;15":   SchemeLight,
		"0;15;":   SchemeLight,
		"x;oops":  SchemeDark,
		"default": SchemeDark,
	}
	for raw, want := range cases {
		if got := DetectScheme(map[string]string{"COLORFGBG": raw}); got != want {
			t.Fatalf("COLORFGBG=%q: got %v want %v", raw, got, want)
		}
	}
}

func TestDetectSchemeFallsBackToTermName(t *testing.T) {
	if got := DetectScheme(map[string]string{"TERM": "xterm-light"}); got != SchemeLight {
		t.Fatalf("expected light for TERM containing light, got %v", got)
	}
	if got := DetectScheme(nil); got != SchemeDark {
		t.Fatalf("nil env should default to dark, got %v", got)
	}
}

func TestSchemeBackground(t *testing.T) {
	if got := SchemeLight.Background(); got != (colorutil.RGB{R: 249, G: 250, B: 251}) {
		t.Fatalf("light background=%v", got)
	}
	if SchemeUnknown.Background() != SchemeDark.Background() {
		t.Fatal("unknown scheme should use the dark background")
	}
	if SchemeLight.String() != "light" || SchemeUnknown.String() != "unknown" {
		t.Fatal("String mismatch")
	}
}
