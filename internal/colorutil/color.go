// Package colorutil does the color math behind terminal styles: hex
// parsing, WCAG contrast and the xterm 256-color cube.
package colorutil

import (
	"encoding/hex"
	"fmt"
	"math"
	"strings"

	"github.com/go-faster/errors"
)

// AA is the WCAG AA contrast ratio for body text.
const AA = 4.5

// RGB is an sRGB color with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

var (
	Black = RGB{}
	White = RGB{255, 255, 255}
)

// ParseHex reads "#rrggbb" or "#rgb"; the hash is optional.
func ParseHex(s string) (RGB, error) {
	digits := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(digits) == 3 {
		digits = strings.Repeat(digits[:1], 2) + strings.Repeat(digits[1:2], 2) + strings.Repeat(digits[2:], 2)
	}
	b, err := hex.DecodeString(digits)
	if err != nil || len(b) != 3 {
		return RGB{}, errors.Errorf("invalid hex color %q", s)
	}
	return RGB{b[0], b[1], b[2]}, nil
}

// MustHex is ParseHex for package-level palettes.
func MustHex(s string) RGB {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex renders c as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Array returns the channels in R, G, B order.
func (c RGB) Array() [3]uint8 {
	return [3]uint8{c.R, c.G, c.B}
}

func linear(v uint8) float64 {
	f := float64(v) / 255
	if f <= 0.04045 {
		return f / 12.92
	}
	return math.Pow((f+0.055)/1.055, 2.4)
}

// Luminance is the WCAG relative luminance, 0 for black and 1 for white.
func (c RGB) Luminance() float64 {
	return 0.2126*linear(c.R) + 0.7152*linear(c.G) + 0.0722*linear(c.B)
}

// Contrast is the WCAG ratio between c and other, from 1 to 21.
func (c RGB) Contrast(other RGB) float64 {
	hi, lo := c.Luminance(), other.Luminance()
	if hi < lo {
		hi, lo = lo, hi
	}
	return (hi + 0.05) / (lo + 0.05)
}

// TextOn picks black or white for text on bg. Black wins ties and any
// background where it already reaches AA.
func TextOn(bg RGB) RGB {
	onBlack := Black.Contrast(bg)
	if onBlack >= AA || onBlack >= White.Contrast(bg) {
		return Black
	}
	return White
}

// ReadableOn returns c when it reaches ratio against bg and TextOn(bg)
// otherwise. A ratio of zero or less means AA.
func (c RGB) ReadableOn(bg RGB, ratio float64) RGB {
	if ratio <= 0 {
		ratio = AA
	}
	if c.Contrast(bg) >= ratio {
		return c
	}
	return TextOn(bg)
}

// ANSI256 maps c to the nearest xterm palette index, using the gray ramp
// for neutral colors and the 6x6x6 cube otherwise.
func (c RGB) ANSI256() int {
	if c.R == c.G && c.G == c.B {
		switch {
		case c.R < 8:
			return 16
		case c.R > 248:
			return 231
		}
		return 232 + (int(c.R)-8)*24/247
	}
	cube := func(v uint8) int { return int(v) * 5 / 255 }
	return 16 + 36*cube(c.R) + 6*cube(c.G) + cube(c.B)
}
