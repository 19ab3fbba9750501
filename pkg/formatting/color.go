package formatting

import (
	"math"
	"strconv"
	"strings"
)

// RGB is an sRGB colour with 8-bit channels.
type RGB struct{ R, G, B uint8 }

// ParseHexColor parses "#RGB" or "#RRGGBB".
func ParseHexColor(s string) (RGB, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return RGB{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, false
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, true
}

// Hex formats the colour as "#RRGGBB".
func (c RGB) Hex() string {
	const digits = "0123456789ABCDEF"
	b := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, ch := range []uint8{c.R, c.G, c.B} {
		b[1+2*i] = digits[ch>>4]
		b[2+2*i] = digits[ch&0x0F]
	}
	return string(b)
}

// Luminance is the WCAG relative luminance.
func (c RGB) Luminance() float64 {
	lin := func(ch uint8) float64 {
		v := float64(ch) / 255
		if v <= 0.03928 {
			return v / 12.92
		}
		return math.Pow((v+0.055)/1.055, 2.4)
	}
	return 0.2126*lin(c.R) + 0.7152*lin(c.G) + 0.0722*lin(c.B)
}

// ContrastRatio is the WCAG contrast ratio between two colours, in [1, 21].
func ContrastRatio(a, b RGB) float64 {
	la, lb := a.Luminance(), b.Luminance()
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

// BestTextColor returns black or white, whichever contrasts more with bg.
func BestTextColor(bg RGB) string {
	black, white := RGB{}, RGB{255, 255, 255}
	if ContrastRatio(black, bg) >= ContrastRatio(white, bg) {
		return black.Hex()
	}
	return white.Hex()
}
