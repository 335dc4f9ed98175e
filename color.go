package handnote

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// namedColors covers the CSS-style names accepted in settings values.
// Hex notation handles everything else.
var namedColors = map[string]color.NRGBA{
	"black":   {0x00, 0x00, 0x00, 0xff},
	"white":   {0xff, 0xff, 0xff, 0xff},
	"red":     {0xff, 0x00, 0x00, 0xff},
	"green":   {0x00, 0x80, 0x00, 0xff},
	"blue":    {0x00, 0x00, 0xff, 0xff},
	"yellow":  {0xff, 0xff, 0x00, 0xff},
	"cyan":    {0x00, 0xff, 0xff, 0xff},
	"magenta": {0xff, 0x00, 0xff, 0xff},
	"gray":    {0x80, 0x80, 0x80, 0xff},
	"grey":    {0x80, 0x80, 0x80, 0xff},
	"orange":  {0xff, 0xa5, 0x00, 0xff},
	"brown":   {0xa5, 0x2a, 0x2a, 0xff},
}

// ParseColor parses a settings color string into an NRGBA color.
// Supported forms: a color name ("black", "white", ...) or hex notation
// "#RGB", "#RGBA", "#RRGGBB", "#RRGGBBAA" (leading '#' optional).
func ParseColor(s string) (color.NRGBA, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[name]; ok {
		return c, nil
	}

	hex := strings.TrimPrefix(name, "#")
	var r, g, b uint64
	a := uint64(255)
	var err error

	switch len(hex) {
	case 3: // RGB
		r, g, b, _, err = parseHexDigits(hex, false)
	case 4: // RGBA
		r, g, b, a, err = parseHexDigits(hex, true)
	case 6: // RRGGBB
		r, g, b, _, err = parseHexPairs(hex, false)
	case 8: // RRGGBBAA
		r, g, b, a, err = parseHexPairs(hex, true)
	default:
		return color.NRGBA{}, fmt.Errorf("parse color %q: unsupported format", s)
	}
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("parse color %q: %w", s, err)
	}

	return color.NRGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: uint8(a)}, nil
}

// MustParseColor is like ParseColor but panics on invalid input.
// Intended for constants and tests.
func MustParseColor(s string) color.NRGBA {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// parseHexDigits parses single-digit-per-channel notation, where each
// digit is replicated ("d" -> 0xdd).
func parseHexDigits(hex string, hasAlpha bool) (r, g, b, a uint64, err error) {
	a = 255
	if r, err = strconv.ParseUint(hex[0:1], 16, 8); err != nil {
		return
	}
	if g, err = strconv.ParseUint(hex[1:2], 16, 8); err != nil {
		return
	}
	if b, err = strconv.ParseUint(hex[2:3], 16, 8); err != nil {
		return
	}
	r, g, b = r*17, g*17, b*17
	if hasAlpha {
		if a, err = strconv.ParseUint(hex[3:4], 16, 8); err != nil {
			return
		}
		a *= 17
	}
	return
}

// parseHexPairs parses two-digits-per-channel notation.
func parseHexPairs(hex string, hasAlpha bool) (r, g, b, a uint64, err error) {
	a = 255
	if r, err = strconv.ParseUint(hex[0:2], 16, 8); err != nil {
		return
	}
	if g, err = strconv.ParseUint(hex[2:4], 16, 8); err != nil {
		return
	}
	if b, err = strconv.ParseUint(hex[4:6], 16, 8); err != nil {
		return
	}
	if hasAlpha {
		if a, err = strconv.ParseUint(hex[6:8], 16, 8); err != nil {
			return
		}
	}
	return
}
