// Package colordist parses CSS color values and measures perceptual distance
// between them.
package colordist

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidColor is returned for color strings that cannot be parsed.
var ErrInvalidColor = errors.New("invalid color")

// RGBA is an 8-bit color with a normalized alpha channel (0-1).
type RGBA struct {
	R uint8   `json:"r"`
	G uint8   `json:"g"`
	B uint8   `json:"b"`
	A float64 `json:"a"`
}

// Transparent reports whether the color has no visible coverage.
func (c RGBA) Transparent() bool {
	return c.A <= 0
}

// Hex returns the color as #rrggbb, or #rrggbbaa when not fully opaque.
func (c RGBA) Hex() string {
	if c.A >= 1 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, uint8(math.Round(c.A*255)))
}

// String formats the color the way browsers report computed colors.
func (c RGBA) String() string {
	if c.A >= 1 {
		return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(c.A, 'f', -1, 64))
}

// Composite blends the color over an opaque backdrop and returns the opaque result.
func (c RGBA) Composite(backdrop RGBA) RGBA {
	if c.A >= 1 {
		return c
	}
	a := math.Max(0, c.A)
	mix := func(fg, bg uint8) uint8 {
		return uint8(math.Round(float64(fg)*a + float64(bg)*(1-a)))
	}
	return RGBA{R: mix(c.R, backdrop.R), G: mix(c.G, backdrop.G), B: mix(c.B, backdrop.B), A: 1}
}

var white = RGBA{R: 255, G: 255, B: 255, A: 1}

// namedColors covers the keywords computed styles and design files commonly emit.
var namedColors = map[string]RGBA{
	"black":   {0, 0, 0, 1},
	"white":   {255, 255, 255, 1},
	"red":     {255, 0, 0, 1},
	"green":   {0, 128, 0, 1},
	"lime":    {0, 255, 0, 1},
	"blue":    {0, 0, 255, 1},
	"yellow":  {255, 255, 0, 1},
	"cyan":    {0, 255, 255, 1},
	"aqua":    {0, 255, 255, 1},
	"magenta": {255, 0, 255, 1},
	"fuchsia": {255, 0, 255, 1},
	"gray":    {128, 128, 128, 1},
	"grey":    {128, 128, 128, 1},
	"silver":  {192, 192, 192, 1},
	"maroon":  {128, 0, 0, 1},
	"olive":   {128, 128, 0, 1},
	"navy":    {0, 0, 128, 1},
	"teal":    {0, 128, 128, 1},
	"purple":  {128, 0, 128, 1},
	"orange":  {255, 165, 0, 1},
	"pink":    {255, 192, 203, 1},
	"brown":   {165, 42, 42, 1},

	"transparent": {0, 0, 0, 0},
}

// Parse parses a CSS color value: hex forms, rgb()/rgba(), hsl()/hsla(),
// named colors and "transparent".
func Parse(s string) (RGBA, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return RGBA{}, fmt.Errorf("%w: empty value", ErrInvalidColor)
	}

	if c, ok := namedColors[v]; ok {
		return c, nil
	}

	switch {
	case strings.HasPrefix(v, "#"):
		return parseHex(v)
	case strings.HasPrefix(v, "rgb"):
		return parseRGBFunc(v)
	case strings.HasPrefix(v, "hsl"):
		return parseHSLFunc(v)
	}

	return RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) RGBA {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

func parseHex(v string) (RGBA, error) {
	h := strings.TrimPrefix(v, "#")
	if len(h) == 3 || len(h) == 4 {
		var b strings.Builder
		for _, r := range h {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		h = b.String()
	}
	if len(h) != 6 && len(h) != 8 {
		return RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, v)
	}

	n, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, v)
	}

	c := RGBA{A: 1}
	if len(h) == 8 {
		c.A = float64(n&0xff) / 255
		n >>= 8
	}
	c.R = uint8(n >> 16)
	c.G = uint8(n >> 8)
	c.B = uint8(n)
	return c, nil
}

// funcArgs splits "name(a, b, c / d)" into its arguments. Both the legacy
// comma syntax and the space separated level-4 syntax are accepted.
func funcArgs(v string) ([]string, bool) {
	open := strings.IndexByte(v, '(')
	if open < 0 || !strings.HasSuffix(v, ")") {
		return nil, false
	}
	body := v[open+1 : len(v)-1]
	body = strings.ReplaceAll(body, "/", " ")
	body = strings.ReplaceAll(body, ",", " ")
	return strings.Fields(body), true
}

func parseRGBFunc(v string) (RGBA, error) {
	args, ok := funcArgs(v)
	if !ok || (len(args) != 3 && len(args) != 4) {
		return RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, v)
	}

	var ch [3]uint8
	for i := 0; i < 3; i++ {
		f, err := parseChannel(args[i])
		if err != nil {
			return RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, v)
		}
		ch[i] = f
	}

	c := RGBA{R: ch[0], G: ch[1], B: ch[2], A: 1}
	if len(args) == 4 {
		a, err := parseAlpha(args[3])
		if err != nil {
			return RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, v)
		}
		c.A = a
	}
	return c, nil
}

func parseHSLFunc(v string) (RGBA, error) {
	args, ok := funcArgs(v)
	if !ok || (len(args) != 3 && len(args) != 4) {
		return RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, v)
	}

	h, err := parseNumber(strings.TrimSuffix(args[0], "deg"))
	if err != nil {
		return RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, v)
	}
	s, err1 := parsePercent(args[1])
	l, err2 := parsePercent(args[2])
	if err1 != nil || err2 != nil {
		return RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, v)
	}

	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	r, g, b := colorful.Hsl(h, s, l).Clamped().RGB255()
	c := RGBA{R: r, G: g, B: b, A: 1}
	if len(args) == 4 {
		a, err := parseAlpha(args[3])
		if err != nil {
			return RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, v)
		}
		c.A = a
	}
	return c, nil
}

func parseChannel(s string) (uint8, error) {
	if strings.HasSuffix(s, "%") {
		p, err := parsePercent(s)
		if err != nil {
			return 0, err
		}
		return uint8(math.Round(p * 255)), nil
	}
	f, err := parseNumber(s)
	if err != nil {
		return 0, err
	}
	return uint8(math.Round(clamp(f, 0, 255))), nil
}

func parseAlpha(s string) (float64, error) {
	if strings.HasSuffix(s, "%") {
		return parsePercent(s)
	}
	f, err := parseNumber(s)
	if err != nil {
		return 0, err
	}
	return clamp(f, 0, 1), nil
}

func parsePercent(s string) (float64, error) {
	f, err := parseNumber(strings.TrimSuffix(s, "%"))
	if err != nil {
		return 0, err
	}
	return clamp(f/100, 0, 1), nil
}

// parseNumber parses a finite float. NaN and infinities are rejected.
func parseNumber(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite number %q", s)
	}
	return f, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
