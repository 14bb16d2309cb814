package figure

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// namedColors lists the line colors accepted on the command line. "gray" is
// the default for overlay plots so overlapping trajectories read as density.
var namedColors = map[string]color.NRGBA{
	"black":   {R: 0, G: 0, B: 0, A: 255},
	"white":   {R: 255, G: 255, B: 255, A: 255},
	"gray":    {R: 128, G: 128, B: 128, A: 255},
	"grey":    {R: 128, G: 128, B: 128, A: 255},
	"red":     {R: 255, G: 0, B: 0, A: 255},
	"green":   {R: 0, G: 128, B: 0, A: 255},
	"blue":    {R: 0, G: 0, B: 255, A: 255},
	"orange":  {R: 255, G: 165, B: 0, A: 255},
	"purple":  {R: 128, G: 0, B: 128, A: 255},
	"cyan":    {R: 0, G: 255, B: 255, A: 255},
	"magenta": {R: 255, G: 0, B: 255, A: 255},
	"yellow":  {R: 255, G: 255, B: 0, A: 255},
	"brown":   {R: 165, G: 42, B: 42, A: 255},
	"pink":    {R: 255, G: 192, B: 203, A: 255},
}

// ParseColor resolves a color name or a #rgb / #rrggbb hex value.
func ParseColor(s string) (color.NRGBA, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[key]; ok {
		return c, nil
	}
	if strings.HasPrefix(key, "#") {
		return parseHexColor(key)
	}
	return color.NRGBA{}, fmt.Errorf("unknown color %q", s)
}

func parseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 3:
		// Shorthand: each digit doubles, #f80 -> #ff8800.
		expanded := make([]byte, 6)
		for i := 0; i < 3; i++ {
			expanded[2*i] = hex[i]
			expanded[2*i+1] = hex[i]
		}
		hex = string(expanded)
	case 6:
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.NRGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}, nil
}

// WithAlpha returns c at the given opacity. Alpha outside [0, 1] is clamped.
func WithAlpha(c color.NRGBA, alpha float64) color.NRGBA {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	c.A = uint8(alpha*255 + 0.5)
	return c
}
