package render

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"

	"github.com/banshee-data/gaze.report/internal/config"
)

// NewPalette returns the named palette with n colors, low density first.
func NewPalette(name string, n int) (palette.Palette, error) {
	if n < 2 {
		return nil, fmt.Errorf("palette needs at least 2 colors, got %d", n)
	}
	switch name {
	case config.PaletteTurbo:
		return turbo(n), nil
	case config.PaletteKindlmann:
		return moreland.ExtendedKindlmann().Palette(n), nil
	case config.PaletteBlackBody:
		return moreland.BlackBody().Palette(n), nil
	default:
		return nil, fmt.Errorf("unknown palette %q", name)
	}
}

type colors []color.Color

func (c colors) Colors() []color.Color { return c }

// turbo sweeps hue from blue through green and yellow to red. Lightness
// peaks mid-range so both ends stay dark.
func turbo(n int) palette.Palette {
	out := make(colors, n)
	for i := range out {
		t := float64(i) / float64(n-1)
		hue := 0.7 * (1 - t)
		light := 0.25 + 0.3*math.Sin(math.Pi*t)
		r, g, b := hslToRGB(hue, 0.9, light)
		out[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return out
}

// hslToRGB converts HSL to RGB (0-255 range)
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var rf, gf, bf float64

	if s == 0 {
		rf, gf, bf = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		rf = hueToRGB(p, q, h+1.0/3.0)
		gf = hueToRGB(p, q, h)
		bf = hueToRGB(p, q, h-1.0/3.0)
	}

	return uint8(rf * 255), uint8(gf * 255), uint8(bf * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	if t < 1.0/6.0 {
		return p + (q-p)*6*t
	}
	if t < 1.0/2.0 {
		return q
	}
	if t < 2.0/3.0 {
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
