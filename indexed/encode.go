package indexed

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/ericpauley/go-quantize/quantize"
)

var errColors = errors.New("indexed: colors must be between 1 and 256")

// exactPalette returns the distinct colors of m, or nil if there are more
// than limit of them.
func exactPalette(m image.Image, limit int) color.Palette {
	b := m.Bounds()
	seen := make(map[color.Color]struct{})
	p := make(color.Palette, 0, limit)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := m.At(x, y)
			if _, ok := seen[c]; ok {
				continue
			}
			if len(p) == limit {
				return nil
			}
			seen[c] = struct{}{}
			p = append(p, c)
		}
	}
	return p
}

// Convert returns m as a paletted image using at most colors colors.
func Convert(m image.Image, colors int) (*image.Paletted, error) {
	if colors < minColors || colors > maxColors {
		return nil, errColors
	}

	b := m.Bounds()

	pm, _ := m.(*image.Paletted)
	if pm == nil {
		if cp := exactPalette(m, colors); cp != nil {
			pm = image.NewPaletted(b, cp)
			for y := b.Min.Y; y < b.Max.Y; y++ {
				for x := b.Min.X; x < b.Max.X; x++ {
					pm.SetColorIndex(x, y, uint8(cp.Index(m.At(x, y))))
				}
			}
		}
	}
	if pm == nil || len(pm.Palette) > colors {
		q := quantize.MedianCutQuantizer{}
		pm = image.NewPaletted(b, q.Quantize(make(color.Palette, 0, colors), m))
		draw.Draw(pm, b, m, b.Min, draw.Src)
	}

	// Adjust image so that top-left corner is at (0, 0)
	if pm.Rect.Min != (image.Point{}) {
		dup := *pm
		dup.Rect = dup.Rect.Sub(dup.Rect.Min)
		pm = &dup
	}

	return pm, nil
}

// Encode writes m to w as a paletted PNG using at most colors colors.
func Encode(w io.Writer, m image.Image, colors int) error {
	pm, err := Convert(m, colors)
	if err != nil {
		return err
	}
	return png.Encode(w, pm)
}
