package indexed

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradient(w, h int) *image.RGBA {
	m := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.SetRGBA(x, y, color.RGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 0x80, A: 0xff})
		}
	}
	return m
}

func TestConvertExact(t *testing.T) {
	colors := []color.RGBA{
		{0xff, 0x00, 0x00, 0xff},
		{0x00, 0xff, 0x00, 0xff},
		{0x00, 0x00, 0xff, 0xff},
	}

	m := image.NewRGBA(image.Rect(0, 0, 6, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 6; x++ {
			m.SetRGBA(x, y, colors[x%3])
		}
	}

	pm, err := Convert(m, 16)
	require.NoError(t, err)
	assert.Len(t, pm.Palette, 3)

	for y := 0; y < 2; y++ {
		for x := 0; x < 6; x++ {
			assert.Equal(t, colors[x%3], color.RGBAModel.Convert(pm.At(x, y)))
		}
	}
}

func TestConvertQuantized(t *testing.T) {
	for _, colors := range []int{2, 4, 16, 256} {
		pm, err := Convert(gradient(64, 64), colors)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(pm.Palette), colors)
		assert.Equal(t, image.Rect(0, 0, 64, 64), pm.Bounds())
	}
}

func TestConvertPaletted(t *testing.T) {
	p := color.Palette{color.Black, color.White}
	m := image.NewPaletted(image.Rect(0, 0, 4, 4), p)
	m.SetColorIndex(1, 1, 1)

	pm, err := Convert(m, 2)
	require.NoError(t, err)
	assert.Same(t, m, pm)
}

func TestConvertOrigin(t *testing.T) {
	m := gradient(32, 32).SubImage(image.Rect(8, 8, 24, 24))

	pm, err := Convert(m, 8)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 16), pm.Bounds())
}

func TestConvertInvalid(t *testing.T) {
	for _, colors := range []int{-1, 0, 257} {
		_, err := Convert(gradient(4, 4), colors)
		assert.Error(t, err)
	}
}

func TestEncode(t *testing.T) {
	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, gradient(32, 32), 16))

	m, err := png.Decode(b)
	require.NoError(t, err)

	pm, ok := m.(*image.Paletted)
	require.True(t, ok)
	assert.LessOrEqual(t, len(pm.Palette), 16)
}
