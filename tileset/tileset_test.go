package tileset

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sheet returns a w by h image where every pixel is colored by the tile it
// belongs to, so tile i is filled with color{R: i}.
func sheet(w, h, tw, th int) *image.RGBA {
	m := image.NewRGBA(image.Rect(0, 0, w, h))
	columns := w / tw
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.SetRGBA(x, y, color.RGBA{R: uint8((y/th)*columns + x/tw), A: 0xff})
		}
	}
	return m
}

// opaque hides the SubImage method of the wrapped image.
type opaque struct {
	image.Image
}

func TestNewCount(t *testing.T) {
	tables := []struct {
		name         string
		w, h, tw, th int
		want         int
	}{
		{"exact", 32, 16, 16, 16, 2},
		{"remainder", 40, 20, 16, 16, 2},
		{"grid", 64, 48, 16, 16, 12},
		{"narrow", 8, 8, 16, 16, 0},
		{"rectangular tiles", 30, 30, 10, 15, 6},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			ts, err := New(image.NewRGBA(image.Rect(0, 0, table.w, table.h)), table.tw, table.th)
			require.NoError(t, err)
			assert.Equal(t, table.want, ts.Len())
			assert.Equal(t, table.tw, ts.TileWidth())
			assert.Equal(t, table.th, ts.TileHeight())
		})
	}
}

func TestRowMajor(t *testing.T) {
	for name, m := range map[string]image.Image{
		"subimage": sheet(48, 32, 16, 16),
		"copy":     opaque{sheet(48, 32, 16, 16)},
	} {
		t.Run(name, func(t *testing.T) {
			ts, err := New(m, 16, 16)
			require.NoError(t, err)
			require.Equal(t, 6, ts.Len())

			for i := 0; i < ts.Len(); i++ {
				tile, err := ts.Tile(i)
				require.NoError(t, err)

				r, err := ts.Bounds(i)
				require.NoError(t, err)
				assert.Equal(t, image.Rect((i%3)*16, (i/3)*16, (i%3+1)*16, (i/3+1)*16), r)
				assert.Equal(t, r, tile.Bounds())

				got := color.RGBAModel.Convert(tile.At(r.Min.X+1, r.Min.Y+1)).(color.RGBA)
				assert.Equal(t, uint8(i), got.R)
			}
		})
	}
}

func TestOffsetBounds(t *testing.T) {
	m := sheet(64, 32, 16, 16).SubImage(image.Rect(16, 16, 64, 32))

	ts, err := New(m, 16, 16)
	require.NoError(t, err)
	require.Equal(t, 3, ts.Len())

	r, err := ts.Bounds(0)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(16, 16, 32, 32), r)
}

func TestTileDeterministic(t *testing.T) {
	ts, err := New(sheet(32, 16, 16, 16), 16, 16)
	require.NoError(t, err)

	a, err := ts.Tile(1)
	require.NoError(t, err)
	b, err := ts.Tile(1)
	require.NoError(t, err)

	assert.Equal(t, a.Bounds(), b.Bounds())
	assert.Same(t, a.(*image.RGBA), b.(*image.RGBA))
}

func TestTileOutOfRange(t *testing.T) {
	ts, err := New(sheet(32, 16, 16, 16), 16, 16)
	require.NoError(t, err)

	for _, index := range []int{-1, 2, 3, 1 << 20} {
		_, err := ts.Tile(index)
		assert.ErrorIs(t, err, ErrOutOfRange, "index %d", index)

		_, err = ts.Bounds(index)
		assert.ErrorIs(t, err, ErrOutOfRange, "index %d", index)
	}
}

func TestNewInvalid(t *testing.T) {
	_, err := New(nil, 16, 16)
	assert.ErrorIs(t, err, ErrNilImage)

	_, err = New(sheet(32, 16, 16, 16), 0, 16)
	assert.ErrorIs(t, err, ErrTileSize)

	_, err = New(sheet(32, 16, 16, 16), 16, -1)
	assert.ErrorIs(t, err, ErrTileSize)
}
