package tileset

import (
	"fmt"
	"image"
	"image/draw"
)

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// New slices m into tiles of tileWidth by tileHeight pixels.
func New(m image.Image, tileWidth, tileHeight int) (*Tileset, error) {
	if m == nil {
		return nil, ErrNilImage
	}
	if tileWidth <= 0 || tileHeight <= 0 {
		return nil, ErrTileSize
	}

	b := m.Bounds()
	tileX, tileY := b.Dx()/tileWidth, b.Dy()/tileHeight

	t := &Tileset{
		tileWidth:  tileWidth,
		tileHeight: tileHeight,
		rects:      make([]image.Rectangle, 0, tileX*tileY),
		tiles:      make([]image.Image, 0, tileX*tileY),
	}

	si, _ := m.(subImager)

	for ty := 0; ty < tileY; ty++ {
		for tx := 0; tx < tileX; tx++ {
			r := image.Rect(tx*tileWidth, ty*tileHeight, (tx+1)*tileWidth, (ty+1)*tileHeight).Add(b.Min)
			t.rects = append(t.rects, r)

			if si != nil {
				t.tiles = append(t.tiles, si.SubImage(r))
				continue
			}

			// No SubImage method, so take a copy of the region instead
			dst := image.NewRGBA(r)
			draw.Draw(dst, r, m, r.Min, draw.Src)
			t.tiles = append(t.tiles, dst)
		}
	}

	return t, nil
}

func (t *Tileset) check(index int) error {
	if index < 0 || index >= len(t.tiles) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, index, len(t.tiles))
	}
	return nil
}

// Tile returns the tile at the given zero-based index. The returned image
// shares pixels with the spritesheet and must not be modified.
func (t *Tileset) Tile(index int) (image.Image, error) {
	if err := t.check(index); err != nil {
		return nil, err
	}
	return t.tiles[index], nil
}

// Bounds returns the region of the spritesheet covered by the tile at the
// given index.
func (t *Tileset) Bounds(index int) (image.Rectangle, error) {
	if err := t.check(index); err != nil {
		return image.Rectangle{}, err
	}
	return t.rects[index], nil
}
