/*
Package tileset implements a fixed-size tile index over a spritesheet image.

The sheet is cut into tileWidth by tileHeight regions read left to right, top
to bottom. Any pixels left over on the right or bottom edge that do not make
up a whole tile are ignored, so a 40 by 20 sheet with 16 by 16 tiles yields
two tiles.
*/
package tileset

import (
	"errors"
	"image"
)

var (
	// ErrOutOfRange is returned when a tile index is outside the tileset
	ErrOutOfRange = errors.New("tileset: tile index out of range")

	// ErrTileSize is returned when the tile dimensions are not positive
	ErrTileSize = errors.New("tileset: invalid tile size")

	// ErrNilImage is returned when no spritesheet image is provided
	ErrNilImage = errors.New("tileset: nil image")
)

// Tileset is an immutable, row-major index of tiles sliced from a single
// spritesheet.
type Tileset struct {
	tileWidth  int
	tileHeight int
	rects      []image.Rectangle
	tiles      []image.Image
}

// TileWidth returns the width of each tile in pixels
func (t *Tileset) TileWidth() int {
	return t.tileWidth
}

// TileHeight returns the height of each tile in pixels
func (t *Tileset) TileHeight() int {
	return t.tileHeight
}

// Len returns the number of tiles in the tileset
func (t *Tileset) Len() int {
	return len(t.tiles)
}
