package tmxmap

import (
	"image"
	"io"
	"log"
	"os"
	"path/filepath"
)

// Map is a fully composited tile map.
type Map struct {
	// Grid size in tiles
	Columns int
	Rows    int

	// Tile size in pixels
	TileWidth  int
	TileHeight int

	// Canvas size in pixels
	Width  int
	Height int

	Properties map[string]string
	Image      *image.RGBA

	// Source is the spritesheet path as written in the document
	Source string
}

// Build parses a map document from r and composites it. Spritesheets are
// loaded relative to base.
func Build(r io.Reader, base string) (*Map, error) {
	return BuildWith(r, FileLoader{Dir: base}, nil)
}

// BuildWith is like Build but loads spritesheets with loader and logs
// progress to logger, which may be nil.
func BuildWith(r io.Reader, loader ImageLoader, logger *log.Logger) (*Map, error) {
	b := NewBuilder(loader, logger)
	if err := Parse(r, b); err != nil {
		return nil, err
	}
	return b.Finish()
}

// BuildFile builds the map document stored in file, loading spritesheets
// relative to the directory containing it.
func BuildFile(file string) (*Map, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Build(f, filepath.Dir(file))
}
