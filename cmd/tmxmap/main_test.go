package main

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/tmxmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMap() *tmxmap.Map {
	return &tmxmap.Map{
		Columns:    1,
		Rows:       1,
		TileWidth:  4,
		TileHeight: 4,
		Width:      4,
		Height:     4,
		Image:      image.NewRGBA(image.Rect(0, 0, 4, 4)),
	}
}

func TestWritePNG(t *testing.T) {
	tables := []struct {
		name     string
		colors   int
		paletted bool
	}{
		{"full color", 0, false},
		{"paletted", 16, true},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			file := filepath.Join(t.TempDir(), "map.png")
			require.NoError(t, writePNG(file, testMap(), table.colors))

			f, err := os.Open(file)
			require.NoError(t, err)
			defer f.Close()

			m, err := png.Decode(f)
			require.NoError(t, err)

			_, ok := m.(*image.Paletted)
			assert.Equal(t, table.paletted, ok)
		})
	}
}

func TestWritePNGInvalidColors(t *testing.T) {
	for _, colors := range []int{-1, -256, 257} {
		assert.Error(t, writePNG(filepath.Join(t.TempDir(), "map.png"), testMap(), colors), "colors %d", colors)
	}
}
