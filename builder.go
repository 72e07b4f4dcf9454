package tmxmap

import (
	"fmt"
	"image"
	"image/draw"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/bodgit/tmxmap/tileset"
)

// Canvases larger than this many pixels are refused rather than allocated.
const maxPixels = 1 << 26

type phase int

const (
	phaseInitial phase = iota
	phaseMapDeclared
	phaseTilesetReady
	phaseInLayer
	phaseDone
)

func (p phase) String() string {
	switch p {
	case phaseInitial:
		return "before map"
	case phaseMapDeclared:
		return "before tileset image"
	case phaseTilesetReady:
		return "before layer"
	case phaseInLayer:
		return "in layer"
	case phaseDone:
		return "after end of map"
	}
	return "unknown"
}

// Attributes maps attribute names to their values for a single element.
type Attributes map[string]string

func (a Attributes) lookup(name string) (string, error) {
	v, ok := a[name]
	if !ok {
		return "", fmt.Errorf("%w: missing %s", ErrMalformedAttribute, name)
	}
	return v, nil
}

func (a Attributes) integer(name string, bitSize int) (int64, error) {
	v, err := a.lookup(name)
	if err != nil {
		return 0, err
	}
	i, err := strconv.ParseInt(strings.TrimSpace(v), 10, bitSize)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", ErrMalformedAttribute, name, v)
	}
	return i, nil
}

func (a Attributes) positive(name string) (int, error) {
	i, err := a.integer(name, 32)
	if err != nil {
		return 0, err
	}
	if i <= 0 {
		return 0, fmt.Errorf("%w: %s=%d must be positive", ErrMalformedAttribute, name, i)
	}
	return int(i), nil
}

// Handler receives the start of each element of a map document, in document
// order.
type Handler interface {
	StartElement(name string, attrs Attributes) error
}

// Builder composites a map from a stream of elements. It implements Handler
// and is single use; create a new Builder for each document.
type Builder struct {
	loader ImageLoader
	logger *log.Logger

	phase  phase
	err    error
	result *Map

	columns    int
	rows       int
	tileWidth  int
	tileHeight int
	properties map[string]string
	canvas     *image.RGBA
	source     string
	tileset    *tileset.Tileset

	// Cursor within the tile grid
	column int
	row    int
}

// NewBuilder returns a Builder that loads spritesheets with loader. A nil
// logger discards all output.
func NewBuilder(loader ImageLoader, logger *log.Logger) *Builder {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Builder{
		loader:     loader,
		logger:     logger,
		properties: make(map[string]string),
	}
}

func (b *Builder) outOfOrder(name string) error {
	return fmt.Errorf("%w: <%s> %s", ErrOutOfOrder, name, b.phase)
}

// StartElement applies a single element to the map being built. Unknown
// elements are ignored. Once an error has been returned every further call
// returns the same error.
func (b *Builder) StartElement(name string, attrs Attributes) error {
	if b.err != nil {
		return b.err
	}
	if b.phase == phaseDone {
		return b.outOfOrder(name)
	}

	var err error
	switch name {
	case "map":
		err = b.startMap(attrs)
	case "image":
		err = b.startImage(attrs)
	case "property":
		err = b.startProperty(attrs)
	case "layer":
		err = b.startLayer()
	case "tile":
		err = b.startTile(attrs)
	}

	if err != nil {
		b.err = err
	}
	return err
}

func (b *Builder) startMap(attrs Attributes) error {
	if b.phase != phaseInitial {
		return b.outOfOrder("map")
	}

	var err error
	if b.columns, err = attrs.positive("width"); err != nil {
		return err
	}
	if b.rows, err = attrs.positive("height"); err != nil {
		return err
	}
	if b.tileWidth, err = attrs.positive("tilewidth"); err != nil {
		return err
	}
	if b.tileHeight, err = attrs.positive("tileheight"); err != nil {
		return err
	}

	w, h := int64(b.columns)*int64(b.tileWidth), int64(b.rows)*int64(b.tileHeight)
	if w > maxPixels || h > maxPixels || w*h > maxPixels {
		return fmt.Errorf("%w: map is %dx%d pixels", ErrMalformedAttribute, w, h)
	}

	b.canvas = image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	b.phase = phaseMapDeclared

	return nil
}

func (b *Builder) startImage(attrs Attributes) error {
	if b.phase != phaseMapDeclared {
		return b.outOfOrder("image")
	}

	source, err := attrs.lookup("source")
	if err != nil {
		return err
	}

	m, err := b.loader.Load(source)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrImageLoad, source, err)
	}

	if b.tileset, err = tileset.New(m, b.tileWidth, b.tileHeight); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrImageLoad, source, err)
	}
	b.source = source
	b.phase = phaseTilesetReady

	b.logger.Printf("Loaded tileset \"%s\" with %d tiles\n", source, b.tileset.Len())

	return nil
}

func (b *Builder) startProperty(attrs Attributes) error {
	name, err := attrs.lookup("name")
	if err != nil {
		return err
	}
	value, err := attrs.lookup("value")
	if err != nil {
		return err
	}
	b.properties[name] = value
	return nil
}

func (b *Builder) startLayer() error {
	if b.phase != phaseTilesetReady && b.phase != phaseInLayer {
		return b.outOfOrder("layer")
	}
	b.column, b.row = 0, 0
	b.phase = phaseInLayer
	return nil
}

func (b *Builder) startTile(attrs Attributes) error {
	if b.phase != phaseInLayer {
		return b.outOfOrder("tile")
	}

	gid, err := attrs.integer("gid", 64)
	if err != nil {
		return err
	}

	if b.row >= b.rows {
		return fmt.Errorf("%w: gid %d beyond %dx%d grid", ErrCursorOverflow, gid, b.columns, b.rows)
	}

	// gid 0 means "no tile" in TMX but is painted with the first tile, the
	// same as gid 1
	index := gid - 1
	if index < 0 {
		index = 0
	}

	// Keep the index in int range so a huge gid stays out of range
	if n := int64(b.tileset.Len()); index > n {
		index = n
	}

	tile, err := b.tileset.Tile(int(index))
	if err != nil {
		return fmt.Errorf("%w: gid %d at cell (%d, %d): %w", ErrIndexOutOfRange, gid, b.column, b.row, err)
	}

	p := image.Pt(b.column*b.tileWidth, b.row*b.tileHeight)
	draw.Draw(b.canvas, image.Rectangle{Min: p, Max: p.Add(image.Pt(b.tileWidth, b.tileHeight))}, tile, tile.Bounds().Min, draw.Src)

	b.column++
	if b.column >= b.columns {
		b.column = 0
		b.row++
	}

	return nil
}

// Finish completes the build and returns the map. No further elements are
// accepted afterwards.
func (b *Builder) Finish() (*Map, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.result != nil {
		return b.result, nil
	}
	if b.phase == phaseInitial {
		b.err = fmt.Errorf("%w: no <map> element", ErrOutOfOrder)
		return nil, b.err
	}

	b.phase = phaseDone
	b.result = &Map{
		Columns:    b.columns,
		Rows:       b.rows,
		TileWidth:  b.tileWidth,
		TileHeight: b.tileHeight,
		Width:      b.canvas.Rect.Dx(),
		Height:     b.canvas.Rect.Dy(),
		Properties: b.properties,
		Image:      b.canvas,
		Source:     b.source,
	}

	b.logger.Printf("Built %dx%d map from %dx%d tiles of %dx%d with %d properties\n", b.result.Width, b.result.Height, b.columns, b.rows, b.tileWidth, b.tileHeight, len(b.properties))

	return b.result, nil
}
