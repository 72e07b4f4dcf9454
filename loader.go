package tmxmap

import (
	"image"
	_ "image/gif"  // register GIF
	_ "image/jpeg" // register JPEG
	_ "image/png"  // register PNG
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"  // register BMP
	_ "golang.org/x/image/tiff" // register TIFF
	_ "golang.org/x/image/webp" // register WebP
)

// ImageLoader resolves and decodes the spritesheet named by an image source
// attribute.
type ImageLoader interface {
	Load(source string) (image.Image, error)
}

// ImageLoaderFunc adapts an ordinary function to the ImageLoader interface.
type ImageLoaderFunc func(source string) (image.Image, error)

// Load calls f(source).
func (f ImageLoaderFunc) Load(source string) (image.Image, error) {
	return f(source)
}

// FileLoader loads images from the filesystem. Relative sources are resolved
// against Dir, which is normally the directory containing the map document.
type FileLoader struct {
	Dir string
}

// Resolve returns the filesystem path for source.
func (l FileLoader) Resolve(source string) string {
	source = filepath.FromSlash(source)
	if filepath.IsAbs(source) {
		return source
	}
	return filepath.Join(l.Dir, source)
}

// Load opens and decodes the image named by source.
func (l FileLoader) Load(source string) (image.Image, error) {
	f, err := os.Open(l.Resolve(source))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	return m, nil
}
