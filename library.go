/*
Package tmxmap is a library for compositing TMX tile maps into a single image.

A map document names its grid and tile size, a spritesheet and a layer of
tile gids. The document is streamed element by element through a Builder
which slices the spritesheet into tiles and paints each one at its grid
position. Composited maps can be cached in an SQLite database so unchanged
maps are not rebuilt.
*/
package tmxmap

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// Library renders map documents through an SQLite cache.
type Library struct {
	db       *MapDB
	logger   *log.Logger
	onRender func(string)
}

// New opens or creates the cache database in file. A nil logger discards all
// output.
func New(file string, logger *log.Logger) (*Library, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	db, err := NewMapDB(file)
	if err != nil {
		return nil, err
	}
	return &Library{
		db:     db,
		logger: logger,
	}, nil
}

func (l *Library) Close() error {
	return l.db.Close()
}

// OnRender registers fn to be called with the name of each file after it
// has been rendered. It must be set before calling Render or Scan.
func (l *Library) OnRender(fn func(file string)) {
	l.onRender = fn
}

func hashFile(file string) (string, error) {
	f, err := os.Open(file)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha1.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%X", h.Sum(nil)), nil
}

// A map with no spritesheet has nothing to invalidate it
func hashSource(loader FileLoader, source string) (string, error) {
	if source == "" {
		return "", nil
	}
	return hashFile(loader.Resolve(source))
}

// Render returns the composited map for the document in file. A cached copy
// is used if neither the document nor its spritesheet has changed since it
// was stored.
func (l *Library) Render(file string) (*Map, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	sha := fmt.Sprintf("%X", sha1.Sum(b))

	loader := FileLoader{Dir: filepath.Dir(file)}

	m, sourceSHA, err := l.db.Find(sha)
	if err != nil {
		return nil, err
	}
	if m != nil {
		current, err := hashSource(loader, m.Source)
		if err == nil && current == sourceSHA {
			l.logger.Printf("Using cached render of \"%s\"\n", file)
			l.rendered(file)
			return m, nil
		}
		l.logger.Printf("Spritesheet \"%s\" has changed, rebuilding \"%s\"\n", m.Source, file)
	}

	if m, err = BuildWith(bytes.NewReader(b), loader, l.logger); err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	if sourceSHA, err = hashSource(loader, m.Source); err != nil {
		return nil, err
	}

	if err := l.db.Put(sha, m, sourceSHA); err != nil {
		return nil, err
	}

	l.rendered(file)

	return m, nil
}

func (l *Library) rendered(file string) {
	if l.onRender != nil {
		l.onRender(file)
	}
}
