package tmxmap

import (
	"database/sql"
	"errors"
	"fmt"
	"image"

	_ "github.com/mattn/go-sqlite3"
)

var errBadPixels = errors.New("tmxmap: cached pixel data has wrong length")

// MapDB caches composited maps in an SQLite database, keyed by the SHA-1 of
// the map document.
type MapDB struct {
	db *sql.DB
}

func NewMapDB(file string) (*MapDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS map (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, grid_width INTEGER NOT NULL, grid_height INTEGER NOT NULL, tile_width INTEGER NOT NULL, tile_height INTEGER NOT NULL, source TEXT NOT NULL, source_sha1 TEXT NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, pix BLOB NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS property (map_id INTEGER NOT NULL, name TEXT NOT NULL, value TEXT NOT NULL, UNIQUE(map_id, name), FOREIGN KEY(map_id) REFERENCES map(id) ON DELETE CASCADE)"); err != nil {
		db.Close()
		return nil, err
	}

	return &MapDB{
		db: db,
	}, nil
}

func (db *MapDB) Close() error {
	return db.db.Close()
}

// Put stores m under sha, replacing any existing entry. sourceSHA is the
// SHA-1 of the spritesheet m was built from.
func (db *MapDB) Put(sha string, m *Map, sourceSHA string) error {
	// Raw premultiplied RGBA rows, so a cached canvas is identical to a built one
	r := m.Image.Rect
	pix := make([]byte, 0, 4*r.Dx()*r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := m.Image.PixOffset(r.Min.X, y)
		pix = append(pix, m.Image.Pix[i:i+4*r.Dx()]...)
	}

	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.Exec("DELETE FROM map WHERE sha1 = ?", sha); err != nil {
		return err
	}

	result, err := tx.Exec("INSERT INTO map (sha1, grid_width, grid_height, tile_width, tile_height, source, source_sha1, width, height, pix) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", sha, m.Columns, m.Rows, m.TileWidth, m.TileHeight, m.Source, sourceSHA, r.Dx(), r.Dy(), pix)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	for name, value := range m.Properties {
		if _, err = tx.Exec("INSERT INTO property (map_id, name, value) VALUES (?, ?, ?)", id, name, value); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Find returns the map stored under sha along with the SHA-1 of its
// spritesheet. A nil map is returned if there is no such entry.
func (db *MapDB) Find(sha string) (*Map, string, error) {
	var (
		id        int64
		m         Map
		sourceSHA string
		pix       []byte
	)
	switch err := db.db.QueryRow("SELECT id, grid_width, grid_height, tile_width, tile_height, source, source_sha1, width, height, pix FROM map WHERE sha1 = ?", sha).Scan(&id, &m.Columns, &m.Rows, &m.TileWidth, &m.TileHeight, &m.Source, &sourceSHA, &m.Width, &m.Height, &pix); err {
	case sql.ErrNoRows:
		return nil, "", nil
	case nil:
	default:
		return nil, "", err
	}

	if len(pix) != 4*m.Width*m.Height {
		return nil, "", errBadPixels
	}
	m.Image = &image.RGBA{
		Pix:    pix,
		Stride: 4 * m.Width,
		Rect:   image.Rect(0, 0, m.Width, m.Height),
	}

	rows, err := db.db.Query("SELECT name, value FROM property WHERE map_id = ?", id)
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()

	m.Properties = make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, "", err
		}
		m.Properties[name] = value
	}
	if err := rows.Err(); err != nil {
		return nil, "", err
	}

	return &m, sourceSHA, nil
}

// Count returns the number of cached maps.
func (db *MapDB) Count() (int, error) {
	var n int
	if err := db.db.QueryRow("SELECT COUNT(*) FROM map").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
