// Package inventory persists detection results in a SQLite database so scans
// can be queried and summarized after the fact.
package inventory

import (
	"context"
	"database/sql"
	"time"

	"github.com/mlund/file-format/core/errors"
	"github.com/mlund/file-format/core/sqlite"
	"github.com/mlund/file-format/internal/scan"
)

// Record is one persisted detection result.
type Record struct {
	Path       string    `json:"path"`
	Size       int64     `json:"size"`
	Format     string    `json:"format"`
	MediaType  string    `json:"media_type"`
	Extension  string    `json:"extension"`
	Hash       string    `json:"hash,omitempty"`
	DetectedAt time.Time `json:"detected_at"`
}

const schema = `
CREATE TABLE IF NOT EXISTS files (
	path        TEXT PRIMARY KEY,
	size        INTEGER NOT NULL,
	format      TEXT NOT NULL,
	media_type  TEXT NOT NULL,
	extension   TEXT NOT NULL,
	hash        TEXT NOT NULL DEFAULT '',
	detected_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_files_format ON files(format);
`

// Store is a SQLite-backed inventory of detection results.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) an inventory database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.NewValidation("path", "must not be empty")
	}
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open inventory database")
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create inventory schema")
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put inserts or replaces the record for a path.
func (s *Store) Put(ctx context.Context, rec Record) error {
	if rec.Path == "" {
		return errors.NewValidation("path", "must not be empty")
	}
	if rec.DetectedAt.IsZero() {
		rec.DetectedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO files (path, size, format, media_type, extension, hash, detected_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			size = excluded.size,
			format = excluded.format,
			media_type = excluded.media_type,
			extension = excluded.extension,
			hash = excluded.hash,
			detected_at = excluded.detected_at`,
		rec.Path, rec.Size, rec.Format, rec.MediaType, rec.Extension, rec.Hash, rec.DetectedAt)
	return errors.Wrap(err, "store record")
}

// PutResult stores a scan result.
func (s *Store) PutResult(ctx context.Context, r scan.Result) error {
	return s.Put(ctx, Record{
		Path:      r.Path,
		Size:      r.Size,
		Format:    r.Name,
		MediaType: r.MediaType,
		Extension: r.Extension,
		Hash:      r.Hash,
	})
}

// Get returns the record for a path.
func (s *Store) Get(ctx context.Context, path string) (Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT path, size, format, media_type, extension, hash, detected_at
		FROM files WHERE path = ?`, path)
	var rec Record
	err := row.Scan(&rec.Path, &rec.Size, &rec.Format, &rec.MediaType,
		&rec.Extension, &rec.Hash, &rec.DetectedAt)
	if err == sql.ErrNoRows {
		return Record{}, errors.NewNotFound("record", path)
	}
	if err != nil {
		return Record{}, errors.Wrap(err, "load record")
	}
	return rec, nil
}

// List returns records, optionally restricted to one format name, ordered
// by path.
func (s *Store) List(ctx context.Context, formatName string) ([]Record, error) {
	query := `
		SELECT path, size, format, media_type, extension, hash, detected_at
		FROM files`
	args := []any{}
	if formatName != "" {
		query += ` WHERE format = ?`
		args = append(args, formatName)
	}
	query += ` ORDER BY path`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list records")
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.Path, &rec.Size, &rec.Format, &rec.MediaType,
			&rec.Extension, &rec.Hash, &rec.DetectedAt); err != nil {
			return nil, errors.Wrap(err, "scan record row")
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Summary returns the number of files recorded per format name.
func (s *Store) Summary(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT format, COUNT(*) FROM files GROUP BY format`)
	if err != nil {
		return nil, errors.Wrap(err, "summarize inventory")
	}
	defer rows.Close()

	summary := make(map[string]int)
	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			return nil, errors.Wrap(err, "scan summary row")
		}
		summary[name] = count
	}
	return summary, rows.Err()
}

// Delete removes the record for a path. Deleting a missing path is not an
// error.
func (s *Store) Delete(ctx context.Context, path string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM files WHERE path = ?`, path)
	return errors.Wrap(err, "delete record")
}
