package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// DocumentRepository stores fetched feed documents keyed by URL. The cache
// backs the offline fallback: when a fetch fails, the last good copy is
// served instead.
type DocumentRepository struct {
	db *DB
}

func NewDocumentRepository(db *DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// UpsertDocument stores or refreshes the cached copy for a URL.
func (r *DocumentRepository) UpsertDocument(url string, data []byte) error {
	query := `
		INSERT INTO documents (url, data, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			data = excluded.data,
			fetched_at = excluded.fetched_at`

	_, err := r.db.Exec(query, url, data, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to store document: %w", err)
	}

	return nil
}

// GetDocument returns the cached copy for a URL, or nil data when the URL
// has never been cached.
func (r *DocumentRepository) GetDocument(url string) ([]byte, time.Time, error) {
	var data []byte
	var fetchedAt string

	query := `SELECT data, fetched_at FROM documents WHERE url = ?`
	err := r.db.QueryRow(query, url).Scan(&data, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to read document: %w", err)
	}

	ts, err := time.Parse(time.RFC3339, fetchedAt)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to parse fetched_at %q: %w", fetchedAt, err)
	}

	return data, ts, nil
}
