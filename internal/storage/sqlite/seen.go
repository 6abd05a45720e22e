// Package sqlite persists seen markers in an embedded database file: one row
// per notified post, membership-checked, unbounded by design.
package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS seen_posts (
	post_id     TEXT PRIMARY KEY,
	notified_at TIMESTAMP NOT NULL
);`

type SeenStore struct {
	db *sqlx.DB
}

// Open creates or opens the store file. A missing file is a cold start, not
// an error; an unopenable one is fatal to the caller.
func Open(path string) (*SeenStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}

	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open seen store: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SeenStore{db: db}, nil
}

func (s *SeenStore) Contains(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM seen_posts WHERE post_id = ?)", id)
	if err != nil {
		return false, fmt.Errorf("query seen marker: %w", err)
	}
	return exists, nil
}

// MarkSeen durably records the marker. The single-statement insert commits
// atomically, so a crash leaves it either fully applied or absent.
func (s *SeenStore) MarkSeen(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO seen_posts (post_id, notified_at) VALUES (?, ?)
		 ON CONFLICT(post_id) DO NOTHING`,
		id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("persist seen marker: %w", err)
	}
	return nil
}

func (s *SeenStore) Close() error {
	return s.db.Close()
}
