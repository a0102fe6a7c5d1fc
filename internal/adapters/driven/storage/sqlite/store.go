// Package sqlite persists sign-in profiles and cached tokens.
//
// Device data is never stored: the server is the source of truth for the
// inventory and every view starts from a fresh list call. Only the
// authentication state worth keeping between runs lives here.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // sqlite driver
)

const dataDirName = ".cloudpcctl"

const schema = `
CREATE TABLE IF NOT EXISTS profiles (
	id                 TEXT PRIMARY KEY,
	name               TEXT NOT NULL,
	tenant_id          TEXT NOT NULL,
	client_id          TEXT NOT NULL,
	client_secret      TEXT NOT NULL DEFAULT '',
	method             TEXT NOT NULL,
	account_identifier TEXT NOT NULL DEFAULT '',
	created_at         TIMESTAMP NOT NULL,
	updated_at         TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS tokens (
	profile_id    TEXT PRIMARY KEY REFERENCES profiles(id) ON DELETE CASCADE,
	access_token  TEXT NOT NULL,
	refresh_token TEXT NOT NULL DEFAULT '',
	token_type    TEXT NOT NULL DEFAULT 'Bearer',
	expiry        TIMESTAMP
);
`

// Store is the SQLite-backed credentials store.
type Store struct {
	db *sql.DB
}

// NewStore opens (and if needed creates) the database. An empty path selects
// ~/.cloudpcctl/data/cloudpcctl.db.
func NewStore(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		path = filepath.Join(home, dataDirName, "data", "cloudpcctl.db")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
