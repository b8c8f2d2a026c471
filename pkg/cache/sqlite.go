package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	_ "modernc.org/sqlite"
)

const lockFileSuffix = ".lock"

// SQLite is the on-disk Store. A single kv table holds the cache keys;
// writes take a file lock so concurrent gitscovery processes don't
// interleave.
type SQLite struct {
	sql  *sql.DB
	lock *flock.Flock
	path string
}

// ResolvePath resolves the cache database location. An empty path means
// ~/.config/gitscovery/gitscovery.sqlite.
func ResolvePath(path string) (string, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "gitscovery", "gitscovery.sqlite"), nil
	}
	return filepath.Abs(path)
}

// OpenSQLite opens (and if needed creates) the cache database at path.
func OpenSQLite(path string) (*SQLite, error) {
	absPath, err := ResolvePath(path)
	if err != nil {
		return nil, fmt.Errorf("could not resolve cache path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return nil, err
	}

	dsn := "file:" + absPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS kv (
  key        TEXT PRIMARY KEY,
  value      TEXT NOT NULL,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
    `); err != nil {
		return nil, err
	}

	return &SQLite{
		sql:  db,
		lock: flock.New(absPath + lockFileSuffix),
		path: absPath,
	}, nil
}

// Path returns the resolved database location.
func (c *SQLite) Path() string {
	return c.path
}

func (c *SQLite) Close() error {
	if c == nil || c.sql == nil {
		return nil
	}
	return c.sql.Close()
}

func (c *SQLite) Get(key string) (string, bool) {
	var value string
	err := c.sql.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err != nil {
		return "", false
	}
	return value, true
}

func (c *SQLite) Set(key, value string) error {
	if err := c.lock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire cache lock: %w", err)
	}
	defer func() {
		if err := c.lock.Unlock(); err != nil && !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "failed to release cache lock: %v\n", err)
		}
	}()

	_, err := c.sql.Exec(`
INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	return err
}

// Clear drops every cached key.
func (c *SQLite) Clear() error {
	if err := c.lock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire cache lock: %w", err)
	}
	defer c.lock.Unlock()

	_, err := c.sql.Exec("DELETE FROM kv")
	return err
}
