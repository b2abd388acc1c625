package localcache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteKV persists the cache in a single-file SQLite database so local
// edits survive restarts even when the venue service is unreachable.
type SQLiteKV struct {
	db *sql.DB
}

// OpenSQLite prepares the database at path and ensures the schema exists.
func OpenSQLite(path string) (*SQLiteKV, error) {
	const op = "localcache.OpenSQLite"

	if path == "" {
		return nil, fmt.Errorf("%s: %w", op, errors.New("database path is empty"))
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := db.Exec(
		`CREATE TABLE IF NOT EXISTS kv (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
	); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &SQLiteKV{db: db}, nil
}

func (s *SQLiteKV) Get(key string) (string, bool, error) {
	const op = "localcache.SQLiteKV.Get"

	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}

	return value, true, nil
}

func (s *SQLiteKV) Set(key, value string) error {
	const op = "localcache.SQLiteKV.Set"

	_, err := s.db.Exec(
		`INSERT INTO kv(key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *SQLiteKV) Delete(key string) error {
	const op = "localcache.SQLiteKV.Delete"

	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *SQLiteKV) Close() error {
	return s.db.Close()
}
