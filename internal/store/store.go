// Package store handles durable key-value persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/squirrel"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Keys of the values the application persists.
const (
	KeySessions = "stealth-analytics"
	KeyUserID   = "stealth-user-id"
	KeyLastGame = "stealth-last-game"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// Store wraps SQLite access for key-value data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps writes serialized.
	db.SetMaxOpenConns(1)
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value BLOB,
			updated_at TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the value stored under key. ok is false when the key is absent.
func (s *Store) Get(ctx context.Context, key string) (value []byte, ok bool, err error) {
	query, args, err := sqlBuilder.Select("value").From("kv").Where(squirrel.Eq{"key": key}).ToSql()
	if err != nil {
		return nil, false, err
	}
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

// Put stores value under key, replacing any previous value.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	query, args, err := sqlBuilder.Insert("kv").
		Columns("key", "value", "updated_at").
		Values(key, value, time.Now().UTC().Format(time.RFC3339Nano)).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

// Slot binds one key of the store as a Slot.
func (s *Store) Slot(key string) Slot {
	return &sqliteSlot{store: s, key: key}
}

type sqliteSlot struct {
	store *Store
	key   string
}

func (s *sqliteSlot) Load() ([]byte, bool, error) {
	return s.store.Get(context.Background(), s.key)
}

func (s *sqliteSlot) Save(data []byte) error {
	return s.store.Put(context.Background(), s.key, data)
}
