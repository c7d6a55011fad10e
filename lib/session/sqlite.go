// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS session (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
) STRICT;
`

// SQLiteStore keeps entries in a single-table SQLite database. Each
// Write runs in one immediate transaction.
type SQLiteStore struct {
	pool   *sqlitex.Pool
	path   string
	logger *slog.Logger
}

// OpenSQLiteStore opens or creates the database at path. The file is
// restricted to mode 0600.
func OpenSQLiteStore(path string, logger *slog.Logger) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("session: sqlite store path is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("session: creating directory for %s: %w", path, err)
	}

	// One writer at a time is all a CLI needs; a second connection lets
	// a reader proceed during a write.
	pool, err := sqlitex.NewPool(path, sqlitex.PoolOptions{
		PoolSize:    2,
		PrepareConn: prepareConnection,
	})
	if err != nil {
		return nil, fmt.Errorf("session: opening %s: %w", path, err)
	}

	store := &SQLiteStore{pool: pool, path: path, logger: logger}

	// Take one connection so the file and schema exist before the
	// permission change.
	conn, err := pool.Take(context.Background())
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("session: opening %s: %w", path, err)
	}
	pool.Put(conn)
	if err := os.Chmod(path, 0o600); err != nil {
		pool.Close()
		return nil, fmt.Errorf("session: chmod %s: %w", path, err)
	}

	logger.Debug("sqlite session store opened", "path", path)
	return store, nil
}

func prepareConnection(conn *sqlite.Conn) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=FULL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
			return fmt.Errorf("session: %s: %w", pragma, err)
		}
	}
	if err := sqlitex.ExecuteScript(conn, sqliteSchema, nil); err != nil {
		return fmt.Errorf("session: creating schema: %w", err)
	}
	return nil
}

// Path returns the database file.
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) Read(ctx context.Context) (Entries, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("session: take connection: %w", err)
	}
	defer s.pool.Put(conn)

	entries := Entries{}
	err = sqlitex.Execute(conn, "SELECT key, value FROM session", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			entries[stmt.ColumnText(0)] = stmt.ColumnText(1)
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("session: reading %s: %w", s.path, err)
	}
	return entries, nil
}

func (s *SQLiteStore) Write(ctx context.Context, set Entries, remove []string) (err error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("session: take connection: %w", err)
	}
	defer s.pool.Put(conn)

	endTransaction, err := sqlitex.ImmediateTransaction(conn)
	if err != nil {
		return fmt.Errorf("session: begin transaction: %w", err)
	}
	defer endTransaction(&err)

	for _, key := range remove {
		if err := sqlitex.Execute(conn, "DELETE FROM session WHERE key = ?", &sqlitex.ExecOptions{
			Args: []any{key},
		}); err != nil {
			return fmt.Errorf("session: deleting %q: %w", key, err)
		}
	}
	for key, value := range set {
		if err := sqlitex.Execute(conn,
			"INSERT INTO session (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
			&sqlitex.ExecOptions{Args: []any{key, value}},
		); err != nil {
			return fmt.Errorf("session: storing %q: %w", key, err)
		}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if err := s.pool.Close(); err != nil {
		return fmt.Errorf("session: closing %s: %w", s.path, err)
	}
	return nil
}
