// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger records completed downloads in a local SQLite database.
// The ledger is a convenience for the history command; writes are
// best-effort and must never fail a download.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/ssget/pkg/types"
)

// DBFile is the history database file name under the cache directory.
const DBFile = "ssget.db"

// Entry is one recorded download.
type Entry struct {
	ID           int64
	Group        string
	Name         string
	Format       types.Format
	Path         string
	Checksum     string
	Size         int64
	DownloadedAt time.Time
}

// Ledger wraps the history database.
type Ledger struct {
	db *sql.DB
}

// Open opens or creates the ledger database under dir.
func Open(dir string) (*Ledger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	dbPath := filepath.Join(dir, DBFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening ledger database: %w", err)
	}

	l := &Ledger{db: db}
	if err := l.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger schema: %w", err)
	}
	return l, nil
}

// Close releases the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS downloads (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			grp TEXT NOT NULL,
			name TEXT NOT NULL,
			format TEXT NOT NULL,
			path TEXT NOT NULL,
			checksum TEXT,
			size_bytes INTEGER NOT NULL,
			downloaded_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_downloads_name ON downloads(grp, name)`,
	}
	for _, stmt := range statements {
		if _, err := l.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts one download entry.
func (l *Ledger) Record(ctx context.Context, e Entry) error {
	when := e.DownloadedAt
	if when.IsZero() {
		when = time.Now()
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO downloads (grp, name, format, path, checksum, size_bytes, downloaded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Group, e.Name, string(e.Format), e.Path, e.Checksum, e.Size,
		when.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording download: %w", err)
	}
	return nil
}

// Recent returns the most recent entries, newest first. limit <= 0 means a
// default of 20.
func (l *Ledger) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, grp, name, format, path, checksum, size_bytes, downloaded_at
		 FROM downloads ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying downloads: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var format, when string
		if err := rows.Scan(&e.ID, &e.Group, &e.Name, &format, &e.Path, &e.Checksum, &e.Size, &when); err != nil {
			return nil, fmt.Errorf("scanning download row: %w", err)
		}
		e.Format = types.Format(format)
		if t, parseErr := time.Parse(time.RFC3339, when); parseErr == nil {
			e.DownloadedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
