// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger records exported pages in a SQLite database next to the
// output tree, leaving a queryable account of what a migration run produced
// and where each page landed.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/confluence-export/pkg/types"
)

// Ledger is a log of exported pages backed by SQLite.
type Ledger struct {
	db *sql.DB
}

// Open opens or creates the ledger database at path and ensures the schema
// exists.
func Open(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
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
		`CREATE TABLE IF NOT EXISTS pages (
			page_id TEXT PRIMARY KEY,
			space_key TEXT NOT NULL,
			title TEXT NOT NULL,
			path TEXT NOT NULL,
			child_count INTEGER NOT NULL,
			exported_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pages_space_key ON pages(space_key)`,
	}

	for _, stmt := range statements {
		if _, err := l.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record upserts one exported page. Re-running a dump refreshes the row
// instead of duplicating it.
func (l *Ledger) Record(ctx context.Context, rec types.ExportRecord) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO pages (page_id, space_key, title, path, child_count, exported_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(page_id) DO UPDATE SET
			space_key = excluded.space_key,
			title = excluded.title,
			path = excluded.path,
			child_count = excluded.child_count,
			exported_at = excluded.exported_at`,
		rec.PageID, rec.SpaceKey, rec.Title, rec.Path, rec.ChildCount,
		rec.ExportedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording page %s: %w", rec.PageID, err)
	}
	return nil
}

// Pages returns every recorded page ordered by space key, then path.
func (l *Ledger) Pages(ctx context.Context) ([]types.ExportRecord, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT page_id, space_key, title, path, child_count, exported_at
		 FROM pages ORDER BY space_key, path`)
	if err != nil {
		return nil, fmt.Errorf("querying ledger: %w", err)
	}
	defer rows.Close()

	var records []types.ExportRecord
	for rows.Next() {
		var rec types.ExportRecord
		var exportedAt string
		if err := rows.Scan(&rec.PageID, &rec.SpaceKey, &rec.Title, &rec.Path,
			&rec.ChildCount, &exportedAt); err != nil {
			return nil, fmt.Errorf("scanning ledger row: %w", err)
		}
		if ts, parseErr := time.Parse(time.RFC3339Nano, exportedAt); parseErr == nil {
			rec.ExportedAt = ts
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
