// Package sqlite implements the export index on an embedded SQLite database.
// The index records which resource ids already have artifacts on disk so
// re-runs with --skip-existing can resume where they left off.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/satriahrh/convoport/internal/domain/export"
)

const schema = `
CREATE TABLE IF NOT EXISTS artifacts (
    resource_id TEXT NOT NULL,
    kind        TEXT NOT NULL,
    path        TEXT NOT NULL,
    exported_at TIMESTAMP NOT NULL,
    PRIMARY KEY (resource_id, kind)
);
`

type Index struct {
	db *sql.DB
}

// Open opens (or creates) the index database at path and ensures the schema.
func Open(ctx context.Context, path string) (*Index, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open export index: %w", err)
	}
	// Single-process CLI; one connection avoids SQLITE_BUSY on writes.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init export index schema: %w", err)
	}
	return &Index{db: db}, nil
}

func (i *Index) Close() error { return i.db.Close() }

// Has implements export.Index.
func (i *Index) Has(ctx context.Context, resourceID string, kind export.Kind) (bool, error) {
	const q = `SELECT 1 FROM artifacts WHERE resource_id=? AND kind=? LIMIT 1;`
	var one int
	err := i.db.QueryRowContext(ctx, q, resourceID, string(kind)).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Record implements export.Index. Re-recording the same artifact upserts the
// path and timestamp.
func (i *Index) Record(ctx context.Context, a *export.Artifact) error {
	const q = `
INSERT INTO artifacts (resource_id, kind, path, exported_at)
VALUES (?,?,?,?)
ON CONFLICT(resource_id, kind) DO UPDATE SET
  path=excluded.path, exported_at=excluded.exported_at;
`
	written := a.WrittenAt
	if written.IsZero() {
		written = time.Now()
	}
	_, err := i.db.ExecContext(ctx, q, a.ResourceID, string(a.Kind), a.Path, written)
	return err
}

// List implements export.Index, newest first.
func (i *Index) List(ctx context.Context, limit int) ([]*export.Artifact, error) {
	if limit <= 0 {
		limit = 100
	}
	const q = `
SELECT resource_id, kind, path, exported_at
FROM artifacts ORDER BY exported_at DESC, resource_id LIMIT ?;
`
	rows, err := i.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*export.Artifact
	for rows.Next() {
		var a export.Artifact
		var kind string
		if err := rows.Scan(&a.ResourceID, &kind, &a.Path, &a.WrittenAt); err != nil {
			return nil, err
		}
		a.Kind = export.Kind(kind)
		out = append(out, &a)
	}
	return out, rows.Err()
}

var _ export.Index = (*Index)(nil)
