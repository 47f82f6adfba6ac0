package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/funstats/pkg/funstats/internalerr"
	"github.com/cognicore/funstats/pkg/funstats/store"
)

// timeLayout is fixed width so that generated_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled and creates the
// schema if needed.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: init schema: %v", internalerr.ErrStoreUnavailable, err)
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	generated_at TEXT NOT NULL,
	document_count INTEGER NOT NULL,
	total_word_count INTEGER NOT NULL,
	longest_document TEXT NOT NULL,
	snapshot TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS run_documents (
	run_id TEXT NOT NULL,
	name TEXT NOT NULL,
	size INTEGER NOT NULL,
	alpha_tokens INTEGER NOT NULL,
	degraded INTEGER NOT NULL DEFAULT 0,
	UNIQUE(run_id, name),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_runs_generated_at ON runs(generated_at);
CREATE INDEX IF NOT EXISTS idx_run_documents_name ON run_documents(name);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// RecordRun inserts a run and its document rows in one transaction.
func (s *sqliteStore) RecordRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("%w: run without id", internalerr.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
INSERT INTO runs (id, generated_at, document_count, total_word_count, longest_document, snapshot)
VALUES (?, ?, ?, ?, ?, ?);
`,
		r.ID,
		r.GeneratedAt.UTC().Format(timeLayout),
		r.DocumentCount,
		r.TotalWordCount,
		r.LongestDocument,
		string(r.Snapshot),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", r.ID, err)
	}

	if err := insertDocuments(ctx, tx, r.ID, r.Documents); err != nil {
		return err
	}
	return tx.Commit()
}

func insertDocuments(ctx context.Context, tx *sql.Tx, runID string, docs []store.DocumentRecord) error {
	if len(docs) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO run_documents (run_id, name, size, alpha_tokens, degraded)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(run_id, name) DO UPDATE SET
	size=excluded.size,
	alpha_tokens=excluded.alpha_tokens,
	degraded=excluded.degraded;
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, d := range docs {
		if _, err := stmt.ExecContext(ctx, runID, d.Name, d.Size, d.AlphaTokens, boolToInt(d.Degraded)); err != nil {
			return fmt.Errorf("insert document %s: %w", d.Name, err)
		}
	}
	return nil
}

// GetRun loads a run with its snapshot and document rows.
func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, generated_at, document_count, total_word_count, longest_document, snapshot
FROM runs
WHERE id = ?;
`, id)

	r, err := scanRun(row, true)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	if err != nil {
		return store.Run{}, err
	}

	r.Documents, err = s.loadDocuments(ctx, `
SELECT run_id, name, size, alpha_tokens, degraded
FROM run_documents
WHERE run_id = ?
ORDER BY name;
`, id)
	if err != nil {
		return store.Run{}, err
	}
	return r, nil
}

// Runs lists the most recent runs.
func (s *sqliteStore) Runs(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = store.DefaultLimit
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, generated_at, document_count, total_word_count, longest_document, ''
FROM runs
ORDER BY generated_at DESC, id DESC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []store.Run
	for rows.Next() {
		r, err := scanRun(rows, false)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// DocumentHistory lists the rows recorded for one document across runs.
func (s *sqliteStore) DocumentHistory(ctx context.Context, name string, limit int) ([]store.DocumentRecord, error) {
	if limit <= 0 {
		limit = store.DefaultLimit
	}
	return s.loadDocuments(ctx, `
SELECT d.run_id, d.name, d.size, d.alpha_tokens, d.degraded
FROM run_documents d
JOIN runs r ON r.id = d.run_id
WHERE d.name = ?
ORDER BY r.generated_at DESC, r.id DESC
LIMIT ?;
`, name, limit)
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(sc scanner, withSnapshot bool) (store.Run, error) {
	var (
		r           store.Run
		generatedAt string
		snapshot    string
	)
	if err := sc.Scan(&r.ID, &generatedAt, &r.DocumentCount, &r.TotalWordCount, &r.LongestDocument, &snapshot); err != nil {
		return store.Run{}, err
	}
	t, err := time.Parse(timeLayout, generatedAt)
	if err != nil {
		return store.Run{}, fmt.Errorf("parse generated_at of run %s: %w", r.ID, err)
	}
	r.GeneratedAt = t
	if withSnapshot {
		r.Snapshot = []byte(snapshot)
	}
	return r, nil
}

func (s *sqliteStore) loadDocuments(ctx context.Context, query string, args ...interface{}) ([]store.DocumentRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []store.DocumentRecord
	for rows.Next() {
		var d store.DocumentRecord
		var degraded int
		if err := rows.Scan(&d.RunID, &d.Name, &d.Size, &d.AlphaTokens, &degraded); err != nil {
			return nil, err
		}
		d.Degraded = degraded != 0
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
