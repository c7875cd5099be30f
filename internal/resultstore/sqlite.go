// Package resultstore persists completed ScanResult values to SQLite
// (supplemented feature — spec.md is silent on long-term storage of
// finished scans; the pack's sqleech repo shows the idiom for durable
// scan-state storage, adapted here from in-progress scan state to
// finished scan results).
package resultstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Summary is a lightweight listing row, without the full findings payload.
type Summary struct {
	ScanID        string
	SessionCount  int
	FindingsCount int
	CreatedAt     time.Time
}

// Store persists ScanResult rows.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) a SQLite-backed result store. Use
// ":memory:" for tests.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("resultstore: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("resultstore: ping database: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS scan_results (
			scan_id        TEXT PRIMARY KEY,
			result_json    TEXT NOT NULL,
			findings_count INTEGER DEFAULT 0,
			session_count  INTEGER DEFAULT 0,
			created_at     DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("resultstore: create table: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_scan_results_created_at ON scan_results(created_at)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("resultstore: create index: %w", err)
	}

	return &Store{db: db}, nil
}

// Save marshals result to JSON as-is and upserts it under scanID (a new
// UUID when scanID is empty), with the counts List reports. It takes
// interface{} so this package does not import internal/model; callers pass
// model.ScanResult directly.
func (s *Store) Save(ctx context.Context, scanID string, result interface{}, findingsCount, sessionCount int) error {
	if scanID == "" {
		scanID = uuid.New().String()
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("resultstore: marshal result: %w", err)
	}

	query := `
		INSERT INTO scan_results (scan_id, result_json, findings_count, session_count, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(scan_id) DO UPDATE SET
			result_json    = excluded.result_json,
			findings_count = excluded.findings_count,
			session_count  = excluded.session_count
	`
	_, err = s.db.ExecContext(ctx, query, scanID, string(raw), findingsCount, sessionCount, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("resultstore: save result: %w", err)
	}
	return nil
}

// Load retrieves a stored result's raw JSON by scan ID, for the caller to
// unmarshal into model.ScanResult. Returns ("", nil) if not found.
func (s *Store) Load(ctx context.Context, scanID string) (string, error) {
	row := s.db.QueryRowContext(ctx, `SELECT result_json FROM scan_results WHERE scan_id = ?`, scanID)
	var raw string
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("resultstore: scan row: %w", err)
	}
	return raw, nil
}

// List returns lightweight summaries of stored scans, most recent first.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT scan_id, findings_count, session_count, created_at FROM scan_results ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("resultstore: list: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		var createdAt string
		if err := rows.Scan(&sum.ScanID, &sum.FindingsCount, &sum.SessionCount, &createdAt); err != nil {
			return nil, fmt.Errorf("resultstore: scan summary row: %w", err)
		}
		t, perr := time.Parse(time.RFC3339, createdAt)
		if perr != nil {
			t, perr = time.Parse("2006-01-02 15:04:05", createdAt)
			if perr != nil {
				return nil, fmt.Errorf("resultstore: parse created_at %q: %w", createdAt, perr)
			}
		}
		sum.CreatedAt = t
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("resultstore: iterate rows: %w", err)
	}
	return out, nil
}

// Cleanup deletes stored results older than maxAge, returning the count
// deleted.
func (s *Store) Cleanup(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-maxAge).Format(time.RFC3339)
	result, err := s.db.ExecContext(ctx, `DELETE FROM scan_results WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("resultstore: cleanup: %w", err)
	}
	return result.RowsAffected()
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
