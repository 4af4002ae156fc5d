package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/i474232898/weather-chat/internal/chat"
)

const schema = `
CREATE TABLE IF NOT EXISTS weather_chat (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	request_id TEXT NOT NULL DEFAULT '',
	query TEXT NOT NULL,
	response TEXT NOT NULL,
	kind TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_weather_chat_created ON weather_chat(created_at);
`

// SQLiteStore persists records in the weather_chat table.
// Every Append is a single INSERT.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore opens (creating if needed) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time; WAL lets readers proceed.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Append inserts one record.
func (s *SQLiteStore) Append(ctx context.Context, rec chat.Record) error {
	if rec.Response == "" {
		return ErrInvalidRecord
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO weather_chat (request_id, query, response, kind, created_at) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.Query, rec.Response, string(rec.Kind), createdAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first. limit <= 0 means all.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]chat.Record, error) {
	q := `SELECT request_id, query, response, kind, created_at FROM weather_chat ORDER BY id DESC`
	var args []any
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var out []chat.Record
	for rows.Next() {
		var (
			rec       chat.Record
			kind      string
			createdAt string
		)
		if err := rows.Scan(&rec.ID, &rec.Query, &rec.Response, &kind, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		rec.Kind = chat.Kind(kind)
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			rec.CreatedAt = ts
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Maintain checkpoints the WAL into the main database file and returns the
// number of stored records.
func (s *SQLiteStore) Maintain(ctx context.Context) (int, error) {
	if _, err := s.db.ExecContext(ctx, `PRAGMA wal_checkpoint(TRUNCATE)`); err != nil {
		return 0, fmt.Errorf("failed to checkpoint wal: %w", err)
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM weather_chat`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return n, nil
}
