// Package audit keeps an additive, write-only log of completed
// sessions (one row per session, never read back) in Postgres, scoped down from the teacher's
// internal/storage/storage_manager.go (which persists frames, scenes,
// and objects across several tables) to a single reports table. This is
// an audit trail, not session-state persistence — a session's only
// source of truth while it runs is the in-memory state machine.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS reports (
	session_id      TEXT PRIMARY KEY,
	source_path     TEXT NOT NULL,
	segment_count   INTEGER NOT NULL,
	group_count     INTEGER NOT NULL,
	final_duration  DOUBLE PRECISION NOT NULL,
	completed_at    TIMESTAMPTZ NOT NULL
)`

// Log is a write-only audit sink. A Log with no database (from New with
// an empty DSN) means auditing is disabled.
type Log struct {
	db *sql.DB
}

// New opens the audit database and ensures its schema exists, or
// returns a disabled Log when dsn is empty.
func New(dsn string) (*Log, error) {
	if dsn == "" {
		return &Log{}, nil
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create reports schema: %w", err)
	}

	return &Log{db: db}, nil
}

// Enabled reports whether this Log is backed by a real database.
func (l *Log) Enabled() bool {
	return l.db != nil
}

// RecordCompletion inserts one row for a finished session. Re-recording
// the same sessionID updates the existing row rather than erroring,
// since a session completes exactly once but replays are harmless.
func (l *Log) RecordCompletion(ctx context.Context, sessionID, sourcePath string, segmentCount, groupCount int, finalDuration float64) error {
	if l.db == nil {
		return nil
	}
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO reports (session_id, source_path, segment_count, group_count, final_duration, completed_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (session_id) DO UPDATE SET
			segment_count = EXCLUDED.segment_count,
			group_count = EXCLUDED.group_count,
			final_duration = EXCLUDED.final_duration,
			completed_at = EXCLUDED.completed_at
	`, sessionID, sourcePath, segmentCount, groupCount, finalDuration)
	return err
}

// Close releases the underlying database handle.
func (l *Log) Close() error {
	if l.db == nil {
		return nil
	}
	return l.db.Close()
}
