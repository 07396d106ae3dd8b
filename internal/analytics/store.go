// Package analytics keeps local practice statistics in SQLite.
package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schemaV1 = `
CREATE TABLE IF NOT EXISTS sessions (
	session_id   TEXT PRIMARY KEY,
	pattern      TEXT NOT NULL,
	started_at   INTEGER NOT NULL,
	ended_at     INTEGER NOT NULL DEFAULT 0,
	phases       INTEGER NOT NULL DEFAULT 0,
	cycles       INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_sessions_pattern ON sessions(pattern);
`

// Session is one uninterrupted breathing run, from the end of the countdown
// until a restart, pattern switch or shutdown.
type Session struct {
	ID        string
	Pattern   string
	StartedAt time.Time
	EndedAt   time.Time
	Phases    int
	Cycles    int
}

// PatternTotals aggregates sessions per pattern.
type PatternTotals struct {
	Pattern  string
	Sessions int
	Phases   int
	Cycles   int
	Duration time.Duration
}

// Store persists sessions.
type Store struct {
	db *sql.DB
}

// Open opens a SQLite database at path and runs the schema migration.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), schemaV1); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (store *Store) Close() error {
	return store.db.Close()
}

// Begin inserts a new open session.
func (store *Store) Begin(ctx context.Context, session Session) error {
	const q = `INSERT INTO sessions (session_id, pattern, started_at) VALUES (?, ?, ?)`
	if _, err := store.db.ExecContext(ctx, q, session.ID, session.Pattern, session.StartedAt.UnixMilli()); err != nil {
		return fmt.Errorf("begin session: %w", err)
	}
	return nil
}

// Update stores the counters and end time of a session.
func (store *Store) Update(ctx context.Context, session Session) error {
	const q = `UPDATE sessions SET ended_at = ?, phases = ?, cycles = ? WHERE session_id = ?`
	result, err := store.db.ExecContext(ctx, q, session.EndedAt.UnixMilli(), session.Phases, session.Cycles, session.ID)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("update session %s: not found", session.ID)
	}
	return nil
}

// Get returns one session by id.
func (store *Store) Get(ctx context.Context, id string) (Session, error) {
	const q = `SELECT session_id, pattern, started_at, ended_at, phases, cycles FROM sessions WHERE session_id = ?`
	var session Session
	var startedAt, endedAt int64
	err := store.db.QueryRowContext(ctx, q, id).Scan(&session.ID, &session.Pattern, &startedAt, &endedAt, &session.Phases, &session.Cycles)
	if err != nil {
		return Session{}, fmt.Errorf("get session: %w", err)
	}
	session.StartedAt = time.UnixMilli(startedAt)
	if endedAt > 0 {
		session.EndedAt = time.UnixMilli(endedAt)
	}
	return session, nil
}

// Totals aggregates finished sessions per pattern, ordered by pattern name.
func (store *Store) Totals(ctx context.Context) ([]PatternTotals, error) {
	const q = `SELECT pattern, COUNT(*), SUM(phases), SUM(cycles), SUM(ended_at - started_at)
FROM sessions
WHERE ended_at > 0
GROUP BY pattern
ORDER BY pattern ASC`

	rows, err := store.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query totals: %w", err)
	}
	defer rows.Close()

	var totals []PatternTotals
	for rows.Next() {
		var entry PatternTotals
		var millis int64
		if err := rows.Scan(&entry.Pattern, &entry.Sessions, &entry.Phases, &entry.Cycles, &millis); err != nil {
			return nil, fmt.Errorf("scan totals: %w", err)
		}
		entry.Duration = time.Duration(millis) * time.Millisecond
		totals = append(totals, entry)
	}
	return totals, rows.Err()
}
