// Package storage persists settings, the query log and daily answer history
// in SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a record is not found.
var ErrNotFound = errors.New("not found")

// DailyAnswer is one persisted day's word-game answer.
type DailyAnswer struct {
	Day       string
	Solution  string
	Excerpt   string
	FetchedAt time.Time
}

// DB wraps the SQLite database connection and provides storage operations.
type DB struct {
	conn *sql.DB
}

// NewDB creates a new database connection and initializes the schema.
func NewDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS query_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		term TEXT NOT NULL,
		kind TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_query_log_user ON query_log(user_id);
	CREATE INDEX IF NOT EXISTS idx_query_log_created ON query_log(created_at);

	CREATE TABLE IF NOT EXISTS daily_answers (
		day TEXT PRIMARY KEY,
		solution TEXT NOT NULL,
		excerpt TEXT NOT NULL DEFAULT '',
		fetched_at DATETIME NOT NULL
	);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// GetSetting retrieves a setting value by key.
func (db *DB) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := db.conn.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

// SetSetting inserts or updates a setting.
func (db *DB) SetSetting(ctx context.Context, key, value string) error {
	_, err := db.conn.ExecContext(ctx, `
	INSERT INTO settings (key, value) VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

// RecordQuery appends one successful lookup to the query log.
func (db *DB) RecordQuery(ctx context.Context, userID int64, term, kind string) error {
	_, err := db.conn.ExecContext(ctx, `
	INSERT INTO query_log (user_id, term, kind, created_at) VALUES (?, ?, ?, ?)`,
		userID, term, kind, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("record query: %w", err)
	}
	return nil
}

// CountByKind returns the user's lookup counts grouped by command kind.
func (db *DB) CountByKind(ctx context.Context, userID int64) (map[string]int, error) {
	rows, err := db.conn.QueryContext(ctx, `
	SELECT kind, COUNT(*) FROM query_log WHERE user_id = ? GROUP BY kind`, userID)
	if err != nil {
		return nil, fmt.Errorf("count queries: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[kind] = n
	}
	return counts, rows.Err()
}

// RecentTerms returns the most recently looked-up distinct terms, newest
// first.
func (db *DB) RecentTerms(ctx context.Context, limit int) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx, `
	SELECT term FROM query_log
	GROUP BY term ORDER BY MAX(created_at) DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent terms: %w", err)
	}
	defer rows.Close()

	var terms []string
	for rows.Next() {
		var term string
		if err := rows.Scan(&term); err != nil {
			return nil, fmt.Errorf("scan term: %w", err)
		}
		terms = append(terms, term)
	}
	return terms, rows.Err()
}

// AllTerms returns every distinct term in the query log.
func (db *DB) AllTerms(ctx context.Context) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx, "SELECT DISTINCT term FROM query_log")
	if err != nil {
		return nil, fmt.Errorf("all terms: %w", err)
	}
	defer rows.Close()

	var terms []string
	for rows.Next() {
		var term string
		if err := rows.Scan(&term); err != nil {
			return nil, fmt.Errorf("scan term: %w", err)
		}
		terms = append(terms, term)
	}
	return terms, rows.Err()
}

// PruneQueryLog deletes log entries older than the retention window and
// returns how many were removed.
func (db *DB) PruneQueryLog(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)
	res, err := db.conn.ExecContext(ctx, "DELETE FROM query_log WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune query log: %w", err)
	}
	return res.RowsAffected()
}

// SaveDailyAnswer inserts or updates the answer for one day.
func (db *DB) SaveDailyAnswer(ctx context.Context, day, solution, excerpt string) error {
	_, err := db.conn.ExecContext(ctx, `
	INSERT INTO daily_answers (day, solution, excerpt, fetched_at) VALUES (?, ?, ?, ?)
	ON CONFLICT(day) DO UPDATE SET
		solution = excluded.solution,
		excerpt = excluded.excerpt,
		fetched_at = excluded.fetched_at`,
		day, solution, excerpt, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save daily answer: %w", err)
	}
	return nil
}

// GetDailyAnswer retrieves the persisted answer for one day.
func (db *DB) GetDailyAnswer(ctx context.Context, day string) (*DailyAnswer, error) {
	var a DailyAnswer
	err := db.conn.QueryRowContext(ctx, `
	SELECT day, solution, excerpt, fetched_at FROM daily_answers WHERE day = ?`, day).
		Scan(&a.Day, &a.Solution, &a.Excerpt, &a.FetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get daily answer %q: %w", day, err)
	}
	return &a, nil
}
