// Package store handles SQLite persistence of the keystroke log.
package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/typestyle/internal/keylog"
	"github.com/verte-zerg/typestyle/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

const settingWPM = "wpm"

// Store wraps SQLite access for keystroke data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// NewSessionID returns a fresh identifier for a capture run or import.
func NewSessionID() string {
	return uuid.NewString()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS keystrokes (
			id INTEGER PRIMARY KEY,
			session_id TEXT NOT NULL,
			pressed_at TEXT NOT NULL,
			key TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS settings (
			name TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_keystrokes_session ON keystrokes(session_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Append records a single keystroke.
func (s *Store) Append(ctx context.Context, sessionID string, event model.KeystrokeEvent) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO keystrokes (session_id, pressed_at, key) VALUES (?, ?, ?)`,
		sessionID, keylog.FormatTimestamp(event.PressedAt), event.Key)
	return err
}

// AppendLines imports raw log lines in a single transaction. Malformed lines
// are skipped and counted. Lines without a timestamp are stamped with now.
func (s *Store) AppendLines(ctx context.Context, sessionID string, lines []string, now time.Time) (imported, skipped int, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO keystrokes (session_id, pressed_at, key) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()

	for _, line := range lines {
		event, ok := keylog.ParseLine(line)
		if !ok {
			if line != "" {
				skipped++
			}
			continue
		}
		if event.PressedAt.IsZero() {
			event.PressedAt = now
		}
		if _, err = stmt.ExecContext(ctx, sessionID, keylog.FormatTimestamp(event.PressedAt), event.Key); err != nil {
			return 0, 0, err
		}
		imported++
	}

	if err = tx.Commit(); err != nil {
		return 0, 0, err
	}
	return imported, skipped, nil
}

// Events returns every recorded keystroke in insertion order.
func (s *Store) Events(ctx context.Context) ([]model.KeystrokeEvent, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT pressed_at, key FROM keystrokes ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var events []model.KeystrokeEvent
	for rows.Next() {
		var pressedAt string
		var event model.KeystrokeEvent
		if err := rows.Scan(&pressedAt, &event.Key); err != nil {
			return nil, err
		}
		parsed, err := keylog.ParseTimestamp(pressedAt)
		if err != nil {
			return nil, err
		}
		event.PressedAt = parsed
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// Log returns the keystroke log as raw lines in insertion order.
func (s *Store) Log(ctx context.Context) ([]string, error) {
	events, err := s.Events(ctx)
	if err != nil {
		return nil, err
	}
	lines := make([]string, len(events))
	for i, e := range events {
		lines[i] = keylog.FormatLine(e)
	}
	return lines, nil
}

// ClearLog removes every recorded keystroke.
func (s *Store) ClearLog(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM keystrokes`)
	return err
}

// CurrentWPM returns the last stored WPM, or 0 when none was stored.
func (s *Store) CurrentWPM(ctx context.Context) (int, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE name = ?`, settingWPM).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	wpm, err := strconv.Atoi(value)
	if err != nil {
		return 0, nil
	}
	return wpm, nil
}

// SetWPM stores the current WPM.
func (s *Store) SetWPM(ctx context.Context, wpm int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (name, value) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET value = excluded.value`,
		settingWPM, strconv.Itoa(wpm))
	return err
}

// ListSessions returns per-session key counts ordered by first keystroke.
func (s *Store) ListSessions(ctx context.Context) ([]model.SessionAggregate, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT session_id, MIN(pressed_at), MAX(pressed_at), COUNT(*)
		FROM keystrokes
		GROUP BY session_id
		ORDER BY MIN(id) ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var startedAt, endedAt string
		if err := rows.Scan(&agg.SessionID, &startedAt, &endedAt, &agg.Keys); err != nil {
			return nil, err
		}
		if agg.StartedAt, err = keylog.ParseTimestamp(startedAt); err != nil {
			return nil, err
		}
		if agg.EndedAt, err = keylog.ParseTimestamp(endedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}
