// Package history keeps a local record of every announcement delivered
// over the realtime channel, so students can review notifications they
// dismissed or missed while the popup was occupied.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/edupi-school/edupi-client/pkg/model"

	_ "modernc.org/sqlite"
)

// schema contains the DDL for the history database.
// Each statement uses IF NOT EXISTS for idempotency.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS announcements (
		row_id      TEXT PRIMARY KEY,
		event_id    TEXT NOT NULL,
		title       TEXT NOT NULL,
		content     TEXT NOT NULL,
		type        TEXT NOT NULL DEFAULT 'general',
		priority    TEXT NOT NULL DEFAULT 'normal',
		created_by  TEXT NOT NULL DEFAULT '',
		action_url  TEXT NOT NULL DEFAULT '',
		event_time  TEXT NOT NULL,
		received_at TEXT NOT NULL,
		read        INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE INDEX IF NOT EXISTS idx_announcements_received
		ON announcements(received_at DESC)`,

	`CREATE INDEX IF NOT EXISTS idx_announcements_read
		ON announcements(read)`,
}

// Entry is one recorded announcement.
type Entry struct {
	RowID      string
	Event      model.NotificationEvent
	ReceivedAt time.Time
	Read       bool
}

// Store records announcements in a local SQLite database.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (or creates) the history database at dbPath.
// Use ":memory:" for an in-memory database (useful in tests).
func Open(dbPath string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	// WAL keeps reads cheap while the channel is writing.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}

	return &Store{
		db:     db,
		logger: logger.With("component", "history"),
	}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the required tables and indexes.
func (s *Store) Migrate(ctx context.Context) error {
	s.logger.Debug("sql", "op", "migrate")
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Save records a delivered announcement as unread.
func (s *Store) Save(ctx context.Context, ev *model.NotificationEvent) error {
	s.logger.Debug("sql", "op", "insert", "event_id", ev.ID)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO announcements (row_id, event_id, title, content, type, priority, created_by, action_url, event_time, received_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), ev.ID, ev.Title, ev.Content, string(ev.Type), string(ev.Priority),
		ev.CreatedBy, ev.ActionURL,
		ev.Timestamp.Format(time.RFC3339Nano), time.Now().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save announcement: %w", err)
	}
	return nil
}

// List returns the most recently received entries, newest first.
// limit <= 0 returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	s.logger.Debug("sql", "op", "select", "limit", limit)

	query := `SELECT row_id, event_id, title, content, type, priority, created_by, action_url, event_time, received_at, read
		 FROM announcements ORDER BY received_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var eventTime, receivedAt string
		var read int
		if err := rows.Scan(&e.RowID, &e.Event.ID, &e.Event.Title, &e.Event.Content,
			&e.Event.Type, &e.Event.Priority, &e.Event.CreatedBy, &e.Event.ActionURL,
			&eventTime, &receivedAt, &read); err != nil {
			return nil, fmt.Errorf("scan announcement: %w", err)
		}
		e.Event.Timestamp, _ = time.Parse(time.RFC3339Nano, eventTime)
		e.ReceivedAt, _ = time.Parse(time.RFC3339Nano, receivedAt)
		e.Read = read != 0
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// MarkRead marks every recorded copy of an event as read.
func (s *Store) MarkRead(ctx context.Context, eventID string) error {
	s.logger.Debug("sql", "op", "update", "event_id", eventID)

	_, err := s.db.ExecContext(ctx,
		`UPDATE announcements SET read = 1 WHERE event_id = ?`, eventID)
	if err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	return nil
}

// MarkAllRead marks every entry as read.
func (s *Store) MarkAllRead(ctx context.Context) error {
	s.logger.Debug("sql", "op", "update", "all", true)

	_, err := s.db.ExecContext(ctx, `UPDATE announcements SET read = 1`)
	if err != nil {
		return fmt.Errorf("mark all read: %w", err)
	}
	return nil
}

// UnreadCount returns the number of unread entries.
func (s *Store) UnreadCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM announcements WHERE read = 0`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("unread count: %w", err)
	}
	return n, nil
}
