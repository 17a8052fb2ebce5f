// Package sqlite provides a SQLite-backed storage implementation.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cristianoliveira/tmux-chatwatch/internal/domain"
	_ "modernc.org/sqlite"
)

var (
	// ErrAlreadyPinned indicates the conversation already has a pin.
	ErrAlreadyPinned = errors.New("conversation already pinned")
	// ErrPinNotFound indicates that no pin exists for the conversation.
	ErrPinNotFound = errors.New("pin not found")
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS pins (
	conversation_id TEXT PRIMARY KEY,
	user_id         TEXT NOT NULL,
	display_name    TEXT NOT NULL DEFAULT '',
	pinned_at       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS notification_history (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	conversation_id TEXT NOT NULL,
	name            TEXT NOT NULL DEFAULT '',
	delta           INTEGER NOT NULL,
	timestamp       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notification_history_timestamp
	ON notification_history(timestamp);
`

// SQLiteStorage implements the storage.Storage interface using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage creates a SQLite-backed storage at the provided path.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("sqlite storage: db path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite storage: create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: open db: %w", err)
	}

	storage := &SQLiteStorage{db: db}
	if err := storage.init(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return storage, nil
}

// Close closes the underlying SQLite connection.
func (s *SQLiteStorage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStorage) init() error {
	if _, err := s.db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("sqlite storage: set busy timeout: %w", err)
	}

	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("sqlite storage: create schema: %w", err)
	}

	return nil
}

// AddPin stores a pin for a conversation.
func (s *SQLiteStorage) AddPin(pin domain.Pin) error {
	if err := pin.Validate(); err != nil {
		return err
	}
	if pin.PinnedAt == "" {
		pin.PinnedAt = utcNow()
	}

	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(1) FROM pins WHERE conversation_id = ?",
		pin.ConversationID,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("sqlite storage: check existing pin: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("sqlite storage: add pin %s: %w", pin.ConversationID, ErrAlreadyPinned)
	}

	_, err = s.db.Exec(
		"INSERT INTO pins (conversation_id, user_id, display_name, pinned_at) VALUES (?, ?, ?, ?)",
		pin.ConversationID, pin.UserID, pin.DisplayName, pin.PinnedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite storage: add pin: %w", err)
	}

	return nil
}

// RemovePin deletes the pin for a conversation.
func (s *SQLiteStorage) RemovePin(conversationID string) error {
	if strings.TrimSpace(conversationID) == "" {
		return fmt.Errorf("sqlite storage: conversation id cannot be empty")
	}

	res, err := s.db.Exec("DELETE FROM pins WHERE conversation_id = ?", conversationID)
	if err != nil {
		return fmt.Errorf("sqlite storage: remove pin: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite storage: read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("sqlite storage: remove pin %s: %w", conversationID, ErrPinNotFound)
	}

	return nil
}

// ListPins returns all pins in the order they were added.
func (s *SQLiteStorage) ListPins() ([]domain.Pin, error) {
	rows, err := s.db.Query(
		"SELECT conversation_id, user_id, display_name, pinned_at FROM pins ORDER BY pinned_at, rowid",
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: list pins: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var pins []domain.Pin
	for rows.Next() {
		var pin domain.Pin
		if err := rows.Scan(&pin.ConversationID, &pin.UserID, &pin.DisplayName, &pin.PinnedAt); err != nil {
			return nil, fmt.Errorf("sqlite storage: scan pin row: %w", err)
		}
		pins = append(pins, pin)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite storage: iterate pins: %w", err)
	}

	return pins, nil
}

// AppendHistory records a raised notification and returns its id.
func (s *SQLiteStorage) AppendHistory(entry domain.HistoryEntry) (int64, error) {
	if entry.Timestamp == "" {
		entry.Timestamp = utcNow()
	}
	if err := entry.Validate(); err != nil {
		return 0, err
	}

	res, err := s.db.Exec(
		"INSERT INTO notification_history (conversation_id, name, delta, timestamp) VALUES (?, ?, ?, ?)",
		entry.ConversationID, entry.Name, entry.Delta, entry.Timestamp,
	)
	if err != nil {
		return 0, fmt.Errorf("sqlite storage: append history: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("sqlite storage: read inserted id: %w", err)
	}

	return id, nil
}

// ListHistory returns the most recent entries, newest first. A
// non-positive limit returns all entries.
func (s *SQLiteStorage) ListHistory(limit int) ([]domain.HistoryEntry, error) {
	query := "SELECT id, conversation_id, name, delta, timestamp FROM notification_history ORDER BY id DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: list history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var entry domain.HistoryEntry
		if err := rows.Scan(&entry.ID, &entry.ConversationID, &entry.Name, &entry.Delta, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("sqlite storage: scan history row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite storage: iterate history: %w", err)
	}

	return entries, nil
}

// CleanupHistory deletes entries older than daysThreshold days and
// returns how many were (or would be, with dryRun) removed.
func (s *SQLiteStorage) CleanupHistory(daysThreshold int, dryRun bool) (int64, error) {
	if daysThreshold < 0 {
		return 0, fmt.Errorf("sqlite storage: days threshold cannot be negative")
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -daysThreshold).Format("2006-01-02T15:04:05Z")

	var count int64
	err := s.db.QueryRow(
		"SELECT COUNT(1) FROM notification_history WHERE timestamp < ?",
		cutoff,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite storage: count old history: %w", err)
	}
	if dryRun || count == 0 {
		return count, nil
	}

	if _, err := s.db.Exec("DELETE FROM notification_history WHERE timestamp < ?", cutoff); err != nil {
		return 0, fmt.Errorf("sqlite storage: cleanup history: %w", err)
	}

	return count, nil
}

func utcNow() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05Z")
}
