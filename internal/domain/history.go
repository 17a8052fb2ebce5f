package domain

import (
	"fmt"
	"strings"
	"time"
)

// HistoryEntry records one notification that was raised: which
// conversation, under what name, and by how many messages its unread count
// grew. The history is an audit trail; deduplication correctness comes
// from the watcher's snapshots, never from this record.
type HistoryEntry struct {
	ID             int64
	ConversationID string
	Name           string
	Delta          int
	Timestamp      string
}

// Validate checks that the entry can be stored.
func (e HistoryEntry) Validate() error {
	if strings.TrimSpace(e.ConversationID) == "" {
		return fmt.Errorf("validation error: history conversation id cannot be empty")
	}
	if e.Delta <= 0 {
		return fmt.Errorf("validation error: history delta must be positive, got %d", e.Delta)
	}
	if e.Timestamp != "" {
		if _, err := time.Parse(time.RFC3339, e.Timestamp); err != nil {
			return fmt.Errorf("validation error: invalid timestamp format '%s', expected RFC3339 format", e.Timestamp)
		}
	}
	return nil
}

// Age returns how long ago the entry was recorded, zero when the
// timestamp is missing or malformed.
func (e HistoryEntry) Age(now time.Time) time.Duration {
	recorded, err := time.Parse(time.RFC3339, e.Timestamp)
	if err != nil {
		return 0
	}
	age := now.Sub(recorded)
	if age < 0 {
		return 0
	}
	return age
}
