// Package storage provides persistent storage for pinned conversations
// and notification history.
package storage

import (
	"os"

	"github.com/cristianoliveira/tmux-chatwatch/internal/config"
	"github.com/cristianoliveira/tmux-chatwatch/internal/domain"
)

// File permission constants
const (
	// FileModeDir is the permission for directories (rwxr-xr-x)
	FileModeDir os.FileMode = 0755
	// FileModeFile is the permission for data files (rw-r--r--)
	FileModeFile os.FileMode = 0644
)

// Storage defines the interface for pin and history storage operations.
type Storage interface {
	// AddPin stores a pin for a conversation. Pinning an already pinned
	// conversation fails with sqlite.ErrAlreadyPinned.
	AddPin(pin domain.Pin) error
	// RemovePin deletes the pin for a conversation. Removing a
	// conversation that is not pinned fails with sqlite.ErrPinNotFound.
	RemovePin(conversationID string) error
	// ListPins returns all pins in the order they were added.
	ListPins() ([]domain.Pin, error)

	// AppendHistory records a raised notification and returns its id.
	AppendHistory(entry domain.HistoryEntry) (int64, error)
	// ListHistory returns the most recent entries, newest first.
	// A non-positive limit returns all entries.
	ListHistory(limit int) ([]domain.HistoryEntry, error)
	// CleanupHistory deletes entries older than daysThreshold days and
	// returns how many were (or would be, with dryRun) removed.
	CleanupHistory(daysThreshold int, dryRun bool) (int64, error)

	// Close releases the underlying storage resources.
	Close() error
}

// GetStateDir returns the state directory path.
// Honors the TMUX_CHATWATCH_STATE_DIR environment variable, then the
// state_dir configuration key.
func GetStateDir() string {
	if dir := os.Getenv("TMUX_CHATWATCH_STATE_DIR"); dir != "" {
		return dir
	}
	config.Load()
	return config.Get("state_dir", "")
}
