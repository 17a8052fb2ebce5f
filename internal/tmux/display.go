// Package tmux provides a thin abstraction over the tmux binary.
package tmux

import (
	"fmt"

	"github.com/cristianoliveira/tmux-chatwatch/internal/colors"
)

// MenuItem is one entry in a display-menu popup.
type MenuItem struct {
	// Label is the text shown for the entry.
	Label string
	// Key is the shortcut key that selects the entry.
	Key string
	// Command is the tmux command run when the entry is selected.
	// Empty means the entry just closes the menu.
	Command string
}

// DisplayMenu opens a dismissible menu popup titled title. The menu
// closes on Escape or an outside click without running anything.
func (c *DefaultClient) DisplayMenu(title string, items []MenuItem) error {
	args := []string{"display-menu", "-T", title}
	for _, item := range items {
		args = append(args, item.Label, item.Key, item.Command)
	}

	_, stderr, err := c.Run(args...)
	if err != nil {
		if stderr != "" {
			colors.Debug("stderr: " + stderr)
		}
		return fmt.Errorf("failed to display menu %q: %w", title, err)
	}
	return nil
}

// DisplayMessage flashes a message in the tmux status line.
func (c *DefaultClient) DisplayMessage(message string) error {
	_, stderr, err := c.Run("display-message", message)
	if err != nil {
		if stderr != "" {
			colors.Debug("stderr: " + stderr)
		}
		return fmt.Errorf("failed to display message: %w", err)
	}
	return nil
}
