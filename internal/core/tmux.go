package core

import "github.com/cristianoliveira/tmux-chatwatch/internal/colors"

// EnsureTmuxRunning verifies that a tmux server is reachable.
func (c *Core) EnsureTmuxRunning() bool {
	if c.client == nil {
		return false
	}
	running, err := c.client.HasServer()
	if err != nil {
		colors.Debug("tmux has-session failed: " + err.Error())
		return false
	}
	return running
}
