// Package tmux provides a thin abstraction over the tmux binary for
// raising notifications and publishing status state.
package tmux

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/cristianoliveira/tmux-chatwatch/internal/colors"
)

// DefaultTimeout is the default timeout for tmux commands.
const DefaultTimeout = 5 * time.Second

// ErrTmuxNotRunning is returned when no tmux server is reachable.
var ErrTmuxNotRunning = errors.New("tmux server is not running")

// TmuxClient abstracts the tmux operations chatwatch performs.
type TmuxClient interface {
	// Run executes a tmux command with the given arguments.
	Run(args ...string) (string, string, error)

	// HasServer checks if a tmux server is running.
	HasServer() (bool, error)

	// DisplayMenu opens a dismissible menu popup.
	DisplayMenu(title string, items []MenuItem) error

	// DisplayMessage flashes a message in the tmux status line.
	DisplayMessage(message string) error

	// SetStatusOption sets a global tmux option, e.g. a user option
	// consumed by a status-line format.
	SetStatusOption(name, value string) error
}

// ClientOption is a functional option for configuring a DefaultClient.
type ClientOption func(*DefaultClient)

// WithSocketPath sets the tmux socket name for the client.
func WithSocketPath(socketPath string) ClientOption {
	return func(c *DefaultClient) {
		c.socketPath = socketPath
	}
}

// WithTimeout sets the timeout for tmux command execution.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *DefaultClient) {
		c.timeout = timeout
	}
}

// DefaultClient implements TmuxClient using exec.Command to run tmux.
type DefaultClient struct {
	socketPath string
	timeout    time.Duration
}

// NewDefaultClient creates a new DefaultClient with the given options.
func NewDefaultClient(opts ...ClientOption) *DefaultClient {
	client := &DefaultClient{
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// runCommand executes a tmux command with the given arguments.
// It returns stdout, stderr, and any error that occurred.
func (c *DefaultClient) runCommand(args ...string) (string, string, error) {
	start := time.Now()
	command := ""
	if len(args) > 0 {
		command = args[0]
	}
	colors.StructuredDebug("tmux", "run", "started", nil, command, map[string]interface{}{"args_count": len(args)})
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	cmdArgs := []string{}
	if c.socketPath != "" {
		cmdArgs = append(cmdArgs, "-L", c.socketPath)
	}
	cmdArgs = append(cmdArgs, args...)

	cmd := exec.CommandContext(ctx, "tmux", cmdArgs...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	duration := time.Since(start).Seconds()
	if err != nil {
		colors.StructuredError("tmux", "run", "failed", err, command, map[string]interface{}{"args_count": len(args), "duration_seconds": duration})
	} else {
		colors.StructuredDebug("tmux", "run", "completed", nil, command, map[string]interface{}{"args_count": len(args), "duration_seconds": duration})
	}
	return stdout.String(), stderr.String(), err
}

// Run executes a tmux command with the given arguments.
// It returns stdout, stderr, and any error that occurred.
func (c *DefaultClient) Run(args ...string) (string, string, error) {
	stdout, stderr, err := c.runCommand(args...)
	if err != nil {
		return stdout, stderr, fmt.Errorf("tmux command %v failed: %w", args, err)
	}
	return stdout, stderr, nil
}

// HasServer checks if a tmux server is running.
func (c *DefaultClient) HasServer() (bool, error) {
	_, stderr, err := c.Run("has-session")
	if err != nil {
		if stderr != "" {
			colors.Debug("stderr: " + stderr)
		}
		return false, ErrTmuxNotRunning
	}
	return true, nil
}

// SetStatusOption sets a global tmux option.
func (c *DefaultClient) SetStatusOption(name, value string) error {
	running, err := c.HasServer()
	if err != nil {
		return err
	}
	if !running {
		return ErrTmuxNotRunning
	}

	_, stderr, err := c.Run("set", "-g", name, value)
	if err != nil {
		if stderr != "" {
			colors.Debug("stderr: " + stderr)
		}
		return fmt.Errorf("failed to set status option %s: %w", name, err)
	}
	return nil
}
