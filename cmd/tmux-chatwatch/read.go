/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"context"
	"fmt"

	"github.com/cristianoliveira/tmux-chatwatch/internal/colors"
	"github.com/cristianoliveira/tmux-chatwatch/internal/hooks"
	"github.com/spf13/cobra"
)

type readClient interface {
	MarkConversationRead(ctx context.Context, target string) (string, error)
}

// NewReadCmd creates the read command with explicit dependencies.
func NewReadCmd(client readClient) *cobra.Command {
	if client == nil {
		panic("NewReadCmd: client dependency cannot be nil")
	}

	readCmd := &cobra.Command{
		Use:   "read <conversation>",
		Short: "Mark a conversation as read",
		Long: `Mark a conversation as read.

USAGE:
    tmux-chatwatch read <conversation>

Moves the conversation's read marker past its newest message, so the next
poll reports zero unread. A conversation with no messages stays as it is.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := hooks.Run("pre-read", "CONVERSATION="+args[0]); err != nil {
				return fmt.Errorf("pre-read hook aborted: %w", err)
			}
			name, err := client.MarkConversationRead(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("read: %w", err)
			}
			if err := hooks.Run("post-read", "CONVERSATION="+name); err != nil {
				colors.Warning("post-read hook failed: " + err.Error())
			}
			colors.Success("marked " + name + " read")
			return nil
		},
	}

	return readCmd
}
