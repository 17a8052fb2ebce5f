/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/cristianoliveira/tmux-chatwatch/internal/colors"
	"github.com/spf13/cobra"
)

// maxMessageLength caps outgoing messages; the service truncates longer
// ones anyway.
const maxMessageLength = 4000

type sendClient interface {
	SendMessage(ctx context.Context, target, text string) (string, error)
}

// NewSendCmd creates the send command with explicit dependencies.
func NewSendCmd(client sendClient) *cobra.Command {
	if client == nil {
		panic("NewSendCmd: client dependency cannot be nil")
	}

	sendCmd := &cobra.Command{
		Use:   "send <conversation> <message>",
		Short: "Send a message to a conversation",
		Long: `Send a message to a conversation.

USAGE:
    tmux-chatwatch send <conversation> <message>

The conversation may be a #channel, a pinned @user, or a raw conversation
id. Remaining arguments are joined into the message.

EXAMPLES:
    tmux-chatwatch send '#general' deploy finished
    tmux-chatwatch send @bob lunch?`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "send requires a conversation and a message\n")
				return fmt.Errorf("")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]
			message := strings.Join(args[1:], " ")
			if err := validateMessage(message); err != nil {
				return err
			}

			if _, err := client.SendMessage(cmd.Context(), target, message); err != nil {
				return fmt.Errorf("send: %w", err)
			}
			colors.Success("sent to " + target)
			return nil
		},
	}

	return sendCmd
}

// validateMessage rejects messages the service would refuse.
func validateMessage(message string) error {
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("message cannot be empty")
	}
	if len(message) > maxMessageLength {
		return fmt.Errorf("message too long: %d characters (max %d)", len(message), maxMessageLength)
	}
	return nil
}
