/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"context"

	"github.com/cristianoliveira/tmux-chatwatch/internal/config"
	"github.com/cristianoliveira/tmux-chatwatch/internal/core"
	"github.com/cristianoliveira/tmux-chatwatch/internal/format"
	"github.com/spf13/cobra"
)

type statusClient interface {
	Scan(ctx context.Context) ([]core.Unread, error)
}

// NewStatusCmd creates the status command with explicit dependencies.
func NewStatusCmd(client statusClient) *cobra.Command {
	if client == nil {
		panic("NewStatusCmd: client dependency cannot be nil")
	}

	var formatFlag string

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show unread conversation counts",
		Long: `Show unread conversation counts.

USAGE:
    tmux-chatwatch status [OPTIONS]

OPTIONS:
    --format=<style>    Output style (default: TMUX_CHATWATCH_STATUS_FORMAT config value)
    -h, --help          Show this help

STYLES:
    compact      name:count pairs for conversations with unread messages
    detailed     summary line plus one line per unread conversation
    count-only   the total unread count as a bare number

EXAMPLES:
    tmux-chatwatch status                      # #general:3 @bob:1
    tmux-chatwatch status --format=count-only  # 4
    set -g status-right '#(tmux-chatwatch status --format=count-only)'

Counts only look at the last TMUX_CHATWATCH_UNREAD_WINDOW messages per
conversation (default 100), so a larger backlog shows as the window size.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config.Load()
			style := determineStatusStyle(cmd, formatFlag)

			unreads, err := client.Scan(cmd.Context())
			if err != nil {
				return err
			}
			return format.WriteStatus(cmd.OutOrStdout(), style, toStatuses(unreads))
		},
	}

	statusCmd.Flags().StringVar(&formatFlag, "format", "", "Output style: compact, detailed, or count-only")

	return statusCmd
}

// determineStatusStyle resolves the style: the flag wins, then the
// status_format configuration key.
func determineStatusStyle(cmd *cobra.Command, flagValue string) format.StatusStyle {
	if cmd.Flags().Changed("format") {
		return format.ParseStatusStyle(flagValue)
	}
	return format.ParseStatusStyle(config.Get("status_format", string(format.StatusStyleCompact)))
}

// toStatuses converts scan results to the formatter's view.
func toStatuses(unreads []core.Unread) []format.ConversationStatus {
	out := make([]format.ConversationStatus, len(unreads))
	for i, unread := range unreads {
		out[i] = format.ConversationStatus{
			ID:    unread.ID,
			Name:  unread.Name,
			Kind:  unread.Kind,
			Count: unread.Count,
		}
	}
	return out
}
