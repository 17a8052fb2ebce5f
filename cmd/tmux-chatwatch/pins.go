/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"context"
	"strings"

	"github.com/cristianoliveira/tmux-chatwatch/internal/colors"
	"github.com/cristianoliveira/tmux-chatwatch/internal/config"
	"github.com/cristianoliveira/tmux-chatwatch/internal/domain"
	"github.com/cristianoliveira/tmux-chatwatch/internal/format"
	"github.com/spf13/cobra"
)

type pinsClient interface {
	Pins() ([]domain.Pin, error)
	PinUser(ctx context.Context, query string) (domain.Pin, error)
	UnpinConversation(target string) error
}

// NewPinsCmd creates the pins command group with explicit dependencies.
func NewPinsCmd(client pinsClient) *cobra.Command {
	if client == nil {
		panic("NewPinsCmd: client dependency cannot be nil")
	}

	pinsCmd := &cobra.Command{
		Use:   "pins",
		Short: "Manage pinned direct-message conversations",
		Long: `Manage pinned direct-message conversations.

Direct messages carry no membership, so the watcher only sees the ones you
pin. Pinning resolves the user, opens (or resumes) the conversation, and
stores it for watching.

USAGE:
    tmux-chatwatch pins [list]
    tmux-chatwatch pins add <user>
    tmux-chatwatch pins remove <target>`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPinsList(cmd, client)
		},
	}

	pinsCmd.AddCommand(newPinsListCmd(client))
	pinsCmd.AddCommand(newPinsAddCmd(client))
	pinsCmd.AddCommand(newPinsRemoveCmd(client))

	return pinsCmd
}

func newPinsListCmd(client pinsClient) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pinned conversations",
		Long:  `List pinned conversations in the order they were added.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPinsList(cmd, client)
		},
	}
}

func runPinsList(cmd *cobra.Command, client pinsClient) error {
	config.Load()

	pins, err := client.Pins()
	if err != nil {
		return err
	}
	if len(pins) == 0 {
		colors.Info("No pinned conversations")
		return nil
	}

	tableConfig := format.TableConfigFor(config.Get("table_format", "default"))
	dateLayout := config.Get("date_format", "2006-01-02 15:04:05")
	return format.WritePins(cmd.OutOrStdout(), tableConfig, pins, dateLayout)
}

func newPinsAddCmd(client pinsClient) *cobra.Command {
	return &cobra.Command{
		Use:   "add <user>",
		Short: "Pin a direct-message conversation",
		Long: `Pin a direct-message conversation.

The user may be given as an id, a handle, or a display name, with or
without a leading "@".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pin, err := client.PinUser(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			colors.Success("pinned " + pin.Label())
			return nil
		},
	}
}

func newPinsRemoveCmd(client pinsClient) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <target>",
		Short: "Unpin a direct-message conversation",
		Long: `Unpin a direct-message conversation.

The target may be the conversation id, the user id, or the pinned name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(args[0])
			if err := client.UnpinConversation(target); err != nil {
				return err
			}
			colors.Success("unpinned " + target)
			return nil
		},
	}
}
