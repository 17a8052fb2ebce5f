/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"github.com/cristianoliveira/tmux-chatwatch/internal/version"
	"github.com/spf13/cobra"
)

// newRootCmd builds the base command; run attaches the subcommands.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "tmux-chatwatch",
		Short:        "Unread Slack conversations, surfaced in your tmux status line.",
		Long:         `Unread Slack conversations, surfaced in your tmux status line.`,
		Version:      version.String(),
		SilenceUsage: true,
	}

	// Hide the completion command
	root.CompletionOptions.HiddenDefaultCmd = true

	// Custom help that lists commands in a fixed order
	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		printHelp(cmd, cmd.OutOrStdout())
	})

	return root
}
