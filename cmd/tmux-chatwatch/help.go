/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/cristianoliveira/tmux-chatwatch/internal/colors"
	"github.com/spf13/cobra"
)

// printHelp prints the root help with commands in a fixed order.
func printHelp(cmd *cobra.Command, w io.Writer) {
	commandOrder := []string{
		"watch",
		"status",
		"channels",
		"pins",
		"send",
		"read",
		"history",
		"cleanup",
		"help",
		"version",
	}

	// Build command descriptions with colors
	var cmdLines []string
	for _, name := range commandOrder {
		var found *cobra.Command
		for _, c := range cmd.Commands() {
			if c.Name() == name {
				found = c
				break
			}
		}
		if found == nil {
			continue
		}
		cmdLines = append(cmdLines, fmt.Sprintf("    %s%-16s%s %s%s%s",
			colors.Cyan, found.Name(), colors.Reset, colors.Green, found.Short, colors.Reset))
	}

	headerColor := colors.Blue
	reset := colors.Reset

	versionStr := cmd.Version
	if versionStr == "" {
		versionStr = "0.0.0"
	}

	helpText := fmt.Sprintf(`%stmux-chatwatch v%s%s

%sUnread Slack conversations, surfaced in your tmux status line.%s

%sUSAGE:%s
    tmux-chatwatch [COMMAND] [OPTIONS]

%sCOMMANDS:%s
%s

%sOPTIONS:%s
    -h, --help      Show help message
`, headerColor, versionStr, reset, colors.Cyan, reset, headerColor, reset, headerColor, reset, strings.Join(cmdLines, "\n"), headerColor, reset)
	fmt.Fprint(w, helpText)
}

// NewHelpCmd creates the help command.
func NewHelpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "help",
		Short: "Show this help message",
		Long:  `Show this help message.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				printHelp(cmd.Root(), cmd.OutOrStdout())
				return nil
			}
			// Find the subcommand
			targetCmd, _, err := cmd.Root().Find(args)
			if err != nil || targetCmd == nil {
				printHelp(cmd.Root(), cmd.OutOrStdout())
				return nil
			}
			return targetCmd.Help()
		},
	}
}
