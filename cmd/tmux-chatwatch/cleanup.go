/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"fmt"

	"github.com/cristianoliveira/tmux-chatwatch/internal/config"
	"github.com/spf13/cobra"
)

type cleanupClient interface {
	CleanupHistory(days int, dryRun bool) (int64, error)
}

// NewCleanupCmd creates the cleanup command with explicit dependencies.
func NewCleanupCmd(client cleanupClient) *cobra.Command {
	if client == nil {
		panic("NewCleanupCmd: client dependency cannot be nil")
	}

	var daysFlag int
	var dryRunFlag bool

	cleanupCmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Clean up old notification records",
		Long: `Clean up old notification records.

Deletes history entries older than the configured auto-cleanup days.
This keeps the local database from growing without bound.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config.Load()

			days := daysFlag
			if days == 0 {
				days = config.GetInt("auto_cleanup_days", 30)
			}

			if days <= 0 {
				return fmt.Errorf("days must be a positive integer")
			}

			cmd.Printf("Cleaning up notifications older than %d days\n", days)

			removed, err := client.CleanupHistory(days, dryRunFlag)
			if err != nil {
				return fmt.Errorf("cleanup failed: %w", err)
			}

			if dryRunFlag {
				cmd.Printf("Dry run: %d record(s) would be removed\n", removed)
				return nil
			}
			cmd.Printf("Removed %d record(s)\n", removed)
			return nil
		},
	}

	// Default days 0 means "use config value"
	cleanupCmd.Flags().IntVar(&daysFlag, "days", 0, "Clean up records older than N days (default: TMUX_CHATWATCH_AUTO_CLEANUP_DAYS config value)")
	cleanupCmd.Flags().BoolVar(&dryRunFlag, "dryrun", false, "Show what would be deleted without actually deleting")

	return cleanupCmd
}
