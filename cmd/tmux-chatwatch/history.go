/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"time"

	"github.com/cristianoliveira/tmux-chatwatch/internal/colors"
	"github.com/cristianoliveira/tmux-chatwatch/internal/config"
	"github.com/cristianoliveira/tmux-chatwatch/internal/dedup"
	"github.com/cristianoliveira/tmux-chatwatch/internal/domain"
	"github.com/cristianoliveira/tmux-chatwatch/internal/format"
	"github.com/cristianoliveira/tmux-chatwatch/internal/search"
	"github.com/spf13/cobra"
)

type historyClient interface {
	History(limit int) ([]domain.HistoryEntry, error)
}

// NewHistoryCmd creates the history command with explicit dependencies.
func NewHistoryCmd(client historyClient) *cobra.Command {
	if client == nil {
		panic("NewHistoryCmd: client dependency cannot be nil")
	}

	var limitFlag int
	var filterFlag string
	var regexFlag bool
	var groupFlag bool

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded notifications",
		Long: `Show recorded notifications, newest first.

USAGE:
    tmux-chatwatch history [OPTIONS]

OPTIONS:
    --limit <n>         Show at most n entries (default: 20, 0 shows all)
    --filter <query>    Show only entries matching the conversation id
                        or name
    --regex             Treat the filter query as a regular expression
    --group             Collapse bursts: one row per conversation per
                        history_group_window, with summed counts
    -h, --help          Show this help`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config.Load()

			entries, err := client.History(limitFlag)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				colors.Info("No notifications recorded")
				return nil
			}

			entries = filterHistory(entries, filterFlag, regexFlag)
			if len(entries) == 0 {
				colors.Info("No notifications matched")
				return nil
			}

			tableConfig := format.TableConfigFor(config.Get("table_format", "default"))
			dateLayout := config.Get("date_format", "2006-01-02 15:04:05")
			if groupFlag {
				return format.WriteHistoryGroups(cmd.OutOrStdout(), tableConfig, groupHistory(entries), dateLayout)
			}
			return format.WriteHistory(cmd.OutOrStdout(), tableConfig, entries, dateLayout)
		},
	}

	historyCmd.Flags().IntVar(&limitFlag, "limit", 20, "Show at most n entries (0 shows all)")
	historyCmd.Flags().StringVar(&filterFlag, "filter", "", "Show only matching entries")
	historyCmd.Flags().BoolVar(&regexFlag, "regex", false, "Treat the filter query as a regular expression")
	historyCmd.Flags().BoolVar(&groupFlag, "group", false, "Collapse notification bursts")

	return historyCmd
}

// filterHistory drops the entries not matching the filter query.
func filterHistory(entries []domain.HistoryEntry, query string, regex bool) []domain.HistoryEntry {
	if query == "" {
		return entries
	}
	provider := historyFilter(regex)
	var out []domain.HistoryEntry
	for _, entry := range entries {
		row := search.Entry{ID: entry.ConversationID, Name: entry.Name}
		if provider.Match(row, query) {
			out = append(out, entry)
		}
	}
	return out
}

// historyFilter picks the matching strategy for the history listing:
// substring matching for plain queries, regex when requested.
func historyFilter(regex bool) search.Provider {
	fields := search.WithFields([]string{"id", "name"})
	if regex {
		return search.NewRegexProvider(fields)
	}
	return search.NewSubstringProvider(fields)
}

// groupHistory collapses entries into bursts. Entries arrive newest
// first; each burst keeps the position and timestamp of its newest
// entry and sums the rest.
func groupHistory(entries []domain.HistoryEntry) []format.HistoryGroup {
	records := make([]dedup.Record, len(entries))
	for i, entry := range entries {
		records[i] = dedup.Record{
			ConversationID: entry.ConversationID,
			Name:           entry.Name,
			Timestamp:      entry.Timestamp,
		}
	}
	keys := dedup.BuildKeys(records, dedup.Options{
		Criteria: dedup.ParseCriteria(config.Get("history_group_by", "conversation")),
		Window:   config.GetDuration("history_group_window", 5*time.Minute),
	})

	index := make(map[string]int)
	var groups []format.HistoryGroup
	for i, entry := range entries {
		if at, ok := index[keys[i]]; ok {
			groups[at].Delta += entry.Delta
			groups[at].Events++
			continue
		}
		index[keys[i]] = len(groups)
		groups = append(groups, format.HistoryGroup{
			Name:      entry.Name,
			Timestamp: entry.Timestamp,
			Delta:     entry.Delta,
			Events:    1,
		})
	}
	return groups
}
