/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"context"

	"github.com/cristianoliveira/tmux-chatwatch/internal/colors"
	"github.com/cristianoliveira/tmux-chatwatch/internal/config"
	"github.com/cristianoliveira/tmux-chatwatch/internal/core"
	"github.com/cristianoliveira/tmux-chatwatch/internal/format"
	"github.com/cristianoliveira/tmux-chatwatch/internal/search"
	"github.com/spf13/cobra"
)

type channelsClient interface {
	Conversations(ctx context.Context) ([]core.Conversation, error)
	UnreadCounts(ctx context.Context, conversations []core.Conversation) ([]core.Unread, error)
}

// NewChannelsCmd creates the channels command with explicit dependencies.
func NewChannelsCmd(client channelsClient) *cobra.Command {
	if client == nil {
		panic("NewChannelsCmd: client dependency cannot be nil")
	}

	var noCountsFlag bool
	var filterFlag string
	var regexFlag bool

	channelsCmd := &cobra.Command{
		Use:   "channels",
		Short: "List watched conversations",
		Long: `List watched conversations: channels you are a member of plus pinned
direct messages.

USAGE:
    tmux-chatwatch channels [OPTIONS]

OPTIONS:
    --no-counts         Skip the unread lookup, list names only
    --filter <query>    Show only matching conversations. Tokens AND
                        together; "unread" and "read" filter by state
    --regex             Treat the filter query as a regular expression
    -h, --help          Show this help

Unread counts are capped at the configured lookback window (default 100
messages per conversation).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config.Load()

			conversations, err := client.Conversations(cmd.Context())
			if err != nil {
				return err
			}
			if len(conversations) == 0 {
				colors.Info("No conversations watched")
				return nil
			}

			tableConfig := format.TableConfigFor(config.Get("table_format", "default"))

			var entries []format.ConversationStatus
			withCounts := !noCountsFlag
			if withCounts {
				unreads, err := client.UnreadCounts(cmd.Context(), conversations)
				if err != nil {
					return err
				}
				entries = toStatuses(unreads)
			} else {
				entries = make([]format.ConversationStatus, len(conversations))
				for i, conversation := range conversations {
					entries[i] = format.ConversationStatus{
						ID:   conversation.ID,
						Name: conversation.Name,
						Kind: conversation.Kind,
					}
				}
			}

			entries = filterConversations(entries, filterFlag, regexFlag)
			if len(entries) == 0 {
				colors.Info("No conversations matched")
				return nil
			}

			format.SortByName(entries)
			return format.WriteConversations(cmd.OutOrStdout(), tableConfig, entries, withCounts)
		},
	}

	channelsCmd.Flags().BoolVar(&noCountsFlag, "no-counts", false, "Skip the unread lookup, list names only")
	channelsCmd.Flags().StringVar(&filterFlag, "filter", "", "Show only matching conversations")
	channelsCmd.Flags().BoolVar(&regexFlag, "regex", false, "Treat the filter query as a regular expression")

	return channelsCmd
}

// filterConversations drops the entries not matching the filter query.
func filterConversations(entries []format.ConversationStatus, query string, regex bool) []format.ConversationStatus {
	if query == "" {
		return entries
	}
	provider := conversationFilter(regex)
	var out []format.ConversationStatus
	for _, entry := range entries {
		row := search.Entry{
			ID:     entry.ID,
			Name:   entry.Name,
			Kind:   entry.Kind,
			Unread: entry.Count > 0,
		}
		if provider.Match(row, query) {
			out = append(out, entry)
		}
	}
	return out
}

// conversationFilter picks the matching strategy for the channels
// listing: token matching for plain queries, regex when requested.
func conversationFilter(regex bool) search.Provider {
	if regex {
		return search.NewRegexProvider()
	}
	return search.NewTokenProvider(search.WithCaseInsensitive(true))
}
