// Package unread derives per-conversation unread counts. The workspace API
// does not expose a count directly, so it is reconstructed from the
// last-read marker plus a bounded history window. Counting never fails:
// every internal error degrades to zero, because a stale unread signal is
// better than a crashed watcher.
package unread

import (
	"context"
	"strings"
	"sync"

	"github.com/cristianoliveira/tmux-chatwatch/internal/colors"
	"github.com/cristianoliveira/tmux-chatwatch/internal/slack"
)

// DefaultWindow is the history lookback cap. Conversations with a larger
// backlog report at most this many unread messages; the count is an
// approximation, not a full backlog tally.
const DefaultWindow = 100

// API is the slice of the workspace client the counter needs.
type API interface {
	AuthTest(ctx context.Context) (*slack.Identity, error)
	ChannelInfo(ctx context.Context, channelID string) (*slack.Channel, error)
	History(ctx context.Context, channelID string, opts slack.HistoryOptions) ([]slack.Message, error)
}

// Counter computes unread counts for one authenticated session. Construct
// one per session; instances share no state, so tests never leak identity
// caches between runs. Safe for concurrent use.
type Counter struct {
	api    API
	window int

	identityOnce sync.Once
	selfID       string
}

// NewCounter creates a Counter. window caps the history lookback; values
// below 1 fall back to DefaultWindow.
func NewCounter(api API, window int) *Counter {
	if window < 1 {
		window = DefaultWindow
	}
	return &Counter{api: api, window: window}
}

// Count returns the number of unread messages in the conversation: messages
// strictly after the last-read marker, excluding system events and the
// session's own messages, capped by the window. Always non-negative; any
// failure along the way yields zero.
func (c *Counter) Count(ctx context.Context, conversationID string) int {
	channel, err := c.api.ChannelInfo(ctx, conversationID)
	if err != nil {
		colors.StructuredDebug("unread", "count", "info_failed", err, conversationID, nil)
		return 0
	}
	if markerAbsent(channel.LastRead) {
		// Never visited means zero unread, not "everything unread".
		return 0
	}

	messages, err := c.api.History(ctx, conversationID, slack.HistoryOptions{
		Oldest: channel.LastRead,
		Limit:  c.window,
	})
	if err != nil {
		colors.StructuredDebug("unread", "count", "history_failed", err, conversationID, nil)
		return 0
	}

	selfID := c.selfUserID(ctx)
	count := 0
	for _, message := range messages {
		if message.Subtype != "" {
			continue
		}
		if selfID != "" && message.User == selfID {
			continue
		}
		count++
	}
	return count
}

// selfUserID resolves the session's own user id, once. When resolution
// fails the empty id is cached and self-authored messages simply stay in
// the count.
func (c *Counter) selfUserID(ctx context.Context) string {
	c.identityOnce.Do(func() {
		identity, err := c.api.AuthTest(ctx)
		if err != nil {
			colors.StructuredWarn("unread", "resolve_identity", "failed", err, "", nil)
			return
		}
		c.selfID = identity.UserID
	})
	return c.selfID
}

// markerAbsent reports whether the last-read marker denotes a conversation
// that was never read. The service encodes that either as an empty string
// or as an all-zero timestamp token.
func markerAbsent(marker string) bool {
	return strings.Trim(marker, "0.") == ""
}
