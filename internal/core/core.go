// Package core wires the workspace gateway, the unread accounting
// engine, and local storage into the operations the CLI commands run.
package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/cristianoliveira/tmux-chatwatch/internal/config"
	"github.com/cristianoliveira/tmux-chatwatch/internal/domain"
	"github.com/cristianoliveira/tmux-chatwatch/internal/pool"
	"github.com/cristianoliveira/tmux-chatwatch/internal/slack"
	"github.com/cristianoliveira/tmux-chatwatch/internal/storage"
	"github.com/cristianoliveira/tmux-chatwatch/internal/tmux"
	"github.com/cristianoliveira/tmux-chatwatch/internal/unread"
)

// ErrNoToken is returned by operations that need the workspace API when
// no token is configured.
var ErrNoToken = errors.New("no workspace token configured (set TMUX_CHATWATCH_TOKEN or the token config key)")

// TokenSource resolves the workspace credential.
type TokenSource interface {
	Token() (string, bool)
}

// API is the slice of the workspace client the core operations need.
type API interface {
	AuthTest(ctx context.Context) (*slack.Identity, error)
	ListChannels(ctx context.Context, opts slack.ListChannelsOptions) ([]slack.Channel, error)
	ChannelInfo(ctx context.Context, channelID string) (*slack.Channel, error)
	History(ctx context.Context, channelID string, opts slack.HistoryOptions) ([]slack.Message, error)
	MarkRead(ctx context.Context, channelID, ts string) error
	PostMessage(ctx context.Context, channelID, text string) (string, error)
	UserInfo(ctx context.Context, userID string) (*slack.User, error)
	ListUsers(ctx context.Context) ([]slack.User, error)
	OpenDM(ctx context.Context, userID string) (string, error)
}

// Conversation is one watchable conversation and where it came from.
type Conversation struct {
	ID     string
	Name   string
	Kind   string // "channel", "private", or "dm"
	Pinned bool
}

// Unread is a conversation together with its derived unread count.
type Unread struct {
	Conversation
	Count int
}

// Core executes workspace operations on behalf of the CLI commands.
// The API client is built lazily on first use, so commands that stay
// local never need a token.
type Core struct {
	tokens TokenSource
	store  storage.Storage
	client tmux.TmuxClient

	// newAPI builds the workspace client for a token. Replaceable in
	// tests.
	newAPI func(token string) (API, error)

	mu      sync.Mutex
	api     API
	counter *unread.Counter
	token   string
}

// New creates a Core with production wiring.
func New(tokens TokenSource, store storage.Storage, client tmux.TmuxClient) *Core {
	return &Core{
		tokens: tokens,
		store:  store,
		client: client,
		newAPI: newSlackAPI,
	}
}

// newSlackAPI builds the production workspace client from configuration.
func newSlackAPI(token string) (API, error) {
	config.Load()
	return slack.New(slack.Config{
		BaseURL: config.Get("slack_api_url", slack.DefaultBaseURL),
		Token:   token,
		Timeout: config.GetDuration("slack_timeout", slack.DefaultTimeout),
	})
}

// SessionFor builds an independent client and counter for the given
// token, bypassing the cache. Pollers that manage their own session
// lifecycle use this.
func (c *Core) SessionFor(token string) (API, *unread.Counter, error) {
	api, err := c.newAPI(token)
	if err != nil {
		return nil, nil, fmt.Errorf("creating workspace client: %w", err)
	}
	return api, unread.NewCounter(api, config.GetInt("unread_window", unread.DefaultWindow)), nil
}

// session returns the cached client and counter for the current token,
// rebuilding both when the token changed.
func (c *Core) session() (API, *unread.Counter, error) {
	token, ok := c.tokens.Token()
	if !ok {
		return nil, nil, ErrNoToken
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.api != nil && c.token == token {
		return c.api, c.counter, nil
	}

	api, counter, err := c.SessionFor(token)
	if err != nil {
		return nil, nil, err
	}
	c.api = api
	c.counter = counter
	c.token = token
	return api, counter, nil
}

// Identity verifies the configured credential against the workspace.
func (c *Core) Identity(ctx context.Context) (*slack.Identity, error) {
	api, _, err := c.session()
	if err != nil {
		return nil, err
	}
	return api.AuthTest(ctx)
}

// Conversations returns the candidate set: channels the user is a
// member of plus pinned direct messages, deduplicated by id.
func (c *Core) Conversations(ctx context.Context) ([]Conversation, error) {
	api, _, err := c.session()
	if err != nil {
		return nil, err
	}

	types := []string{"public_channel"}
	if config.GetBool("watch_include_private", true) {
		types = append(types, "private_channel")
	}
	channels, err := api.ListChannels(ctx, slack.ListChannelsOptions{
		Types:           types,
		ExcludeArchived: true,
	})
	if err != nil {
		return nil, fmt.Errorf("listing channels: %w", err)
	}

	var out []Conversation
	seen := make(map[string]bool)
	for _, channel := range channels {
		if !channel.IsMember || channel.IsArchived || seen[channel.ID] {
			continue
		}
		kind := "channel"
		if channel.IsPrivate || channel.IsGroup {
			kind = "private"
		}
		seen[channel.ID] = true
		out = append(out, Conversation{ID: channel.ID, Name: channel.DisplayName(), Kind: kind})
	}

	if config.GetBool("watch_include_ims", true) && c.store != nil {
		pins, err := c.store.ListPins()
		if err != nil {
			return nil, fmt.Errorf("listing pins: %w", err)
		}
		for _, pin := range pins {
			if seen[pin.ConversationID] {
				continue
			}
			seen[pin.ConversationID] = true
			out = append(out, Conversation{
				ID:     pin.ConversationID,
				Name:   pin.Label(),
				Kind:   "dm",
				Pinned: true,
			})
		}
	}
	return out, nil
}

// UnreadCounts derives the unread count for each conversation, fanned
// out under the configured concurrency bound.
func (c *Core) UnreadCounts(ctx context.Context, conversations []Conversation) ([]Unread, error) {
	_, counter, err := c.session()
	if err != nil {
		return nil, err
	}

	limit := config.GetInt("slack_concurrency", 5)
	counts := pool.Map(ctx, len(conversations), limit, func(ctx context.Context, i int) (int, error) {
		return counter.Count(ctx, conversations[i].ID), nil
	}, nil)

	out := make([]Unread, len(conversations))
	for i, conversation := range conversations {
		out[i] = Unread{Conversation: conversation, Count: counts[i]}
	}
	return out, nil
}

// Scan lists the candidate conversations and derives their unread
// counts in one pass.
func (c *Core) Scan(ctx context.Context) ([]Unread, error) {
	conversations, err := c.Conversations(ctx)
	if err != nil {
		return nil, err
	}
	return c.UnreadCounts(ctx, conversations)
}

// SendMessage posts text to the resolved conversation and returns the
// posted message's timestamp token.
func (c *Core) SendMessage(ctx context.Context, target, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", errors.New("send message: message cannot be empty")
	}

	api, _, err := c.session()
	if err != nil {
		return "", err
	}
	conversation, err := c.ResolveConversation(ctx, target)
	if err != nil {
		return "", err
	}

	ts, err := api.PostMessage(ctx, conversation.ID, text)
	if err != nil {
		return "", fmt.Errorf("sending to %s: %w", conversation.Name, err)
	}
	return ts, nil
}

// MarkConversationRead moves the conversation's read marker past its
// newest message and returns the conversation's display name. A
// conversation with no messages is already read.
func (c *Core) MarkConversationRead(ctx context.Context, target string) (string, error) {
	api, _, err := c.session()
	if err != nil {
		return "", err
	}
	conversation, err := c.ResolveConversation(ctx, target)
	if err != nil {
		return "", err
	}

	messages, err := api.History(ctx, conversation.ID, slack.HistoryOptions{Limit: 1})
	if err != nil {
		return "", fmt.Errorf("fetching latest message of %s: %w", conversation.Name, err)
	}
	if len(messages) == 0 {
		return conversation.Name, nil
	}
	if err := api.MarkRead(ctx, conversation.ID, messages[0].TS); err != nil {
		return "", fmt.Errorf("marking %s read: %w", conversation.Name, err)
	}
	return conversation.Name, nil
}

// History returns the recorded notifications, newest first.
func (c *Core) History(limit int) ([]domain.HistoryEntry, error) {
	if c.store == nil {
		return nil, errors.New("storage is not available")
	}
	return c.store.ListHistory(limit)
}

// CleanupHistory deletes notification records older than the threshold
// and reports how many were (or would be, with dryRun) removed.
func (c *Core) CleanupHistory(days int, dryRun bool) (int64, error) {
	if c.store == nil {
		return 0, errors.New("storage is not available")
	}
	return c.store.CleanupHistory(days, dryRun)
}
