// Package slack executes authenticated calls against a Slack-compatible
// workspace API. One call is one form-encoded POST; responses are JSON
// envelopes with an ok flag. Listing calls follow continuation cursors to
// the end, and every failure is classified through a small error taxonomy
// so callers react to kinds, not raw codes.
package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cristianoliveira/tmux-chatwatch/internal/colors"
)

const (
	// DefaultBaseURL is the public API root.
	DefaultBaseURL = "https://slack.com/api/"
	// DefaultTimeout bounds each HTTP round trip.
	DefaultTimeout = 10 * time.Second
	// defaultPageLimit is the per-request page size for listing calls.
	defaultPageLimit = 200
)

// Config holds the settings for constructing a Client.
type Config struct {
	// BaseURL is the API root. Empty means DefaultBaseURL.
	BaseURL string
	// Token is the bearer credential attached to every call.
	Token string
	// Timeout bounds each HTTP round trip. Zero means DefaultTimeout.
	Timeout time.Duration
	// HTTPClient overrides the transport. When nil, one is built from
	// Timeout. Tests inject the httptest client here.
	HTTPClient *http.Client
}

// Client executes authenticated workspace API calls. It is safe for
// concurrent use; the fan-out helpers in other packages share one instance.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a Client. An empty token is allowed at construction; calls
// made with it fail with an auth error from the remote side.
func New(cfg Config) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	// Validate the URL structure. The string form is stored with the
	// trailing slash stripped and request URLs are built by concatenation.
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("slack: invalid base URL %q: %w", baseURL, err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      cfg.Token,
		httpClient: httpClient,
	}, nil
}

// call performs one POST to <baseURL>/<method> with a form-encoded body and
// returns the raw response body. An HTTP error status or a non-ok envelope
// comes back as *APIError; the body is returned alongside the error so
// callers can inspect method-specific failure fields.
func (c *Client) call(ctx context.Context, method string, params url.Values) ([]byte, error) {
	start := time.Now()
	if params == nil {
		params = url.Values{}
	}
	colors.StructuredDebug("slack", "call", "started", nil, method, map[string]interface{}{"params_count": len(params)})

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+method, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("slack: failed to create request for %s: %w", method, err)
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	request.Header.Set("Authorization", "Bearer "+c.token)

	response, err := c.httpClient.Do(request)
	if err != nil {
		apiErr := transportError(err)
		colors.StructuredError("slack", "call", "failed", apiErr, method, nil)
		return nil, apiErr
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		apiErr := transportError(err)
		colors.StructuredError("slack", "call", "failed", apiErr, method, nil)
		return nil, apiErr
	}

	duration := time.Since(start).Seconds()

	// Rate limiting arrives as HTTP 429 with a Retry-After header, with or
	// without a JSON body.
	if response.StatusCode == http.StatusTooManyRequests {
		apiErr := classify("ratelimited", "", response.StatusCode, retryAfter(response))
		colors.StructuredError("slack", "call", "failed", apiErr, method, map[string]interface{}{"status": response.StatusCode, "duration_seconds": duration})
		return body, apiErr
	}

	var env envelope
	if jsonErr := json.Unmarshal(body, &env); jsonErr != nil {
		if response.StatusCode < 200 || response.StatusCode >= 300 {
			return nil, fmt.Errorf("slack: unexpected %d response from %s: %s", response.StatusCode, method, strings.TrimSpace(string(body)))
		}
		return nil, fmt.Errorf("slack: failed to parse %s response: %w", method, jsonErr)
	}

	if !env.OK {
		apiErr := classify(env.Error, env.Needed, response.StatusCode, retryAfter(response))
		colors.StructuredError("slack", "call", "failed", apiErr, method, map[string]interface{}{"code": env.Error, "duration_seconds": duration})
		return body, apiErr
	}

	colors.StructuredDebug("slack", "call", "completed", nil, method, map[string]interface{}{"duration_seconds": duration})
	return body, nil
}

// retryAfter parses the Retry-After header as a second count. Zero when
// absent or unparseable.
func retryAfter(response *http.Response) time.Duration {
	header := response.Header.Get("Retry-After")
	if header == "" {
		return 0
	}
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// AuthTest verifies the session credential and returns the authenticated
// identity, including the session's own user id.
func (c *Client) AuthTest(ctx context.Context) (*Identity, error) {
	body, err := c.call(ctx, "auth.test", nil)
	if err != nil {
		return nil, fmt.Errorf("slack: auth test failed: %w", err)
	}

	var identity Identity
	if err := json.Unmarshal(body, &identity); err != nil {
		return nil, fmt.Errorf("slack: failed to parse auth.test response: %w", err)
	}
	return &identity, nil
}

// ListChannelsOptions narrows a conversations listing.
type ListChannelsOptions struct {
	// Types restricts the listing to the given conversation types, e.g.
	// "public_channel", "private_channel", "im". Empty means the server
	// default (public channels only).
	Types []string
	// ExcludeArchived omits archived conversations server-side.
	ExcludeArchived bool
	// PageLimit is the per-request page size. Zero means 200. The listing
	// always follows cursors to the final page regardless.
	PageLimit int
}

// ListChannels returns every conversation visible to the session, following
// continuation cursors until the final page. Order within and across pages
// is preserved. A cursor identical to its predecessor ends the loop early;
// the service should never do that, but an endless loop is worse than a
// short listing.
func (c *Client) ListChannels(ctx context.Context, opts ListChannelsOptions) ([]Channel, error) {
	pageLimit := opts.PageLimit
	if pageLimit <= 0 {
		pageLimit = defaultPageLimit
	}

	var channels []Channel
	cursor := ""
	for {
		params := url.Values{}
		params.Set("limit", strconv.Itoa(pageLimit))
		if len(opts.Types) > 0 {
			params.Set("types", strings.Join(opts.Types, ","))
		}
		if opts.ExcludeArchived {
			params.Set("exclude_archived", "true")
		}
		if cursor != "" {
			params.Set("cursor", cursor)
		}

		body, err := c.call(ctx, "conversations.list", params)
		if err != nil {
			return nil, fmt.Errorf("slack: listing conversations failed: %w", err)
		}

		var page channelListResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("slack: failed to parse conversations.list response: %w", err)
		}
		channels = append(channels, page.Channels...)

		next := page.ResponseMetadata.NextCursor
		if next == "" {
			return channels, nil
		}
		if next == cursor {
			colors.StructuredWarn("slack", "list_channels", "repeated_cursor", nil, next, nil)
			return channels, nil
		}
		cursor = next
	}
}

// ChannelInfo fetches one conversation's metadata, including the last-read
// marker.
func (c *Client) ChannelInfo(ctx context.Context, channelID string) (*Channel, error) {
	params := url.Values{}
	params.Set("channel", channelID)

	body, err := c.call(ctx, "conversations.info", params)
	if err != nil {
		return nil, fmt.Errorf("slack: fetching info for %s failed: %w", channelID, err)
	}

	var info channelInfoResponse
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("slack: failed to parse conversations.info response: %w", err)
	}
	if info.Channel.ID == "" {
		return nil, fmt.Errorf("slack: conversations.info response for %s carries no channel", channelID)
	}
	return &info.Channel, nil
}

// HistoryOptions bounds a history fetch.
type HistoryOptions struct {
	// Oldest restricts the fetch to messages strictly after this timestamp
	// token. Empty means from the beginning.
	Oldest string
	// Limit caps the number of returned messages. Zero means the server
	// default. History is a single bounded call, never paginated; the
	// limit is the lookback window.
	Limit int
}

// History fetches one bounded page of conversation history, newest first.
func (c *Client) History(ctx context.Context, channelID string, opts HistoryOptions) ([]Message, error) {
	params := url.Values{}
	params.Set("channel", channelID)
	if opts.Oldest != "" {
		params.Set("oldest", opts.Oldest)
	}
	if opts.Limit > 0 {
		params.Set("limit", strconv.Itoa(opts.Limit))
	}

	body, err := c.call(ctx, "conversations.history", params)
	if err != nil {
		return nil, fmt.Errorf("slack: fetching history for %s failed: %w", channelID, err)
	}

	var history historyResponse
	if err := json.Unmarshal(body, &history); err != nil {
		return nil, fmt.Errorf("slack: failed to parse conversations.history response: %w", err)
	}
	return history.Messages, nil
}

// MarkRead moves the conversation's last-read marker to the given timestamp
// token.
func (c *Client) MarkRead(ctx context.Context, channelID, ts string) error {
	params := url.Values{}
	params.Set("channel", channelID)
	params.Set("ts", ts)

	if _, err := c.call(ctx, "conversations.mark", params); err != nil {
		return fmt.Errorf("slack: marking %s read failed: %w", channelID, err)
	}
	return nil
}

// PostMessage sends text to a conversation and returns the new message's
// timestamp token.
func (c *Client) PostMessage(ctx context.Context, channelID, text string) (string, error) {
	params := url.Values{}
	params.Set("channel", channelID)
	params.Set("text", text)

	body, err := c.call(ctx, "chat.postMessage", params)
	if err != nil {
		return "", fmt.Errorf("slack: posting to %s failed: %w", channelID, err)
	}

	var posted postMessageResponse
	if err := json.Unmarshal(body, &posted); err != nil {
		return "", fmt.Errorf("slack: failed to parse chat.postMessage response: %w", err)
	}
	return posted.TS, nil
}

// UserInfo resolves one user id to its workspace record.
func (c *Client) UserInfo(ctx context.Context, userID string) (*User, error) {
	params := url.Values{}
	params.Set("user", userID)

	body, err := c.call(ctx, "users.info", params)
	if err != nil {
		return nil, fmt.Errorf("slack: fetching user %s failed: %w", userID, err)
	}

	var info userInfoResponse
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("slack: failed to parse users.info response: %w", err)
	}
	if info.User.ID == "" {
		return nil, fmt.Errorf("slack: users.info response for %s carries no user", userID)
	}
	return &info.User, nil
}

// ListUsers returns every workspace member, following continuation cursors
// until the final page.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	cursor := ""
	for {
		params := url.Values{}
		params.Set("limit", strconv.Itoa(defaultPageLimit))
		if cursor != "" {
			params.Set("cursor", cursor)
		}

		body, err := c.call(ctx, "users.list", params)
		if err != nil {
			return nil, fmt.Errorf("slack: listing users failed: %w", err)
		}

		var page userListResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("slack: failed to parse users.list response: %w", err)
		}
		users = append(users, page.Members...)

		next := page.ResponseMetadata.NextCursor
		if next == "" {
			return users, nil
		}
		if next == cursor {
			colors.StructuredWarn("slack", "list_users", "repeated_cursor", nil, next, nil)
			return users, nil
		}
		cursor = next
	}
}

// OpenDM opens (or resumes) a direct-message conversation with the given
// user and returns its conversation id.
func (c *Client) OpenDM(ctx context.Context, userID string) (string, error) {
	params := url.Values{}
	params.Set("users", userID)

	body, err := c.call(ctx, "conversations.open", params)
	if err != nil {
		return "", fmt.Errorf("slack: opening conversation with %s failed: %w", userID, err)
	}

	var opened openDMResponse
	if err := json.Unmarshal(body, &opened); err != nil {
		return "", fmt.Errorf("slack: failed to parse conversations.open response: %w", err)
	}
	if opened.Channel.ID == "" {
		return "", fmt.Errorf("slack: conversations.open response for %s carries no channel", userID)
	}
	return opened.Channel.ID, nil
}
