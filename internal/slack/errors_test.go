package slack

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIErrorMessagesDeriveFromKind(t *testing.T) {
	tests := []struct {
		name string
		err  *APIError
		want string
	}{
		{
			name: "auth",
			err:  &APIError{Kind: KindAuth, Code: "token_expired"},
			want: "slack: not authenticated (token_expired): token is invalid, expired, or revoked",
		},
		{
			name: "scope with needed permission",
			err:  &APIError{Kind: KindScope, Code: "missing_scope", Needed: "users:read"},
			want: `slack: token is missing the "users:read" permission scope (missing_scope)`,
		},
		{
			name: "scope without needed permission",
			err:  &APIError{Kind: KindScope, Code: "missing_scope"},
			want: "slack: token is missing a required permission scope (missing_scope)",
		},
		{
			name: "rate limit with backoff",
			err:  &APIError{Kind: KindRateLimit, Code: "ratelimited", RetryAfter: 30 * time.Second},
			want: "slack: rate limited, retry after 30s (ratelimited)",
		},
		{
			name: "rate limit without backoff",
			err:  &APIError{Kind: KindRateLimit, Code: "ratelimited"},
			want: "slack: rate limited (ratelimited)",
		},
		{
			name: "not found",
			err:  &APIError{Kind: KindNotFound, Code: "channel_not_found"},
			want: "slack: conversation or user not found, or archived (channel_not_found)",
		},
		{
			name: "unknown",
			err:  &APIError{Kind: KindUnknown, Code: "fatal_error"},
			want: "slack: call failed (fatal_error)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestTransportErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := transportError(cause)

	assert.Equal(t, KindTransport, err.Kind)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &APIError{Kind: KindAuth, Code: "invalid_auth"})

	assert.True(t, IsKind(err, KindAuth))
	assert.False(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(errors.New("plain"), KindAuth))
	assert.False(t, IsKind(nil, KindAuth))
}

func TestClassifyCodeTable(t *testing.T) {
	tests := []struct {
		code string
		want Kind
	}{
		{"invalid_auth", KindAuth},
		{"not_authed", KindAuth},
		{"token_revoked", KindAuth},
		{"token_expired", KindAuth},
		{"account_inactive", KindAuth},
		{"missing_scope", KindScope},
		{"ratelimited", KindRateLimit},
		{"rate_limited", KindRateLimit},
		{"channel_not_found", KindNotFound},
		{"user_not_found", KindNotFound},
		{"is_archived", KindNotFound},
		{"something_else", KindUnknown},
		{"", KindUnknown},
	}

	for _, tt := range tests {
		name := tt.code
		if name == "" {
			name = "empty"
		}
		t.Run(name, func(t *testing.T) {
			apiErr := classify(tt.code, "", 200, 0)
			require.Equal(t, tt.want, apiErr.Kind)
			assert.Equal(t, tt.code, apiErr.Code)
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "auth", KindAuth.String())
	assert.Equal(t, "scope", KindScope.String())
	assert.Equal(t, "rate_limit", KindRateLimit.String())
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "transport", KindTransport.String())
	assert.Equal(t, "unknown", KindUnknown.String())
}
