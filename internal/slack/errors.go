package slack

import (
	"errors"
	"fmt"
	"time"
)

// Kind is the normalized classification of a workspace API failure.
type Kind int

const (
	// KindUnknown covers error codes the client does not recognize.
	KindUnknown Kind = iota
	// KindAuth covers invalid, expired, revoked, or missing credentials.
	KindAuth
	// KindScope means the token lacks a permission scope for the call.
	KindScope
	// KindRateLimit means the service asked the client to back off.
	KindRateLimit
	// KindNotFound covers missing or archived conversations and users.
	KindNotFound
	// KindTransport covers network-level failures before any response.
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindScope:
		return "scope"
	case KindRateLimit:
		return "rate_limit"
	case KindNotFound:
		return "not_found"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// APIError is a classified failure from the workspace API. Callers match on
// Kind rather than on raw error codes:
//
//	var apiErr *slack.APIError
//	if errors.As(err, &apiErr) && apiErr.Kind == slack.KindAuth { ... }
type APIError struct {
	// Kind is the normalized category.
	Kind Kind
	// Code is the raw error code from the response body, e.g. "invalid_auth".
	// Empty for transport failures.
	Code string
	// Needed is the missing permission scope. Set only for KindScope.
	Needed string
	// RetryAfter is the backoff the service requested. Set only for
	// KindRateLimit and only when the response carried a Retry-After header.
	RetryAfter time.Duration
	// StatusCode is the HTTP status of the response, 0 when no response
	// was received.
	StatusCode int

	cause error
}

// Error renders a human-readable explanation derived from the normalized
// kind. The raw code is kept in parentheses for log correlation.
func (e *APIError) Error() string {
	switch e.Kind {
	case KindAuth:
		return fmt.Sprintf("slack: not authenticated (%s): token is invalid, expired, or revoked", e.Code)
	case KindScope:
		if e.Needed != "" {
			return fmt.Sprintf("slack: token is missing the %q permission scope (%s)", e.Needed, e.Code)
		}
		return fmt.Sprintf("slack: token is missing a required permission scope (%s)", e.Code)
	case KindRateLimit:
		if e.RetryAfter > 0 {
			return fmt.Sprintf("slack: rate limited, retry after %s (%s)", e.RetryAfter, e.Code)
		}
		return fmt.Sprintf("slack: rate limited (%s)", e.Code)
	case KindNotFound:
		return fmt.Sprintf("slack: conversation or user not found, or archived (%s)", e.Code)
	case KindTransport:
		return fmt.Sprintf("slack: request failed: %v", e.cause)
	default:
		return fmt.Sprintf("slack: call failed (%s)", e.Code)
	}
}

func (e *APIError) Unwrap() error {
	return e.cause
}

// IsKind reports whether err is an *APIError of the given kind.
func IsKind(err error, kind Kind) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind == kind
	}
	return false
}

// kindByCode maps raw error codes onto the taxonomy. Codes not listed
// classify as KindUnknown.
var kindByCode = map[string]Kind{
	"invalid_auth":     KindAuth,
	"not_authed":       KindAuth,
	"token_revoked":    KindAuth,
	"token_expired":    KindAuth,
	"account_inactive": KindAuth,

	"missing_scope": KindScope,

	"ratelimited":  KindRateLimit,
	"rate_limited": KindRateLimit,

	"channel_not_found": KindNotFound,
	"user_not_found":    KindNotFound,
	"users_not_found":   KindNotFound,
	"is_archived":       KindNotFound,
}

// classify builds an APIError from a decoded error envelope.
func classify(code, needed string, statusCode int, retryAfter time.Duration) *APIError {
	kind, ok := kindByCode[code]
	if !ok {
		kind = KindUnknown
	}
	apiErr := &APIError{
		Kind:       kind,
		Code:       code,
		StatusCode: statusCode,
	}
	if kind == KindScope {
		apiErr.Needed = needed
	}
	if kind == KindRateLimit {
		apiErr.RetryAfter = retryAfter
	}
	return apiErr
}

// transportError wraps a network-level failure into the taxonomy.
func transportError(err error) *APIError {
	return &APIError{Kind: KindTransport, cause: err}
}
