package core

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/cristianoliveira/tmux-chatwatch/internal/slack"
)

// conversationIDPattern matches raw conversation ids the way the
// service mints them: a type letter followed by uppercase alphanumerics.
var conversationIDPattern = regexp.MustCompile(`^[CDG][A-Z0-9]{6,}$`)

// ResolveConversation maps a user-supplied target to a conversation.
// Raw ids pass through untouched; anything else is matched against the
// candidate set by display name, case-insensitive, with a leading "#"
// or "@" ignored.
func (c *Core) ResolveConversation(ctx context.Context, target string) (Conversation, error) {
	trimmed := strings.TrimSpace(target)
	if trimmed == "" {
		return Conversation{}, fmt.Errorf("conversation target cannot be empty")
	}
	if conversationIDPattern.MatchString(trimmed) {
		return Conversation{ID: trimmed, Name: trimmed}, nil
	}

	conversations, err := c.Conversations(ctx)
	if err != nil {
		return Conversation{}, err
	}
	key := conversationKey(trimmed)
	for _, conversation := range conversations {
		if conversationKey(conversation.Name) == key {
			return conversation, nil
		}
	}
	return Conversation{}, fmt.Errorf("no conversation named %q (channels need membership, direct messages a pin)", target)
}

// matchUser finds the workspace member the query names. Ids match
// exactly; names and display names match case-insensitive with a
// leading "@" ignored. Deleted accounts and bots never match.
func matchUser(users []slack.User, query string) (slack.User, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return slack.User{}, fmt.Errorf("user cannot be empty")
	}
	key := conversationKey(trimmed)

	for _, user := range users {
		if user.Deleted || user.IsBot {
			continue
		}
		if user.ID == trimmed {
			return user, nil
		}
		if conversationKey(user.Name) == key || conversationKey(user.DisplayName()) == key {
			return user, nil
		}
	}
	return slack.User{}, fmt.Errorf("no workspace member named %q", query)
}

// conversationKey normalizes a name for matching.
func conversationKey(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "#")
	name = strings.TrimPrefix(name, "@")
	return strings.ToLower(name)
}
