// Package domain provides the domain layer for watched conversations:
// pinned direct messages and the record of emitted notifications.
package domain

import (
	"fmt"
	"strings"
)

// Pin marks a direct-message conversation to be watched alongside the
// channels the user is a member of. Pins are ordered by when they were
// added.
type Pin struct {
	UserID         string
	DisplayName    string
	ConversationID string
	PinnedAt       string
}

// Validate checks that the pin can be stored.
func (p Pin) Validate() error {
	if strings.TrimSpace(p.UserID) == "" {
		return fmt.Errorf("validation error: pin user id cannot be empty")
	}
	if strings.TrimSpace(p.ConversationID) == "" {
		return fmt.Errorf("validation error: pin conversation id cannot be empty")
	}
	return nil
}

// Label returns the name shown for the pinned conversation.
func (p Pin) Label() string {
	if p.DisplayName != "" {
		return "@" + p.DisplayName
	}
	return "@" + p.UserID
}
