package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/cristianoliveira/tmux-chatwatch/internal/domain"
)

// PinUser opens (or resumes) a direct-message conversation with the
// named workspace member and pins it for watching.
func (c *Core) PinUser(ctx context.Context, query string) (domain.Pin, error) {
	if c.store == nil {
		return domain.Pin{}, errors.New("storage is not available")
	}
	api, _, err := c.session()
	if err != nil {
		return domain.Pin{}, err
	}

	users, err := api.ListUsers(ctx)
	if err != nil {
		return domain.Pin{}, fmt.Errorf("listing workspace members: %w", err)
	}
	user, err := matchUser(users, query)
	if err != nil {
		return domain.Pin{}, err
	}

	conversationID, err := api.OpenDM(ctx, user.ID)
	if err != nil {
		return domain.Pin{}, fmt.Errorf("opening direct message with %s: %w", user.DisplayName(), err)
	}

	pin := domain.Pin{
		UserID:         user.ID,
		DisplayName:    user.DisplayName(),
		ConversationID: conversationID,
	}
	if err := c.store.AddPin(pin); err != nil {
		return domain.Pin{}, fmt.Errorf("pinning %s: %w", user.DisplayName(), err)
	}
	return pin, nil
}

// UnpinConversation removes a pin. The target may be the conversation
// id, the user id, or the pinned display name.
func (c *Core) UnpinConversation(target string) error {
	if c.store == nil {
		return errors.New("storage is not available")
	}
	key := conversationKey(target)
	if key == "" {
		return errors.New("pin target cannot be empty")
	}
	pins, err := c.store.ListPins()
	if err != nil {
		return fmt.Errorf("listing pins: %w", err)
	}
	for _, pin := range pins {
		if pin.ConversationID == target || pin.UserID == target ||
			conversationKey(pin.DisplayName) == key || conversationKey(pin.Label()) == key {
			return c.store.RemovePin(pin.ConversationID)
		}
	}
	return fmt.Errorf("no pin matches %q", target)
}

// Pins returns the pinned direct messages in the order they were added.
func (c *Core) Pins() ([]domain.Pin, error) {
	if c.store == nil {
		return nil, errors.New("storage is not available")
	}
	return c.store.ListPins()
}
