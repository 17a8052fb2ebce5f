// Package format provides output formatting functionality for CLI commands.
// It includes the status-line styles and table renderers for
// conversations, pins, and notification history.
package format

import "sort"

// StatusStyle represents the style of status output to use.
type StatusStyle string

const (
	// StatusStyleCompact displays name:count pairs for conversations
	// with unread messages, ordered by activity.
	StatusStyleCompact StatusStyle = "compact"

	// StatusStyleDetailed displays a summary line plus one line per
	// conversation with unread messages.
	StatusStyleDetailed StatusStyle = "detailed"

	// StatusStyleCountOnly displays the total unread count as a bare
	// number, for embedding in a tmux status format.
	StatusStyleCountOnly StatusStyle = "count-only"
)

// ParseStatusStyle maps a configuration value to a status style.
// Unknown values fall back to the compact style.
func ParseStatusStyle(value string) StatusStyle {
	switch StatusStyle(value) {
	case StatusStyleDetailed:
		return StatusStyleDetailed
	case StatusStyleCountOnly:
		return StatusStyleCountOnly
	default:
		return StatusStyleCompact
	}
}

// ConversationStatus is one conversation's unread state as presented to
// the user.
type ConversationStatus struct {
	ID    string
	Name  string
	Kind  string
	Count int
}

// TotalUnread sums the unread counts across conversations.
func TotalUnread(entries []ConversationStatus) int {
	total := 0
	for _, entry := range entries {
		total += entry.Count
	}
	return total
}

// SortByActivity orders entries by unread count descending, then by
// name, so the busiest conversation comes first deterministically.
func SortByActivity(entries []ConversationStatus) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Name < entries[j].Name
	})
}

// SortByName orders entries alphabetically by display name, with ties
// broken by id.
func SortByName(entries []ConversationStatus) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].ID < entries[j].ID
	})
}
