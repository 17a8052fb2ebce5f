package format

import (
	"fmt"
	"io"
	"strings"
)

// WriteStatus renders the unread snapshot in the given style. The input
// slice is reordered by activity; callers that need their own order
// should pass a copy.
func WriteStatus(w io.Writer, style StatusStyle, entries []ConversationStatus) error {
	switch style {
	case StatusStyleDetailed:
		return writeDetailed(w, entries)
	case StatusStyleCountOnly:
		return writeCountOnly(w, entries)
	default:
		return writeCompact(w, entries)
	}
}

// writeCompact writes space-separated name:count pairs for every
// conversation with unread messages. No unread means no output, so a
// tmux status segment collapses to nothing.
func writeCompact(w io.Writer, entries []ConversationStatus) error {
	SortByActivity(entries)

	var parts []string
	for _, entry := range entries {
		if entry.Count == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s:%d", entry.Name, entry.Count))
	}
	if len(parts) == 0 {
		return nil
	}
	_, err := fmt.Fprintln(w, strings.Join(parts, " "))
	return err
}

// writeDetailed writes a summary line followed by one indented line per
// conversation with unread messages.
func writeDetailed(w io.Writer, entries []ConversationStatus) error {
	SortByActivity(entries)

	total := TotalUnread(entries)
	unread := 0
	for _, entry := range entries {
		if entry.Count > 0 {
			unread++
		}
	}

	if total == 0 {
		_, err := fmt.Fprintln(w, "No unread messages")
		return err
	}

	noun := "conversations"
	if unread == 1 {
		noun = "conversation"
	}
	if _, err := fmt.Fprintf(w, "%d unread in %d %s\n", total, unread, noun); err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.Count == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "  %s: %d\n", entry.Name, entry.Count); err != nil {
			return err
		}
	}
	return nil
}

// writeCountOnly writes the total as a bare number, zero included.
func writeCountOnly(w io.Writer, entries []ConversationStatus) error {
	_, err := fmt.Fprintln(w, TotalUnread(entries))
	return err
}
