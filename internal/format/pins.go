package format

import (
	"io"
	"time"

	"github.com/cristianoliveira/tmux-chatwatch/internal/domain"
)

// WritePins renders the pinned direct-message conversations. Stored
// timestamps are re-rendered in the given date layout.
func WritePins(w io.Writer, config *TableConfig, pins []domain.Pin, dateLayout string) error {
	columns := []TableColumn{
		{Name: "USER", Width: 12},
		{Name: "NAME"},
		{Name: "CONVERSATION", Width: 12},
		{Name: "PINNED"},
	}

	rows := make([][]string, 0, len(pins))
	for _, pin := range pins {
		rows = append(rows, []string{
			pin.UserID,
			pin.Label(),
			pin.ConversationID,
			formatTimestamp(pin.PinnedAt, dateLayout),
		})
	}
	return NewTable(config, columns...).Write(w, rows)
}

// formatTimestamp re-renders a stored RFC3339 timestamp in the display
// layout. Values that do not parse pass through untouched.
func formatTimestamp(ts, layout string) string {
	parsed, err := time.Parse(time.RFC3339, ts)
	if err != nil || layout == "" {
		return ts
	}
	return parsed.Format(layout)
}
