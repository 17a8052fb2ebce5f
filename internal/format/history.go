package format

import (
	"fmt"
	"io"
	"strconv"

	"github.com/cristianoliveira/tmux-chatwatch/internal/domain"
)

// WriteHistory renders recorded notification events in slice order,
// which storage returns newest first.
func WriteHistory(w io.Writer, config *TableConfig, entries []domain.HistoryEntry, dateLayout string) error {
	columns := []TableColumn{
		{Name: "ID", Width: 4, Alignment: "right"},
		{Name: "WHEN"},
		{Name: "CONVERSATION"},
		{Name: "NEW", Width: 4, Alignment: "right"},
	}

	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			strconv.FormatInt(entry.ID, 10),
			formatTimestamp(entry.Timestamp, dateLayout),
			entry.Name,
			fmt.Sprintf("+%d", entry.Delta),
		})
	}
	return NewTable(config, columns...).Write(w, rows)
}

// HistoryGroup is one collapsed burst of notifications.
type HistoryGroup struct {
	Name      string
	Timestamp string // newest entry in the burst
	Delta     int    // summed new-message count
	Events    int    // number of collapsed notifications
}

// WriteHistoryGroups renders collapsed bursts in slice order, newest
// first.
func WriteHistoryGroups(w io.Writer, config *TableConfig, groups []HistoryGroup, dateLayout string) error {
	columns := []TableColumn{
		{Name: "WHEN"},
		{Name: "CONVERSATION"},
		{Name: "NEW", Width: 4, Alignment: "right"},
		{Name: "EVENTS", Width: 6, Alignment: "right"},
	}

	rows := make([][]string, 0, len(groups))
	for _, group := range groups {
		rows = append(rows, []string{
			formatTimestamp(group.Timestamp, dateLayout),
			group.Name,
			fmt.Sprintf("+%d", group.Delta),
			strconv.Itoa(group.Events),
		})
	}
	return NewTable(config, columns...).Write(w, rows)
}
