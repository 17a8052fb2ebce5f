package format

import (
	"io"
	"strconv"
)

// WriteConversations renders one row per conversation. With counts
// enabled an UNREAD column is included; rows render in slice order.
func WriteConversations(w io.Writer, config *TableConfig, entries []ConversationStatus, withCounts bool) error {
	columns := []TableColumn{
		{Name: "ID", Width: 12},
		{Name: "TYPE", Width: 8},
	}
	if withCounts {
		columns = append(columns, TableColumn{Name: "UNREAD", Width: 6, Alignment: "right"})
	}
	columns = append(columns, TableColumn{Name: "NAME"})

	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		row := []string{entry.ID, entry.Kind}
		if withCounts {
			row = append(row, strconv.Itoa(entry.Count))
		}
		rows = append(rows, append(row, entry.Name))
	}
	return NewTable(config, columns...).Write(w, rows)
}
