package format

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cristianoliveira/tmux-chatwatch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteHistory(t *testing.T) {
	entries := []domain.HistoryEntry{
		{ID: 2, ConversationID: "C1", Name: "#general", Delta: 3, Timestamp: "2026-03-01T10:00:00Z"},
		{ID: 1, ConversationID: "D1", Name: "@bob", Delta: 1, Timestamp: "2026-03-01T09:00:00Z"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteHistory(&buf, DefaultTableConfig(), entries, "2006-01-02 15:04:05"))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "WHEN")
	assert.Contains(t, lines[1], "#general")
	assert.Contains(t, lines[1], "+3")
	assert.Contains(t, lines[1], "2026-03-01 10:00:00")
	assert.Contains(t, lines[2], "@bob")
	assert.Contains(t, lines[2], "+1")
}

func TestWriteHistoryGroups(t *testing.T) {
	groups := []HistoryGroup{
		{Name: "#general", Timestamp: "2026-03-01T10:00:00Z", Delta: 7, Events: 3},
		{Name: "@bob", Timestamp: "2026-03-01T09:00:00Z", Delta: 1, Events: 1},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteHistoryGroups(&buf, DefaultTableConfig(), groups, "2006-01-02 15:04:05"))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "EVENTS")
	assert.Contains(t, lines[1], "#general")
	assert.Contains(t, lines[1], "+7")
	assert.Contains(t, lines[1], "3")
	assert.Contains(t, lines[1], "2026-03-01 10:00:00")
	assert.Contains(t, lines[2], "@bob")
	assert.Contains(t, lines[2], "+1")
}
