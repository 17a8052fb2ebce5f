package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatusStyle(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected StatusStyle
	}{
		{"Compact", "compact", StatusStyleCompact},
		{"Detailed", "detailed", StatusStyleDetailed},
		{"CountOnly", "count-only", StatusStyleCountOnly},
		{"Unknown", "banner", StatusStyleCompact},
		{"Empty", "", StatusStyleCompact},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseStatusStyle(tt.value))
		})
	}
}

func TestTotalUnread(t *testing.T) {
	entries := []ConversationStatus{
		{ID: "C1", Name: "#general", Count: 3},
		{ID: "D1", Name: "@bob", Count: 0},
		{ID: "C2", Name: "#random", Count: 2},
	}

	assert.Equal(t, 5, TotalUnread(entries))
	assert.Equal(t, 0, TotalUnread(nil))
}

func TestSortByActivity(t *testing.T) {
	entries := []ConversationStatus{
		{ID: "C2", Name: "#random", Count: 2},
		{ID: "D1", Name: "@bob", Count: 2},
		{ID: "C1", Name: "#general", Count: 5},
	}

	SortByActivity(entries)

	assert.Equal(t, "#general", entries[0].Name)
	// Ties order by name.
	assert.Equal(t, "#random", entries[1].Name)
	assert.Equal(t, "@bob", entries[2].Name)
}

func TestSortByName(t *testing.T) {
	entries := []ConversationStatus{
		{ID: "D1", Name: "@bob"},
		{ID: "C2", Name: "#random"},
		{ID: "C1", Name: "#general"},
	}

	SortByName(entries)

	assert.Equal(t, []string{"#general", "#random", "@bob"},
		[]string{entries[0].Name, entries[1].Name, entries[2].Name})
}
