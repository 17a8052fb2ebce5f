package format

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteConversationsWithCounts(t *testing.T) {
	entries := []ConversationStatus{
		{ID: "C024BE91L", Name: "#general", Kind: "channel", Count: 3},
		{ID: "D024BFF1M", Name: "@bob", Kind: "dm", Count: 0},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteConversations(&buf, MinimalTableConfig(), entries, true))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "C024BE91L")
	assert.Contains(t, lines[0], "channel")
	assert.Contains(t, lines[0], "3")
	assert.Contains(t, lines[0], "#general")
	assert.Contains(t, lines[1], "dm")
	assert.Contains(t, lines[1], "@bob")
}

func TestWriteConversationsWithoutCounts(t *testing.T) {
	entries := []ConversationStatus{
		{ID: "C024BE91L", Name: "#general", Kind: "channel", Count: 3},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteConversations(&buf, DefaultTableConfig(), entries, false))

	assert.Contains(t, buf.String(), "NAME")
	assert.NotContains(t, buf.String(), "UNREAD")
}
