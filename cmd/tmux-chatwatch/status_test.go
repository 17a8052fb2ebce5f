package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/cristianoliveira/tmux-chatwatch/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScanClient struct {
	scanResult []core.Unread
	scanErr    error
	scanCalls  int
}

func (f *fakeScanClient) Scan(ctx context.Context) ([]core.Unread, error) {
	f.scanCalls++
	return f.scanResult, f.scanErr
}

func scanFixture() []core.Unread {
	return []core.Unread{
		{Conversation: core.Conversation{ID: "C1", Name: "#general", Kind: "channel"}, Count: 3},
		{Conversation: core.Conversation{ID: "D1", Name: "@bob", Kind: "dm", Pinned: true}, Count: 1},
		{Conversation: core.Conversation{ID: "C2", Name: "#random", Kind: "channel"}, Count: 0},
	}
}

func TestNewStatusCmdPanicsWhenClientIsNil(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic, got nil")
		}
		msg, ok := r.(string)
		if !ok {
			t.Fatalf("expected panic message as string, got %T", r)
		}
		if !strings.Contains(msg, "client dependency cannot be nil") {
			t.Fatalf("expected panic message to mention nil dependency, got %q", msg)
		}
	}()

	NewStatusCmd(nil)
}

func TestStatusRunECompactFormat(t *testing.T) {
	t.Setenv("TMUX_CHATWATCH_STATUS_FORMAT", "")
	client := &fakeScanClient{scanResult: scanFixture()}
	cmd := NewStatusCmd(client)
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)

	err := cmd.RunE(cmd, []string{})
	require.NoError(t, err)
	assert.Equal(t, 1, client.scanCalls)
	assert.Equal(t, "#general:3 @bob:1\n", stdout.String())
}

func TestStatusRunEDetailedFormat(t *testing.T) {
	client := &fakeScanClient{scanResult: scanFixture()}
	cmd := NewStatusCmd(client)
	require.NoError(t, cmd.Flags().Set("format", "detailed"))
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)

	err := cmd.RunE(cmd, []string{})
	require.NoError(t, err)
	output := stdout.String()
	assert.Contains(t, output, "4 unread in 2 conversations")
	assert.Contains(t, output, "  #general: 3")
	assert.Contains(t, output, "  @bob: 1")
}

func TestStatusRunECountOnlyFormat(t *testing.T) {
	client := &fakeScanClient{scanResult: scanFixture()}
	cmd := NewStatusCmd(client)
	require.NoError(t, cmd.Flags().Set("format", "count-only"))
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)

	err := cmd.RunE(cmd, []string{})
	require.NoError(t, err)
	assert.Equal(t, "4\n", stdout.String())
}

func TestStatusRunECompactNothingUnread(t *testing.T) {
	t.Setenv("TMUX_CHATWATCH_STATUS_FORMAT", "")
	client := &fakeScanClient{scanResult: []core.Unread{
		{Conversation: core.Conversation{ID: "C1", Name: "#general", Kind: "channel"}, Count: 0},
	}}
	cmd := NewStatusCmd(client)
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)

	err := cmd.RunE(cmd, []string{})
	require.NoError(t, err)
	assert.Empty(t, stdout.String())
}

func TestStatusRunEEnvironmentFormatOverride(t *testing.T) {
	t.Setenv("TMUX_CHATWATCH_STATUS_FORMAT", "count-only")
	client := &fakeScanClient{scanResult: scanFixture()}
	cmd := NewStatusCmd(client)
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)

	err := cmd.RunE(cmd, []string{})
	require.NoError(t, err)
	// flag not changed, environment used
	assert.Equal(t, "4\n", stdout.String())
}

func TestStatusRunEFlagBeatsEnvironment(t *testing.T) {
	t.Setenv("TMUX_CHATWATCH_STATUS_FORMAT", "count-only")
	client := &fakeScanClient{scanResult: scanFixture()}
	cmd := NewStatusCmd(client)
	require.NoError(t, cmd.Flags().Set("format", "detailed"))
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)

	err := cmd.RunE(cmd, []string{})
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "4 unread in 2 conversations")
}

func TestStatusRunEUnknownFormatFallsBackToCompact(t *testing.T) {
	client := &fakeScanClient{scanResult: scanFixture()}
	cmd := NewStatusCmd(client)
	require.NoError(t, cmd.Flags().Set("format", "invalid"))
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)

	err := cmd.RunE(cmd, []string{})
	require.NoError(t, err)
	assert.Equal(t, "#general:3 @bob:1\n", stdout.String())
}

func TestStatusRunEScanError(t *testing.T) {
	client := &fakeScanClient{scanErr: assert.AnError}
	cmd := NewStatusCmd(client)

	err := cmd.RunE(cmd, []string{})
	require.Error(t, err)
	assert.Equal(t, 1, client.scanCalls)
}
