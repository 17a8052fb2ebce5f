package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/cristianoliveira/tmux-chatwatch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinsClient struct {
	pinsResult []domain.Pin
	pinsErr    error
	pinsCalls  int

	pinResult domain.Pin
	pinErr    error
	pinQuery  string

	unpinErr    error
	unpinTarget string
}

func (f *fakePinsClient) Pins() ([]domain.Pin, error) {
	f.pinsCalls++
	return f.pinsResult, f.pinsErr
}

func (f *fakePinsClient) PinUser(ctx context.Context, query string) (domain.Pin, error) {
	f.pinQuery = query
	return f.pinResult, f.pinErr
}

func (f *fakePinsClient) UnpinConversation(target string) error {
	f.unpinTarget = target
	return f.unpinErr
}

func TestNewPinsCmdPanicsWhenClientIsNil(t *testing.T) {
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

	NewPinsCmd(nil)
}

func TestPinsRunEListsPins(t *testing.T) {
	t.Setenv("TMUX_CHATWATCH_TABLE_FORMAT", "")
	client := &fakePinsClient{
		pinsResult: []domain.Pin{
			{UserID: "U023BECGF", DisplayName: "bob", ConversationID: "D024BFF1M", PinnedAt: "2026-02-11T09:30:00Z"},
		},
	}
	cmd := NewPinsCmd(client)
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)

	err := cmd.RunE(cmd, []string{})
	require.NoError(t, err)
	assert.Equal(t, 1, client.pinsCalls)

	output := stdout.String()
	assert.Contains(t, output, "@bob")
	assert.Contains(t, output, "D024BFF1M")
	assert.Contains(t, output, "2026-02-11 09:30:00")
}

func TestPinsListSubcommandMatchesBareInvocation(t *testing.T) {
	t.Setenv("TMUX_CHATWATCH_TABLE_FORMAT", "")
	client := &fakePinsClient{
		pinsResult: []domain.Pin{
			{UserID: "U023BECGF", DisplayName: "bob", ConversationID: "D024BFF1M", PinnedAt: "2026-02-11T09:30:00Z"},
		},
	}
	cmd := NewPinsCmd(client)
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"list"})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "@bob")
}

func TestPinsRunENoPins(t *testing.T) {
	client := &fakePinsClient{}
	cmd := NewPinsCmd(client)
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)

	err := cmd.RunE(cmd, []string{})
	require.NoError(t, err)
	assert.Empty(t, stdout.String())
}

func TestPinsRunEListError(t *testing.T) {
	client := &fakePinsClient{pinsErr: assert.AnError}
	cmd := NewPinsCmd(client)

	err := cmd.RunE(cmd, []string{})
	require.Error(t, err)
}

func TestPinsAddResolvesAndTrimsQuery(t *testing.T) {
	client := &fakePinsClient{
		pinResult: domain.Pin{UserID: "U023BECGF", DisplayName: "bob", ConversationID: "D024BFF1M"},
	}
	cmd := NewPinsCmd(client)
	cmd.SetArgs([]string{"add", "  @bob  "})
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Equal(t, "@bob", client.pinQuery)
}

func TestPinsAddError(t *testing.T) {
	client := &fakePinsClient{pinErr: assert.AnError}
	cmd := NewPinsCmd(client)
	cmd.SetArgs([]string{"add", "@nobody"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
}

func TestPinsAddRequiresExactlyOneArg(t *testing.T) {
	client := &fakePinsClient{}
	cmd := NewPinsCmd(client)
	cmd.SetArgs([]string{"add"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Empty(t, client.pinQuery)
}

func TestPinsRemovePassesTarget(t *testing.T) {
	client := &fakePinsClient{}
	cmd := NewPinsCmd(client)
	cmd.SetArgs([]string{"remove", "D024BFF1M"})
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Equal(t, "D024BFF1M", client.unpinTarget)
}

func TestPinsRemoveError(t *testing.T) {
	client := &fakePinsClient{unpinErr: assert.AnError}
	cmd := NewPinsCmd(client)
	cmd.SetArgs([]string{"remove", "@nobody"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
}
