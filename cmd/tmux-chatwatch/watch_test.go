package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/cristianoliveira/tmux-chatwatch/internal/clock"
	"github.com/cristianoliveira/tmux-chatwatch/internal/config"
	"github.com/cristianoliveira/tmux-chatwatch/internal/core"
	"github.com/cristianoliveira/tmux-chatwatch/internal/creds"
	"github.com/cristianoliveira/tmux-chatwatch/internal/domain"
	"github.com/cristianoliveira/tmux-chatwatch/internal/errors"
	"github.com/cristianoliveira/tmux-chatwatch/internal/notify"
	"github.com/cristianoliveira/tmux-chatwatch/internal/tmux"
	"github.com/cristianoliveira/tmux-chatwatch/internal/watcher"
	"github.com/stretchr/testify/require"
)

type noTokens struct{}

func (noTokens) Token() (string, bool) { return "", false }

func testWatcher(t *testing.T) *watcher.Watcher {
	t.Helper()

	w, err := watcher.New(watcher.Options{
		Tokens: noTokens{},
		NewSession: func(token string) (watcher.Session, error) {
			return nil, fmt.Errorf("no session in tests")
		},
		Interval: time.Minute,
		Clock:    clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, err)
	return w
}

func watchDeps(t *testing.T, tmuxClient tmux.TmuxClient) cliDeps {
	t.Helper()

	store := &fakeStorage{}
	tokens := creds.NewStore()
	return cliDeps{
		coreClient: core.New(tokens, store, tmuxClient),
		storage:    store,
		tokens:     tokens,
		tmuxClient: tmuxClient,
	}
}

func TestNewWatchCmdPanicsWhenCoreIsNil(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic, got nil")
		}
		msg, ok := r.(string)
		if !ok {
			t.Fatalf("expected panic message as string, got %T", r)
		}
		if !strings.Contains(msg, "core dependency cannot be nil") {
			t.Fatalf("expected panic message to mention nil dependency, got %q", msg)
		}
	}()

	NewWatchCmd(cliDeps{})
}

func TestWatchRunERequiresTmux(t *testing.T) {
	t.Setenv("TMUX_CHATWATCH_ALLOW_NO_TMUX", "")
	t.Setenv("CI", "")

	mockTmux := new(tmux.MockClient)
	mockTmux.On("HasServer").Return(false, nil)

	watch := NewWatchCmd(watchDeps(t, mockTmux))
	err := watch.RunE(watch, []string{})
	if err == nil || !strings.Contains(err.Error(), "tmux not running") {
		t.Fatalf("expected tmux not running error, got %v", err)
	}
	mockTmux.AssertCalled(t, "HasServer")
}

func TestWatchRunETmuxlessRunsUntilContextCancelled(t *testing.T) {
	t.Setenv("TMUX_CHATWATCH_ALLOW_NO_TMUX", "true")
	t.Setenv("TMUX_CHATWATCH_TOKEN", "")

	mockTmux := new(tmux.MockClient)
	mockTmux.On("HasServer").Return(false, nil)

	watch := NewWatchCmd(watchDeps(t, mockTmux))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	watch.SetContext(ctx)
	var stdout bytes.Buffer
	watch.SetOut(&stdout)

	err := watch.RunE(watch, []string{})
	require.NoError(t, err)
	if !strings.Contains(stdout.String(), "Watching for unread messages") {
		t.Fatalf("expected watch banner, got %q", stdout.String())
	}
}

func TestWatchStopsOnContextCancel(t *testing.T) {
	w := testWatcher(t)
	ctx, cancel := context.WithCancel(context.Background())
	var stdout bytes.Buffer

	done := make(chan error, 1)
	go func() { done <- Watch(ctx, w, &stdout) }()
	cancel()

	require.NoError(t, <-done)
	if w.Running() {
		t.Fatalf("expected watcher to be stopped after Watch returns")
	}
	if !strings.Contains(stdout.String(), "Watching for unread messages") {
		t.Fatalf("expected watch banner, got %q", stdout.String())
	}
}

func TestWatchReturnsStartError(t *testing.T) {
	w := testWatcher(t)
	require.NoError(t, w.Start(context.Background()))
	t.Cleanup(w.Stop)

	var stdout bytes.Buffer
	err := Watch(context.Background(), w, &stdout)
	require.ErrorIs(t, err, watcher.ErrAlreadyRunning)
	if stdout.Len() != 0 {
		t.Fatalf("expected no output on start failure, got %q", stdout.String())
	}
}

func TestBuildWatcherFromConfigDefaults(t *testing.T) {
	mockTmux := new(tmux.MockClient)
	deps := watchDeps(t, mockTmux)

	w, err := buildWatcher(deps, watchSettings{})
	require.NoError(t, err)
	if w == nil {
		t.Fatalf("expected watcher")
	}
}

type captureHistory struct {
	entries []domain.HistoryEntry
}

func (c *captureHistory) AppendHistory(entry domain.HistoryEntry) (int64, error) {
	c.entries = append(c.entries, entry)
	return int64(len(c.entries)), nil
}

func TestEventHandlerRecordsWithoutPopupWhenDisabled(t *testing.T) {
	t.Setenv("TMUX_CHATWATCH_NOTIFY_ENABLED", "false")
	t.Setenv("TMUX_CHATWATCH_HOOKS_DIR", t.TempDir())
	config.Load()

	history := &captureHistory{}
	mockTmux := new(tmux.MockClient)
	handler := eventHandler(notify.New(notify.Options{Client: mockTmux, History: history}))

	handler(watcher.Event{ConversationID: "C024BE91L", Name: "#general", Delta: 2})

	if len(history.entries) != 1 {
		t.Fatalf("expected one recorded entry, got %d", len(history.entries))
	}
	if history.entries[0].Name != "#general" || history.entries[0].Delta != 2 {
		t.Fatalf("unexpected entry: %+v", history.entries[0])
	}
	mockTmux.AssertNotCalled(t, "DisplayMessage", "#general: 2 new")
}

func TestEventHandlerNotifiesWhenEnabled(t *testing.T) {
	t.Setenv("TMUX_CHATWATCH_NOTIFY_ENABLED", "")
	t.Setenv("TMUX_CHATWATCH_HOOKS_DIR", t.TempDir())
	config.Load()

	history := &captureHistory{}
	mockTmux := new(tmux.MockClient)
	mockTmux.On("DisplayMessage", "#general: 2 new").Return(nil)
	handler := eventHandler(notify.New(notify.Options{Client: mockTmux, History: history}))

	handler(watcher.Event{ConversationID: "C024BE91L", Name: "#general", Delta: 2})

	mockTmux.AssertCalled(t, "DisplayMessage", "#general: 2 new")
	if len(history.entries) != 1 {
		t.Fatalf("expected notification to be recorded, got %d entries", len(history.entries))
	}
}

func TestCycleHandlerPublishesTotal(t *testing.T) {
	t.Setenv("TMUX_CHATWATCH_STATUS_ENABLED", "")
	config.Load()

	mockTmux := new(tmux.MockClient)
	mockTmux.On("SetStatusOption", notify.StatusOption, "4").Return(nil)

	handler := cycleHandler(mockTmux)
	if handler == nil {
		t.Fatalf("expected cycle handler when status integration is enabled")
	}
	handler(map[string]watcher.Entry{
		"C024BE91L": {Name: "#general", Count: 3},
		"D024BFF1M": {Name: "@bob", Count: 1},
	})

	mockTmux.AssertCalled(t, "SetStatusOption", notify.StatusOption, "4")
}

func TestCycleHandlerRendersStatusTemplate(t *testing.T) {
	t.Setenv("TMUX_CHATWATCH_STATUS_ENABLED", "")
	t.Setenv("TMUX_CHATWATCH_STATUS_TEMPLATE", "compact")
	config.Load()

	mockTmux := new(tmux.MockClient)
	mockTmux.On("SetStatusOption", notify.StatusOption, "#general:3 @bob:1").Return(nil)

	handler := cycleHandler(mockTmux)
	handler(map[string]watcher.Entry{
		"C024BE91L": {Name: "#general", Count: 3},
		"D024BFF1M": {Name: "@bob", Count: 1},
	})

	mockTmux.AssertCalled(t, "SetStatusOption", notify.StatusOption, "#general:3 @bob:1")
}

func TestCycleHandlerInvalidTemplateFallsBackToCount(t *testing.T) {
	t.Setenv("TMUX_CHATWATCH_STATUS_ENABLED", "")
	t.Setenv("TMUX_CHATWATCH_STATUS_TEMPLATE", "{{no-such-variable}}")
	config.Load()

	mockTmux := new(tmux.MockClient)
	mockTmux.On("SetStatusOption", notify.StatusOption, "4").Return(nil)

	handler := cycleHandler(mockTmux)
	handler(map[string]watcher.Entry{
		"C024BE91L": {Name: "#general", Count: 3},
		"D024BFF1M": {Name: "@bob", Count: 1},
	})

	mockTmux.AssertCalled(t, "SetStatusOption", notify.StatusOption, "4")
}

func TestCycleHandlerNilWhenStatusDisabled(t *testing.T) {
	t.Setenv("TMUX_CHATWATCH_STATUS_ENABLED", "false")
	config.Load()

	if handler := cycleHandler(new(tmux.MockClient)); handler != nil {
		t.Fatalf("expected nil cycle handler when status integration is disabled")
	}
}

func TestFailureHandlerWarnsOncePerDistinctFailure(t *testing.T) {
	problems := errors.NewCollectingHandler(nil)
	terminal := errors.NewCollectingHandler(nil)
	handle := failureHandler(problems, terminal)

	handle(fmt.Errorf("no route to workspace"))
	handle(fmt.Errorf("no route to workspace"))
	handle(fmt.Errorf("rate limited"))

	printed := terminal.GetAll()
	if len(printed) != 2 {
		t.Fatalf("expected 2 warnings, got %d: %v", len(printed), printed)
	}
	if printed[0].Text != "poll cycle failed: no route to workspace" || printed[0].Type != errors.MessageTypeWarning {
		t.Fatalf("unexpected first warning: %+v", printed[0])
	}
	if printed[1].Text != "poll cycle failed: rate limited" {
		t.Fatalf("unexpected second warning: %+v", printed[1])
	}

	// The buffer keeps every failure, printed or not.
	if buffered := problems.GetAll(); len(buffered) != 3 {
		t.Fatalf("expected 3 buffered failures, got %d", len(buffered))
	}
}

func TestWithRecoveryReportsAfterFailedCycles(t *testing.T) {
	problems := errors.NewCollectingHandler(nil)
	terminal := errors.NewCollectingHandler(nil)

	var passed int
	wrapped := withRecovery(problems, terminal, func(map[string]watcher.Entry) { passed++ })

	// Nothing buffered: the snapshot passes through silently.
	wrapped(map[string]watcher.Entry{"C1": {Name: "#general", Count: 1}})
	if len(terminal.GetAll()) != 0 {
		t.Fatalf("expected no recovery report without failures")
	}
	if passed != 1 {
		t.Fatalf("expected snapshot to reach the next sink")
	}

	problems.Error("no route to workspace")
	problems.Error("no route to workspace")
	wrapped(map[string]watcher.Entry{})

	printed := terminal.GetAll()
	if len(printed) != 1 {
		t.Fatalf("expected 1 recovery report, got %d", len(printed))
	}
	if printed[0].Text != "polling recovered after 2 failed cycle(s)" || printed[0].Type != errors.MessageTypeSuccess {
		t.Fatalf("unexpected recovery report: %+v", printed[0])
	}
	if len(problems.GetAll()) != 0 {
		t.Fatalf("expected the failure buffer to be drained")
	}
	if passed != 2 {
		t.Fatalf("expected snapshot to reach the next sink after recovery")
	}
}

func TestWithRecoveryToleratesNilNextSink(t *testing.T) {
	problems := errors.NewCollectingHandler(nil)
	wrapped := withRecovery(problems, errors.NewCollectingHandler(nil), nil)
	wrapped(map[string]watcher.Entry{"C1": {Name: "#general", Count: 1}})
}

func TestSnapshotTotal(t *testing.T) {
	if total := snapshotTotal(nil); total != 0 {
		t.Fatalf("expected 0 for empty snapshot, got %d", total)
	}
	snapshot := map[string]watcher.Entry{
		"C1": {Name: "#general", Count: 3},
		"C2": {Name: "#random", Count: 0},
		"D1": {Name: "@bob", Count: 2},
	}
	if total := snapshotTotal(snapshot); total != 5 {
		t.Fatalf("expected 5, got %d", total)
	}
}

func TestSplitConversationList(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected []string
	}{
		{name: "empty", value: "", expected: nil},
		{name: "single", value: "#general", expected: []string{"#general"}},
		{name: "spaces and commas", value: " #general , @bob ,", expected: []string{"#general", "@bob"}},
		{name: "only separators", value: ", ,", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitConversationList(tt.value)
			if len(got) != len(tt.expected) {
				t.Fatalf("expected %v, got %v", tt.expected, got)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Fatalf("expected %v, got %v", tt.expected, got)
				}
			}
		})
	}
}
