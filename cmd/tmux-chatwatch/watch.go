/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/cristianoliveira/tmux-chatwatch/internal/colors"
	"github.com/cristianoliveira/tmux-chatwatch/internal/config"
	"github.com/cristianoliveira/tmux-chatwatch/internal/core"
	"github.com/cristianoliveira/tmux-chatwatch/internal/errors"
	"github.com/cristianoliveira/tmux-chatwatch/internal/formatter"
	"github.com/cristianoliveira/tmux-chatwatch/internal/hooks"
	"github.com/cristianoliveira/tmux-chatwatch/internal/notify"
	"github.com/cristianoliveira/tmux-chatwatch/internal/slack"
	"github.com/cristianoliveira/tmux-chatwatch/internal/tmux"
	"github.com/cristianoliveira/tmux-chatwatch/internal/unread"
	"github.com/cristianoliveira/tmux-chatwatch/internal/watcher"
	"github.com/spf13/cobra"
)

// NewWatchCmd creates the watch command with explicit dependencies.
func NewWatchCmd(deps cliDeps) *cobra.Command {
	if deps.coreClient == nil {
		panic("NewWatchCmd: core dependency cannot be nil")
	}

	var intervalFlag time.Duration
	var concurrencyFlag int
	var onlyFlag []string

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll conversations and raise tmux notifications",
		Long: `Poll conversations and raise tmux notifications.

USAGE:
    tmux-chatwatch watch [OPTIONS]

OPTIONS:
    --interval <duration>      Delay between poll cycles (default: TMUX_CHATWATCH_WATCH_INTERVAL config value)
    --concurrency <n>          Parallel unread lookups per cycle (default: TMUX_CHATWATCH_SLACK_CONCURRENCY config value)
    --conversations <names>    Watch only the named conversations (comma-separated)
    -h, --help                 Show this help

The first cycle stores a baseline and raises nothing; afterwards each cycle
raises one notification per conversation whose unread count grew. Stop with
Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config.Load()

			if !deps.coreClient.EnsureTmuxRunning() && !allowTmuxlessMode() {
				return fmt.Errorf("tmux not running")
			}

			w, err := buildWatcher(deps, watchSettings{
				interval:    intervalFlag,
				concurrency: concurrencyFlag,
				only:        onlyFlag,
			})
			if err != nil {
				return err
			}
			return Watch(cmd.Context(), w, cmd.OutOrStdout())
		},
	}

	watchCmd.Flags().DurationVar(&intervalFlag, "interval", 0, "Delay between poll cycles (default: config value)")
	watchCmd.Flags().IntVar(&concurrencyFlag, "concurrency", 0, "Parallel unread lookups per cycle (default: config value)")
	watchCmd.Flags().StringSliceVar(&onlyFlag, "conversations", nil, "Watch only the named conversations (comma-separated)")

	return watchCmd
}

// watchSettings holds the flag overrides for one watch run.
type watchSettings struct {
	interval    time.Duration
	concurrency int
	only        []string
}

// buildWatcher assembles the poller from configuration, flag overrides,
// and the shared dependencies.
func buildWatcher(deps cliDeps, settings watchSettings) (*watcher.Watcher, error) {
	interval := settings.interval
	if interval <= 0 {
		interval = config.GetDuration("watch_interval", watcher.DefaultInterval)
	}
	concurrency := settings.concurrency
	if concurrency <= 0 {
		concurrency = config.GetInt("slack_concurrency", watcher.DefaultConcurrency)
	}
	only := settings.only
	if len(only) == 0 {
		only = splitConversationList(config.Get("watch_conversations", ""))
	}

	notifier := notify.New(notify.Options{
		Client:        deps.tmuxClient,
		History:       deps.storage,
		OpenCommand:   config.Get("notify_command", ""),
		TitleTemplate: config.Get("notify_template", ""),
	})

	problems := errors.NewCollectingHandler(nil)
	terminal := errors.NewDefaultCLIHandler()

	return watcher.New(watcher.Options{
		Tokens:                 deps.tokens,
		NewSession:             newWatchSession(deps.coreClient),
		Pins:                   deps.storage,
		OnEvent:                eventHandler(notifier),
		OnCycle:                withRecovery(problems, terminal, cycleHandler(deps.tmuxClient)),
		OnError:                failureHandler(problems, terminal),
		Interval:               interval,
		Concurrency:            concurrency,
		IncludePrivate:         config.GetBool("watch_include_private", true),
		IncludeIMs:             config.GetBool("watch_include_ims", true),
		NotifyNewConversations: config.GetBool("notify_new_conversations", false),
		Only:                   only,
	})
}

// eventHandler routes watcher events to the notifier. With notifications
// switched off events are still recorded in the history. User hooks run
// around the notification; an aborting pre-notify hook suppresses it.
func eventHandler(notifier *notify.Notifier) func(watcher.Event) {
	enabled := config.GetBool("notify_enabled", true)
	return func(event watcher.Event) {
		envVars := notifyHookEnv(event)
		if err := hooks.Run("pre-notify", envVars...); err != nil {
			colors.Warning("pre-notify hook aborted: " + err.Error())
			return
		}
		if !enabled {
			notifier.Record(event)
		} else if err := notifier.Notify(event); err != nil {
			colors.Warning("notification failed: " + err.Error())
		}
		if err := hooks.Run("post-notify", envVars...); err != nil {
			colors.Warning("post-notify hook failed: " + err.Error())
		}
	}
}

// notifyHookEnv builds the hook environment for one notification event.
func notifyHookEnv(event watcher.Event) []string {
	return []string{
		"CONVERSATION_ID=" + event.ConversationID,
		"CONVERSATION=" + event.Name,
		"NEW_MESSAGES=" + strconv.Itoa(event.Delta),
	}
}

// failureHandler buffers cycle failures so a persistent outage warns
// once instead of once per poll interval. Only a failure that differs
// from the previous one reaches the terminal.
func failureHandler(problems *errors.CollectingHandler, terminal errors.ErrorHandler) func(error) {
	return func(err error) {
		last, ok := problems.GetLatest()
		problems.Error(err.Error())
		if ok && last.Text == err.Error() {
			return
		}
		terminal.Warning("poll cycle failed: " + err.Error())
	}
}

// withRecovery wraps the cycle sink so the first successful cycle after
// a failure streak reports the recovery and clears the buffer.
func withRecovery(problems *errors.CollectingHandler, terminal errors.ErrorHandler, next func(map[string]watcher.Entry)) func(map[string]watcher.Entry) {
	return func(snapshot map[string]watcher.Entry) {
		if failed := problems.Drain(); len(failed) > 0 {
			terminal.Success(fmt.Sprintf("polling recovered after %d failed cycle(s)", len(failed)))
		}
		if next != nil {
			next(snapshot)
		}
	}
}

// cycleHandler publishes each snapshot to the tmux status option,
// rendered through the status_template (a preset name or a literal
// template), or nil when the status integration is switched off.
func cycleHandler(client tmux.TmuxClient) func(map[string]watcher.Entry) {
	if !config.GetBool("status_enabled", true) {
		return nil
	}
	template := formatter.ResolveTemplate(config.Get("status_template", "count-only"))
	if err := formatter.Validate(template); err != nil {
		colors.Warning("invalid status_template, falling back to unread count: " + err.Error())
		template = "{{unread-count}}"
	}
	engine := formatter.NewTemplateEngine()
	return func(snapshot map[string]watcher.Entry) {
		value, err := engine.Substitute(template, snapshotContext(snapshot))
		if err != nil {
			notify.PublishCount(client, snapshotTotal(snapshot))
			return
		}
		notify.PublishStatus(client, value)
	}
}

// snapshotContext converts a watcher snapshot into template variables.
func snapshotContext(snapshot map[string]watcher.Entry) formatter.Context {
	entries := make([]formatter.Unread, 0, len(snapshot))
	for _, entry := range snapshot {
		entries = append(entries, formatter.Unread{Name: entry.Name, Count: entry.Count})
	}
	return formatter.SnapshotContext(entries)
}

// snapshotTotal sums the unread counts in a snapshot.
func snapshotTotal(snapshot map[string]watcher.Entry) int {
	total := 0
	for _, entry := range snapshot {
		total += entry.Count
	}
	return total
}

// watchSession adapts the workspace client and unread counter to the
// watcher's per-token session.
type watchSession struct {
	api     core.API
	counter *unread.Counter
}

func (s *watchSession) ListChannels(ctx context.Context, opts slack.ListChannelsOptions) ([]slack.Channel, error) {
	return s.api.ListChannels(ctx, opts)
}

func (s *watchSession) Count(ctx context.Context, conversationID string) int {
	return s.counter.Count(ctx, conversationID)
}

// newWatchSession builds watcher sessions through the core client, so
// the poll loop shares the CLI's client construction.
func newWatchSession(client *core.Core) func(token string) (watcher.Session, error) {
	return func(token string) (watcher.Session, error) {
		api, counter, err := client.SessionFor(token)
		if err != nil {
			return nil, err
		}
		return &watchSession{api: api, counter: counter}, nil
	}
}

// splitConversationList parses the comma-separated watch_conversations
// configuration value.
func splitConversationList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Watch runs the poller until the context is cancelled or a signal
// arrives.
func Watch(ctx context.Context, w *watcher.Watcher, output io.Writer) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()

	fmt.Fprintln(output, "Watching for unread messages. Press Ctrl+C to stop.")

	select {
	case <-ctx.Done():
	case sig := <-sigChan:
		fmt.Fprintf(output, "\nReceived %v, stopping...\n", sig)
	}
	return nil
}
