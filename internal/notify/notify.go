// Package notify raises watcher events as tmux popups and records them
// in the notification history.
package notify

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cristianoliveira/tmux-chatwatch/internal/colors"
	"github.com/cristianoliveira/tmux-chatwatch/internal/domain"
	"github.com/cristianoliveira/tmux-chatwatch/internal/formatter"
	"github.com/cristianoliveira/tmux-chatwatch/internal/tmux"
	"github.com/cristianoliveira/tmux-chatwatch/internal/watcher"
)

// StatusOption is the tmux user option holding the unread status value,
// for use in status-line formats like #{@chatwatch_unread}.
const StatusOption = "@chatwatch_unread"

// DefaultTitleTemplate renders the popup title when no notify_template
// is configured.
const DefaultTitleTemplate = "{{name}}: {{delta}} new"

// HistoryAppender records raised notifications. Satisfied by
// storage.Storage.
type HistoryAppender interface {
	AppendHistory(entry domain.HistoryEntry) (int64, error)
}

// Options configures a Notifier.
type Options struct {
	// Client runs tmux commands. Nil means the default exec client.
	Client tmux.TmuxClient
	// History records raised notifications. Nil disables recording.
	History HistoryAppender
	// OpenCommand is the shell command run when the user picks Open.
	// "{{id}}" and "{{name}}" expand to the conversation id and display
	// name. Empty means no Open choice; events fall back to a plain
	// status-line message.
	OpenCommand string
	// TitleTemplate renders the popup title from the event. Empty means
	// DefaultTitleTemplate.
	TitleTemplate string
}

// Notifier presents one dismissible tmux notification per event.
type Notifier struct {
	client        tmux.TmuxClient
	history       HistoryAppender
	openCommand   string
	titleTemplate string
	engine        formatter.TemplateEngine
}

// New creates a Notifier.
func New(opts Options) *Notifier {
	client := opts.Client
	if client == nil {
		client = tmux.NewDefaultClient()
	}
	titleTemplate := opts.TitleTemplate
	if titleTemplate == "" {
		titleTemplate = DefaultTitleTemplate
	}
	return &Notifier{
		client:        client,
		history:       opts.History,
		openCommand:   opts.OpenCommand,
		titleTemplate: titleTemplate,
		engine:        formatter.NewTemplateEngine(),
	}
}

// Record appends the event to the notification history without raising
// a popup. A recording failure is logged, never returned; the poll loop
// must not stall on a full disk.
func (n *Notifier) Record(event watcher.Event) {
	if n.history == nil {
		return
	}
	entry := domain.HistoryEntry{
		ConversationID: event.ConversationID,
		Name:           event.Name,
		Delta:          event.Delta,
	}
	if _, err := n.history.AppendHistory(entry); err != nil {
		colors.StructuredWarn("notify", "append_history", "failed", err, event.ConversationID, nil)
	}
}

// Notify raises one event as a menu popup with Open and Dismiss
// choices, or as a status-line message when no open command is
// configured. The event is recorded in the history first; a recording
// failure never suppresses the notification.
func (n *Notifier) Notify(event watcher.Event) error {
	ctx := formatter.EventContext(event.ConversationID, event.Name, event.Delta)
	title := n.render(n.titleTemplate, ctx, fmt.Sprintf("%s: %d new", event.Name, event.Delta))

	n.Record(event)

	if n.openCommand == "" {
		if err := n.client.DisplayMessage(title); err != nil {
			return fmt.Errorf("notify: showing message: %w", err)
		}
		return nil
	}

	open := n.render(n.openCommand, ctx, n.openCommand)
	items := []tmux.MenuItem{
		{Label: "Open", Key: "o", Command: "run-shell " + singleQuote(open)},
		{Label: "Dismiss", Key: "d", Command: ""},
	}
	if err := n.client.DisplayMenu(title, items); err != nil {
		return fmt.Errorf("notify: showing menu: %w", err)
	}
	return nil
}

// render substitutes the template, falling back when it does not
// render. A broken user template must not swallow the notification.
func (n *Notifier) render(template string, ctx formatter.Context, fallback string) string {
	out, err := n.engine.Substitute(template, ctx)
	if err != nil {
		colors.StructuredWarn("notify", "render_template", "failed", err, template, nil)
		return fallback
	}
	return out
}

// PublishStatus publishes a rendered status value as a tmux user
// option. Best effort: without a tmux server this is a debug event, not
// a failure.
func PublishStatus(client tmux.TmuxClient, value string) {
	if client == nil {
		return
	}
	if err := client.SetStatusOption(StatusOption, value); err != nil {
		colors.StructuredDebug("notify", "publish_status", "failed", err, "", nil)
	}
}

// PublishCount publishes the total unread count as the status value.
func PublishCount(client tmux.TmuxClient, total int) {
	PublishStatus(client, strconv.Itoa(total))
}

// singleQuote wraps s in single quotes for the shell, escaping embedded
// single quotes.
func singleQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
