// Package watcher polls unread conversation state and raises one
// notification event per newly arrived batch of messages.
//
// The watcher keeps a snapshot of unread counts per conversation. Each
// cycle builds a fresh snapshot and emits an event for every
// conversation whose count grew since the previous one. The first
// snapshot after Start is stored silently as the baseline so that
// pre-existing unread state does not flood the user at startup.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cristianoliveira/tmux-chatwatch/internal/clock"
	"github.com/cristianoliveira/tmux-chatwatch/internal/colors"
	"github.com/cristianoliveira/tmux-chatwatch/internal/domain"
	"github.com/cristianoliveira/tmux-chatwatch/internal/pool"
	"github.com/cristianoliveira/tmux-chatwatch/internal/slack"
)

// Default cycle parameters, overridable through Options.
const (
	DefaultInterval    = 60 * time.Second
	DefaultConcurrency = 5
)

// ErrAlreadyRunning is returned by Start when the watcher is running.
var ErrAlreadyRunning = errors.New("watcher: already running")

// ErrNoToken reports the unauthenticated condition to one-shot callers.
// The poll loop itself never fails on it; it skips the cycle.
var ErrNoToken = errors.New("watcher: no token configured")

// Event is one detected increase in a conversation's unread count.
type Event struct {
	ConversationID string
	Name           string
	Delta          int
}

// Entry is one conversation's slot in a snapshot.
type Entry struct {
	Name  string
	Count int
}

// TokenSource resolves the workspace credential. The second return is
// false when no token is configured, which makes the watcher skip the
// cycle instead of failing it.
type TokenSource interface {
	Token() (string, bool)
}

// PinSource lists the pinned direct-message conversations to watch in
// addition to channel memberships.
type PinSource interface {
	ListPins() ([]domain.Pin, error)
}

// Session is the per-token view of the workspace a cycle runs against.
// It stays cached between cycles while the token is unchanged, so the
// unread counter keeps its resolved identity.
type Session interface {
	ListChannels(ctx context.Context, opts slack.ListChannelsOptions) ([]slack.Channel, error)
	Count(ctx context.Context, conversationID string) int
}

// Options configures a Watcher.
type Options struct {
	// Tokens resolves the credential at the start of every cycle. Required.
	Tokens TokenSource
	// NewSession builds the workspace session for a token. Required.
	NewSession func(token string) (Session, error)
	// Pins supplies pinned direct-message conversations. Nil means none.
	Pins PinSource
	// OnEvent receives notification events. Nil means events are dropped.
	OnEvent func(Event)
	// OnCycle receives a copy of every installed snapshot, baseline
	// included. Nil means snapshots are not reported.
	OnCycle func(snapshot map[string]Entry)
	// OnError receives cycle failures. A missing token is a skip, not a
	// failure, and is never reported. Nil means failures are only
	// visible in the structured log.
	OnError func(err error)

	// Interval is the delay between the end of one cycle and the start of
	// the next. Zero or negative means DefaultInterval.
	Interval time.Duration
	// Concurrency bounds the unread-count fan-out. Zero or negative means
	// DefaultConcurrency. The bound avoids remote rate limiting.
	Concurrency int

	// IncludePrivate adds private channels to the membership listing.
	IncludePrivate bool
	// IncludeIMs adds pinned direct messages to the candidate set.
	IncludeIMs bool
	// NotifyNewConversations emits a delta-from-zero event when a
	// conversation first appears in a snapshot. Off by default: a first
	// appearance becomes that conversation's baseline.
	NotifyNewConversations bool
	// Only restricts watching to the named conversations. Entries match
	// ids or display names, case-insensitive, leading "#" or "@" ignored.
	// Empty means watch everything.
	Only []string

	// Clock is the time source for the cycle delay. Nil means real time.
	Clock clock.Clock
}

// Watcher is the notification poller. Create with New, drive with
// Start/Stop. Snapshot may be read concurrently with a running watcher.
type Watcher struct {
	opts Options
	only map[string]bool

	mu       sync.Mutex
	snapshot map[string]Entry
	primed   bool

	// session state is owned by the run goroutine.
	sessionToken string
	session      Session

	runMu   sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// New creates a stopped Watcher.
func New(opts Options) (*Watcher, error) {
	if opts.Tokens == nil {
		return nil, fmt.Errorf("watcher: token source is required")
	}
	if opts.NewSession == nil {
		return nil, fmt.Errorf("watcher: session constructor is required")
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}

	only := make(map[string]bool, len(opts.Only))
	for _, name := range opts.Only {
		if key := conversationKey(name); key != "" {
			only[key] = true
		}
	}

	return &Watcher{opts: opts, only: only}, nil
}

// Start transitions the watcher to running and launches the poll loop.
// The first cycle runs immediately. Cancelling ctx stops the loop the
// same way Stop does, without waiting for it.
func (w *Watcher) Start(ctx context.Context) error {
	w.runMu.Lock()
	defer w.runMu.Unlock()

	if w.running {
		return ErrAlreadyRunning
	}

	// Each run gets a fresh baseline.
	w.mu.Lock()
	w.snapshot = nil
	w.primed = false
	w.mu.Unlock()

	w.stop = make(chan struct{})
	w.done = make(chan struct{})
	w.running = true
	go w.run(ctx)
	return nil
}

// Stop cancels the pending cycle timer and waits for the loop to exit.
// A cycle already in flight finishes and installs its snapshot, but no
// further cycle starts. Stopping a stopped watcher is a no-op.
func (w *Watcher) Stop() {
	w.runMu.Lock()
	defer w.runMu.Unlock()

	if !w.running {
		return
	}
	close(w.stop)
	<-w.done
	w.running = false
}

// Running reports whether the poll loop is active.
func (w *Watcher) Running() bool {
	w.runMu.Lock()
	defer w.runMu.Unlock()
	return w.running
}

// Snapshot returns a copy of the current unread snapshot.
func (w *Watcher) Snapshot() map[string]Entry {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make(map[string]Entry, len(w.snapshot))
	for id, entry := range w.snapshot {
		out[id] = entry
	}
	return out
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)

	for {
		w.runCycle(ctx)

		select {
		case <-w.stop:
			return
		case <-ctx.Done():
			return
		default:
		}

		timer := w.opts.Clock.After(w.opts.Interval)
		select {
		case <-w.stop:
			return
		case <-ctx.Done():
			return
		case <-timer:
			// Stop may have raced the timer firing; do not start a
			// cycle after Stop was requested.
			select {
			case <-w.stop:
				return
			case <-ctx.Done():
				return
			default:
			}
		}
	}
}

// runCycle executes one poll cycle. All failures are logged and leave
// the stored snapshot untouched; the next tick retries from scratch.
func (w *Watcher) runCycle(ctx context.Context) {
	started := w.opts.Clock.Now()

	token, ok := w.opts.Tokens.Token()
	if !ok {
		colors.StructuredDebug("watcher", "cycle", "skipped_no_token", nil, "", nil)
		return
	}

	session, err := w.sessionFor(token)
	if err != nil {
		w.fail(err)
		return
	}

	candidates, err := w.candidates(ctx, session)
	if err != nil {
		w.fail(err)
		return
	}

	counts := pool.Map(ctx, len(candidates), w.opts.Concurrency, func(ctx context.Context, i int) (int, error) {
		return session.Count(ctx, candidates[i].id), nil
	}, nil)

	next := make(map[string]Entry, len(candidates))
	for i, cand := range candidates {
		next[cand.id] = Entry{Name: cand.name, Count: counts[i]}
	}

	events := w.install(next)
	for _, event := range events {
		w.emit(event)
	}
	w.report(next)

	colors.StructuredDebug("watcher", "cycle", "completed", nil, "", map[string]interface{}{
		"conversations":    len(candidates),
		"events":           len(events),
		"duration_seconds": w.opts.Clock.Now().Sub(started).Seconds(),
	})
}

// fail logs a cycle failure and hands it to the error sink. A
// panicking sink is logged and never takes the poll loop down.
func (w *Watcher) fail(err error) {
	colors.StructuredError("watcher", "cycle", "failed", err, "", nil)
	if w.opts.OnError == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			colors.StructuredError("watcher", "fail", "panic", fmt.Errorf("%v", r), "", nil)
		}
	}()
	w.opts.OnError(err)
}

// sessionFor returns the cached session, rebuilding it when the token
// changed. Only the run goroutine calls this.
func (w *Watcher) sessionFor(token string) (Session, error) {
	if w.session != nil && w.sessionToken == token {
		return w.session, nil
	}

	session, err := w.opts.NewSession(token)
	if err != nil {
		return nil, fmt.Errorf("watcher: creating session: %w", err)
	}
	w.session = session
	w.sessionToken = token
	return session, nil
}

type candidate struct {
	id   string
	name string
}

// candidates builds the watched conversation set: member, non-archived
// channels unioned with pinned direct messages. Any listing failure
// aborts the whole cycle.
func (w *Watcher) candidates(ctx context.Context, session Session) ([]candidate, error) {
	types := []string{"public_channel"}
	if w.opts.IncludePrivate {
		types = append(types, "private_channel")
	}

	channels, err := session.ListChannels(ctx, slack.ListChannelsOptions{
		Types:           types,
		ExcludeArchived: true,
	})
	if err != nil {
		return nil, fmt.Errorf("watcher: listing channels: %w", err)
	}

	var out []candidate
	seen := make(map[string]bool)
	for _, channel := range channels {
		if !channel.IsMember || channel.IsArchived {
			continue
		}
		if seen[channel.ID] || !w.watched(channel.ID, channel.DisplayName()) {
			continue
		}
		seen[channel.ID] = true
		out = append(out, candidate{id: channel.ID, name: channel.DisplayName()})
	}

	if w.opts.IncludeIMs && w.opts.Pins != nil {
		pins, err := w.opts.Pins.ListPins()
		if err != nil {
			return nil, fmt.Errorf("watcher: listing pins: %w", err)
		}
		for _, pin := range pins {
			if seen[pin.ConversationID] || !w.watched(pin.ConversationID, pin.Label()) {
				continue
			}
			seen[pin.ConversationID] = true
			out = append(out, candidate{id: pin.ConversationID, name: pin.Label()})
		}
	}

	return out, nil
}

// watched applies the optional conversation allowlist.
func (w *Watcher) watched(id, name string) bool {
	if len(w.only) == 0 {
		return true
	}
	return w.only[conversationKey(id)] || w.only[conversationKey(name)]
}

func conversationKey(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "#")
	name = strings.TrimPrefix(name, "@")
	return strings.ToLower(name)
}

// install replaces the stored snapshot and returns the events the
// replacement produced, sorted by conversation id. The first install
// after Start primes the baseline and produces nothing.
func (w *Watcher) install(next map[string]Entry) []Event {
	w.mu.Lock()
	defer w.mu.Unlock()

	prev := w.snapshot
	primed := w.primed
	w.snapshot = next
	w.primed = true

	if !primed {
		return nil
	}

	var events []Event
	for id, entry := range next {
		old, tracked := prev[id]
		if !tracked && !w.opts.NotifyNewConversations {
			// First appearance becomes this conversation's baseline.
			continue
		}
		if delta := entry.Count - old.Count; delta > 0 {
			events = append(events, Event{ConversationID: id, Name: entry.Name, Delta: delta})
		}
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].ConversationID < events[j].ConversationID
	})
	return events
}

// report hands a copy of the installed snapshot to the cycle sink.
// The copy keeps the sink from racing later installs.
func (w *Watcher) report(next map[string]Entry) {
	if w.opts.OnCycle == nil {
		return
	}
	out := make(map[string]Entry, len(next))
	for id, entry := range next {
		out[id] = entry
	}
	defer func() {
		if r := recover(); r != nil {
			colors.StructuredError("watcher", "report", "panic", fmt.Errorf("%v", r), "", nil)
		}
	}()
	w.opts.OnCycle(out)
}

// emit hands one event to the sink. A panicking sink is logged and
// never takes the poll loop down.
func (w *Watcher) emit(event Event) {
	if w.opts.OnEvent == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			colors.StructuredError("watcher", "emit", "panic", fmt.Errorf("%v", r), event.ConversationID, nil)
		}
	}()
	w.opts.OnEvent(event)
}
