// Package search filters conversation and history listings. It supports
// multiple matching strategies (substring, regex, token-based) through a
// common Provider interface shared by the listing commands.
package search

// Entry is one searchable listing row. Both conversation listings and
// the notification history project into it.
type Entry struct {
	ID     string // conversation id, e.g. C024BE91L
	Name   string // display name, e.g. #general or @alice
	Kind   string // channel, group, or im
	Unread bool   // whether the row has unread messages
}

// Provider defines the interface for search providers.
// Implementations can use different strategies (substring, regex,
// token-based, etc.) to match entries against search queries.
type Provider interface {
	// Match returns true if the entry matches the search query.
	Match(entry Entry, query string) bool

	// Name returns the provider name for identification and debugging.
	Name() string
}

// Options holds configuration options for creating search providers.
type Options struct {
	CaseInsensitive bool     // If true, searches ignore case sensitivity
	Fields          []string // Fields to search in (default: all fields)
}

// DefaultOptions returns the default search options.
func DefaultOptions() Options {
	return Options{
		CaseInsensitive: false,
		Fields:          []string{"id", "name", "kind"},
	}
}

// fieldValue returns the entry value for a configured field name.
// Unknown fields resolve to the empty string and never match.
func (o Options) fieldValue(entry Entry, field string) string {
	switch field {
	case "id":
		return entry.ID
	case "name":
		return entry.Name
	case "kind":
		return entry.Kind
	}
	return ""
}

// Option is a function that modifies search options.
type Option func(*Options)

// WithCaseInsensitive sets case-insensitive search.
func WithCaseInsensitive(enabled bool) Option {
	return func(o *Options) {
		o.CaseInsensitive = enabled
	}
}

// WithFields sets the fields to search in.
// Valid fields: "id", "name", "kind".
func WithFields(fields []string) Option {
	return func(o *Options) {
		o.Fields = fields
	}
}

// applyOptions applies the given options to the options struct.
func applyOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
