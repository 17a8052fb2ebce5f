package formatter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Context carries the values templates can reference. Event fields are
// set when rendering one notification; snapshot fields when rendering
// the status line. Unset fields resolve to their zero values.
type Context struct {
	// Event fields.
	ConversationID string
	Conversation   string
	Delta          int

	// Snapshot fields.
	UnreadTotal   int
	Conversations int
	UnreadList    string
	TopName       string
	TopCount      int
	HasUnread     bool
}

// EventContext builds the context for rendering one notification event.
func EventContext(conversationID, name string, delta int) Context {
	return Context{
		ConversationID: conversationID,
		Conversation:   name,
		Delta:          delta,
	}
}

// Unread is one conversation's slot in a status rendering.
type Unread struct {
	Name  string
	Count int
}

// SnapshotContext builds the context for rendering an unread snapshot.
// The list and top variables follow the busiest-first ordering of the
// status styles: count descending, then name.
func SnapshotContext(entries []Unread) Context {
	sorted := make([]Unread, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Count != sorted[j].Count {
			return sorted[i].Count > sorted[j].Count
		}
		return sorted[i].Name < sorted[j].Name
	})

	ctx := Context{}
	var parts []string
	for _, entry := range sorted {
		ctx.UnreadTotal += entry.Count
		if entry.Count > 0 {
			ctx.Conversations++
			parts = append(parts, fmt.Sprintf("%s:%d", entry.Name, entry.Count))
		}
	}
	ctx.UnreadList = strings.Join(parts, " ")
	ctx.HasUnread = ctx.UnreadTotal > 0
	if len(sorted) > 0 && sorted[0].Count > 0 {
		ctx.TopName = sorted[0].Name
		ctx.TopCount = sorted[0].Count
	}
	return ctx
}

// VariableResolver resolves template variables to their values.
type VariableResolver interface {
	// Resolve returns the string value for a variable name and context.
	Resolve(varName string, ctx Context) (string, error)
}

// variableResolver implements VariableResolver.
type variableResolver struct{}

// NewVariableResolver creates a variable resolver.
func NewVariableResolver() VariableResolver {
	return &variableResolver{}
}

// Resolve returns the string value for a variable from the context.
func (vr *variableResolver) Resolve(varName string, ctx Context) (string, error) {
	switch varName {
	// Event variables
	case "id":
		return ctx.ConversationID, nil

	case "name":
		return ctx.Conversation, nil

	case "delta":
		return strconv.Itoa(ctx.Delta), nil

	// Snapshot count variables
	case "unread-count":
		return strconv.Itoa(ctx.UnreadTotal), nil

	case "total-count":
		// Alias for unread-count
		return strconv.Itoa(ctx.UnreadTotal), nil

	case "conversation-count":
		return strconv.Itoa(ctx.Conversations), nil

	// Snapshot content variables
	case "unread-list":
		return ctx.UnreadList, nil

	case "top-name":
		return ctx.TopName, nil

	case "top-count":
		return strconv.Itoa(ctx.TopCount), nil

	// Boolean variables (as strings)
	case "has-unread":
		return boolToString(ctx.HasUnread), nil

	default:
		return "", fmt.Errorf("unknown variable: %s", varName)
	}
}

// boolToString converts a boolean to the string "true" or "false".
func boolToString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
