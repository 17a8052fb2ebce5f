// Package formatter renders the user-configurable templates behind the
// tmux-facing strings: notification popup titles, open commands, and
// the status-line option value. Templates use {{variable}} placeholders
// resolved against a notification event or an unread snapshot.
package formatter

import (
	"fmt"
	"regexp"
	"strings"
)

// TemplateEngine provides template parsing and variable substitution.
type TemplateEngine interface {
	// Parse returns the variables referenced by the template, without
	// duplicates, in order of first appearance.
	Parse(template string) []string

	// Substitute replaces every variable in the template with its value
	// from the context. An unknown variable fails the whole render.
	Substitute(template string, ctx Context) (string, error)
}

// templateEngine implements TemplateEngine.
type templateEngine struct {
	variablePattern *regexp.Regexp
	resolver        VariableResolver
}

// NewTemplateEngine creates a template engine.
func NewTemplateEngine() TemplateEngine {
	return &templateEngine{
		variablePattern: regexp.MustCompile(`\{\{([a-z0-9-]+)\}\}`),
		resolver:        NewVariableResolver(),
	}
}

func (te *templateEngine) Parse(template string) []string {
	matches := te.variablePattern.FindAllStringSubmatch(template, -1)

	seen := make(map[string]bool)
	variables := []string{}
	for _, match := range matches {
		name := match[1]
		if !seen[name] {
			variables = append(variables, name)
			seen[name] = true
		}
	}
	return variables
}

func (te *templateEngine) Substitute(template string, ctx Context) (string, error) {
	result := template
	for _, name := range te.Parse(template) {
		value, err := te.resolver.Resolve(name, ctx)
		if err != nil {
			return "", err
		}
		result = strings.ReplaceAll(result, "{{"+name+"}}", value)
	}
	return result, nil
}

// Validate checks a template without rendering it: delimiters must
// balance and every referenced variable must exist.
func Validate(template string) error {
	opens := strings.Count(template, "{{")
	closes := strings.Count(template, "}}")
	if opens != closes {
		return fmt.Errorf("mismatched variable delimiters: %d opens, %d closes", opens, closes)
	}

	engine := NewTemplateEngine()
	resolver := NewVariableResolver()
	for _, name := range engine.Parse(template) {
		if _, err := resolver.Resolve(name, Context{}); err != nil {
			return err
		}
	}
	return nil
}
