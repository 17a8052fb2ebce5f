package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/cristianoliveira/tmux-chatwatch/internal/colors"
)

// TableConfig holds configuration for table formatting.
type TableConfig struct {
	// ShowHeaders determines whether to show column headers.
	ShowHeaders bool

	// ShowSeparator determines whether a dashed line follows the headers.
	ShowSeparator bool

	// HeaderColor is the color to use for headers. Empty means plain.
	HeaderColor string
}

// DefaultTableConfig returns a default table configuration.
func DefaultTableConfig() *TableConfig {
	return &TableConfig{
		ShowHeaders: true,
		HeaderColor: colors.Blue,
	}
}

// MinimalTableConfig returns a configuration that renders rows only.
func MinimalTableConfig() *TableConfig {
	return &TableConfig{}
}

// FancyTableConfig returns a configuration with colored headers and a
// separator line.
func FancyTableConfig() *TableConfig {
	return &TableConfig{
		ShowHeaders:   true,
		ShowSeparator: true,
		HeaderColor:   colors.Cyan,
	}
}

// TableConfigFor maps a table_format configuration value to a config.
// Unknown values fall back to the default layout.
func TableConfigFor(name string) *TableConfig {
	switch name {
	case "minimal":
		return MinimalTableConfig()
	case "fancy":
		return FancyTableConfig()
	default:
		return DefaultTableConfig()
	}
}

// TableColumn represents a column in a table.
type TableColumn struct {
	// Name is the column name displayed in the header.
	Name string

	// Width is the column width in characters. Zero or negative means
	// the column sizes itself to its widest cell.
	Width int

	// Alignment is the text alignment (left, right, center).
	Alignment string
}

// Table renders rows of pre-extracted cells under a fixed column layout.
type Table struct {
	config  *TableConfig
	columns []TableColumn
}

// NewTable creates a table with the given configuration and columns.
// A nil configuration means the default one.
func NewTable(config *TableConfig, columns ...TableColumn) *Table {
	if config == nil {
		config = DefaultTableConfig()
	}
	return &Table{config: config, columns: columns}
}

// Write renders the rows. Rows shorter than the column list render
// empty trailing cells; no rows means no output.
func (t *Table) Write(writer io.Writer, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}

	widths := t.resolveWidths(rows)

	if t.config.ShowHeaders {
		if err := t.writeHeader(writer, widths); err != nil {
			return err
		}
		if t.config.ShowSeparator {
			if err := t.writeSeparator(writer, widths); err != nil {
				return err
			}
		}
	}

	for _, row := range rows {
		if err := t.writeRow(writer, widths, row); err != nil {
			return err
		}
	}
	return nil
}

// resolveWidths computes the effective width per column, sizing
// auto-width columns to their widest cell (and header, when shown).
func (t *Table) resolveWidths(rows [][]string) []int {
	widths := make([]int, len(t.columns))
	for i, col := range t.columns {
		if col.Width > 0 {
			widths[i] = col.Width
			continue
		}
		width := 0
		if t.config.ShowHeaders {
			width = len(col.Name)
		}
		for _, row := range rows {
			if i < len(row) && len(row[i]) > width {
				width = len(row[i])
			}
		}
		widths[i] = width
	}
	return widths
}

// writeHeader writes the table header.
func (t *Table) writeHeader(writer io.Writer, widths []int) error {
	cells := make([]string, len(t.columns))
	for i, col := range t.columns {
		cells[i] = formatString(col.Name, widths[i], "left")
	}
	line := strings.TrimRight(strings.Join(cells, "  "), " ")
	if t.config.HeaderColor != "" {
		line = t.config.HeaderColor + line + colors.Reset
	}
	_, err := fmt.Fprintln(writer, line)
	return err
}

// writeSeparator writes the dashed line under the header.
func (t *Table) writeSeparator(writer io.Writer, widths []int) error {
	cells := make([]string, len(widths))
	for i, width := range widths {
		cells[i] = makeSeparator(width)
	}
	_, err := fmt.Fprintln(writer, strings.Join(cells, "  "))
	return err
}

// writeRow writes a single table row.
func (t *Table) writeRow(writer io.Writer, widths []int, row []string) error {
	cells := make([]string, len(t.columns))
	for i, col := range t.columns {
		value := ""
		if i < len(row) {
			value = row[i]
		}
		cells[i] = formatString(value, widths[i], col.Alignment)
	}
	_, err := fmt.Fprintln(writer, strings.TrimRight(strings.Join(cells, "  "), " "))
	return err
}

// Helper functions

// formatString formats a string with the specified width and alignment.
func formatString(s string, width int, alignment string) string {
	if len(s) >= width {
		return truncateString(s, width)
	}

	switch alignment {
	case "right":
		return strings.Repeat(" ", width-len(s)) + s
	case "center":
		left := (width - len(s)) / 2
		right := width - len(s) - left
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
	default: // left
		return s + strings.Repeat(" ", width-len(s))
	}
}

// truncateString truncates a string to the specified width, adding "..."
// if truncated.
func truncateString(s string, width int) string {
	if len(s) <= width {
		return s
	}
	if width < 3 {
		return s[:width]
	}
	return s[:width-3] + "..."
}

// makeSeparator creates a separator line of the specified width.
func makeSeparator(width int) string {
	return strings.Repeat("-", width)
}
