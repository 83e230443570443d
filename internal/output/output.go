// Package output renders command results as a table, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"
)

// Output formats
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Tabular is implemented by results that can be shown as a table
type Tabular interface {
	Headers() []string
	Rows() [][]string
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681"))
)

// Write renders v to w in format. The table format needs a Tabular value.
func Write(w io.Writer, format string, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
		return enc.Close()
	case FormatTable, "":
		t, ok := v.(Tabular)
		if !ok {
			return fmt.Errorf("%T cannot be shown as a table", v)
		}
		_, err := fmt.Fprintln(w, Table(t))
		return err
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// Table renders t with a rounded border
func Table(t Tabular) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(t.Headers()...).
		Rows(t.Rows()...).
		String()
}

// List is a single column table
type List struct {
	Title string
	Items []string
}

func (l List) Headers() []string { return []string{l.Title} }

func (l List) Rows() [][]string {
	rows := make([][]string, len(l.Items))
	for i, item := range l.Items {
		rows[i] = []string{item}
	}
	return rows
}

func (l List) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.items())
}

func (l List) MarshalYAML() (any, error) {
	return l.items(), nil
}

func (l List) items() []string {
	if l.Items == nil {
		return []string{}
	}
	return l.Items
}
