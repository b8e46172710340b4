// =============================================================================
// output.go - Output Formatting
// =============================================================================
//
// Reports are rendered as a go-pretty table by default, or as JSON/YAML
// when -o json / -o yaml is given. Interactive feedback (acks, errors) is
// tinted with lipgloss; the styles degrade to plain text when stdout is
// not a terminal.
//
// =============================================================================

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/table"
	"github.com/jedib0t/go-pretty/text"
	"gopkg.in/yaml.v3"

	"github.com/adcp/adcpctl/adcpprotocol"
)

var (
	// okStyle renders acknowledgements.
	okStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("2"))

	// errorStyle renders error messages.
	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("1"))

	// dimStyle renders secondary information such as hints.
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)
)

// deviceReport is the combined status shown by "status" and ".status".
type deviceReport struct {
	Address string `json:"address" yaml:"address"`
	Model   string `json:"model" yaml:"model"`
	Serial  string `json:"serial" yaml:"serial"`
	Power   string `json:"power" yaml:"power"`
	Error   string `json:"error" yaml:"error"`
	Warning string `json:"warning" yaml:"warning"`
}

// tableRows is implemented by results rendered as field/value tables.
type tableRows interface {
	rows() []table.Row
}

// rows returns the report as field/value table rows.
func (r deviceReport) rows() []table.Row {
	return []table.Row{
		{"Address", r.Address},
		{"Model", r.Model},
		{"Serial", r.Serial},
		{"Power", r.Power},
		{"Error", orNone(r.Error)},
		{"Warning", orNone(r.Warning)},
	}
}

func (i deviceInfo) rows() []table.Row {
	return []table.Row{
		{"Address", i.Address},
		{"Model", i.Model},
		{"Serial", i.Serial},
	}
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

// Formatter renders command results for display.
type Formatter interface {
	Format(data any) string
}

// newFormatter returns a Formatter for "table" (default), "json" or "yaml".
func newFormatter(format string) (Formatter, error) {
	switch strings.ToLower(format) {
	case "", "table":
		return tableFormatter{}, nil
	case "json":
		return jsonFormatter{}, nil
	case "yaml":
		return yamlFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
	}
}

// tableFormatter renders reports as a rounded go-pretty table.
type tableFormatter struct{}

func (tableFormatter) Format(data any) string {
	switch v := data.(type) {
	case tableRows:
		t := table.NewWriter()
		t.SetStyle(table.StyleRounded)
		t.Style().Format.Header = text.FormatDefault
		t.AppendHeader(table.Row{"Field", "Value"})
		for _, row := range v.rows() {
			t.AppendRow(row)
		}
		return t.Render() + "\n"
	case adcpprotocol.Reply:
		return formatReply(v) + "\n"
	default:
		return fmt.Sprintln(data)
	}
}

// jsonFormatter renders data as indented JSON.
type jsonFormatter struct{}

func (jsonFormatter) Format(data any) string {
	if r, ok := data.(adcpprotocol.Reply); ok {
		data = replyDocument(r)
	}
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("error formatting JSON: %v\n", err)
	}
	return string(b) + "\n"
}

// yamlFormatter renders data as YAML.
type yamlFormatter struct{}

func (yamlFormatter) Format(data any) string {
	if r, ok := data.(adcpprotocol.Reply); ok {
		data = replyDocument(r)
	}
	b, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Sprintf("error formatting YAML: %v\n", err)
	}
	return string(b)
}

// replyDocument is the machine-readable form of a reply.
func replyDocument(r adcpprotocol.Reply) map[string]any {
	doc := map[string]any{"kind": r.Kind.String()}
	switch r.Kind {
	case adcpprotocol.ReplyStructured:
		doc["value"] = r.Value
	case adcpprotocol.ReplyRaw, adcpprotocol.ReplyError:
		doc["value"] = r.Text
	}
	return doc
}

// formatReply renders a reply for humans: acks as "ok", structured strings
// bare, other structured values as indented JSON, raw lines verbatim.
func formatReply(r adcpprotocol.Reply) string {
	switch r.Kind {
	case adcpprotocol.ReplyAck:
		return okStyle.Render(adcpprotocol.AckReply)
	case adcpprotocol.ReplyStructured:
		if s, ok := r.Value.(string); ok {
			return s
		}
		b, err := json.MarshalIndent(r.Value, "", "  ")
		if err != nil {
			return r.String()
		}
		return string(b)
	default:
		return r.Text
	}
}

// printError prints an error message in the error style.
func printError(w io.Writer, message string) {
	fmt.Fprintln(w, errorStyle.Render("Error: "+message))
}

// printHint prints a dimmed hint line.
func printHint(w io.Writer, message string) {
	fmt.Fprintln(w, dimStyle.Render(message))
}
