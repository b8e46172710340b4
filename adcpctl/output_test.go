package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/adcp/adcpctl/adcpprotocol"
)

var sampleReport = deviceReport{
	Address: "127.0.0.1:53595",
	Model:   "VPL-SIM100",
	Serial:  "1234567",
	Power:   "on",
	Warning: "temp_high",
}

func TestNewFormatter(t *testing.T) {
	for _, format := range []string{"", "table", "JSON", "yaml"} {
		if _, err := newFormatter(format); err != nil {
			t.Errorf("newFormatter(%q): %v", format, err)
		}
	}
	if _, err := newFormatter("xml"); err == nil {
		t.Error("expected an error for xml")
	}
}

func TestTableFormatterReport(t *testing.T) {
	out := tableFormatter{}.Format(sampleReport)

	for _, want := range []string{"Field", "Value", "VPL-SIM100", "1234567", "temp_high"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	// Headers keep their case.
	if strings.Contains(out, "FIELD") || strings.Contains(out, "VALUE") {
		t.Errorf("table headers should not be upper-cased:\n%s", out)
	}
	// An empty error shows as "none".
	if !strings.Contains(out, "none") {
		t.Errorf("table should show none for an empty error:\n%s", out)
	}
}

func TestJSONFormatterReport(t *testing.T) {
	out := jsonFormatter{}.Format(sampleReport)

	var got deviceReport
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got != sampleReport {
		t.Errorf("got %+v, want %+v", got, sampleReport)
	}
}

func TestYAMLFormatterReport(t *testing.T) {
	out := yamlFormatter{}.Format(sampleReport)

	var got deviceReport
	if err := yaml.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out)
	}
	if got != sampleReport {
		t.Errorf("got %+v, want %+v", got, sampleReport)
	}
}

func TestFormatReply(t *testing.T) {
	tests := []struct {
		name  string
		reply adcpprotocol.Reply
		want  string
	}{
		{"ack", adcpprotocol.NewAckReply(), "ok"},
		{"string", adcpprotocol.DecodeReply(`"standby"`), "standby"},
		{"list", adcpprotocol.DecodeReply(`["no_err"]`), "[\n  \"no_err\"\n]"},
		{"number", adcpprotocol.DecodeReply(`42`), "42"},
		{"raw", adcpprotocol.DecodeReply("on"), "on"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Styles may add escape codes on a terminal.
			if got := formatReply(tc.reply); !strings.Contains(got, tc.want) {
				t.Errorf("formatReply = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestJSONFormatterReply(t *testing.T) {
	out := jsonFormatter{}.Format(adcpprotocol.DecodeReply(`{"status":"on"}`))

	var doc struct {
		Kind  string         `json:"kind"`
		Value map[string]any `json:"value"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if doc.Kind != "structured" || doc.Value["status"] != "on" {
		t.Errorf("unexpected document: %+v", doc)
	}
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, "boom")
	if !strings.Contains(buf.String(), "Error: boom") {
		t.Errorf("printError wrote %q", buf.String())
	}
}
