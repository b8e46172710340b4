package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestHelpOverviewListsDotCommands(t *testing.T) {
	var out, errOut bytes.Buffer
	printHelp(&out, &errOut, "")

	for _, cmd := range []string{".help", ".status", ".power", ".model", ".serial",
		".errors", ".warnings", ".raw", ".reconnect", ".quit"} {
		if !strings.Contains(out.String(), cmd) {
			t.Errorf("overview missing %s", cmd)
		}
	}
	if errOut.Len() != 0 {
		t.Errorf("unexpected stderr output: %q", errOut.String())
	}
}

// Every command in the overview should have a detailed topic.
func TestHelpTopicsCoverOverview(t *testing.T) {
	for _, line := range strings.Split(helpOverview, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 || !strings.HasPrefix(fields[0], ".") {
			continue
		}
		key := strings.TrimPrefix(fields[0], ".")
		if _, ok := helpTopics[key]; !ok {
			t.Errorf("no help topic for %s", fields[0])
		}
	}
}

func TestHelpTopicLookup(t *testing.T) {
	tests := []struct {
		topic string
		want  string
	}{
		{"power", ".power on|off"},
		{".power", ".power on|off"},
		{"RAW", ".raw <cmd>"},
		{" reconnect ", ".reconnect"},
	}

	for _, tc := range tests {
		var out, errOut bytes.Buffer
		printHelp(&out, &errOut, tc.topic)
		if !strings.Contains(out.String(), tc.want) {
			t.Errorf("printHelp(%q) = %q, want it to contain %q", tc.topic, out.String(), tc.want)
		}
	}
}

func TestHelpUnknownTopic(t *testing.T) {
	var out, errOut bytes.Buffer
	printHelp(&out, &errOut, "bogus")

	if out.Len() != 0 {
		t.Errorf("unexpected stdout output: %q", out.String())
	}
	if !strings.Contains(errOut.String(), "No help for 'bogus'") {
		t.Errorf("stderr = %q, want a no-help message", errOut.String())
	}
}
