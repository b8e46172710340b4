package main

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestLineEditorNonInteractive(t *testing.T) {
	var out bytes.Buffer
	le := NewLineEditor(strings.NewReader("first\nsecond line\n"), &out)
	defer le.Close()

	if le.IsInteractive() {
		t.Fatal("a strings.Reader must not be treated as a terminal")
	}

	for _, want := range []string{"first", "second line"} {
		line, err := le.GetLine("> ")
		if err != nil {
			t.Fatalf("GetLine: %v", err)
		}
		if line != want {
			t.Errorf("GetLine = %q, want %q", line, want)
		}
	}

	if _, err := le.GetLine("> "); err != io.EOF {
		t.Errorf("GetLine at end = %v, want io.EOF", err)
	}
	if out.String() != "> > > " {
		t.Errorf("prompts written = %q", out.String())
	}
}

func TestLineEditorCloseIdempotent(t *testing.T) {
	le := NewLineEditor(strings.NewReader(""), io.Discard)
	le.Close()
	le.Close()
}

func TestIsTerminal(t *testing.T) {
	if isTerminal(strings.NewReader("")) {
		t.Error("strings.Reader reported as a terminal")
	}
}
