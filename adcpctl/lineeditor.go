// =============================================================================
// lineeditor.go - Line Editor with Dual-Mode Operation
// =============================================================================
//
// The REPL reads input through a LineEditor that picks its input method
// from the environment:
//
//   - Interactive mode: ergochat/readline with Emacs keybindings, persistent
//     history and Ctrl-R search.
//   - Non-interactive mode: bufio.Scanner over the input stream with the
//     prompt printed manually, for piped scripts and Emacs comint.
//
// History lives in ~/.adcp_history, capped at 500 entries.
//
// =============================================================================

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"golang.org/x/term"
)

const (
	// historyFileName is the history file in the user's home directory.
	historyFileName = ".adcp_history"

	// historySize is the maximum number of history entries to retain.
	historySize = 500
)

// LineEditor wraps line editing with dual-mode operation.
type LineEditor struct {
	// interactive is true when input is a TTY outside Emacs.
	interactive bool

	// rl is the readline instance used in interactive mode. It is nil in
	// non-interactive mode.
	rl *readline.Instance

	// scanner and out serve non-interactive mode.
	scanner *bufio.Scanner
	out     io.Writer
}

// NewLineEditor creates a LineEditor reading from in and echoing prompts to
// out. Readline is used only when in is a terminal and INSIDE_EMACS is
// unset.
func NewLineEditor(in io.Reader, out io.Writer) *LineEditor {
	if !isTerminal(in) || os.Getenv("INSIDE_EMACS") != "" {
		return newScannerEditor(in, out)
	}

	rl, err := readline.NewFromConfig(&readline.Config{
		HistoryFile:            filepath.Join(homeDir(), historyFileName),
		HistoryLimit:           historySize,
		DisableAutoSaveHistory: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: readline init failed (%v), using basic input\n", err)
		return newScannerEditor(in, out)
	}

	return &LineEditor{
		interactive: true,
		rl:          rl,
	}
}

func newScannerEditor(in io.Reader, out io.Writer) *LineEditor {
	return &LineEditor{
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

// isTerminal reports whether r is a file attached to a terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// GetLine reads a line of input after showing prompt. It returns io.EOF on
// Ctrl-D, Ctrl-C or exhausted input.
func (le *LineEditor) GetLine(prompt string) (string, error) {
	if le.interactive {
		return le.getInteractiveLine(prompt)
	}
	return le.getNonInteractiveLine(prompt)
}

func (le *LineEditor) getInteractiveLine(prompt string) (string, error) {
	le.rl.SetPrompt(prompt)

	line, err := le.rl.Readline()
	if err != nil {
		if err == readline.ErrInterrupt {
			return "", io.EOF
		}
		return "", err
	}

	if trimmed := strings.TrimSpace(line); trimmed != "" {
		le.rl.SaveToHistory(trimmed)
	}
	return line, nil
}

func (le *LineEditor) getNonInteractiveLine(prompt string) (string, error) {
	// Emacs comint matches on the prompt, so print it even without a TTY.
	fmt.Fprint(le.out, prompt)

	if !le.scanner.Scan() {
		if err := le.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return le.scanner.Text(), nil
}

// Close saves history and releases readline. It is idempotent.
func (le *LineEditor) Close() {
	if le.rl != nil {
		le.rl.Close()
		le.rl = nil
	}
}

// IsInteractive reports whether the editor runs with full line editing.
func (le *LineEditor) IsInteractive() bool {
	return le.interactive
}
