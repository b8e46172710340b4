// =============================================================================
// repl_test.go - Tests for the REPL Loop (repl.go)
// =============================================================================
//
// Each test runs the REPL against a simulated projector from adcpsim, with
// scripted input fed through a non-interactive LineEditor.
//
// =============================================================================

package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/adcp/adcpctl/adcpprotocol"
	"github.com/adcp/adcpctl/adcpprotocol/adcpsim"
)

// startSimulator starts a simulated projector for the duration of the test.
func startSimulator(t *testing.T, opts adcpsim.Options) *adcpsim.Server {
	t.Helper()
	srv, err := adcpsim.Start("127.0.0.1:0", opts)
	if err != nil {
		t.Fatalf("failed to start simulator: %v", err)
	}
	t.Cleanup(func() { srv.Close() })
	return srv
}

type replResult struct {
	out    string
	errOut string
	client *adcpprotocol.Client
	srv    *adcpsim.Server
}

// captureREPL runs the REPL over input until EOF or .quit.
func captureREPL(t *testing.T, input string, handler adcpsim.Handler) replResult {
	t.Helper()

	srv := startSimulator(t, adcpsim.Options{Handler: handler})
	client, err := adcpprotocol.Connect(context.Background(), adcpprotocol.Config{
		Host: srv.Host(),
		Port: srv.Port(),
	})
	if err != nil {
		t.Fatalf("failed to connect to simulator: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	var out, errOut bytes.Buffer
	r := &repl{
		ctx:    context.Background(),
		client: client,
		input:  NewLineEditor(strings.NewReader(input), &out),
		out:    &out,
		errOut: &errOut,
		format: tableFormatter{},
	}
	if err := r.run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	return replResult{out: out.String(), errOut: errOut.String(), client: client, srv: srv}
}

func assertCommands(t *testing.T, srv *adcpsim.Server, want ...string) {
	t.Helper()
	got := srv.Commands()
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("device received %q, want %q", got, want)
	}
}

func TestREPLQuitCommand(t *testing.T) {
	res := captureREPL(t, ".quit\nstatus\n", nil)
	assertCommands(t, res.srv)
}

func TestREPLEOFExits(t *testing.T) {
	res := captureREPL(t, "", nil)
	if !strings.Contains(res.out, connectedPrompt) {
		t.Errorf("output %q should contain the prompt", res.out)
	}
}

func TestREPLEmptyLines(t *testing.T) {
	res := captureREPL(t, "\n   \n\n", nil)
	assertCommands(t, res.srv)
	if res.errOut != "" {
		t.Errorf("unexpected stderr: %q", res.errOut)
	}
}

func TestREPLShorthands(t *testing.T) {
	res := captureREPL(t, "on\nstatus\nmodel\nserial\nerrors\nwarnings\n", nil)

	assertCommands(t, res.srv,
		`power "on"`, "power_status ?", "modelname ?", "serialnum ?", "error ?", "warning ?")
	for _, want := range []string{"ok", "on", "VPL-SIM100", "1234567", "no_err", "no_warn"} {
		if !strings.Contains(res.out, want) {
			t.Errorf("output missing %q:\n%s", want, res.out)
		}
	}
}

func TestREPLPassesUnknownCommandsThrough(t *testing.T) {
	res := captureREPL(t, "input \"hdmi1\"\n", func(string) string { return "ok" })
	assertCommands(t, res.srv, `input "hdmi1"`)
}

func TestREPLDotCommands(t *testing.T) {
	res := captureREPL(t, ".power on\n.model\n.serial\n.errors\n.warnings\n", nil)

	assertCommands(t, res.srv,
		`power "on"`, "modelname ?", "serialnum ?", "error ?", "warning ?")
	// No error or warning is active, so both report "none".
	if strings.Count(res.out, "none") != 2 {
		t.Errorf("expected two \"none\" lines:\n%s", res.out)
	}
}

func TestREPLCaseInsensitiveDotCommands(t *testing.T) {
	res := captureREPL(t, ".MODEL\n.Quit\nmodel\n", nil)
	assertCommands(t, res.srv, "modelname ?")
}

func TestREPLStatusReport(t *testing.T) {
	res := captureREPL(t, ".status\n", nil)

	assertCommands(t, res.srv,
		"modelname ?", "serialnum ?", "power_status ?", "error ?", "warning ?")
	for _, want := range []string{"VPL-SIM100", "standby", res.client.Addr()} {
		if !strings.Contains(res.out, want) {
			t.Errorf("report missing %q:\n%s", want, res.out)
		}
	}
}

func TestREPLRawBypassesShorthand(t *testing.T) {
	res := captureREPL(t, ".raw status\n", func(string) string { return `"raw reply"` })
	assertCommands(t, res.srv, "status")
	if !strings.Contains(res.out, "raw reply") {
		t.Errorf("output missing reply:\n%s", res.out)
	}
}

func TestREPLUsageErrors(t *testing.T) {
	res := captureREPL(t, ".raw\n.power sideways\npower sideways\n.bogus\n", nil)

	assertCommands(t, res.srv)
	for _, want := range []string{"usage: .raw", "usage: .power", "usage: power", "Unknown command '.bogus'"} {
		if !strings.Contains(res.errOut, want) {
			t.Errorf("stderr missing %q:\n%s", want, res.errOut)
		}
	}
}

func TestREPLHelp(t *testing.T) {
	res := captureREPL(t, ".help\n.help raw\n", nil)
	if !strings.Contains(res.out, "REPL Commands:") || !strings.Contains(res.out, "Send <cmd> exactly") {
		t.Errorf("help output incomplete:\n%s", res.out)
	}
}

// A device error closes the session; .reconnect opens a new one.
func TestREPLDeviceErrorAndReconnect(t *testing.T) {
	res := captureREPL(t, "bogus\nmodel\n.reconnect\n.reconnect\nmodel\n", nil)

	if !strings.Contains(res.errOut, "device replied err_cmd") {
		t.Errorf("stderr missing device error:\n%s", res.errOut)
	}
	if !strings.Contains(res.errOut, ".reconnect") {
		t.Errorf("stderr missing reconnect hint:\n%s", res.errOut)
	}
	if !strings.Contains(res.errOut, adcpprotocol.ErrNotConnected.Error()) {
		t.Errorf("model while disconnected should fail:\n%s", res.errOut)
	}
	if !strings.Contains(res.out, disconnectedPrompt) {
		t.Errorf("prompt should show the disconnected state:\n%s", res.out)
	}
	if !strings.Contains(res.out, "Connected to "+res.client.Addr()) {
		t.Errorf("missing reconnect confirmation:\n%s", res.out)
	}
	if !strings.Contains(res.out, "Already connected") {
		t.Errorf("second .reconnect should be a no-op:\n%s", res.out)
	}
	assertCommands(t, res.srv, "bogus", "modelname ?")
	if !res.client.IsConnected() {
		t.Error("client should be connected after .reconnect")
	}
}
