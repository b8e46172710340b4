// =============================================================================
// repl.go - Interactive REPL
// =============================================================================
//
// The REPL reads one line at a time, handles dot-commands locally and sends
// everything else to the device, one exchange per line. A failed exchange
// closes the session (see adcpprotocol); the REPL reports it and waits
// for .reconnect instead of reconnecting behind the operator's back.
//
// =============================================================================

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/adcp/adcpctl/adcpprotocol"
)

const (
	connectedPrompt    = "adcp> "
	disconnectedPrompt = "adcp (disconnected)> "
)

// lineSource supplies REPL input. *LineEditor implements it.
type lineSource interface {
	GetLine(prompt string) (string, error)
}

// repl holds the state of one interactive session.
type repl struct {
	ctx    context.Context
	client *adcpprotocol.Client
	input  lineSource
	out    io.Writer
	errOut io.Writer
	format Formatter
}

// run loops until .quit or end of input.
func (r *repl) run() error {
	for {
		line, err := r.input.GetLine(r.prompt())
		if err == io.EOF {
			fmt.Fprintln(r.out)
			return nil
		}
		if err != nil {
			return err
		}

		if quit := r.handle(strings.TrimSpace(line)); quit {
			return nil
		}
	}
}

func (r *repl) prompt() string {
	if r.client.IsConnected() {
		return connectedPrompt
	}
	return disconnectedPrompt
}

// handle processes one trimmed input line and reports whether the REPL
// should exit.
func (r *repl) handle(line string) bool {
	if line == "" {
		return false
	}
	if strings.HasPrefix(line, ".") {
		return r.handleDot(line)
	}

	cmd, err := translateToProtocol(line)
	if err != nil {
		printError(r.errOut, err.Error())
		return false
	}
	r.send(cmd)
	return false
}

// handleDot runs a dot-command.
func (r *repl) handleDot(line string) bool {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case ".quit", ".exit":
		return true

	case ".help":
		printHelp(r.out, r.errOut, arg)

	case ".reconnect":
		r.reconnect()

	case ".status":
		report, err := collectReport(r.ctx, r.client)
		if err != nil {
			r.reportError(err)
			return false
		}
		fmt.Fprint(r.out, r.format.Format(report))

	case ".power":
		state, err := adcpprotocol.ParsePowerState(arg)
		if err != nil {
			printError(r.errOut, "usage: .power on|off")
			return false
		}
		if err := r.client.SetPower(r.ctx, state); err != nil {
			r.reportError(err)
			return false
		}
		fmt.Fprintln(r.out, okStyle.Render(adcpprotocol.AckReply))

	case ".model":
		r.show(r.client.ModelName(r.ctx))

	case ".serial":
		r.show(r.client.SerialNumber(r.ctx))

	case ".errors":
		status, err := r.client.Errors(r.ctx)
		r.show(orNone(status.Code), err)

	case ".warnings":
		status, err := r.client.Warnings(r.ctx)
		r.show(orNone(status.Code), err)

	case ".raw":
		if arg == "" {
			printError(r.errOut, "usage: .raw <command>")
			return false
		}
		r.send(arg)

	default:
		printError(r.errOut, fmt.Sprintf("Unknown command '%s'. Type .help to see available commands.", name))
	}
	return false
}

// send performs one exchange and prints the reply.
func (r *repl) send(cmd string) {
	reply, err := r.client.SendWithContext(r.ctx, cmd)
	if err != nil {
		r.reportError(err)
		return
	}
	if out := formatReply(reply); out != "" {
		fmt.Fprintln(r.out, out)
	}
}

func (r *repl) show(value string, err error) {
	if err != nil {
		r.reportError(err)
		return
	}
	fmt.Fprintln(r.out, value)
}

func (r *repl) reconnect() {
	if r.client.IsConnected() {
		printHint(r.out, "Already connected to "+r.client.Addr())
		return
	}
	if err := r.client.ConnectWithContext(r.ctx); err != nil {
		printError(r.errOut, err.Error())
		return
	}
	fmt.Fprintf(r.out, "Connected to %s\n", r.client.Addr())
}

// reportError prints err and, when the session is gone, how to get it
// back.
func (r *repl) reportError(err error) {
	var perr *adcpprotocol.ProtocolError
	if errors.As(err, &perr) {
		printError(r.errOut, "device replied "+perr.Line)
	} else {
		printError(r.errOut, err.Error())
	}
	if !r.client.IsConnected() {
		printHint(r.errOut, "Connection closed. Type .reconnect to open a new one.")
	}
}
