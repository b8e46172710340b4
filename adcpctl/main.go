// =============================================================================
// main.go - adcpctl Entry Point
// =============================================================================
//
// adcpctl is an operator CLI for projectors and displays that speak ADCP
// over TCP. It can run single commands (power, status, send) or an
// interactive REPL, and ships a simulator for trying things out without
// hardware.
//
// Usage:
//
//	adcpctl --host 192.168.0.10                Open the REPL
//	adcpctl --host 192.168.0.10 power on       Switch the projector on
//	adcpctl status -o json                     Status report as JSON
//	adcpctl send 'input "hdmi1"'               Send a raw command
//	adcpctl simulate --listen 127.0.0.1:53595  Run a simulated projector
//
// Connection settings come from ~/.adcp/config.yaml, then the ADCP_IP,
// ADCP_PORT and ADCP_PASSWORD environment variables, then flags.
//
// =============================================================================

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

const (
	// version is the current version of adcpctl.
	version = "0.3.0"

	// appName is the application name.
	appName = "adcpctl"
)

// fullTitle returns the application name with version.
func fullTitle() string {
	return fmt.Sprintf("%s v%s", appName, version)
}

// welcomeBanner returns the banner displayed when the REPL starts.
func welcomeBanner(addr string) string {
	return fmt.Sprintf(`%s - ADCP projector control
Connected to %s

Type '.help' for available commands.
Type '.quit' to exit.
`, fullTitle(), addr)
}

// setupSignalHandler runs cleanup and exits when SIGINT or SIGTERM
// arrives. The REPL uses it because the line editor blocks in a read that
// a context cannot interrupt.
func setupSignalHandler(cleanup func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println()
		cleanup()
		os.Exit(0)
	}()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		printError(os.Stderr, err.Error())
		stop()
		os.Exit(1)
	}
}
