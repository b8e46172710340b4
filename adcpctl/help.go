// =============================================================================
// help.go - REPL Help System
// =============================================================================
//
// ".help" prints the command overview; ".help <topic>" prints details for
// one command. Topics are matched case-insensitively with or without the
// leading dot, so ".help .power" and ".help power" are equivalent.
//
// =============================================================================

package main

import (
	"fmt"
	"io"
	"strings"
)

// printHelp writes the overview, or the help for topic when it is not
// empty, to out. Unknown topics are reported on errOut.
func printHelp(out, errOut io.Writer, topic string) {
	if topic == "" {
		fmt.Fprint(out, helpOverview)
		return
	}

	key := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(topic)), ".")
	if text, ok := helpTopics[key]; ok {
		fmt.Fprintln(out, text)
		return
	}

	printError(errOut, fmt.Sprintf("No help for '%s'. Type .help to see available commands.", topic))
}

const helpOverview = `REPL Commands:
  .help [cmd]       Show help (or help for a specific command)
  .status           Show a device status report
  .power on|off     Switch the device on or off
  .model            Show the model name
  .serial           Show the serial number
  .errors           Show the current error, if any
  .warnings         Show the current warning, if any
  .raw <cmd>        Send a command verbatim, bypassing shorthands
  .reconnect        Reconnect after the connection was lost
  .quit             Exit

Shorthands:
  on, off           Same as power "on" / power "off"
  status            power_status ?
  model             modelname ?
  serial            serialnum ?
  errors            error ?
  warnings          warning ?
  Any other input is sent to the device as an ADCP command
`

// helpTopics holds detailed help keyed by command name without the dot.
var helpTopics = map[string]string{
	"help": `  .help [cmd]
    Show the command overview, or detailed help for one command.`,

	"status": `  .status
    Query power, error, warning, model and serial number and show them
    as one report. The bare word "status" sends power_status ? instead.`,

	"power": `  .power on|off
    Switch the device on or off. The device acknowledges with "ok";
    warming up or cooling down continues in the background and can be
    followed with "status".`,

	"model": `  .model
    Show the model name reported by modelname ?.`,

	"serial": `  .serial
    Show the serial number reported by serialnum ?.`,

	"errors": `  .errors
    Show the first active error reported by error ?, or "none".`,

	"warnings": `  .warnings
    Show the first active warning reported by warning ?, or "none".`,

	"raw": `  .raw <cmd>
    Send <cmd> exactly as typed. Use this when a device command collides
    with a shorthand, e.g. .raw status.`,

	"reconnect": `  .reconnect
    Open a new connection to the device. A timeout, a device error reply
    or a dropped connection closes the session; nothing is retried
    automatically.`,

	"quit": `  .quit
    Close the connection and exit. Ctrl-D does the same.`,
}
