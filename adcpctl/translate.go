// =============================================================================
// translate.go - Shorthand to ADCP Command Translation
// =============================================================================
//
// The REPL accepts a handful of bare shorthands so operators don't have to
// remember ADCP's query syntax:
//
//	on, off          ->  power "on" / power "off"
//	power on|off     ->  power "on" / power "off"
//	status           ->  power_status ?
//	model            ->  modelname ?
//	serial           ->  serialnum ?
//	errors           ->  error ?
//	warnings         ->  warning ?
//
// Anything else is sent to the device verbatim, so every ADCP command the
// device understands is reachable without a dedicated shorthand.
//
// =============================================================================

package main

import (
	"fmt"
	"strings"

	"github.com/adcp/adcpctl/adcpprotocol"
)

// shorthandQueries maps bare query words to the ADCP query name.
var shorthandQueries = map[string]string{
	"status":   adcpprotocol.QueryPowerStatus,
	"model":    adcpprotocol.QueryModelName,
	"serial":   adcpprotocol.QuerySerialNumber,
	"errors":   adcpprotocol.QueryError,
	"warnings": adcpprotocol.QueryWarning,
}

// translateToProtocol converts one REPL input line into the ADCP command
// to send. Shorthand keywords are matched case-insensitively; everything
// else passes through with surrounding whitespace removed.
func translateToProtocol(line string) (string, error) {
	trimmed := strings.TrimSpace(line)
	fields := strings.Fields(strings.ToLower(trimmed))
	if len(fields) == 0 {
		return "", nil
	}

	switch {
	case len(fields) == 1 && (fields[0] == "on" || fields[0] == "off"):
		return adcpprotocol.PowerCommand(adcpprotocol.PowerState(fields[0])), nil

	case fields[0] == "power" && len(fields) == 2 && !strings.Contains(trimmed, `"`):
		return translatePower(fields[1])

	case len(fields) == 1:
		if name, ok := shorthandQueries[fields[0]]; ok {
			return adcpprotocol.QueryCommand(name), nil
		}
	}

	return trimmed, nil
}

// translatePower builds a power command from an unquoted argument.
func translatePower(arg string) (string, error) {
	state, err := adcpprotocol.ParsePowerState(arg)
	if err != nil {
		return "", fmt.Errorf("usage: power on|off")
	}
	return adcpprotocol.PowerCommand(state), nil
}
