package adcpprotocol

import (
	"fmt"
	"strings"
)

// FormatCommand returns the bytes to write for a command line, adding the
// CRLF terminator unless the command already ends with one.
func FormatCommand(cmd string) []byte {
	if strings.HasSuffix(cmd, LineTerminator) {
		return []byte(cmd)
	}
	return []byte(cmd + LineTerminator)
}

// Query names understood by ADCP devices.
const (
	QueryPowerStatus  = "power_status"
	QueryError        = "error"
	QueryWarning      = "warning"
	QueryModelName    = "modelname"
	QuerySerialNumber = "serialnum"
)

// PowerState is a power setting or a reported power status.
type PowerState string

const (
	PowerOn      PowerState = "on"
	PowerOff     PowerState = "off"
	PowerStandby PowerState = "standby"
	PowerWarming PowerState = "warming"
	PowerCooling PowerState = "cooling"
)

// ParsePowerState accepts the settable states "on" and "off".
func ParsePowerState(s string) (PowerState, error) {
	switch PowerState(strings.ToLower(strings.TrimSpace(s))) {
	case PowerOn:
		return PowerOn, nil
	case PowerOff:
		return PowerOff, nil
	default:
		return "", fmt.Errorf("invalid power state %q (want on or off)", s)
	}
}

// PowerCommand builds the command that switches power.
func PowerCommand(state PowerState) string {
	return fmt.Sprintf("power %q", string(state))
}

// QueryCommand builds a "<name> ?" query.
func QueryCommand(name string) string {
	return name + " ?"
}
