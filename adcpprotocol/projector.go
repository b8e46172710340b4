package adcpprotocol

import (
	"context"
	"encoding/json"
)

// PowerStatus is the reply to a power_status query.
type PowerStatus struct {
	State PowerState `json:"state" yaml:"state"`
}

// ErrorStatus is the reply to an error query.
type ErrorStatus struct {
	HasError bool   `json:"has_error" yaml:"has_error"`
	Code     string `json:"code,omitempty" yaml:"code,omitempty"`
}

// WarningStatus is the reply to a warning query.
type WarningStatus struct {
	HasWarning bool   `json:"has_warning" yaml:"has_warning"`
	Code       string `json:"code,omitempty" yaml:"code,omitempty"`
}

// Status sentinels reported when nothing is wrong.
const (
	noErrorCode   = "no_err"
	noWarningCode = "no_warn"
)

// SetPower switches the device on or off.
func (c *Client) SetPower(ctx context.Context, state PowerState) error {
	_, err := c.SendWithContext(ctx, PowerCommand(state))
	return err
}

// PowerStatus queries the current power state.
func (c *Client) PowerStatus(ctx context.Context) (PowerStatus, error) {
	r, err := c.SendWithContext(ctx, QueryCommand(QueryPowerStatus))
	if err != nil {
		return PowerStatus{}, err
	}
	return PowerStatus{State: PowerState(valueString(statusValue(r)))}, nil
}

// Errors queries the device error state. Only the first reported error is
// returned.
func (c *Client) Errors(ctx context.Context) (ErrorStatus, error) {
	r, err := c.SendWithContext(ctx, QueryCommand(QueryError))
	if err != nil {
		return ErrorStatus{}, err
	}
	code := firstStatus(r)
	if code == "" || code == noErrorCode {
		return ErrorStatus{}, nil
	}
	return ErrorStatus{HasError: true, Code: code}, nil
}

// Warnings queries the device warning state. Only the first reported
// warning is returned.
func (c *Client) Warnings(ctx context.Context) (WarningStatus, error) {
	r, err := c.SendWithContext(ctx, QueryCommand(QueryWarning))
	if err != nil {
		return WarningStatus{}, err
	}
	code := firstStatus(r)
	if code == "" || code == noWarningCode {
		return WarningStatus{}, nil
	}
	return WarningStatus{HasWarning: true, Code: code}, nil
}

// ModelName queries the model name.
func (c *Client) ModelName(ctx context.Context) (string, error) {
	r, err := c.SendWithContext(ctx, QueryCommand(QueryModelName))
	if err != nil {
		return "", err
	}
	return r.String(), nil
}

// SerialNumber queries the serial number.
func (c *Client) SerialNumber(ctx context.Context) (string, error) {
	r, err := c.SendWithContext(ctx, QueryCommand(QuerySerialNumber))
	if err != nil {
		return "", err
	}
	return r.String(), nil
}

// statusValue returns the "status" member of an object reply, or the reply
// value itself.
func statusValue(r Reply) any {
	switch r.Kind {
	case ReplyStructured:
		if m, ok := r.Value.(map[string]any); ok {
			if v, ok := m["status"]; ok && v != nil {
				return v
			}
		}
		return r.Value
	case ReplyAck:
		return nil
	default:
		return r.Text
	}
}

// firstStatus returns the status value as a string, taking the first
// element of a list. Falsy values come back empty.
func firstStatus(r Reply) string {
	v := statusValue(r)
	if l, ok := v.([]any); ok {
		if len(l) == 0 {
			return ""
		}
		v = l[0]
	}
	switch v := v.(type) {
	case bool:
		if !v {
			return ""
		}
	case json.Number:
		if f, err := v.Float64(); err == nil && f == 0 {
			return ""
		}
	}
	return valueString(v)
}
