package adcpsim

import (
	"fmt"
	"strings"
	"sync"

	"github.com/adcp/adcpctl/adcpprotocol"
)

// Error replies sent by the simulated projector.
const (
	ErrCommand = "err_cmd"
	ErrValue   = "err_val"
)

// Projector is a stateful Handler that behaves like a small projector.
type Projector struct {
	mu sync.Mutex

	Model   string
	Serial  string
	Power   adcpprotocol.PowerState
	Error   string // "" reports no_err
	Warning string // "" reports no_warn
}

// NewProjector returns a projector in standby.
func NewProjector() *Projector {
	return &Projector{
		Model:  "VPL-SIM100",
		Serial: "1234567",
		Power:  adcpprotocol.PowerStandby,
	}
}

// Handle answers one command.
func (p *Projector) Handle(cmd string) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	parts := strings.SplitN(strings.TrimSpace(cmd), " ", 2)
	keyword := parts[0]
	arg := ""
	if len(parts) > 1 {
		arg = strings.TrimSpace(parts[1])
	}

	switch keyword {
	case "power":
		switch arg {
		case `"on"`:
			p.Power = adcpprotocol.PowerOn
		case `"off"`:
			p.Power = adcpprotocol.PowerStandby
		default:
			return ErrValue
		}
		return adcpprotocol.AckReply
	case adcpprotocol.QueryPowerStatus:
		return fmt.Sprintf("%q", string(p.Power))
	case adcpprotocol.QueryError:
		if p.Error == "" {
			return `["no_err"]`
		}
		return fmt.Sprintf("[%q]", p.Error)
	case adcpprotocol.QueryWarning:
		if p.Warning == "" {
			return `["no_warn"]`
		}
		return fmt.Sprintf("[%q]", p.Warning)
	case adcpprotocol.QueryModelName:
		return fmt.Sprintf("%q", p.Model)
	case adcpprotocol.QuerySerialNumber:
		return fmt.Sprintf("%q", p.Serial)
	default:
		return ErrCommand
	}
}
