package adcpprotocol

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TraceKind identifies a point in the client lifecycle.
type TraceKind int

const (
	TraceConnectStart TraceKind = iota
	TraceConnectDone
	TraceWrite
	TraceReply
	TraceError
	TraceClose
)

// String returns the kind name used in logs.
func (k TraceKind) String() string {
	switch k {
	case TraceConnectStart:
		return "connect_start"
	case TraceConnectDone:
		return "connect_done"
	case TraceWrite:
		return "write"
	case TraceReply:
		return "reply"
	case TraceError:
		return "error"
	case TraceClose:
		return "close"
	default:
		return "unknown"
	}
}

// TraceEvent describes one observable step of a client.
type TraceEvent struct {
	Kind    TraceKind
	ConnID  uuid.UUID
	Addr    string
	Command string
	Data    string // bytes written, without terminator; redacted for the auth digest
	Reply   Reply
	Err     error
	Elapsed time.Duration
}

// Observer receives trace events. It is called synchronously from the
// goroutine running the operation and must not block.
type Observer func(ev TraceEvent)

// redacted replaces the password digest in write events.
const redacted = "<digest>"

// ZerologObserver returns an Observer that logs events to logger.
//
// Connects are logged at info, writes and replies at debug, errors at
// warn.
func ZerologObserver(logger zerolog.Logger) Observer {
	return func(ev TraceEvent) {
		var e *zerolog.Event
		switch ev.Kind {
		case TraceConnectStart, TraceClose:
			e = logger.Info()
		case TraceConnectDone:
			if ev.Err != nil {
				e = logger.Warn().Err(ev.Err)
			} else {
				e = logger.Info()
			}
		case TraceWrite:
			e = logger.Debug().Str("data", ev.Data)
		case TraceReply:
			e = logger.Debug().
				Str("command", ev.Command).
				Stringer("kind", ev.Reply.Kind).
				Str("reply", ev.Reply.String())
		case TraceError:
			e = logger.Warn().Err(ev.Err).Str("command", ev.Command)
		default:
			e = logger.Debug()
		}
		if ev.Elapsed > 0 {
			e = e.Dur("elapsed", ev.Elapsed)
		}
		e.Str("conn_id", ev.ConnID.String()).
			Str("addr", ev.Addr).
			Msg(ev.Kind.String())
	}
}
