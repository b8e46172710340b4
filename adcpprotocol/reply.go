package adcpprotocol

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// ReplyKind identifies which variant a Reply holds.
type ReplyKind int

const (
	// ReplyAck is the "ok" acknowledgment. It carries no payload. Kinds
	// start at one so the zero Reply returned with an error is no kind.
	ReplyAck ReplyKind = iota + 1
	// ReplyError is an "err..." line. Text holds the full line.
	ReplyError
	// ReplyStructured is a JSON value. Value holds the decoded value.
	ReplyStructured
	// ReplyRaw is any other line. Text holds it verbatim.
	ReplyRaw
)

// String returns the kind name.
func (k ReplyKind) String() string {
	switch k {
	case ReplyAck:
		return "ack"
	case ReplyError:
		return "error"
	case ReplyStructured:
		return "structured"
	case ReplyRaw:
		return "raw"
	default:
		return fmt.Sprintf("ReplyKind(%d)", int(k))
	}
}

// Reply is the decoded result of one exchange.
//
// Structured values are what encoding/json produces with UseNumber:
// map[string]any, []any, string, json.Number, bool or nil.
type Reply struct {
	Kind  ReplyKind
	Text  string
	Value any
}

// NewAckReply creates an acknowledgment reply.
func NewAckReply() Reply {
	return Reply{Kind: ReplyAck}
}

// NewErrorReply creates an error reply from the full error line.
func NewErrorReply(line string) Reply {
	return Reply{Kind: ReplyError, Text: line}
}

// NewStructuredReply creates a structured reply.
func NewStructuredReply(value any) Reply {
	return Reply{Kind: ReplyStructured, Value: value}
}

// NewRawReply creates an opaque string reply.
func NewRawReply(text string) Reply {
	return Reply{Kind: ReplyRaw, Text: text}
}

// IsAck returns true for an acknowledgment.
func (r Reply) IsAck() bool {
	return r.Kind == ReplyAck
}

// IsError returns true for an error reply.
func (r Reply) IsError() bool {
	return r.Kind == ReplyError
}

// Map returns the value as a JSON object, if it is one.
func (r Reply) Map() (map[string]any, bool) {
	if r.Kind != ReplyStructured {
		return nil, false
	}
	m, ok := r.Value.(map[string]any)
	return m, ok
}

// List returns the value as a JSON array, if it is one.
func (r Reply) List() ([]any, bool) {
	if r.Kind != ReplyStructured {
		return nil, false
	}
	l, ok := r.Value.([]any)
	return l, ok
}

// String renders the reply for display: "ok" for an acknowledgment, the
// line itself for error and raw replies, the unquoted string for JSON
// strings and compact JSON for every other structured value.
func (r Reply) String() string {
	switch r.Kind {
	case ReplyAck:
		return AckReply
	case ReplyError, ReplyRaw:
		return r.Text
	case ReplyStructured:
		return valueString(r.Value)
	default:
		return ""
	}
}

func valueString(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}

// DecodeReply classifies a reply line. It never fails: error lines come
// back as a ReplyError variant.
//
// Precedence is fixed: exact "ok", then the "err" prefix, then JSON, then
// the raw line.
func DecodeReply(line string) Reply {
	if line == AckReply {
		return NewAckReply()
	}
	if strings.HasPrefix(line, ErrorPrefix) {
		return NewErrorReply(line)
	}
	if v, ok := decodeJSON(line); ok {
		return NewStructuredReply(v)
	}
	return NewRawReply(line)
}

// ParseReply decodes a reply line and turns an error reply into a
// *ProtocolError.
func ParseReply(line string) (Reply, error) {
	r := DecodeReply(line)
	if r.IsError() {
		return Reply{}, &ProtocolError{Line: r.Text}
	}
	return r, nil
}

// decodeJSON accepts exactly one JSON value spanning the whole line.
func decodeJSON(line string) (any, bool) {
	dec := json.NewDecoder(strings.NewReader(line))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, false
	}
	return v, true
}

func trimErrorDetail(line string) string {
	return strings.TrimLeft(strings.TrimPrefix(line, ErrorPrefix), ": ")
}
