package adcpprotocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCommand(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`power "on"`, "power \"on\"\r\n"},
		{"modelname ?\r\n", "modelname ?\r\n"},
		{"", "\r\n"},
		{"trailing lf\n", "trailing lf\n\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(FormatCommand(tt.input)))
		})
	}
}

func TestDecodeReplyPrecedence(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		kind  ReplyKind
		text  string
		value any
	}{
		{"ack", "ok", ReplyAck, "", nil},
		{"ack is case sensitive", "OK", ReplyRaw, "OK", nil},
		{"error with detail", "err: bad command", ReplyError, "err: bad command", nil},
		{"error code", "err_cmd", ReplyError, "err_cmd", nil},
		{"error that looks like json", `err{"a":1}`, ReplyError, `err{"a":1}`, nil},
		{"object", `{"status":"on"}`, ReplyStructured, "", map[string]any{"status": "on"}},
		{"array", `["no_err"]`, ReplyStructured, "", []any{"no_err"}},
		{"string", `"standby"`, ReplyStructured, "", "standby"},
		{"number keeps text", "1234567890123456789", ReplyStructured, "", json.Number("1234567890123456789")},
		{"bool", "true", ReplyStructured, "", true},
		{"null", "null", ReplyStructured, "", nil},
		{"plain token", "ABC123", ReplyRaw, "ABC123", nil},
		{"trailing garbage", `{"a":1} x`, ReplyRaw, `{"a":1} x`, nil},
		{"two values", `1 2`, ReplyRaw, `1 2`, nil},
		{"empty", "", ReplyRaw, "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := DecodeReply(tt.line)
			assert.Equal(t, tt.kind, r.Kind)
			assert.Equal(t, tt.text, r.Text)
			assert.Equal(t, tt.value, r.Value)
		})
	}
}

func TestParseReplyError(t *testing.T) {
	_, err := ParseReply("err: bad command")
	var perr *ProtocolError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "err: bad command", perr.Line)
	assert.Equal(t, "bad command", perr.Detail())
}

func TestParseReplySuccess(t *testing.T) {
	r, err := ParseReply(`{"status":"on"}`)
	require.NoError(t, err)
	m, ok := r.Map()
	require.True(t, ok)
	assert.Equal(t, "on", m["status"])

	_, ok = r.List()
	assert.False(t, ok)
}

func TestReplyString(t *testing.T) {
	tests := []struct {
		line     string
		expected string
	}{
		{"ok", "ok"},
		{"ABC123", "ABC123"},
		{`"VPL-XW5000"`, "VPL-XW5000"},
		{"42", "42"},
		{"false", "false"},
		{"null", ""},
		{`["a","b"]`, `["a","b"]`},
		{`{"status":"on"}`, `{"status":"on"}`},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.expected, DecodeReply(tt.line).String())
		})
	}
}

func TestReplyKindString(t *testing.T) {
	assert.Equal(t, "ack", ReplyAck.String())
	assert.Equal(t, "error", ReplyError.String())
	assert.Equal(t, "structured", ReplyStructured.String())
	assert.Equal(t, "raw", ReplyRaw.String())
	assert.Equal(t, "ReplyKind(9)", ReplyKind(9).String())
}

func TestZeroReplyIsNoKind(t *testing.T) {
	var r Reply
	assert.False(t, r.IsAck())
	assert.False(t, r.IsError())
	assert.Equal(t, "", r.String())
	assert.Equal(t, "ReplyKind(0)", r.Kind.String())
}

func TestPowerCommands(t *testing.T) {
	assert.Equal(t, `power "on"`, PowerCommand(PowerOn))
	assert.Equal(t, `power "off"`, PowerCommand(PowerOff))
	assert.Equal(t, "power_status ?", QueryCommand(QueryPowerStatus))

	state, err := ParsePowerState(" ON ")
	require.NoError(t, err)
	assert.Equal(t, PowerOn, state)

	_, err = ParsePowerState("warming")
	assert.Error(t, err)
}
