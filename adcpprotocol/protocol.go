package adcpprotocol

import (
	"net"
	"strconv"
	"time"
)

// Protocol constants.
const (
	// LineTerminator ends every message in both directions.
	LineTerminator = "\r\n"

	// NoKeyChallenge is the challenge sent by a device that does not
	// require authentication.
	NoKeyChallenge = "NOKEY"

	// AuthAccepted is the only handshake reply that means success.
	AuthAccepted = "OK"

	// AckReply is the reply to a command that succeeded without data.
	AckReply = "ok"

	// ErrorPrefix starts every error reply.
	ErrorPrefix = "err"

	// DefaultPort is the TCP port ADCP devices listen on.
	DefaultPort = 53595

	// DefaultMaxLineLength bounds how many bytes may be buffered while
	// waiting for a line terminator.
	DefaultMaxLineLength = 64 * 1024

	// CommandTimeout is the default time a command waits for its reply.
	CommandTimeout = 5 * time.Second

	// DialTimeout is the default timeout for establishing the TCP connection.
	DialTimeout = 5 * time.Second

	// readChunkSize is the size of a single transport read.
	readChunkSize = 4096
)

// Config describes how to reach and talk to one device.
//
// Zero values select the defaults above. ChallengeTimeout and
// HandshakeTimeout default to zero, meaning the challenge and the
// handshake reply are awaited without a deadline.
type Config struct {
	Host     string
	Port     int
	Password string

	CommandTimeout   time.Duration
	DialTimeout      time.Duration
	ChallengeTimeout time.Duration
	HandshakeTimeout time.Duration

	// MaxLineLength caps the receive buffer. Negative disables the cap.
	MaxLineLength int

	// Observer, if set, receives trace events. It must not block.
	Observer Observer
}

// Addr returns host:port for the config, applying the default port.
func (c Config) Addr() string {
	port := c.Port
	if port == 0 {
		port = DefaultPort
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(port))
}

func (c Config) withDefaults() Config {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.CommandTimeout <= 0 {
		c.CommandTimeout = CommandTimeout
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = DialTimeout
	}
	if c.MaxLineLength == 0 {
		c.MaxLineLength = DefaultMaxLineLength
	}
	return c
}
