package adcpprotocol

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for the ADCP client.
var (
	// ErrNotConnected indicates Send was called on a client that is not ready.
	ErrNotConnected = errors.New("not connected")

	// ErrAlreadyConnected indicates Connect was called twice.
	ErrAlreadyConnected = errors.New("already connected")

	// ErrTimeout indicates no reply line arrived in time.
	ErrTimeout = errors.New("timed out waiting for reply")

	// ErrConnectionClosed indicates the transport closed mid-exchange.
	ErrConnectionClosed = errors.New("connection closed")

	// ErrAuthenticationFailed indicates the device rejected the password.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrLineTooLong indicates the peer sent more than MaxLineLength bytes
	// without a line terminator.
	ErrLineTooLong = errors.New("line too long")

	// ErrExchangeInProgress indicates Send was called while another Send
	// on the same client had not returned yet.
	ErrExchangeInProgress = errors.New("exchange already in progress")
)

// ConnectError reports that the transport could not be established.
type ConnectError struct {
	Addr  string
	Cause error
}

// Error implements the error interface.
func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect %s: %v", e.Addr, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ConnectError) Unwrap() error {
	return e.Cause
}

// AuthenticationError reports a handshake reply other than "OK".
type AuthenticationError struct {
	Reply string
}

// Error implements the error interface.
func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("%v: device replied %q", ErrAuthenticationFailed, e.Reply)
}

// Is reports whether target is ErrAuthenticationFailed.
func (e *AuthenticationError) Is(target error) bool {
	return target == ErrAuthenticationFailed
}

// TimeoutError reports an exchange that received no complete reply line.
type TimeoutError struct {
	Command string
	Elapsed time.Duration
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%q: %v after %s", e.Command, ErrTimeout, e.Elapsed.Round(time.Millisecond))
}

// Is reports whether target is ErrTimeout.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// ConnectionClosedError reports that the transport went away while an
// exchange or the connect sequence was waiting for data.
type ConnectionClosedError struct {
	Cause error
}

// Error implements the error interface.
func (e *ConnectionClosedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%v: %v", ErrConnectionClosed, e.Cause)
	}
	return ErrConnectionClosed.Error()
}

// Unwrap returns the underlying transport error.
func (e *ConnectionClosedError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrConnectionClosed.
func (e *ConnectionClosedError) Is(target error) bool {
	return target == ErrConnectionClosed
}

// ProtocolError carries an error reply line exactly as the device sent it.
type ProtocolError struct {
	Line string
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	return fmt.Sprintf("device error: %s", e.Line)
}

// Detail returns the text following the "err" prefix, trimmed of
// separators such as ':' and spaces.
func (e *ProtocolError) Detail() string {
	return trimErrorDetail(e.Line)
}
