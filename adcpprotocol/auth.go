package adcpprotocol

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"strings"
)

// Digest returns the lowercase hex SHA-256 of challenge+secret, the value
// a client sends to answer an authentication challenge.
func Digest(challenge, secret string) string {
	sum := sha256.Sum256([]byte(challenge + secret))
	return hex.EncodeToString(sum[:])
}

type handshakeState int

const (
	handshakeAwaiting handshakeState = iota
	handshakeResolved
)

// Handshake answers one authentication challenge.
//
// The device's verdict is taken from the first data read after the digest
// is written, as a whole. It is not reassembled into lines.
type Handshake struct {
	challenge string
	secret    string
	state     handshakeState
	reply     string
}

// NewHandshake creates a handshake awaiting the device's verdict.
func NewHandshake(challenge, secret string) *Handshake {
	return &Handshake{challenge: challenge, secret: secret}
}

// Request returns the line to write: the digest followed by CRLF.
func (h *Handshake) Request() []byte {
	return []byte(Digest(h.challenge, h.secret) + LineTerminator)
}

// Resolve consumes the verdict data and reports whether it was exactly
// "OK" once surrounding whitespace is trimmed. Only the first call counts.
func (h *Handshake) Resolve(data []byte) bool {
	if h.state == handshakeAwaiting {
		h.reply = strings.TrimSpace(string(data))
		h.state = handshakeResolved
	}
	return h.Accepted()
}

// Resolved reports whether a verdict has been received.
func (h *Handshake) Resolved() bool {
	return h.state == handshakeResolved
}

// Accepted reports whether the device accepted the digest.
func (h *Handshake) Accepted() bool {
	return h.state == handshakeResolved && h.reply == AuthAccepted
}

// Reply returns the trimmed verdict text.
func (h *Handshake) Reply() string {
	return h.reply
}

// Authenticate runs a handshake directly over rw: one write of the digest,
// then one Read whose bytes are the verdict. Transport errors are returned
// as is; a rejected digest is (false, nil).
func Authenticate(rw io.ReadWriter, challenge, secret string) (bool, error) {
	h := NewHandshake(challenge, secret)
	if _, err := rw.Write(h.Request()); err != nil {
		return false, err
	}
	buf := make([]byte, readChunkSize)
	n, err := rw.Read(buf)
	if n == 0 && err != nil {
		return false, err
	}
	return h.Resolve(buf[:n]), nil
}
