package adcpprotocol

import "bytes"

var crlf = []byte(LineTerminator)

// LineFramer splits a byte stream into CRLF-terminated lines.
//
// Chunks are appended to a single buffer and lines are sliced out of it by
// advancing a read offset; the consumed prefix is reclaimed lazily, when a
// new chunk arrives and at least half the buffer is dead. A line may span
// any number of Feed calls.
type LineFramer struct {
	buf []byte
	off int

	// maxLen bounds the unterminated tail. Zero or negative means no bound.
	maxLen int
}

// NewLineFramer creates a framer. maxLen <= 0 disables the length guard.
func NewLineFramer(maxLen int) *LineFramer {
	return &LineFramer{maxLen: maxLen}
}

// Feed appends a chunk received from the transport.
func (f *LineFramer) Feed(chunk []byte) {
	if f.off > 0 && f.off >= len(f.buf)/2 {
		n := copy(f.buf, f.buf[f.off:])
		f.buf = f.buf[:n]
		f.off = 0
	}
	f.buf = append(f.buf, chunk...)
}

// Next extracts the first complete line, without its terminator.
//
// ok is false when no terminator has been received yet; the buffer is left
// untouched in that case. err is ErrLineTooLong when the pending tail
// exceeds the configured maximum.
func (f *LineFramer) Next() (line string, ok bool, err error) {
	pending := f.buf[f.off:]
	i := bytes.Index(pending, crlf)
	if i < 0 {
		if f.maxLen > 0 && len(pending) > f.maxLen {
			return "", false, ErrLineTooLong
		}
		return "", false, nil
	}
	line = string(pending[:i])
	f.off += i + len(crlf)
	if f.off == len(f.buf) {
		f.buf = f.buf[:0]
		f.off = 0
	}
	return line, true, nil
}

// Buffered returns the number of bytes received but not yet returned as a
// line.
func (f *LineFramer) Buffered() int {
	return len(f.buf) - f.off
}

// Reset drops everything buffered.
func (f *LineFramer) Reset() {
	f.buf = f.buf[:0]
	f.off = 0
}
