package adcpprotocol

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle position of a Client.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateAuthenticating
	StateReady
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateAuthenticating:
		return "authenticating"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// errDeadline is returned by session waits whose timer fired.
var errDeadline = errors.New("deadline reached")

// Client is a TCP client for one ADCP device.
//
// Connect opens the socket, reads the challenge and authenticates when the
// device asks for it. Send then runs one command/reply exchange at a time.
// Any failed exchange tears the connection down; the client must be
// connected again before the next Send.
type Client struct {
	cfg  Config
	addr string
	id   uuid.UUID

	mu    sync.Mutex
	state State
	sess  *session

	// busy is set for the duration of an exchange.
	busy atomic.Bool
}

// session is everything that belongs to one TCP connection.
type session struct {
	conn   net.Conn
	framer *LineFramer

	// events carries data chunks from the reader goroutine, one per Read.
	events chan []byte
	// closing stops the reader goroutine.
	closing   chan struct{}
	closeOnce sync.Once
	closeErr  error
	// done is closed when the reader goroutine exits; err is valid after.
	done chan struct{}
	err  error

	// dead is set, under Client.mu, once the reader has seen a read error.
	dead bool
}

// NewClient creates a client for the device described by cfg. The client
// starts disconnected.
func NewClient(cfg Config) *Client {
	cfg = cfg.withDefaults()
	return &Client{
		cfg:  cfg,
		addr: cfg.Addr(),
		id:   uuid.New(),
	}
}

// Connect creates a client and connects it.
func Connect(ctx context.Context, cfg Config) (*Client, error) {
	c := NewClient(cfg)
	if err := c.ConnectWithContext(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// ID returns the identifier used in trace events for this client.
func (c *Client) ID() uuid.UUID {
	return c.id
}

// Addr returns the device address as host:port.
func (c *Client) Addr() string {
	return c.addr
}

// State returns the current lifecycle state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsConnected returns true if the client is ready to send commands.
func (c *Client) IsConnected() bool {
	return c.State() == StateReady
}

// Connect connects to the device.
func (c *Client) Connect() error {
	return c.ConnectWithContext(context.Background())
}

// ConnectWithContext connects to the device. ctx bounds the whole connect
// sequence; without a deadline on ctx the challenge and handshake reads
// wait as long as Config allows, which by default is forever.
func (c *Client) ConnectWithContext(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateDisconnected {
		c.mu.Unlock()
		return ErrAlreadyConnected
	}
	stale := c.sess
	c.sess = nil
	c.state = StateConnecting
	c.mu.Unlock()

	// A session whose reader already saw the socket close.
	if stale != nil {
		stale.close()
	}

	start := time.Now()
	c.trace(TraceEvent{Kind: TraceConnectStart})
	err := c.connect(ctx)
	c.trace(TraceEvent{Kind: TraceConnectDone, Err: err, Elapsed: time.Since(start)})
	return err
}

func (c *Client) connect(ctx context.Context) error {
	dialCtx, cancel := context.WithTimeout(ctx, c.cfg.DialTimeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(dialCtx, "tcp", c.addr)
	if err != nil {
		c.setState(StateDisconnected)
		return &ConnectError{Addr: c.addr, Cause: err}
	}

	s := &session{
		conn:    conn,
		framer:  NewLineFramer(c.cfg.MaxLineLength),
		events:  make(chan []byte),
		closing: make(chan struct{}),
		done:    make(chan struct{}),
	}
	c.mu.Lock()
	c.sess = s
	c.mu.Unlock()
	go c.readLoop(s)

	start := time.Now()
	timer, stop := newDeadline(c.cfg.ChallengeTimeout)
	challenge, err := s.readLine(ctx, timer)
	stop()
	if err != nil {
		err = waitError(err, "challenge", time.Since(start))
		c.teardown(s)
		return err
	}

	if challenge != NoKeyChallenge && c.cfg.Password != "" {
		c.setState(StateAuthenticating)
		if err := c.authenticate(ctx, s, challenge); err != nil {
			c.teardown(s)
			return err
		}
	}

	c.mu.Lock()
	if s.dead {
		// The device hung up right after the handshake.
		c.mu.Unlock()
		c.teardown(s)
		return &ConnectionClosedError{Cause: s.err}
	}
	c.state = StateReady
	c.mu.Unlock()
	return nil
}

func (c *Client) authenticate(ctx context.Context, s *session, challenge string) error {
	h := NewHandshake(challenge, c.cfg.Password)
	if _, err := s.conn.Write(h.Request()); err != nil {
		return &ConnectionClosedError{Cause: err}
	}
	c.trace(TraceEvent{Kind: TraceWrite, Data: redacted})

	start := time.Now()
	timer, stop := newDeadline(c.cfg.HandshakeTimeout)
	defer stop()
	data, err := s.await(ctx, timer)
	if err != nil {
		return waitError(err, "handshake", time.Since(start))
	}
	if !h.Resolve(data) {
		return &AuthenticationError{Reply: h.Reply()}
	}
	return nil
}

// Close shuts the connection down. It is safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	s := c.sess
	c.sess = nil
	c.state = StateDisconnected
	c.mu.Unlock()

	if s == nil {
		return nil
	}
	err := s.close()
	c.trace(TraceEvent{Kind: TraceClose})
	return err
}

// Send sends a command and waits for its reply using the configured
// command timeout.
func (c *Client) Send(cmd string) (Reply, error) {
	return c.exchange(context.Background(), cmd, c.cfg.CommandTimeout)
}

// SendWithTimeout sends a command with a custom timeout. A timeout of zero
// or less waits without a deadline.
func (c *Client) SendWithTimeout(cmd string, timeout time.Duration) (Reply, error) {
	return c.exchange(context.Background(), cmd, timeout)
}

// SendWithContext sends a command using the configured command timeout,
// also giving up when ctx is done. Cancelling ctx invalidates the client
// like a timeout does, because the reply may still arrive later.
func (c *Client) SendWithContext(ctx context.Context, cmd string) (Reply, error) {
	return c.exchange(ctx, cmd, c.cfg.CommandTimeout)
}

func (c *Client) exchange(ctx context.Context, cmd string, timeout time.Duration) (Reply, error) {
	if !c.busy.CompareAndSwap(false, true) {
		return Reply{}, ErrExchangeInProgress
	}
	defer c.busy.Store(false)

	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return Reply{}, ErrNotConnected
	}
	s := c.sess
	c.mu.Unlock()

	// The deadline is absolute, so clear any left by an earlier exchange.
	start := time.Now()
	var writeDeadline time.Time
	if timeout > 0 {
		writeDeadline = start.Add(timeout)
	}
	if err := s.conn.SetWriteDeadline(writeDeadline); err != nil {
		return Reply{}, c.fail(s, cmd, &ConnectionClosedError{Cause: err})
	}
	if _, err := s.conn.Write(FormatCommand(cmd)); err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			err = &TimeoutError{Command: cmd, Elapsed: time.Since(start)}
		} else {
			err = &ConnectionClosedError{Cause: err}
		}
		return Reply{}, c.fail(s, cmd, err)
	}
	c.trace(TraceEvent{Kind: TraceWrite, Command: cmd, Data: strings.TrimSuffix(cmd, LineTerminator)})

	timer, stop := newDeadline(timeout)
	line, err := s.readLine(ctx, timer)
	stop()
	if err != nil {
		return Reply{}, c.fail(s, cmd, waitError(err, cmd, time.Since(start)))
	}

	reply, err := ParseReply(line)
	if err != nil {
		return Reply{}, c.fail(s, cmd, err)
	}
	c.trace(TraceEvent{Kind: TraceReply, Command: cmd, Reply: reply, Elapsed: time.Since(start)})
	return reply, nil
}

// fail reports err, invalidates the client and returns err.
func (c *Client) fail(s *session, cmd string, err error) error {
	c.trace(TraceEvent{Kind: TraceError, Command: cmd, Err: err})
	c.teardown(s)
	return err
}

// teardown closes s and, if it is still the current session, marks the
// client disconnected.
func (c *Client) teardown(s *session) {
	c.mu.Lock()
	if c.sess == s {
		c.sess = nil
	}
	c.state = StateDisconnected
	c.mu.Unlock()
	s.close()
}

func (c *Client) setState(state State) {
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
}

// readLoop turns socket reads into data events until the socket fails or
// the session is closed. A read error flips a ready client to disconnected
// right away, whether or not an exchange is waiting.
func (c *Client) readLoop(s *session) {
	defer close(s.done)

	for {
		buf := make([]byte, readChunkSize)
		n, err := s.conn.Read(buf)
		if n > 0 {
			select {
			case s.events <- buf[:n]:
			case <-s.closing:
				return
			}
		}
		if err != nil {
			s.err = err
			c.mu.Lock()
			s.dead = true
			if c.sess == s && c.state == StateReady {
				c.state = StateDisconnected
			}
			c.mu.Unlock()
			return
		}
	}
}

func (c *Client) trace(ev TraceEvent) {
	if c.cfg.Observer == nil {
		return
	}
	ev.ConnID = c.id
	ev.Addr = c.addr
	c.cfg.Observer(ev)
}

// await blocks for the next data event.
func (s *session) await(ctx context.Context, deadline <-chan time.Time) ([]byte, error) {
	select {
	case data := <-s.events:
		return data, nil
	case <-s.done:
		return nil, &ConnectionClosedError{Cause: s.err}
	case <-deadline:
		return nil, errDeadline
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// readLine returns the next framed line, waiting for data events as
// needed.
func (s *session) readLine(ctx context.Context, deadline <-chan time.Time) (string, error) {
	for {
		line, ok, err := s.framer.Next()
		if err != nil {
			return "", err
		}
		if ok {
			return line, nil
		}
		data, err := s.await(ctx, deadline)
		if err != nil {
			return "", err
		}
		s.framer.Feed(data)
	}
}

// close stops the reader and closes the socket, then waits for the reader
// to exit.
func (s *session) close() error {
	s.closeOnce.Do(func() {
		close(s.closing)
		s.closeErr = s.conn.Close()
		<-s.done
	})
	return s.closeErr
}

// newDeadline returns a channel that fires after d, or nil (never fires)
// when d <= 0, along with a function releasing the timer.
func newDeadline(d time.Duration) (<-chan time.Time, func()) {
	if d <= 0 {
		return nil, func() {}
	}
	t := time.NewTimer(d)
	return t.C, func() { t.Stop() }
}

// waitError maps the internal deadline and context expiry to a
// *TimeoutError for the named wait.
func waitError(err error, what string, elapsed time.Duration) error {
	if errors.Is(err, errDeadline) || errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Command: what, Elapsed: elapsed}
	}
	return err
}
