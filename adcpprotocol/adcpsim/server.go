// Package adcpsim runs an in-process ADCP device for tests and manual use.
//
// The server speaks the same wire protocol as a projector: a challenge line
// on accept, an optional SHA-256 handshake, then one reply line per command
// line. Replies come from a Handler, by default a stateful Projector.
package adcpsim

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adcp/adcpctl/adcpprotocol"
)

// Handler answers one command line. The returned line is sent with a CRLF
// terminator added; an empty string sends nothing.
type Handler func(cmd string) string

// Rejected is the handshake verdict sent for a wrong digest.
const Rejected = "NG"

// Options configures a Server.
type Options struct {
	// Password enables authentication. Empty sends NOKEY.
	Password string

	// Challenge overrides the random nonce. Ignored without Password.
	Challenge string

	// Handler answers commands. Nil uses a new Projector.
	Handler Handler

	Logger zerolog.Logger
}

// Server is a TCP listener that emulates one ADCP device.
type Server struct {
	listener net.Listener
	opts     Options
	log      zerolog.Logger

	mu          sync.Mutex
	closed      bool
	connections []net.Conn
	commands    []string

	wg sync.WaitGroup
}

// Start listens on addr (e.g. "127.0.0.1:0") and serves until Close.
func Start(addr string, opts Options) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	if opts.Handler == nil {
		opts.Handler = NewProjector().Handle
	}

	s := &Server{
		listener: listener,
		opts:     opts,
		log:      opts.Logger.With().Str("component", "adcpsim").Logger(),
	}

	s.wg.Add(1)
	go s.acceptLoop()

	s.log.Info().Str("addr", listener.Addr().String()).Bool("auth", opts.Password != "").Msg("simulator listening")
	return s, nil
}

// Addr returns the address the server listens on.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Host returns the IP part of Addr, for building a client config.
func (s *Server) Host() string {
	return s.listener.Addr().(*net.TCPAddr).IP.String()
}

// Port returns the TCP port the server listens on.
func (s *Server) Port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

// Commands returns every command line received so far, in order.
func (s *Server) Commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.commands...)
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}

		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			conn.Close()
			return
		}
		s.connections = append(s.connections, conn)
		s.mu.Unlock()

		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	defer s.removeConnection(conn)
	defer conn.Close()

	log := s.log.With().Str("remote", conn.RemoteAddr().String()).Logger()
	reader := bufio.NewReader(conn)

	if s.opts.Password == "" {
		fmt.Fprint(conn, adcpprotocol.NoKeyChallenge+adcpprotocol.LineTerminator)
	} else {
		challenge := s.opts.Challenge
		if challenge == "" {
			challenge = strings.ReplaceAll(uuid.NewString(), "-", "")
		}
		fmt.Fprint(conn, challenge+adcpprotocol.LineTerminator)

		digest, err := readLine(reader)
		if err != nil {
			return
		}
		if digest != adcpprotocol.Digest(challenge, s.opts.Password) {
			log.Warn().Msg("handshake rejected")
			fmt.Fprint(conn, Rejected+adcpprotocol.LineTerminator)
			return
		}
		fmt.Fprint(conn, adcpprotocol.AuthAccepted+adcpprotocol.LineTerminator)
	}

	for {
		cmd, err := readLine(reader)
		if err != nil {
			return
		}

		s.mu.Lock()
		s.commands = append(s.commands, cmd)
		s.mu.Unlock()

		reply := s.opts.Handler(cmd)
		log.Debug().Str("command", cmd).Str("reply", reply).Msg("exchange")
		if reply == "" {
			continue
		}
		if _, err := fmt.Fprint(conn, reply+adcpprotocol.LineTerminator); err != nil {
			return
		}
	}
}

// readLine reads one line and strips the CRLF (or bare LF) terminator.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// removeConnection forgets conn once its handler returns.
func (s *Server) removeConnection(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.connections {
		if c == conn {
			s.connections = append(s.connections[:i], s.connections[i+1:]...)
			return
		}
	}
}

// connectionCount reports how many connections are being served.
func (s *Server) connectionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.connections)
}

// Close stops accepting, drops every connection and waits for the
// connection goroutines to finish.
func (s *Server) Close() error {
	err := s.listener.Close()

	s.mu.Lock()
	s.closed = true
	for _, conn := range s.connections {
		conn.Close()
	}
	s.connections = nil
	s.mu.Unlock()

	s.wg.Wait()
	return err
}
