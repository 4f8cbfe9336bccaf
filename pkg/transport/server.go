package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"github.com/mysensors/mysensors-go/pkg/log"
	"github.com/mysensors/mysensors-go/pkg/wire"
)

// DefaultPort is the TCP port used by MySensors ethernet gateways.
const DefaultPort = 5003

// ServerConfig configures a frame gateway server.
type ServerConfig struct {
	// Address to listen on (e.g., ":5003" or "127.0.0.1:5003").
	Address string

	// Logger for protocol logging (optional).
	Logger log.Logger

	// OnConnect is called when a new connection is established.
	OnConnect func(conn *ServerConn)

	// OnDisconnect is called when a connection is closed.
	OnDisconnect func(conn *ServerConn)

	// OnMessage is called for every decoded message.
	OnMessage func(conn *ServerConn, msg *wire.Message)

	// OnError is called when an error occurs. conn is nil for accept errors.
	OnError func(conn *ServerConn, err error)
}

// Server accepts TCP links from gateways and controllers and exchanges
// framed messages with them.
type Server struct {
	config   ServerConfig
	listener net.Listener

	conns   map[*ServerConn]struct{}
	connsMu sync.RWMutex

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewServer creates a new server.
func NewServer(config ServerConfig) *Server {
	if config.Address == "" {
		config.Address = fmt.Sprintf(":%d", DefaultPort)
	}
	return &Server{
		config: config,
		conns:  make(map[*ServerConn]struct{}),
	}
}

// Start starts the server and begins accepting connections.
func (s *Server) Start(ctx context.Context) error {
	if s.running.Load() {
		return fmt.Errorf("server already running")
	}

	listener, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	s.listener = listener
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.running.Store(true)

	s.wg.Add(2)
	go s.acceptLoop()
	go func() {
		defer s.wg.Done()
		<-s.ctx.Done()
		s.shutdown()
	}()

	return nil
}

// Stop stops the server, closes all connections and waits for the
// connection handlers to return.
func (s *Server) Stop() error {
	if s.cancel == nil {
		return nil
	}
	s.cancel()
	s.wg.Wait()
	return nil
}

func (s *Server) shutdown() {
	if !s.running.CompareAndSwap(true, false) {
		return
	}
	s.listener.Close()

	s.connsMu.Lock()
	for conn := range s.conns {
		conn.Close()
	}
	s.connsMu.Unlock()
}

// Addr returns the server's listen address.
func (s *Server) Addr() net.Addr {
	if s.listener != nil {
		return s.listener.Addr()
	}
	return nil
}

// ConnectionCount returns the number of active connections.
func (s *Server) ConnectionCount() int {
	s.connsMu.RLock()
	defer s.connsMu.RUnlock()
	return len(s.conns)
}

// Broadcast sends m to every connected peer and returns the first error.
func (s *Server) Broadcast(m *wire.Message) error {
	s.connsMu.RLock()
	defer s.connsMu.RUnlock()

	var first error
	for conn := range s.conns {
		if err := conn.Send(m); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for s.running.Load() {
		nc, err := s.listener.Accept()
		if err != nil {
			if s.running.Load() && s.config.OnError != nil {
				s.config.OnError(nil, fmt.Errorf("accept error: %w", err))
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			continue
		}

		s.wg.Add(1)
		go s.handleConnection(nc)
	}
}

func (s *Server) handleConnection(nc net.Conn) {
	defer s.wg.Done()

	sconn := &ServerConn{
		Conn:   NewConn(nc, s.config.Logger),
		server: s,
	}

	s.connsMu.Lock()
	if !s.running.Load() {
		s.connsMu.Unlock()
		sconn.Close()
		return
	}
	s.conns[sconn] = struct{}{}
	s.connsMu.Unlock()

	if s.config.OnConnect != nil {
		s.config.OnConnect(sconn)
	}

	sconn.readLoop()

	s.connsMu.Lock()
	delete(s.conns, sconn)
	s.connsMu.Unlock()
	sconn.Close()

	if s.config.OnDisconnect != nil {
		s.config.OnDisconnect(sconn)
	}
}

// ServerConn is one accepted link.
type ServerConn struct {
	*Conn
	server *Server
}

func (c *ServerConn) readLoop() {
	for {
		m, err := c.Receive()
		switch {
		case err == nil:
			if c.server.config.OnMessage != nil {
				c.server.config.OnMessage(c, m)
			}
		case errors.Is(err, ErrVersionMismatch), errors.Is(err, wire.ErrPayloadTruncated):
			c.reportError(err)
		default:
			if !errors.Is(err, ErrClosed) && !errors.Is(err, io.EOF) {
				c.reportError(err)
			}
			return
		}
	}
}

func (c *ServerConn) reportError(err error) {
	if c.server.config.OnError != nil {
		c.server.config.OnError(c, err)
	}
}
