package transport

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mysensors/mysensors-go/pkg/log"
	"github.com/mysensors/mysensors-go/pkg/wire"
)

// ErrVersionMismatch indicates a frame built for another protocol version.
var ErrVersionMismatch = errors.New("protocol version mismatch")

// ErrClosed is returned by operations on a closed Conn.
var ErrClosed = errors.New("connection closed")

// Conn exchanges whole messages over a framed byte stream.
//
// Send may be called from multiple goroutines. Receive must be called
// from a single reader goroutine.
type Conn struct {
	rwc    io.ReadWriteCloser
	framer *Framer

	logger     log.Logger
	sessionID  string
	remoteAddr string

	closeOnce sync.Once
	closed    chan struct{}
}

// NewConn wraps rwc. A nil logger disables protocol logging.
func NewConn(rwc io.ReadWriteCloser, logger log.Logger) *Conn {
	c := &Conn{
		rwc:       rwc,
		framer:    NewFramer(rwc),
		logger:    logger,
		sessionID: uuid.New().String(),
		closed:    make(chan struct{}),
	}
	if nc, ok := rwc.(net.Conn); ok && nc.RemoteAddr() != nil {
		c.remoteAddr = nc.RemoteAddr().String()
	}
	if logger != nil {
		c.framer.SetLogger(logger, c.sessionID)
	}
	return c
}

// SessionID returns the identifier attached to every logged event.
func (c *Conn) SessionID() string {
	return c.sessionID
}

// RemoteAddr returns the peer address, or "" for non-network links.
func (c *Conn) RemoteAddr() string {
	return c.remoteAddr
}

// Send encodes m and writes it as one frame. m is not modified.
func (c *Conn) Send(m *wire.Message) error {
	select {
	case <-c.closed:
		return ErrClosed
	default:
	}

	data, err := m.MarshalBinary()
	if err != nil {
		c.logError(log.LayerWire, err, "encode")
		return fmt.Errorf("failed to encode message: %w", err)
	}
	if err := c.framer.WriteFrame(data); err != nil {
		c.logError(log.LayerTransport, err, "write")
		return err
	}
	c.logMessage(m, log.DirectionOut)
	return nil
}

// Receive reads the next frame and decodes it. Frames carrying another
// protocol version are consumed and reported with ErrVersionMismatch so
// the caller may keep reading.
func (c *Conn) Receive() (*wire.Message, error) {
	data, err := c.framer.ReadFrame()
	if err != nil {
		select {
		case <-c.closed:
			return nil, ErrClosed
		default:
		}
		if err != io.EOF {
			c.logError(log.LayerTransport, err, "read")
		}
		return nil, err
	}

	m, err := wire.Decode(data)
	if err != nil {
		c.logError(log.LayerWire, err, "decode")
		return nil, err
	}
	if v := m.Version(); v != wire.ProtocolVersion {
		err := fmt.Errorf("%w: got %d, want %d", ErrVersionMismatch, v, wire.ProtocolVersion)
		c.logError(log.LayerWire, err, "decode")
		return nil, err
	}

	c.logMessage(m, log.DirectionIn)
	return m, nil
}

// Close closes the underlying stream. It is safe to call more than once.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		err = c.rwc.Close()
	})
	return err
}

func (c *Conn) logMessage(m *wire.Message, direction log.Direction) {
	if c.logger == nil {
		return
	}
	c.logger.Log(log.Event{
		Timestamp:  time.Now(),
		SessionID:  c.sessionID,
		Direction:  direction,
		Layer:      log.LayerWire,
		Category:   log.CategoryMessage,
		RemoteAddr: c.remoteAddr,
		Message:    log.NewMessageEvent(m),
	})
}

func (c *Conn) logError(layer log.Layer, err error, context string) {
	if c.logger == nil {
		return
	}
	c.logger.Log(log.Event{
		Timestamp:  time.Now(),
		SessionID:  c.sessionID,
		Layer:      layer,
		Category:   log.CategoryError,
		RemoteAddr: c.remoteAddr,
		Error: &log.ErrorEventData{
			Layer:   layer,
			Message: err.Error(),
			Context: context,
		},
	})
}
