package commands

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/mysensors/mysensors-go/pkg/log"
	"github.com/mysensors/mysensors-go/pkg/serialapi"
	"github.com/mysensors/mysensors-go/pkg/transport"
	"github.com/mysensors/mysensors-go/pkg/wire"
)

// AckEcho returns the echo a gateway sends for a message that requested
// an ack, or nil when none is due.
func AckEcho(m *wire.Message) *wire.Message {
	if !m.RequestAck() || m.IsAck() {
		return nil
	}
	return m.Clone().
		SetRequestAck(false).
		SetAck(true).
		SetSender(m.Destination()).
		SetLast(m.Destination()).
		SetDestination(m.Sender())
}

// NewServer builds the frame gateway used by serve. Every received
// message is written to out as a gateway line. Messages requesting an
// ack are echoed back on the same link.
func NewServer(cfg Config, logger log.Logger, slogger *slog.Logger, out io.Writer) *transport.Server {
	var outMu sync.Mutex
	lines := serialapi.NewWriter(out)

	return transport.NewServer(transport.ServerConfig{
		Address: cfg.Listen,
		Logger:  logger,
		OnConnect: func(conn *transport.ServerConn) {
			slogger.Info("link connected", "session", conn.SessionID(), "remote", conn.RemoteAddr())
		},
		OnDisconnect: func(conn *transport.ServerConn) {
			slogger.Info("link closed", "session", conn.SessionID())
		},
		OnMessage: func(conn *transport.ServerConn, m *wire.Message) {
			outMu.Lock()
			err := lines.Write(m)
			outMu.Unlock()
			if err != nil {
				slogger.Error("failed to write line", "error", err)
			}

			if echo := AckEcho(m); echo != nil {
				if err := conn.Send(echo); err != nil {
					slogger.Warn("failed to send ack", "session", conn.SessionID(), "error", err)
				}
			}
		},
		OnError: func(conn *transport.ServerConn, err error) {
			if conn == nil {
				slogger.Error("server error", "error", err)
				return
			}
			slogger.Warn("link error", "session", conn.SessionID(), "error", err)
		},
	})
}

// RunServe runs the frame gateway until ctx is done.
func RunServe(ctx context.Context, cfg Config, logger log.Logger, slogger *slog.Logger, out io.Writer) error {
	server := NewServer(cfg, logger, slogger, out)
	if err := server.Start(ctx); err != nil {
		return err
	}
	slogger.Info("listening", "addr", server.Addr().String())

	<-ctx.Done()
	return server.Stop()
}
