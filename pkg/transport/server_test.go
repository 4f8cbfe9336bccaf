package transport

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/mysensors/mysensors-go/pkg/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startTestServer(t *testing.T, config ServerConfig) *Server {
	t.Helper()
	config.Address = "127.0.0.1:0"
	s := NewServer(config)
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() { s.Stop() })
	return s
}

func dialTestServer(t *testing.T, s *Server) *Conn {
	t.Helper()
	nc, err := net.Dial("tcp", s.Addr().String())
	require.NoError(t, err)
	c := NewConn(nc, nil)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestServerEcho(t *testing.T) {
	s := startTestServer(t, ServerConfig{
		OnMessage: func(conn *ServerConn, m *wire.Message) {
			reply := m.Clone().SetAck(true).SetDestination(m.Sender()).SetSender(wire.GatewayAddress)
			assert.NoError(t, conn.Send(reply))
		},
	})

	c := dialTestServer(t, s)
	require.NoError(t, c.Send(wire.NewSensor(3, uint8(wire.VarStatus)).
		SetSender(7).
		SetDestination(wire.GatewayAddress).
		SetCommand(wire.CommandSet).
		SetRequestAck(true).
		SetBool(true)))

	reply, err := c.Receive()
	require.NoError(t, err)
	assert.True(t, reply.IsAck())
	assert.Equal(t, uint8(7), reply.Destination())
	assert.Equal(t, uint8(3), reply.Sensor())
	assert.True(t, reply.Bool())
}

func TestServerLifecycleCallbacks(t *testing.T) {
	connected := make(chan *ServerConn, 1)
	disconnected := make(chan *ServerConn, 1)

	s := startTestServer(t, ServerConfig{
		OnConnect:    func(c *ServerConn) { connected <- c },
		OnDisconnect: func(c *ServerConn) { disconnected <- c },
	})

	c := dialTestServer(t, s)

	var sc *ServerConn
	select {
	case sc = <-connected:
	case <-time.After(2 * time.Second):
		t.Fatal("OnConnect not called")
	}
	assert.NotEmpty(t, sc.SessionID())
	assert.NotEmpty(t, sc.RemoteAddr())
	assert.Eventually(t, func() bool { return s.ConnectionCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, c.Close())

	select {
	case got := <-disconnected:
		assert.Same(t, sc, got)
	case <-time.After(2 * time.Second):
		t.Fatal("OnDisconnect not called")
	}
	assert.Equal(t, 0, s.ConnectionCount())
}

func TestServerBroadcast(t *testing.T) {
	var ready sync.WaitGroup
	ready.Add(2)
	s := startTestServer(t, ServerConfig{
		OnConnect: func(*ServerConn) { ready.Done() },
	})

	a := dialTestServer(t, s)
	b := dialTestServer(t, s)
	ready.Wait()

	msg := wire.NewSensor(wire.NodeSensorID, uint8(wire.InternalTime)).
		SetCommand(wire.CommandInternal).
		SetUint32(1700000000)
	require.NoError(t, s.Broadcast(msg))

	for _, c := range []*Conn{a, b} {
		m, err := c.Receive()
		require.NoError(t, err)
		assert.Equal(t, uint32(1700000000), m.ULong())
		assert.True(t, m.IsBroadcast())
	}
}

func TestServerReportsVersionMismatchAndContinues(t *testing.T) {
	errs := make(chan error, 1)
	msgs := make(chan *wire.Message, 1)
	s := startTestServer(t, ServerConfig{
		OnMessage: func(_ *ServerConn, m *wire.Message) { msgs <- m },
		OnError:   func(_ *ServerConn, err error) { errs <- err },
	})

	nc, err := net.Dial("tcp", s.Addr().String())
	require.NoError(t, err)
	defer nc.Close()
	fw := NewFrameWriter(nc)

	bad, _ := wire.New().SetByte(1).MarshalBinary()
	bad[3] &^= 0x03
	require.NoError(t, fw.WriteFrame(bad))
	good, _ := wire.New().SetByte(2).MarshalBinary()
	require.NoError(t, fw.WriteFrame(good))

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, ErrVersionMismatch)
	case <-time.After(2 * time.Second):
		t.Fatal("OnError not called")
	}
	select {
	case m := <-msgs:
		assert.Equal(t, uint8(2), m.Byte())
	case <-time.After(2 * time.Second):
		t.Fatal("OnMessage not called")
	}
}

func TestServerStopClosesConnections(t *testing.T) {
	connected := make(chan struct{}, 1)
	s := NewServer(ServerConfig{
		Address:   "127.0.0.1:0",
		OnConnect: func(*ServerConn) { connected <- struct{}{} },
	})
	require.NoError(t, s.Start(context.Background()))
	assert.Error(t, s.Start(context.Background()))

	c := dialTestServer(t, s)
	<-connected

	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())
	assert.Equal(t, 0, s.ConnectionCount())

	_, err := c.Receive()
	assert.Error(t, err)
}

func TestServerStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewServer(ServerConfig{Address: "127.0.0.1:0"})
	require.NoError(t, s.Start(ctx))

	cancel()
	assert.Eventually(t, func() bool {
		_, err := net.Dial("tcp", s.Addr().String())
		return err != nil
	}, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, s.Stop())
}

func TestNewServerDefaultAddress(t *testing.T) {
	s := NewServer(ServerConfig{})
	assert.Equal(t, ":5003", s.config.Address)
	assert.Nil(t, s.Addr())
}
