package transport

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/mysensors/mysensors-go/pkg/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackoffGrowsAndCaps(t *testing.T) {
	b := NewBackoff(100*time.Millisecond, 400*time.Millisecond)

	bases := []time.Duration{100, 200, 400, 400, 400}
	for i, base := range bases {
		base *= time.Millisecond
		d := b.Next()
		assert.GreaterOrEqual(t, d, base, "attempt %d", i)
		assert.LessOrEqual(t, d, base+base/4, "attempt %d", i)
	}
	assert.Equal(t, len(bases), b.Attempts())

	b.Reset()
	assert.Equal(t, 0, b.Attempts())
	assert.Less(t, b.Next(), 126*time.Millisecond)
}

func TestNewBackoffDefaults(t *testing.T) {
	b := NewBackoff(0, 0)
	d := b.Next()
	assert.GreaterOrEqual(t, d, DefaultInitialBackoff)
	assert.Equal(t, DefaultInitialBackoff, b.max)
}

func TestDialConnects(t *testing.T) {
	received := make(chan *wire.Message, 1)
	s := startTestServer(t, ServerConfig{
		OnMessage: func(_ *ServerConn, m *wire.Message) { received <- m },
	})

	c, err := Dial(context.Background(), s.Addr().String(), DialConfig{})
	require.NoError(t, err)
	defer c.Close()
	assert.NotEmpty(t, c.RemoteAddr())

	require.NoError(t, c.Send(wire.New().SetString("hello")))
	select {
	case m := <-received:
		assert.Equal(t, "hello", m.StringValue())
	case <-time.After(2 * time.Second):
		t.Fatal("message not received")
	}
}

func TestDialGivesUp(t *testing.T) {
	// Reserve a port and close it so nothing is listening.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	l.Close()

	_, err = Dial(context.Background(), addr, DialConfig{
		Attempts:       3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestDialHonoursContext(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	l.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = Dial(ctx, addr, DialConfig{Attempts: 100, InitialBackoff: time.Second})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}
