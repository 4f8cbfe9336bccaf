package transport

import (
	"context"
	"fmt"
	"math/rand"
	"net"
	"sync"
	"time"

	"github.com/mysensors/mysensors-go/pkg/log"
)

// Retry delays used by Dial when DialConfig leaves them unset.
const (
	DefaultInitialBackoff = 500 * time.Millisecond
	DefaultMaxBackoff     = 30 * time.Second

	backoffJitter = 0.25
)

// Backoff yields exponentially growing delays with up to 25% jitter.
type Backoff struct {
	mu       sync.Mutex
	initial  time.Duration
	max      time.Duration
	current  time.Duration
	attempts int
	rng      *rand.Rand
}

// NewBackoff creates a backoff starting at initial and capped at max.
func NewBackoff(initial, max time.Duration) *Backoff {
	if initial <= 0 {
		initial = DefaultInitialBackoff
	}
	if max < initial {
		max = initial
	}
	return &Backoff{
		initial: initial,
		max:     max,
		current: initial,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Next returns the next delay and doubles the base delay up to max.
func (b *Backoff) Next() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	delay := b.current + time.Duration(float64(b.current)*backoffJitter*b.rng.Float64())
	b.attempts++
	b.current = min(b.current*2, b.max)
	return delay
}

// Reset returns to the initial delay.
func (b *Backoff) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = b.initial
	b.attempts = 0
}

// Attempts returns the number of delays handed out since the last Reset.
func (b *Backoff) Attempts() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.attempts
}

// DialConfig configures Dial.
type DialConfig struct {
	// Logger for protocol logging (optional).
	Logger log.Logger

	// Attempts is the number of connection attempts. Zero means one.
	Attempts int

	// InitialBackoff and MaxBackoff bound the delay between attempts.
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Dial connects to a TCP gateway, retrying with backoff until an attempt
// succeeds, the attempts are used up or ctx is done.
func Dial(ctx context.Context, addr string, config DialConfig) (*Conn, error) {
	attempts := max(config.Attempts, 1)
	backoff := NewBackoff(config.InitialBackoff, config.MaxBackoff)

	var d net.Dialer
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			timer := time.NewTimer(backoff.Next())
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}

		nc, err := d.DialContext(ctx, "tcp", addr)
		if err == nil {
			return NewConn(nc, config.Logger), nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("failed to connect to %s after %d attempts: %w", addr, attempts, lastErr)
}
