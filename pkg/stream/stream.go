// Package stream maintains one resilient websocket stream: it owns the
// connection lifecycle, folds decoded events into a projection, and fans
// the resulting snapshots out to subscribers.
package stream

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"pearpanel/pkg/event"
)

const (
	defaultRetryDelay = 3 * time.Second
	defaultBufferSize = 100
)

// State is the connection lifecycle state of a channel.
type State string

const (
	StateIdle               State = "idle"
	StateConnecting         State = "connecting"
	StateOpen               State = "open"
	StateClosedPendingRetry State = "closed_pending_retry"
)

// Conn is one established transport connection.
type Conn interface {
	Read(ctx context.Context) ([]byte, error)
	Close() error
}

// Dialer opens transport connections. Dial blocks until the transport is
// ready or fails; both construction errors and handshake errors surface
// the same way.
type Dialer interface {
	Dial(ctx context.Context) (Conn, error)
}

// Projection is the state a channel folds its events into. Apply and
// WithConnected are pure: they return the next value and never mutate.
type Projection[P any] interface {
	Apply(event.Event) P
	WithConnected(bool) P
}

// Channel consumes one websocket stream and keeps reconnecting forever.
//
// All transport failures are treated identically: the channel moves to
// ClosedPendingRetry, waits the fixed retry delay, and dials again. There
// is no retry cap; availability is preferred over backoff pressure. A
// malformed message never affects the connection: it is logged and dropped.
type Channel[P Projection[P]] struct {
	name       string
	dialer     Dialer
	retryDelay time.Duration
	log        *slog.Logger

	mu               sync.RWMutex
	state            State
	projection       P
	subscribers      map[uint64]chan P
	nextSubscriberID uint64

	done      chan struct{}
	closeOnce sync.Once
}

// New constructs a channel around a dialer. The projection starts at its
// neutral zero value. A non-positive retryDelay selects the default 3s.
func New[P Projection[P]](name string, dialer Dialer, retryDelay time.Duration, log *slog.Logger) *Channel[P] {
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}
	if log == nil {
		log = slog.Default()
	}

	return &Channel[P]{
		name:        name,
		dialer:      dialer,
		retryDelay:  retryDelay,
		log:         log.With("component", "stream."+name),
		state:       StateIdle,
		subscribers: make(map[uint64]chan P),
		done:        make(chan struct{}),
	}
}

// Name returns the channel identifier used in status output and logs.
func (c *Channel[P]) Name() string {
	return c.name
}

// Run drives the connect/receive/retry loop until ctx is canceled or the
// channel is closed. It always returns nil on teardown; transport errors
// are recovered from, never returned.
func (c *Channel[P]) Run(ctx context.Context) error {
	defer c.Close()

	for {
		if !c.setState(StateConnecting) {
			return nil
		}

		conn, err := c.dialer.Dial(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.log.Warn("Connection attempt failed", "error", err, "retry_in", c.retryDelay)
			if !c.waitRetry(ctx) {
				return nil
			}
			continue
		}

		if !c.setState(StateOpen) {
			_ = conn.Close()
			return nil
		}
		c.log.Info("Stream connected")
		c.publishConnected(true)

		err = c.receive(ctx, conn)
		_ = conn.Close()
		c.publishConnected(false)

		if ctx.Err() != nil {
			return nil
		}
		c.log.Warn("Stream disconnected", "error", err, "retry_in", c.retryDelay)
		if !c.waitRetry(ctx) {
			return nil
		}
	}
}

// receive reads frames until the transport fails. Decode failures are
// local: log, drop, keep reading.
func (c *Channel[P]) receive(ctx context.Context, conn Conn) error {
	for {
		raw, err := conn.Read(ctx)
		if err != nil {
			return err
		}

		ev, err := event.Decode(raw)
		if err != nil {
			c.log.Warn("Dropping malformed message", "error", err)
			continue
		}

		if unknown, ok := ev.(event.Unknown); ok {
			c.log.Debug("Ignoring unrecognized message kind", "type", unknown.Type)
			continue
		}

		c.applyAndPublish(ev)
	}
}

// waitRetry parks the channel in ClosedPendingRetry for the retry delay.
// It reports false when the wait was interrupted by teardown.
func (c *Channel[P]) waitRetry(ctx context.Context) bool {
	if !c.setState(StateClosedPendingRetry) {
		return false
	}

	timer := time.NewTimer(c.retryDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-c.done:
		return false
	case <-timer.C:
		return true
	}
}

// Subscribe registers a projection consumer. Every accepted message yields
// one snapshot on the returned channel; slow consumers miss snapshots
// rather than stalling the stream. The cancel function is idempotent.
func (c *Channel[P]) Subscribe(ctx context.Context, buffer int) (<-chan P, func()) {
	if ctx == nil {
		ctx = context.Background()
	}
	if buffer <= 0 {
		buffer = defaultBufferSize
	}

	ch := make(chan P, buffer)

	c.mu.Lock()
	select {
	case <-c.done:
		c.mu.Unlock()
		close(ch)
		return ch, func() {}
	default:
	}

	id := c.nextSubscriberID
	c.nextSubscriberID++
	c.subscribers[id] = ch
	c.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			c.mu.Lock()
			if sub, ok := c.subscribers[id]; ok {
				delete(c.subscribers, id)
				close(sub)
			}
			c.mu.Unlock()
		})
	}

	go func() {
		select {
		case <-ctx.Done():
			unsubscribe()
		case <-c.done:
			unsubscribe()
		}
	}()

	return ch, unsubscribe
}

// Snapshot returns the current projection value.
func (c *Channel[P]) Snapshot() P {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.projection
}

// State returns the current lifecycle state.
func (c *Channel[P]) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Close tears the channel down: no further dials, no pending retry fires,
// all subscriber channels are closed. A closed channel never resurrects.
func (c *Channel[P]) Close() {
	c.closeOnce.Do(func() {
		close(c.done)

		c.mu.Lock()
		c.state = StateIdle
		for id, sub := range c.subscribers {
			close(sub)
			delete(c.subscribers, id)
		}
		c.mu.Unlock()
	})
}

// applyAndPublish folds one event and fans the new snapshot out.
func (c *Channel[P]) applyAndPublish(ev event.Event) {
	c.mu.Lock()
	c.projection = c.projection.Apply(ev)
	c.publishLocked()
	c.mu.Unlock()
}

// publishConnected flips the projection's transport flag and fans out.
func (c *Channel[P]) publishConnected(connected bool) {
	c.mu.Lock()
	c.projection = c.projection.WithConnected(connected)
	c.publishLocked()
	c.mu.Unlock()
}

func (c *Channel[P]) publishLocked() {
	select {
	case <-c.done:
		return
	default:
	}

	for _, sub := range c.subscribers {
		select {
		case sub <- c.projection:
		default:
			// Drop instead of blocking the stream on slow subscribers.
		}
	}
}

// setState records a lifecycle transition. It reports false when the
// channel has already been closed, which cancels the transition.
func (c *Channel[P]) setState(state State) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
	return true
}
