package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ConnState is the lifecycle state of a client connection.
type ConnState int32

const (
	StateOpen ConnState = iota
	StateStale
	StateClosed
)

func (s ConnState) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateStale:
		return "stale"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Sentinel errors for the hub package.
var (
	ErrConnectionClosed = errors.New("hub: connection closed")
	ErrSendQueueFull    = errors.New("hub: send queue full")
)

// Transport performs frame I/O for one client stream. The production
// implementation wraps a websocket; tests substitute an in-memory fake.
type Transport interface {
	Write(ctx context.Context, frame []byte) error
	Close(reason string) error
}

// Connection is one live push channel to one user. Events are enqueued onto a
// bounded send queue and written by a dedicated writer goroutine, so a slow
// receiver never blocks the goroutine that decided to send. A Connection is
// never reused: once closed it stays closed and a reconnect gets a fresh one.
type Connection struct {
	userID       uuid.UUID
	transport    Transport
	writeTimeout time.Duration

	state      atomic.Int32
	lastActive atomic.Int64 // unix nanos of last successful write or ack
	lastAck    atomic.Int64 // unix nanos of last client acknowledgment
	staleSince atomic.Int64 // unix nanos, meaningful while state is stale

	sendq     chan []byte
	done      chan struct{}
	closeOnce sync.Once

	// dropped is invoked at most once when the connection fails mid-delivery,
	// so the registry can forget it. Set before the writer starts.
	dropped func(*Connection)
}

func newConnection(userID uuid.UUID, t Transport, buffer int, writeTimeout time.Duration, dropped func(*Connection)) *Connection {
	c := &Connection{
		userID:       userID,
		transport:    t,
		writeTimeout: writeTimeout,
		sendq:        make(chan []byte, buffer),
		done:         make(chan struct{}),
		dropped:      dropped,
	}
	now := time.Now().UnixNano()
	c.lastActive.Store(now)
	c.lastAck.Store(now)
	go c.writeLoop()
	return c
}

func (c *Connection) UserID() uuid.UUID { return c.userID }

func (c *Connection) State() ConnState { return ConnState(c.state.Load()) }

// LastActive is the time of the last successful write or heartbeat ack.
func (c *Connection) LastActive() time.Time {
	return time.Unix(0, c.lastActive.Load())
}

// LastAck is the time the client last acknowledged a heartbeat (or connected).
// Half-open connections keep accepting writes, so dead-connection detection
// keys on acks rather than on successful pushes.
func (c *Connection) LastAck() time.Time {
	return time.Unix(0, c.lastAck.Load())
}

// StaleSince is the time the connection entered the stale state.
// Zero time when the connection has never gone stale.
func (c *Connection) StaleSince() time.Time {
	n := c.staleSince.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

// Send marshals the event and enqueues it for delivery. Events enqueued by
// the same goroutine are delivered in order. A full queue is treated as a
// dead receiver: the connection is torn down and the event is dropped.
func (c *Connection) Send(ev Event) error {
	frame, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("hub.Connection.Send: marshal: %w", err)
	}
	return c.enqueue(frame)
}

func (c *Connection) enqueue(frame []byte) error {
	if c.State() == StateClosed {
		return ErrConnectionClosed
	}

	select {
	case c.sendq <- frame:
		return nil
	case <-c.done:
		return ErrConnectionClosed
	default:
		// Bounded queue overflow means the receiver stopped draining.
		c.fail("send queue full")
		return ErrSendQueueFull
	}
}

func (c *Connection) writeLoop() {
	for {
		select {
		case <-c.done:
			return
		case frame := <-c.sendq:
			ctx, cancel := context.WithTimeout(context.Background(), c.writeTimeout)
			err := c.transport.Write(ctx, frame)
			cancel()
			if err != nil {
				log.Debug().Err(err).Str("user_id", c.userID.String()).Msg("hub: connection write failed")
				c.fail("write failed")
				return
			}
			c.touch()
		}
	}
}

// markStale transitions open -> stale when a heartbeat probe goes unanswered.
func (c *Connection) markStale(now time.Time) {
	if c.state.CompareAndSwap(int32(StateOpen), int32(StateStale)) {
		c.staleSince.Store(now.UnixNano())
	}
}

// markActive records a client acknowledgment: a stale connection recovers
// to open.
func (c *Connection) markActive() {
	c.state.CompareAndSwap(int32(StateStale), int32(StateOpen))
	c.lastAck.Store(time.Now().UnixNano())
	c.touch()
}

func (c *Connection) touch() {
	c.lastActive.Store(time.Now().UnixNano())
}

// Close makes the connection terminal. Safe to call multiple times and from
// any goroutine; the first caller wins.
func (c *Connection) Close(reason string) {
	c.closeOnce.Do(func() {
		c.state.Store(int32(StateClosed))
		close(c.done)
		if err := c.transport.Close(reason); err != nil {
			log.Debug().Err(err).Str("user_id", c.userID.String()).Msg("hub: transport close")
		}
	})
}

// fail closes the connection and tells the registry to forget it.
func (c *Connection) fail(reason string) {
	c.Close(reason)
	if c.dropped != nil {
		c.dropped(c)
	}
}
