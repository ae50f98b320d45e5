package hub

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// entry is the per-user record: the live connection plus the set of boards
// the user is watching. Each entry has its own lock so operations on
// unrelated users never contend.
type entry struct {
	mu     sync.Mutex
	conn   *Connection
	boards map[uuid.UUID]struct{}
}

// Registry tracks one live connection per user and each user's board
// subscriptions. Broadcast lookups take only a read lock on the user map;
// mutation of a single user's record takes that entry's lock.
//
// Lock order: Registry.mu before entry.mu, never the reverse.
type Registry struct {
	sendBuffer   int
	writeTimeout time.Duration

	mu    sync.RWMutex
	users map[uuid.UUID]*entry
}

// NewRegistry creates an empty registry. sendBuffer is the per-connection
// outbound queue length; writeTimeout bounds each push write.
func NewRegistry(sendBuffer int, writeTimeout time.Duration) *Registry {
	return &Registry{
		sendBuffer:   sendBuffer,
		writeTimeout: writeTimeout,
		users:        make(map[uuid.UUID]*entry),
	}
}

// Register creates a fresh connection for the user over the given transport.
// A prior connection for the same user is closed and its subscriptions are
// discarded: one live connection per user at a time.
func (r *Registry) Register(userID uuid.UUID, t Transport) *Connection {
	conn := newConnection(userID, t, r.sendBuffer, r.writeTimeout, r.drop)

	r.mu.Lock()
	e, ok := r.users[userID]
	if !ok {
		e = &entry{}
		r.users[userID] = e
	}
	e.mu.Lock()
	old := e.conn
	e.conn = conn
	e.boards = make(map[uuid.UUID]struct{})
	e.mu.Unlock()
	r.mu.Unlock()

	if old != nil {
		old.Close("superseded by new connection")
		log.Debug().Str("user_id", userID.String()).Msg("hub: connection superseded")
	}

	return conn
}

// Subscribe adds the board to the user's watch set. Idempotent; a no-op when
// the user has no live connection. Authorization is the caller's concern.
func (r *Registry) Subscribe(userID, boardID uuid.UUID) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.users[userID]
	if !ok {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.conn == nil || e.conn.State() == StateClosed {
		return
	}
	e.boards[boardID] = struct{}{}
}

// Unsubscribe removes the board from the user's watch set. Idempotent.
func (r *Registry) Unsubscribe(userID, boardID uuid.UUID) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.users[userID]
	if !ok {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.boards, boardID)
}

// Deregister closes the user's connection and clears their subscriptions,
// atomically with respect to concurrent subscribe/unsubscribe calls.
func (r *Registry) Deregister(userID uuid.UUID) {
	r.mu.Lock()
	e, ok := r.users[userID]
	if ok {
		delete(r.users, userID)
	}
	r.mu.Unlock()

	if !ok {
		return
	}

	e.mu.Lock()
	conn := e.conn
	e.conn = nil
	e.boards = nil
	e.mu.Unlock()

	if conn != nil {
		conn.Close("deregistered")
	}
}

// drop removes the connection from the registry if it is still the user's
// current one. A connection superseded by a reconnect must not evict its
// replacement, so identity is compared, not just the user ID.
func (r *Registry) drop(c *Connection) {
	r.mu.Lock()
	e, ok := r.users[c.UserID()]
	if ok {
		e.mu.Lock()
		if e.conn == c {
			delete(r.users, c.UserID())
		}
		e.mu.Unlock()
	}
	r.mu.Unlock()

	c.Close("dropped")
}

// SubscribersOf returns a snapshot of the open connections watching the
// board. Connections mid-teardown are excluded. The snapshot is consistent:
// no duplicates, no half-registered entries.
func (r *Registry) SubscribersOf(boardID uuid.UUID) []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var subs []*Connection
	for _, e := range r.users {
		e.mu.Lock()
		if e.conn != nil && e.conn.State() == StateOpen {
			if _, watching := e.boards[boardID]; watching {
				subs = append(subs, e.conn)
			}
		}
		e.mu.Unlock()
	}
	return subs
}

// Connections returns a snapshot of every registered connection, including
// stale ones. Used by the heartbeat sweep.
func (r *Registry) Connections() []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := make([]*Connection, 0, len(r.users))
	for _, e := range r.users {
		e.mu.Lock()
		if e.conn != nil {
			conns = append(conns, e.conn)
		}
		e.mu.Unlock()
	}
	return conns
}

// Len returns the number of registered users.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

// Conn returns the user's current connection, or nil.
func (r *Registry) Conn(userID uuid.UUID) *Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.users[userID]
	if !ok {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.conn
}
