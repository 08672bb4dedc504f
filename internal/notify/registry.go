package notify

import (
	"sync"
	"time"
)

// ConnState tracks a connection through its lifecycle. Only Authenticated
// connections receive pushes; a connection that disconnects before
// authenticating is dropped with no side effects.
type ConnState int

const (
	StateConnecting ConnState = iota
	StateAuthenticated
	StateClosed
)

// PushMessage is one frame delivered over a live connection.
type PushMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// sendQueueSize caps the per-connection pending-push queue. When a consumer
// falls this far behind, the oldest undelivered push is dropped; the stored
// record stays retrievable via the pull API.
const sendQueueSize = 32

// Connection is one live real-time session for a user. A user may hold many
// (multiple devices or tabs). Connections are ephemeral and never persisted.
type Connection struct {
	ID       string
	UserID   uint
	OpenedAt time.Time

	mu    sync.Mutex
	state ConnState
	send  chan PushMessage
	done  chan struct{}
}

// NewConnection creates a connection in the Connecting state. It receives no
// pushes until registered.
func NewConnection(id string, userID uint) *Connection {
	return &Connection{
		ID:       id,
		UserID:   userID,
		OpenedAt: time.Now(),
		state:    StateConnecting,
		send:     make(chan PushMessage, sendQueueSize),
		done:     make(chan struct{}),
	}
}

// Outbox is the queue the connection's write pump drains.
func (c *Connection) Outbox() <-chan PushMessage {
	return c.send
}

// Done is closed when the connection is unregistered; in-flight pushes are
// abandoned at that point.
func (c *Connection) Done() <-chan struct{} {
	return c.done
}

// State returns the current lifecycle state.
func (c *Connection) State() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// enqueue hands msg to the connection without blocking. On a full queue the
// oldest pending push is evicted to make room. Returns false once the
// connection is no longer authenticated.
func (c *Connection) enqueue(msg PushMessage) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateAuthenticated {
		return false
	}
	for {
		select {
		case c.send <- msg:
			return true
		default:
		}
		select {
		case <-c.send: // evict oldest
		default:
		}
	}
}

func (c *Connection) authenticate() {
	c.mu.Lock()
	if c.state == StateConnecting {
		c.state = StateAuthenticated
	}
	c.mu.Unlock()
}

// close transitions to Closed and wakes anything waiting on Done.
// Safe to call more than once.
func (c *Connection) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateClosed {
		return
	}
	c.state = StateClosed
	close(c.done)
}

// Registry is the process-wide map from user identity to that user's live
// connections. It is the only long-lived shared mutable state in the engine
// and is rebuilt from scratch on restart; clients re-announce identity after
// reconnecting.
type Registry struct {
	mu     sync.RWMutex
	byUser map[uint]map[string]*Connection
	byID   map[string]*Connection
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		byUser: make(map[uint]map[string]*Connection),
		byID:   make(map[string]*Connection),
	}
}

// Register authenticates conn and adds it to the fan-out set for its user.
func (r *Registry) Register(conn *Connection) {
	conn.authenticate()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[conn.ID]; ok {
		return
	}
	r.byID[conn.ID] = conn
	set, ok := r.byUser[conn.UserID]
	if !ok {
		set = make(map[string]*Connection)
		r.byUser[conn.UserID] = set
	}
	set[conn.ID] = conn
}

// Unregister removes and closes the connection. Calling it for an unknown id,
// or more than once for the same id, is a no-op; duplicate disconnect signals
// are expected.
func (r *Registry) Unregister(connectionID string) {
	r.mu.Lock()
	conn, ok := r.byID[connectionID]
	if ok {
		delete(r.byID, connectionID)
		set := r.byUser[conn.UserID]
		delete(set, connectionID)
		if len(set) == 0 {
			delete(r.byUser, conn.UserID)
		}
	}
	r.mu.Unlock()

	if ok {
		conn.close()
	}
}

// ActiveConnections returns a snapshot of the user's live connections;
// empty, never an error, when the user has none.
func (r *Registry) ActiveConnections(userID uint) []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := r.byUser[userID]
	conns := make([]*Connection, 0, len(set))
	for _, conn := range set {
		conns = append(conns, conn)
	}
	return conns
}
