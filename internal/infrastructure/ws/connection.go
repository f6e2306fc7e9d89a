package ws

import (
	"sync"
)

// Connection is one live transport session. It is owned exclusively by the
// Registry; everything else refers to it by ID. The outbox is buffered and
// never closed: delivery stops when the closed signal fires, so a concurrent
// broadcast can never send on a closed channel.
type Connection struct {
	id string

	mu     sync.RWMutex
	userID string

	outbox    chan *WireEvent
	closed    chan struct{}
	closeOnce sync.Once
}

func newConnection(id string, buffer int) *Connection {
	return &Connection{
		id:     id,
		outbox: make(chan *WireEvent, buffer),
		closed: make(chan struct{}),
	}
}

func (c *Connection) ID() string {
	return c.id
}

// UserID returns the bound identity, or "" before authentication completes.
func (c *Connection) UserID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userID
}

func (c *Connection) bindIdentity(userID string) {
	c.mu.Lock()
	c.userID = userID
	c.mu.Unlock()
}

// Outbox is consumed by the connection's write pump (and by tests).
func (c *Connection) Outbox() <-chan *WireEvent {
	return c.outbox
}

// Closed fires when the connection has been unregistered.
func (c *Connection) Closed() <-chan struct{} {
	return c.closed
}

func (c *Connection) IsClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

func (c *Connection) close() {
	c.closeOnce.Do(func() {
		close(c.closed)
	})
}

// deliver enqueues an event without blocking. It reports false when the
// connection is closed or its outbox is full; a slow consumer loses the
// event rather than stalling the broadcast.
func (c *Connection) deliver(event *WireEvent) bool {
	select {
	case <-c.closed:
		return false
	default:
	}

	select {
	case c.outbox <- event:
		return true
	case <-c.closed:
		return false
	default:
		return false
	}
}
