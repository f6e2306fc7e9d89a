package ws

import (
	"errors"
	"sync"
)

var ErrUnknownConnection = errors.New("unknown connection")

// Registry tracks every live connection and owns its lifecycle. The room
// membership manager holds only connection IDs, never *Connection, so a
// disconnect can never leave a dangling reference behind.
type Registry struct {
	mu     sync.RWMutex
	conns  map[string]*Connection
	buffer int
}

func NewRegistry(sendBuffer int) *Registry {
	if sendBuffer <= 0 {
		sendBuffer = 64
	}
	return &Registry{
		conns:  make(map[string]*Connection),
		buffer: sendBuffer,
	}
}

// Register creates a connection record with no bound identity. Registering
// an ID that already exists returns the existing record.
func (r *Registry) Register(connID string) *Connection {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.conns[connID]; ok {
		return existing
	}

	conn := newConnection(connID, r.buffer)
	r.conns[connID] = conn
	return conn
}

// BindIdentity associates an authenticated identity with a connection.
// Idempotent: rebinding the same identity is a no-op.
func (r *Registry) BindIdentity(connID, userID string) error {
	r.mu.RLock()
	conn, ok := r.conns[connID]
	r.mu.RUnlock()

	if !ok {
		return ErrUnknownConnection
	}

	conn.bindIdentity(userID)
	return nil
}

// Unregister removes and closes the connection. Unregistering an unknown or
// already-removed connection is a no-op; the removed connection (if any) is
// returned so the caller can clean up room memberships.
func (r *Registry) Unregister(connID string) *Connection {
	r.mu.Lock()
	conn, ok := r.conns[connID]
	if ok {
		delete(r.conns, connID)
	}
	r.mu.Unlock()

	if !ok {
		return nil
	}

	conn.close()
	return conn
}

func (r *Registry) Lookup(connID string) (*Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.conns[connID]
	return conn, ok
}

// Connections returns a snapshot of every live connection, for
// process-wide broadcasts.
func (r *Registry) Connections() []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Connection, 0, len(r.conns))
	for _, conn := range r.conns {
		out = append(out, conn)
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
