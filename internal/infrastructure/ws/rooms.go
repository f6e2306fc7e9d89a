package ws

import (
	"sync"
)

// Rooms maps room keys to the set of subscribed connection IDs. Rooms are a
// purely live fan-out concept: a room exists exactly as long as it has at
// least one subscriber, nothing about it is ever stored.
type Rooms struct {
	mu     sync.RWMutex
	rooms  map[string]map[string]struct{} // roomKey → connection IDs
	byConn map[string]map[string]struct{} // connection ID → roomKeys
}

func NewRooms() *Rooms {
	return &Rooms{
		rooms:  make(map[string]map[string]struct{}),
		byConn: make(map[string]map[string]struct{}),
	}
}

// Join subscribes the connection to the room, creating the subscriber set
// lazily. Joining twice has no additional effect.
func (rm *Rooms) Join(roomKey, connID string) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	members, ok := rm.rooms[roomKey]
	if !ok {
		members = make(map[string]struct{})
		rm.rooms[roomKey] = members
	}
	members[connID] = struct{}{}

	joined, ok := rm.byConn[connID]
	if !ok {
		joined = make(map[string]struct{})
		rm.byConn[connID] = joined
	}
	joined[roomKey] = struct{}{}
}

// Leave removes the connection from the room; the room entry is dropped when
// its subscriber set becomes empty. Leaving an unknown room is a no-op.
func (rm *Rooms) Leave(roomKey, connID string) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	rm.leaveLocked(roomKey, connID)
}

func (rm *Rooms) leaveLocked(roomKey, connID string) {
	if members, ok := rm.rooms[roomKey]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(rm.rooms, roomKey)
		}
	}

	if joined, ok := rm.byConn[connID]; ok {
		delete(joined, roomKey)
		if len(joined) == 0 {
			delete(rm.byConn, connID)
		}
	}
}

// LeaveAll removes the connection from every room it is subscribed to.
// Invoked on disconnect; never fails.
func (rm *Rooms) LeaveAll(connID string) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	for roomKey := range rm.byConn[connID] {
		rm.leaveLocked(roomKey, connID)
	}
}

// MembersOf returns a snapshot of the room's current subscribers; empty for
// an unknown room.
func (rm *Rooms) MembersOf(roomKey string) []string {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	members := rm.rooms[roomKey]
	out := make([]string, 0, len(members))
	for connID := range members {
		out = append(out, connID)
	}
	return out
}

// RoomsOf returns the rooms the connection is currently subscribed to.
func (rm *Rooms) RoomsOf(connID string) []string {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	joined := rm.byConn[connID]
	out := make([]string, 0, len(joined))
	for roomKey := range joined {
		out = append(out, roomKey)
	}
	return out
}

func (rm *Rooms) Len() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return len(rm.rooms)
}
