package ws

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoomsJoinIsIdempotent(t *testing.T) {
	rooms := NewRooms()

	rooms.Join("alice:bob", "conn-1")
	rooms.Join("alice:bob", "conn-1")

	require.Equal(t, []string{"conn-1"}, rooms.MembersOf("alice:bob"))
	require.Equal(t, 1, rooms.Len())
}

func TestRoomsDroppedWhenLastMemberLeaves(t *testing.T) {
	rooms := NewRooms()
	rooms.Join("alice:bob", "conn-1")
	rooms.Join("alice:bob", "conn-2")

	rooms.Leave("alice:bob", "conn-1")
	require.Equal(t, 1, rooms.Len())

	rooms.Leave("alice:bob", "conn-2")
	require.Equal(t, 0, rooms.Len())
	require.Empty(t, rooms.MembersOf("alice:bob"))
}

func TestRoomsLeaveUnknownRoomIsNoOp(t *testing.T) {
	rooms := NewRooms()

	rooms.Leave("nope", "conn-1")

	require.Equal(t, 0, rooms.Len())
}

func TestRoomsLeaveAll(t *testing.T) {
	rooms := NewRooms()
	rooms.Join("alice:bob", "conn-1")
	rooms.Join("group-7", "conn-1")
	rooms.Join("group-7", "conn-2")

	rooms.LeaveAll("conn-1")

	require.Empty(t, rooms.MembersOf("alice:bob"))
	require.Equal(t, []string{"conn-2"}, rooms.MembersOf("group-7"))
	require.Empty(t, rooms.RoomsOf("conn-1"))
	require.Equal(t, 1, rooms.Len())
}

func TestRoomsMembersOfReturnsSnapshot(t *testing.T) {
	rooms := NewRooms()
	rooms.Join("group-7", "conn-1")

	members := rooms.MembersOf("group-7")
	rooms.Join("group-7", "conn-2")

	require.Equal(t, []string{"conn-1"}, members)
}
