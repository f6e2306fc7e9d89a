package ws

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryRegisterReturnsExisting(t *testing.T) {
	registry := NewRegistry(4)

	first := registry.Register("conn-1")
	second := registry.Register("conn-1")

	require.Same(t, first, second)
	require.Equal(t, 1, registry.Len())
}

func TestRegistryBindIdentity(t *testing.T) {
	registry := NewRegistry(4)
	conn := registry.Register("conn-1")

	require.NoError(t, registry.BindIdentity("conn-1", "alice"))
	require.Equal(t, "alice", conn.UserID())

	// rebinding is a no-op
	require.NoError(t, registry.BindIdentity("conn-1", "alice"))
	require.Equal(t, "alice", conn.UserID())
}

func TestRegistryBindIdentityUnknownConnection(t *testing.T) {
	registry := NewRegistry(4)

	err := registry.BindIdentity("nope", "alice")

	require.ErrorIs(t, err, ErrUnknownConnection)
}

func TestRegistryUnregisterIsIdempotent(t *testing.T) {
	registry := NewRegistry(4)
	registry.Register("conn-1")

	removed := registry.Unregister("conn-1")
	require.NotNil(t, removed)
	require.True(t, removed.IsClosed())

	require.Nil(t, registry.Unregister("conn-1"))
	require.Equal(t, 0, registry.Len())
}

func TestConnectionDeliverAfterCloseIsDropped(t *testing.T) {
	registry := NewRegistry(4)
	registry.Register("conn-1")
	conn := registry.Unregister("conn-1")

	require.False(t, conn.deliver(NewUserTyping("alice", true)))
}

func TestConnectionDeliverDropsWhenOutboxFull(t *testing.T) {
	registry := NewRegistry(1)
	conn := registry.Register("conn-1")

	require.True(t, conn.deliver(NewUserTyping("alice", true)))
	require.False(t, conn.deliver(NewUserTyping("alice", false)))
}
