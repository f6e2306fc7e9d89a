package ws

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmelnic/teamchat/internal/domain"
	"github.com/dmelnic/teamchat/internal/infrastructure/events"
	"github.com/dmelnic/teamchat/internal/infrastructure/logging"
	"github.com/dmelnic/teamchat/internal/infrastructure/metrics"
)

type fakeMessages struct {
	mu     sync.Mutex
	saved  []*domain.Message
	nextID int
	err    error
}

func (f *fakeMessages) Persist(_ context.Context, msg *domain.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}

	f.nextID++
	msg.ID = fmt.Sprintf("msg-%d", f.nextID)
	msg.CreatedAt = time.Now().UTC()
	f.saved = append(f.saved, msg)
	return nil
}

func (f *fakeMessages) GetByRoomKey(_ context.Context, roomKey string) ([]domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.Message
	for _, msg := range f.saved {
		if msg.RoomKey == roomKey {
			out = append(out, *msg)
		}
	}
	return out, nil
}

func newTestHub(repo *fakeMessages) *Hub {
	return NewHub(NewRegistry(8), repo, events.NopPublisher{}, metrics.New(), logging.NopLogger{})
}

// connect registers a connection, binds its identity and joins it to the
// room the two users share.
func connect(t *testing.T, hub *Hub, connID, userID, otherID string) *Connection {
	t.Helper()

	conn := hub.Register(connID)
	require.NoError(t, hub.BindIdentity(connID, userID))

	_, err := hub.Join(connID, JoinRoomPayload{ReceiverID: otherID})
	require.NoError(t, err)
	return conn
}

func drain(t *testing.T, conn *Connection, want int) []*WireEvent {
	t.Helper()

	out := make([]*WireEvent, 0, want)
	for len(out) < want {
		select {
		case event := <-conn.Outbox():
			out = append(out, event)
		default:
			t.Fatalf("expected %d events, got %d", want, len(out))
		}
	}

	select {
	case event := <-conn.Outbox():
		t.Fatalf("unexpected extra event %q", event.Type)
	default:
	}
	return out
}

func TestHubSendDeliversOnceToOtherMember(t *testing.T) {
	repo := &fakeMessages{}
	hub := newTestHub(repo)

	alice := connect(t, hub, "conn-a", "alice", "bob")
	bob := connect(t, hub, "conn-b", "bob", "alice")

	msg, err := hub.Send(context.Background(), "conn-a", SendMessagePayload{
		ReceiverID: "bob",
		Content:    "hello",
	})
	require.NoError(t, err)
	require.Equal(t, "alice:bob", msg.RoomKey)
	require.Len(t, repo.saved, 1)

	got := drain(t, bob, 1)
	require.Equal(t, ReceiveMessage, got[0].Type)

	payload, ok := got[0].Data.(MessagePayload)
	require.True(t, ok)
	require.Equal(t, "alice", payload.SenderID)
	require.Equal(t, "hello", payload.Content)

	// the originating connection gets no echo
	drain(t, alice, 0)
}

func TestHubSendPersistenceFailureAbortsBroadcast(t *testing.T) {
	repo := &fakeMessages{err: errors.New("mongo down")}
	hub := newTestHub(repo)

	connect(t, hub, "conn-a", "alice", "bob")
	bob := connect(t, hub, "conn-b", "bob", "alice")

	_, err := hub.Send(context.Background(), "conn-a", SendMessagePayload{
		ReceiverID: "bob",
		Content:    "hello",
	})
	require.ErrorIs(t, err, domain.ErrPersistenceFailure)

	drain(t, bob, 0)
}

func TestHubSendRequiresBoundIdentity(t *testing.T) {
	hub := newTestHub(&fakeMessages{})
	hub.Register("conn-a")

	_, err := hub.Send(context.Background(), "conn-a", SendMessagePayload{
		ReceiverID: "bob",
		Content:    "hello",
	})

	require.ErrorIs(t, err, ErrIdentityRequired)
}

func TestHubSendInvalidTarget(t *testing.T) {
	hub := newTestHub(&fakeMessages{})
	connect(t, hub, "conn-a", "alice", "bob")

	_, err := hub.Send(context.Background(), "conn-a", SendMessagePayload{
		ReceiverID: "bob",
		GroupID:    "group-7",
		Content:    "hello",
	})

	require.ErrorIs(t, err, domain.ErrInvalidTarget)
}

func TestHubSendPreservesOrderPerReceiver(t *testing.T) {
	repo := &fakeMessages{}
	hub := newTestHub(repo)

	connect(t, hub, "conn-a", "alice", "bob")
	bob := connect(t, hub, "conn-b", "bob", "alice")

	for _, content := range []string{"first", "second", "third"} {
		_, err := hub.Send(context.Background(), "conn-a", SendMessagePayload{
			ReceiverID: "bob",
			Content:    content,
		})
		require.NoError(t, err)
	}

	got := drain(t, bob, 3)
	for i, want := range []string{"first", "second", "third"} {
		payload := got[i].Data.(MessagePayload)
		require.Equal(t, want, payload.Content)
	}
}

func TestHubSendEchoesToSendersOtherSession(t *testing.T) {
	repo := &fakeMessages{}
	hub := newTestHub(repo)

	connect(t, hub, "conn-a1", "alice", "bob")
	alicePhone := connect(t, hub, "conn-a2", "alice", "bob")
	bob := connect(t, hub, "conn-b", "bob", "alice")

	_, err := hub.Send(context.Background(), "conn-a1", SendMessagePayload{
		ReceiverID: "bob",
		Content:    "hello",
	})
	require.NoError(t, err)

	drain(t, bob, 1)
	drain(t, alicePhone, 1)
}

func TestHubTypingUnknownRoomIsNoOp(t *testing.T) {
	hub := newTestHub(&fakeMessages{})
	conn := hub.Register("conn-a")

	hub.Typing("conn-a", TypingPayload{Room: "nobody:here", IsTyping: true})

	drain(t, conn, 0)
}

func TestHubTypingReachesOtherMembersOnly(t *testing.T) {
	hub := newTestHub(&fakeMessages{})

	alice := connect(t, hub, "conn-a", "alice", "bob")
	bob := connect(t, hub, "conn-b", "bob", "alice")

	hub.Typing("conn-a", TypingPayload{Room: "alice:bob", IsTyping: true})

	got := drain(t, bob, 1)
	require.Equal(t, UserTyping, got[0].Type)

	payload := got[0].Data.(TypingSignalPayload)
	require.Equal(t, "alice", payload.UserID)
	require.True(t, payload.IsTyping)

	drain(t, alice, 0)
}

func TestHubPresenceReachesAllConnections(t *testing.T) {
	hub := newTestHub(&fakeMessages{})

	alice := hub.Register("conn-a")
	bob := hub.Register("conn-b")
	carol := hub.Register("conn-c")

	hub.Presence("alice", domain.StatusOnline)

	for _, conn := range []*Connection{alice, bob, carol} {
		got := drain(t, conn, 1)
		require.Equal(t, UserStatus, got[0].Type)

		payload := got[0].Data.(StatusPayload)
		require.Equal(t, "alice", payload.UserID)
		require.Equal(t, domain.StatusOnline, payload.Status)
	}
}

func TestHubUnregisterRemovesMemberships(t *testing.T) {
	hub := newTestHub(&fakeMessages{})

	connect(t, hub, "conn-a", "alice", "bob")
	bob := connect(t, hub, "conn-b", "bob", "alice")

	hub.Unregister("conn-b")

	require.True(t, bob.IsClosed())
	require.Equal(t, []string{"conn-a"}, hub.rooms.MembersOf("alice:bob"))

	// twice is fine
	hub.Unregister("conn-b")
}

func TestHubJoinResolvesDirectTargetSymmetrically(t *testing.T) {
	hub := newTestHub(&fakeMessages{})

	hub.Register("conn-a")
	require.NoError(t, hub.BindIdentity("conn-a", "alice"))
	hub.Register("conn-b")
	require.NoError(t, hub.BindIdentity("conn-b", "bob"))

	fromAlice, err := hub.Join("conn-a", JoinRoomPayload{ReceiverID: "bob"})
	require.NoError(t, err)

	fromBob, err := hub.Join("conn-b", JoinRoomPayload{ReceiverID: "alice"})
	require.NoError(t, err)

	require.Equal(t, fromAlice, fromBob)
}

func TestHubLeaveTargetResolvesLikeJoin(t *testing.T) {
	hub := newTestHub(&fakeMessages{})
	connect(t, hub, "conn-a", "alice", "bob")
	connect(t, hub, "conn-b", "bob", "alice")

	hub.LeaveTarget("conn-b", JoinRoomPayload{ReceiverID: "alice"})

	require.Equal(t, []string{"conn-a"}, hub.rooms.MembersOf("alice:bob"))
}

func TestHubLeaveTargetUnknownRoomIsNoOp(t *testing.T) {
	hub := newTestHub(&fakeMessages{})
	connect(t, hub, "conn-a", "alice", "bob")

	hub.LeaveTarget("conn-a", JoinRoomPayload{Room: "carol:dave"})
	hub.LeaveTarget("conn-missing", JoinRoomPayload{ReceiverID: "alice"})

	require.Equal(t, []string{"conn-a"}, hub.rooms.MembersOf("alice:bob"))
}

func TestHubJoinRejectsAmbiguousTarget(t *testing.T) {
	hub := newTestHub(&fakeMessages{})
	hub.Register("conn-a")
	require.NoError(t, hub.BindIdentity("conn-a", "alice"))

	_, err := hub.Join("conn-a", JoinRoomPayload{ReceiverID: "bob", GroupID: "group-7"})

	require.ErrorIs(t, err, domain.ErrInvalidTarget)
}
