package ws

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmelnic/teamchat/internal/domain"
	"github.com/dmelnic/teamchat/internal/infrastructure/events"
	"github.com/dmelnic/teamchat/internal/infrastructure/logging"
	"github.com/dmelnic/teamchat/internal/infrastructure/metrics"
)

var ErrIdentityRequired = errors.New("connection has no bound identity")

// Hub coordinates connections, room membership, durable storage and live
// fan-out. Send persists before it broadcasts: a message that fails to reach
// storage is never delivered to anyone.
type Hub struct {
	registry  *Registry
	rooms     *Rooms
	messages  domain.MessageRepository
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    logging.Logger
}

func NewHub(
	registry *Registry,
	messages domain.MessageRepository,
	publisher events.Publisher,
	m *metrics.Metrics,
	logger logging.Logger,
) *Hub {
	return &Hub{
		registry:  registry,
		rooms:     NewRooms(),
		messages:  messages,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

// Register admits a new connection with no identity bound yet.
func (h *Hub) Register(connID string) *Connection {
	_, existed := h.registry.Lookup(connID)
	conn := h.registry.Register(connID)
	if !existed {
		h.metrics.ConnectionsActive.Inc()
		h.logger.Info(logging.WebSocket, logging.Connection, "connection registered", map[logging.ExtraKey]any{
			logging.ConnectionID: connID,
		})
	}
	return conn
}

func (h *Hub) BindIdentity(connID, userID string) error {
	return h.registry.BindIdentity(connID, userID)
}

// Unregister removes the connection and every room membership it holds.
// Safe to call more than once for the same connection.
func (h *Hub) Unregister(connID string) {
	conn := h.registry.Unregister(connID)
	if conn == nil {
		return
	}

	h.rooms.LeaveAll(connID)
	h.metrics.ConnectionsActive.Dec()
	h.metrics.RoomsActive.Set(float64(h.rooms.Len()))

	h.logger.Info(logging.WebSocket, logging.Connection, "connection unregistered", map[logging.ExtraKey]any{
		logging.ConnectionID: connID,
		logging.UserID:       conn.UserID(),
	})
}

// Join resolves the requested room and subscribes the connection to it. The
// payload either names a room key outright or supplies a target the server
// resolves, so both direct participants always land on the same key.
func (h *Hub) Join(connID string, payload JoinRoomPayload) (string, error) {
	conn, ok := h.registry.Lookup(connID)
	if !ok {
		return "", ErrUnknownConnection
	}

	roomKey := payload.Room
	if roomKey == "" {
		resolved, err := domain.ResolveRoomKey(domain.RoomTarget{
			GroupID: payload.GroupID,
			SelfID:  conn.UserID(),
			OtherID: payload.ReceiverID,
		})
		if err != nil {
			return "", err
		}
		roomKey = resolved
	}

	h.rooms.Join(roomKey, connID)
	h.metrics.RoomsActive.Set(float64(h.rooms.Len()))

	h.logger.Debug(logging.WebSocket, logging.Membership, "joined room", map[logging.ExtraKey]any{
		logging.ConnectionID: connID,
		logging.RoomKey:      roomKey,
	})
	return roomKey, nil
}

func (h *Hub) Leave(connID, roomKey string) {
	h.rooms.Leave(roomKey, connID)
	h.metrics.RoomsActive.Set(float64(h.rooms.Len()))
}

// LeaveTarget accepts the same payload shape as Join so a client can leave by
// naming either the room key or the target it joined with. Unresolvable
// targets are ignored; leaving a room you never joined is already a no-op.
func (h *Hub) LeaveTarget(connID string, payload JoinRoomPayload) {
	roomKey := payload.Room
	if roomKey == "" {
		conn, ok := h.registry.Lookup(connID)
		if !ok {
			return
		}
		resolved, err := domain.ResolveRoomKey(domain.RoomTarget{
			GroupID: payload.GroupID,
			SelfID:  conn.UserID(),
			OtherID: payload.ReceiverID,
		})
		if err != nil {
			return
		}
		roomKey = resolved
	}
	h.Leave(connID, roomKey)
}

// Send validates, persists and broadcasts a message. The sender identity
// comes from the bound connection, never from the payload. On a storage
// failure the error wraps domain.ErrPersistenceFailure and nothing is
// broadcast.
func (h *Hub) Send(ctx context.Context, connID string, payload SendMessagePayload) (*domain.Message, error) {
	conn, ok := h.registry.Lookup(connID)
	if !ok {
		return nil, ErrUnknownConnection
	}

	senderID := conn.UserID()
	if senderID == "" {
		return nil, ErrIdentityRequired
	}

	msg, err := domain.NewMessage(senderID, payload.ReceiverID, payload.GroupID, payload.Content)
	if err != nil {
		return nil, err
	}

	if err := h.messages.Persist(ctx, msg); err != nil {
		h.metrics.PersistenceErrors.Inc()
		h.logger.Error(logging.Mongo, logging.Persistence, "message persist failed", map[logging.ExtraKey]any{
			logging.RoomKey:      msg.RoomKey,
			logging.UserID:       senderID,
			logging.ErrorMessage: err.Error(),
		})
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistenceFailure, err)
	}

	h.metrics.MessagesSent.Inc()

	event := NewReceiveMessage(msg.ID, msg.SenderID, msg.Content, msg.CreatedAt)
	h.broadcast(msg.RoomKey, connID, event, h.metrics.MessagesDelivered)

	if err := h.publisher.PublishMessageSent(ctx, *msg); err != nil {
		h.logger.Warn(logging.RabbitMQ, logging.Publish, "message event publish failed", map[logging.ExtraKey]any{
			logging.RoomKey:      msg.RoomKey,
			logging.ErrorMessage: err.Error(),
		})
	}

	return msg, nil
}

// Typing relays a typing signal to the other members of the room. Signals
// for rooms with no subscribers vanish silently; they are ephemeral and
// never stored.
func (h *Hub) Typing(connID string, payload TypingPayload) {
	conn, ok := h.registry.Lookup(connID)
	if !ok {
		return
	}

	identity := conn.UserID()
	if identity == "" {
		identity = connID
	}

	event := NewUserTyping(identity, payload.IsTyping)
	h.broadcast(payload.Room, connID, event, h.metrics.TypingSignals)
}

// Presence announces a user's status to every live connection.
func (h *Hub) Presence(userID, status string) {
	event := NewUserStatus(userID, status)
	for _, conn := range h.registry.Connections() {
		if !conn.deliver(event) {
			h.metrics.MessagesDropped.Inc()
		}
	}
	h.metrics.PresenceBroadcasts.Inc()
}

// broadcast fans the event out to every room member except the originating
// connection. A sender's other sessions in the room still receive it.
func (h *Hub) broadcast(roomKey, senderConnID string, event *WireEvent, delivered interface{ Inc() }) {
	for _, memberID := range h.rooms.MembersOf(roomKey) {
		if memberID == senderConnID {
			continue
		}

		conn, ok := h.registry.Lookup(memberID)
		if !ok {
			continue
		}

		if conn.deliver(event) {
			delivered.Inc()
		} else {
			h.metrics.MessagesDropped.Inc()
			h.logger.Warn(logging.WebSocket, logging.Broadcast, "delivery dropped", map[logging.ExtraKey]any{
				logging.ConnectionID: memberID,
				logging.RoomKey:      roomKey,
			})
		}
	}
}
