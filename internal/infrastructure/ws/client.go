package ws

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmelnic/teamchat/internal/domain"
	"github.com/dmelnic/teamchat/internal/infrastructure/configs"
	"github.com/dmelnic/teamchat/internal/infrastructure/logging"
)

// Client pumps a single websocket between the wire and the hub. The read
// pump dispatches inbound envelopes serially, so everything one client sends
// is processed, persisted and fanned out in the order it arrived.
type Client struct {
	hub    *Hub
	conn   *Connection
	socket *websocket.Conn
	cfg    configs.HubConfig
	logger logging.Logger
}

func NewClient(hub *Hub, conn *Connection, socket *websocket.Conn, cfg configs.HubConfig, logger logging.Logger) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		socket: socket,
		cfg:    cfg,
		logger: logger,
	}
}

// Run blocks until the socket dies, then tears the connection down. The
// write pump runs on its own goroutine; Run owns the read loop.
func (c *Client) Run(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c.conn.ID())
		c.socket.Close()
	}()

	go c.writePump()
	c.readPump(ctx)
}

func (c *Client) readPump(ctx context.Context) {
	c.socket.SetReadLimit(c.cfg.MaxMessageSize)
	c.socket.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	c.socket.SetPongHandler(func(string) error {
		return c.socket.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	})

	for {
		var envelope Envelope
		if err := c.socket.ReadJSON(&envelope); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn(logging.WebSocket, logging.Connection, "unexpected socket close", map[logging.ExtraKey]any{
					logging.ConnectionID: c.conn.ID(),
					logging.ErrorMessage: err.Error(),
				})
			}
			return
		}

		c.dispatch(ctx, envelope)
	}
}

func (c *Client) dispatch(ctx context.Context, envelope Envelope) {
	switch envelope.Type {
	case JoinRoom:
		var payload JoinRoomPayload
		if !c.decode(envelope, &payload) {
			return
		}
		if _, err := c.hub.Join(c.conn.ID(), payload); err != nil {
			c.conn.deliver(NewError("invalid_target", err.Error()))
		}

	case LeaveRoom:
		var payload JoinRoomPayload
		if !c.decode(envelope, &payload) {
			return
		}
		c.hub.LeaveTarget(c.conn.ID(), payload)

	case SendMessage:
		var payload SendMessagePayload
		if !c.decode(envelope, &payload) {
			return
		}
		msg, err := c.hub.Send(ctx, c.conn.ID(), payload)
		if err != nil {
			c.conn.deliver(NewError(sendErrorCode(err), err.Error()))
			return
		}
		c.conn.deliver(NewMessageAck(msg.ID, msg.RoomKey, msg.CreatedAt))

	case Typing:
		var payload TypingPayload
		if !c.decode(envelope, &payload) {
			return
		}
		c.hub.Typing(c.conn.ID(), payload)

	case StatusUpdate:
		// Durable status changes go through the REST surface; a bare
		// signal from the socket only fans out.
		var payload StatusUpdatePayload
		if !c.decode(envelope, &payload) {
			return
		}
		if userID := c.conn.UserID(); userID != "" {
			c.hub.Presence(userID, payload.Status)
		}

	default:
		c.conn.deliver(NewError("unknown_event", "unsupported event type: "+envelope.Type))
	}
}

func (c *Client) decode(envelope Envelope, out any) bool {
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		c.conn.deliver(NewError("bad_payload", "malformed "+envelope.Type+" payload"))
		return false
	}
	return true
}

func sendErrorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidTarget):
		return "invalid_target"
	case errors.Is(err, domain.ErrEmptyContent):
		return "empty_content"
	case errors.Is(err, domain.ErrContentTooLong):
		return "content_too_long"
	case errors.Is(err, domain.ErrPersistenceFailure):
		return "persistence_failure"
	case errors.Is(err, ErrIdentityRequired):
		return "identity_required"
	default:
		return "internal_error"
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.socket.Close()
	}()

	for {
		select {
		case event := <-c.conn.Outbox():
			c.socket.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.socket.WriteJSON(event); err != nil {
				return
			}

		case <-ticker.C:
			c.socket.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.socket.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.conn.Closed():
			c.socket.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			c.socket.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
