package ws

import (
	"encoding/json"
	"time"
)

// Envelope is the inbound frame: a type tag plus a type-specific payload.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// WireEvent is the outbound frame.
type WireEvent struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Inbound payload structs

// JoinRoomPayload either names the room key directly, or supplies a target
// for the server-side resolver. Direct-chat clients should prefer the
// target form: the server derives the canonical key, so the two
// participants can never end up in different rooms.
type JoinRoomPayload struct {
	Room       string `json:"room,omitempty"`
	ReceiverID string `json:"receiverId,omitempty"`
	GroupID    string `json:"groupId,omitempty"`
}

type SendMessagePayload struct {
	ReceiverID string `json:"receiverId,omitempty"`
	GroupID    string `json:"groupId,omitempty"`
	Content    string `json:"content"`
}

type TypingPayload struct {
	Room     string `json:"room"`
	IsTyping bool   `json:"isTyping"`
}

type StatusUpdatePayload struct {
	Status string `json:"status"`
}

// Outbound payload structs
type MessagePayload struct {
	ID        string `json:"id"`
	SenderID  string `json:"senderId"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}

type TypingSignalPayload struct {
	UserID   string `json:"userId"`
	IsTyping bool   `json:"isTyping"`
}

type StatusPayload struct {
	UserID string `json:"userId"`
	Status string `json:"status"`
}

type AckPayload struct {
	ID        string `json:"id"`
	RoomKey   string `json:"roomKey"`
	CreatedAt string `json:"createdAt"`
}

type ErrorPayload struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func NewReceiveMessage(id, senderID, content string, createdAt time.Time) *WireEvent {
	return &WireEvent{
		Type: ReceiveMessage,
		Data: MessagePayload{
			ID:        id,
			SenderID:  senderID,
			Content:   content,
			CreatedAt: createdAt.UTC().Format(time.RFC3339),
		},
	}
}

func NewUserTyping(userID string, isTyping bool) *WireEvent {
	return &WireEvent{
		Type: UserTyping,
		Data: TypingSignalPayload{
			UserID:   userID,
			IsTyping: isTyping,
		},
	}
}

func NewUserStatus(userID, status string) *WireEvent {
	return &WireEvent{
		Type: UserStatus,
		Data: StatusPayload{
			UserID: userID,
			Status: status,
		},
	}
}

func NewMessageAck(id, roomKey string, createdAt time.Time) *WireEvent {
	return &WireEvent{
		Type: MessageAck,
		Data: AckPayload{
			ID:        id,
			RoomKey:   roomKey,
			CreatedAt: createdAt.UTC().Format(time.RFC3339),
		},
	}
}

func NewError(code, message string) *WireEvent {
	return &WireEvent{
		Type: ErrorEvent,
		Data: ErrorPayload{
			Code:    code,
			Message: message,
		},
	}
}
