package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ChatEventType string

const (
	EventMessageSent   ChatEventType = "message_sent"
	EventStatusChanged ChatEventType = "status_changed"
	EventGroupCreated  ChatEventType = "group_created"
	EventGroupDeleted  ChatEventType = "group_deleted"
	EventUserDeleted   ChatEventType = "user_deleted"
)

type ChatAuditLog struct {
	ID        string         `bson:"_id" json:"id"`
	RoomKey   string         `bson:"room_key,omitempty" json:"roomKey,omitempty"`
	EventType ChatEventType  `bson:"event_type" json:"eventType"`
	ActorID   string         `bson:"actor_id" json:"actorId"`
	Timestamp time.Time      `bson:"timestamp" json:"timestamp"`
	Metadata  map[string]any `bson:"metadata,omitempty" json:"metadata,omitempty"`
}

type ChatAuditRepository interface {
	Log(ctx context.Context, log *ChatAuditLog) error
	GetByRoomKey(ctx context.Context, roomKey string, limit int) ([]ChatAuditLog, error)
	GetByEventType(ctx context.Context, eventType ChatEventType, from, to time.Time) ([]ChatAuditLog, error)
	DeleteOlderThan(ctx context.Context, before time.Time) error
	EnsureIndexes(ctx context.Context) error
}

func NewChatAuditLog(eventType ChatEventType, actorID, roomKey string, metadata map[string]any) *ChatAuditLog {
	return &ChatAuditLog{
		ID:        uuid.NewString(),
		RoomKey:   roomKey,
		EventType: eventType,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Metadata:  metadata,
	}
}
