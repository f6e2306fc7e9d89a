package domain

import (
	"context"
	"errors"
	"strings"
	"time"
)

const MaxMessageLength = 5000

var (
	ErrInvalidTarget      = errors.New("message must target exactly one of receiver or group")
	ErrEmptyContent       = errors.New("message content must not be empty")
	ErrContentTooLong     = errors.New("message content too long")
	ErrMessageNotFound    = errors.New("message not found")
	ErrPersistenceFailure = errors.New("message persistence failed")
)

// Message is immutable once persisted. Exactly one of ReceiverID and GroupID
// is set; NewMessage refuses to construct anything else.
type Message struct {
	ID         string    `bson:"_id" json:"id"`
	SenderID   string    `bson:"sender_id" json:"senderId"`
	ReceiverID string    `bson:"receiver_id,omitempty" json:"receiverId,omitempty"`
	GroupID    string    `bson:"group_id,omitempty" json:"groupId,omitempty"`
	RoomKey    string    `bson:"room_key" json:"-"`
	Content    string    `bson:"content" json:"content"`
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`
}

// MessageRepository is the persistence gateway the broadcast hub writes
// through. Persist assigns the server-side id and timestamp; a message is
// never broadcast unless Persist returned nil.
type MessageRepository interface {
	Persist(ctx context.Context, msg *Message) error
	GetByRoomKey(ctx context.Context, roomKey string) ([]Message, error)
}

func NewMessage(senderID, receiverID, groupID, content string) (*Message, error) {
	if senderID == "" {
		return nil, errors.New("sender is required")
	}
	if (receiverID == "") == (groupID == "") {
		return nil, ErrInvalidTarget
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if len(content) > MaxMessageLength {
		return nil, ErrContentTooLong
	}

	roomKey, err := ResolveRoomKey(RoomTarget{
		GroupID: groupID,
		SelfID:  senderID,
		OtherID: receiverID,
	})
	if err != nil {
		return nil, err
	}

	return &Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		GroupID:    groupID,
		RoomKey:    roomKey,
		Content:    content,
	}, nil
}
