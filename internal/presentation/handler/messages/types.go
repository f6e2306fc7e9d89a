package messages

import (
	"time"

	"github.com/dmelnic/teamchat/internal/domain"
)

// messageResponse is one entry of a conversation's history
type messageResponse struct {
	ID         string `json:"id"`
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId,omitempty"`
	GroupID    string `json:"groupId,omitempty"`
	Content    string `json:"content"`
	CreatedAt  string `json:"createdAt"`
}

func toMessageResponse(msg *domain.Message) messageResponse {
	return messageResponse{
		ID:         msg.ID,
		SenderID:   msg.SenderID,
		ReceiverID: msg.ReceiverID,
		GroupID:    msg.GroupID,
		Content:    msg.Content,
		CreatedAt:  msg.CreatedAt.UTC().Format(time.RFC3339),
	}
}
