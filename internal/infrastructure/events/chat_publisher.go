package events

import (
	"context"
	"encoding/json"

	"github.com/dmelnic/teamchat/internal/domain"
	"github.com/dmelnic/teamchat/internal/infrastructure/messaging"
)

// Publisher mirrors hub and directory activity onto the chat exchange.
// Publishing is best-effort: callers log failures and move on, the live
// broadcast path never depends on the broker.
type Publisher interface {
	PublishMessageSent(ctx context.Context, msg domain.Message) error
	PublishStatusChanged(ctx context.Context, userID, status string) error
	PublishGroupCreated(ctx context.Context, group domain.Group) error
	PublishGroupDeleted(ctx context.Context, group domain.Group) error
	PublishUserDeleted(ctx context.Context, userID string) error
}

type ChatPublisher struct {
	rabbitmq *messaging.RabbitMQ
}

func NewChatPublisher(rabbitmq *messaging.RabbitMQ) *ChatPublisher {
	return &ChatPublisher{
		rabbitmq: rabbitmq,
	}
}

func (p *ChatPublisher) publish(ctx context.Context, routingKey, actorID, roomKey string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	event, err := json.Marshal(messaging.ChatEvent{
		ActorID: actorID,
		RoomKey: roomKey,
		Data:    data,
	})
	if err != nil {
		return err
	}

	return p.rabbitmq.PublishMessage(ctx, routingKey, event)
}

func (p *ChatPublisher) PublishMessageSent(ctx context.Context, msg domain.Message) error {
	return p.publish(ctx, messaging.EventMessageSent, msg.SenderID, msg.RoomKey, msg)
}

func (p *ChatPublisher) PublishStatusChanged(ctx context.Context, userID, status string) error {
	payload := struct {
		UserID string `json:"userId"`
		Status string `json:"status"`
	}{UserID: userID, Status: status}

	return p.publish(ctx, messaging.EventUserStatus, userID, "", payload)
}

func (p *ChatPublisher) PublishGroupCreated(ctx context.Context, group domain.Group) error {
	return p.publish(ctx, messaging.EventGroupCreated, group.CreatedBy, group.ID, group)
}

func (p *ChatPublisher) PublishGroupDeleted(ctx context.Context, group domain.Group) error {
	return p.publish(ctx, messaging.EventGroupDeleted, group.CreatedBy, group.ID, group)
}

func (p *ChatPublisher) PublishUserDeleted(ctx context.Context, userID string) error {
	payload := struct {
		UserID string `json:"userId"`
	}{UserID: userID}

	return p.publish(ctx, messaging.EventUserDeleted, userID, "", payload)
}

// NopPublisher is used when the broker is disabled in config.
type NopPublisher struct{}

func (NopPublisher) PublishMessageSent(context.Context, domain.Message) error   { return nil }
func (NopPublisher) PublishStatusChanged(context.Context, string, string) error { return nil }
func (NopPublisher) PublishGroupCreated(context.Context, domain.Group) error    { return nil }
func (NopPublisher) PublishGroupDeleted(context.Context, domain.Group) error    { return nil }
func (NopPublisher) PublishUserDeleted(context.Context, string) error           { return nil }
