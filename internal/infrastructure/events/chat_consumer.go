package events

import (
	"context"
	"encoding/json"

	"github.com/dmelnic/teamchat/internal/domain"
	"github.com/dmelnic/teamchat/internal/infrastructure/logging"
	"github.com/dmelnic/teamchat/internal/infrastructure/messaging"
	"github.com/rabbitmq/amqp091-go"
)

var routingKeyToEventType = map[string]domain.ChatEventType{
	messaging.EventMessageSent:  domain.EventMessageSent,
	messaging.EventUserStatus:   domain.EventStatusChanged,
	messaging.EventUserDeleted:  domain.EventUserDeleted,
	messaging.EventGroupCreated: domain.EventGroupCreated,
	messaging.EventGroupDeleted: domain.EventGroupDeleted,
}

// chatConsumer drains the chat events queue into the audit log collection.
type chatConsumer struct {
	rabbitmq  *messaging.RabbitMQ
	auditRepo domain.ChatAuditRepository
	logger    logging.Logger
}

func NewChatConsumer(rabbitmq *messaging.RabbitMQ, auditRepo domain.ChatAuditRepository, logger logging.Logger) *chatConsumer {
	return &chatConsumer{
		rabbitmq:  rabbitmq,
		auditRepo: auditRepo,
		logger:    logger,
	}
}

func (c *chatConsumer) Listen() error {
	return c.rabbitmq.ConsumeMessages(messaging.ChatEventsQueue, func(ctx context.Context, msg amqp091.Delivery) error {
		var event messaging.ChatEvent
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			c.logger.Error(logging.RabbitMQ, logging.Consume, "failed to unmarshal chat event", map[logging.ExtraKey]any{
				logging.ErrorMessage: err.Error(),
			})
			return err
		}

		eventType, ok := routingKeyToEventType[msg.RoutingKey]
		if !ok {
			c.logger.Warn(logging.RabbitMQ, logging.Consume, "unknown routing key, dropping", map[logging.ExtraKey]any{
				"routingKey": msg.RoutingKey,
			})
			return nil
		}

		var metadata map[string]any
		_ = json.Unmarshal(event.Data, &metadata)

		entry := domain.NewChatAuditLog(eventType, event.ActorID, event.RoomKey, metadata)
		if err := c.auditRepo.Log(ctx, entry); err != nil {
			c.logger.Error(logging.RabbitMQ, logging.Consume, "failed to write audit log", map[logging.ExtraKey]any{
				logging.ErrorMessage: err.Error(),
			})
			return err
		}

		return nil
	})
}
