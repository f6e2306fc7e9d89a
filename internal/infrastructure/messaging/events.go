package messaging

const (
	ChatEventsQueue = "chat_events"
	DeadLetterQueue = "dead_letter_queue"
)

// Routing keys - using consistent event patterns
const (
	EventMessageSent  = "message.sent"
	EventUserStatus   = "user.status"
	EventUserDeleted  = "user.deleted"
	EventGroupCreated = "group.created"
	EventGroupDeleted = "group.deleted"
)

// ChatEvent is the envelope published to the chat exchange.
type ChatEvent struct {
	ActorID string `json:"actorId"`
	RoomKey string `json:"roomKey,omitempty"`
	Data    []byte `json:"data"`
}
