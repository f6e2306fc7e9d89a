package ws

// Inbound event types (client → server).
const (
	JoinRoom     = "join-room"
	LeaveRoom    = "leave-room"
	SendMessage  = "send-message"
	Typing       = "typing"
	StatusUpdate = "status-update"
)

// Outbound event types (server → client).
const (
	ReceiveMessage = "receive-message"
	UserTyping     = "user-typing"
	UserStatus     = "user-status"
	MessageAck     = "message-ack"
	ErrorEvent     = "error"
)
