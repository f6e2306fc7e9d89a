package logging

type Category string
type SubCategory string
type ExtraKey string

const (
	General         Category = "General"
	Internal        Category = "Internal"
	WebSocket       Category = "WebSocket"
	Mongo           Category = "Mongo"
	RabbitMQ        Category = "RabbitMQ"
	Validation      Category = "Validation"
	RequestResponse Category = "RequestResponse"
	Auth            Category = "Auth"
)

const (
	// General
	Startup         SubCategory = "Startup"
	Shutdown        SubCategory = "Shutdown"
	RateLimiting    SubCategory = "RateLimiting"
	ExternalService SubCategory = "ExternalService"

	// WebSocket
	Connection SubCategory = "Connection"
	Broadcast  SubCategory = "Broadcast"
	Membership SubCategory = "Membership"

	// Mongo / RabbitMQ
	Persistence SubCategory = "Persistence"
	Publish     SubCategory = "Publish"
	Consume     SubCategory = "Consume"
)

const (
	AppName      ExtraKey = "AppName"
	LoggerName   ExtraKey = "Logger"
	ClientIp     ExtraKey = "ClientIp"
	Method       ExtraKey = "Method"
	StatusCode   ExtraKey = "StatusCode"
	Path         ExtraKey = "Path"
	Latency      ExtraKey = "Latency"
	ErrorMessage ExtraKey = "ErrorMessage"
	ConnectionID ExtraKey = "ConnectionID"
	UserID       ExtraKey = "UserID"
	RoomKey      ExtraKey = "RoomKey"
)
