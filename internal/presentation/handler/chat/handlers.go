package chat

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/dmelnic/teamchat/internal/domain"
	"github.com/dmelnic/teamchat/internal/infrastructure/configs"
	"github.com/dmelnic/teamchat/internal/infrastructure/json"
	"github.com/dmelnic/teamchat/internal/infrastructure/logging"
	"github.com/dmelnic/teamchat/internal/infrastructure/ws"
	"github.com/dmelnic/teamchat/internal/presentation/utils"
)

type Handler struct {
	hub            *ws.Hub
	userRepository domain.UserRepository
	config         configs.Config
	logger         logging.Logger
	upgrader       websocket.Upgrader
}

func NewHandler(
	hub *ws.Hub,
	userRepository domain.UserRepository,
	config configs.Config,
	logger logging.Logger,
) *Handler {
	return &Handler{
		hub:            hub,
		userRepository: userRepository,
		config:         config,
		logger:         logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// the session token is the auth boundary, not the Origin header
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeWS godoc
// @Summary      Open the chat websocket
// @Description  Authenticates the session token, upgrades the connection and pumps chat events until the socket closes. The user is announced online on connect and offline once their last session disconnects.
// @Tags         chat
// @Success      101 "Switching protocols"
// @Failure      401 {object} map[string]interface{} "Missing or invalid session token"
// @Security     SessionAuth
// @Router       /ws [get]
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	token := utils.TokenFromRequest(r)
	if token == "" {
		json.WriteUnauthorizedError(w, "Missing session token")
		return
	}

	claims, err := utils.ParseToken(h.config.Auth.JWTSecret, token)
	if err != nil {
		json.WriteUnauthorizedError(w, "Invalid session token")
		return
	}

	socket, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn(logging.WebSocket, logging.Connection, "websocket upgrade failed", map[logging.ExtraKey]any{
			logging.UserID:       claims.Subject,
			logging.ErrorMessage: err.Error(),
		})
		return
	}

	connID := uuid.NewString()
	conn := h.hub.Register(connID)

	if err := h.hub.BindIdentity(connID, claims.Subject); err != nil {
		socket.Close()
		return
	}

	h.setStatus(r, claims.Subject, domain.StatusOnline)

	client := ws.NewClient(h.hub, conn, socket, h.config.Hub, h.logger)
	client.Run(r.Context())

	h.setStatus(r, claims.Subject, domain.StatusOffline)
}

// setStatus records the durable status and announces it; failures are
// logged, never fatal for the socket.
func (h *Handler) setStatus(r *http.Request, userID, status string) {
	if err := h.userRepository.UpdateStatus(r.Context(), userID, status); err != nil {
		h.logger.Warn(logging.Mongo, logging.Persistence, "status update failed", map[logging.ExtraKey]any{
			logging.UserID:       userID,
			logging.ErrorMessage: err.Error(),
		})
	}

	h.hub.Presence(userID, status)
}
