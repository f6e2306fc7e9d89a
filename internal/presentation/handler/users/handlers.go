package users

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmelnic/teamchat/internal/domain"
	"github.com/dmelnic/teamchat/internal/infrastructure/events"
	"github.com/dmelnic/teamchat/internal/infrastructure/json"
	"github.com/dmelnic/teamchat/internal/infrastructure/logging"
	"github.com/dmelnic/teamchat/internal/infrastructure/ws"
	"github.com/dmelnic/teamchat/internal/presentation/utils"
)

type Handler struct {
	userRepository domain.UserRepository
	hub            *ws.Hub
	publisher      events.Publisher
	logger         logging.Logger
}

func NewHandler(
	userRepository domain.UserRepository,
	hub *ws.Hub,
	publisher events.Publisher,
	logger logging.Logger,
) *Handler {
	return &Handler{
		userRepository: userRepository,
		hub:            hub,
		publisher:      publisher,
		logger:         logger,
	}
}

// ListUsersHandler godoc
// @Summary      List users
// @Description  Returns every user in the directory with their current status, for building the contact list.
// @Tags         users
// @Produce      json
// @Success      200 {array} userResponse "All users"
// @Security     SessionAuth
// @Router       /users [get]
func (h *Handler) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	all, err := h.userRepository.GetAll(r.Context())
	if err != nil {
		json.WriteInternalError(w, err)
		return
	}

	resp := make([]userResponse, 0, len(all))
	for i := range all {
		resp = append(resp, toUserResponse(&all[i]))
	}

	json.Write(w, http.StatusOK, resp)
}

// UpdateStatusHandler godoc
// @Summary      Update own status
// @Description  Durably updates the caller's status and announces it to every connected client.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body updateStatusRequest true "New status"
// @Success      200 {object} updateStatusRequest "Status updated"
// @Failure      400 {object} map[string]interface{} "Unknown status value"
// @Security     SessionAuth
// @Router       /users/status [put]
func (h *Handler) UpdateStatusHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := utils.ClaimsFromContext(r.Context())
	if !ok {
		json.WriteUnauthorizedError(w, "Not authenticated")
		return
	}

	var req updateStatusRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	if !domain.ValidStatus(req.Status) {
		json.WriteBadRequestError(w, "Status must be one of: online, away, offline")
		return
	}

	if err := h.userRepository.UpdateStatus(r.Context(), claims.Subject, req.Status); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			json.WriteError(w, http.StatusNotFound, err, "User not found")
			return
		}
		json.WriteInternalError(w, err)
		return
	}

	h.hub.Presence(claims.Subject, req.Status)

	if err := h.publisher.PublishStatusChanged(r.Context(), claims.Subject, req.Status); err != nil {
		h.logger.Warn(logging.RabbitMQ, logging.Publish, "status event publish failed", map[logging.ExtraKey]any{
			logging.UserID:       claims.Subject,
			logging.ErrorMessage: err.Error(),
		})
	}

	json.Write(w, http.StatusOK, req)
}

// DeleteUserHandler godoc
// @Summary      Delete a user
// @Description  Removes a user account. Admin only; admins cannot delete themselves.
// @Tags         users
// @Produce      json
// @Param        userId path string true "User ID"
// @Success      204 "User deleted"
// @Failure      403 {object} map[string]interface{} "Caller is not an admin"
// @Failure      404 {object} map[string]interface{} "User not found"
// @Security     SessionAuth
// @Router       /users/{userId} [delete]
func (h *Handler) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := utils.ClaimsFromContext(r.Context())
	if !ok || claims.Role != domain.RoleAdmin {
		json.WriteError(w, http.StatusForbidden, errors.New("forbidden"), "Only admins can delete users")
		return
	}

	userID := chi.URLParam(r, "userId")
	if userID == "" {
		json.WriteBadRequestError(w, "User ID is missing")
		return
	}

	if userID == claims.Subject {
		json.WriteBadRequestError(w, "You cannot delete your own account")
		return
	}

	if err := h.userRepository.Delete(r.Context(), userID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			json.WriteError(w, http.StatusNotFound, err, "User not found")
			return
		}
		json.WriteInternalError(w, err)
		return
	}

	if err := h.publisher.PublishUserDeleted(r.Context(), userID); err != nil {
		h.logger.Warn(logging.RabbitMQ, logging.Publish, "user deleted event publish failed", map[logging.ExtraKey]any{
			logging.UserID:       userID,
			logging.ErrorMessage: err.Error(),
		})
	}

	w.WriteHeader(http.StatusNoContent)
}
