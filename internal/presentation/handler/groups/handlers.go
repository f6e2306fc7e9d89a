package groups

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmelnic/teamchat/internal/domain"
	"github.com/dmelnic/teamchat/internal/infrastructure/events"
	"github.com/dmelnic/teamchat/internal/infrastructure/json"
	"github.com/dmelnic/teamchat/internal/infrastructure/logging"
	"github.com/dmelnic/teamchat/internal/presentation/utils"
)

type Handler struct {
	groupRepository domain.GroupRepository
	userRepository  domain.UserRepository
	publisher       events.Publisher
	logger          logging.Logger
}

func NewHandler(
	groupRepository domain.GroupRepository,
	userRepository domain.UserRepository,
	publisher events.Publisher,
	logger logging.Logger,
) *Handler {
	return &Handler{
		groupRepository: groupRepository,
		userRepository:  userRepository,
		publisher:       publisher,
		logger:          logger,
	}
}

// ListGroupsHandler godoc
// @Summary      List groups
// @Description  Returns every group the directory knows about.
// @Tags         groups
// @Produce      json
// @Success      200 {array} groupResponse "All groups"
// @Security     SessionAuth
// @Router       /groups [get]
func (h *Handler) ListGroupsHandler(w http.ResponseWriter, r *http.Request) {
	all, err := h.groupRepository.GetAll(r.Context())
	if err != nil {
		json.WriteInternalError(w, err)
		return
	}

	resp := make([]groupResponse, 0, len(all))
	for i := range all {
		resp = append(resp, toGroupResponse(&all[i]))
	}

	json.Write(w, http.StatusOK, resp)
}

// GetGroupHandler godoc
// @Summary      Get a group
// @Tags         groups
// @Produce      json
// @Param        groupId path string true "Group ID"
// @Success      200 {object} groupResponse "The group"
// @Failure      404 {object} map[string]interface{} "Group not found"
// @Security     SessionAuth
// @Router       /groups/{groupId} [get]
func (h *Handler) GetGroupHandler(w http.ResponseWriter, r *http.Request) {
	group, ok := h.findGroup(w, r)
	if !ok {
		return
	}

	json.Write(w, http.StatusOK, toGroupResponse(group))
}

// CreateGroupHandler godoc
// @Summary      Create a group
// @Description  Creates a group chat. Admin only. The creator is always a member.
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        request body createGroupRequest true "Group name and initial members"
// @Success      201 {object} groupResponse "Group created"
// @Failure      400 {object} map[string]interface{} "Validation error"
// @Failure      403 {object} map[string]interface{} "Caller is not an admin"
// @Security     SessionAuth
// @Router       /groups [post]
func (h *Handler) CreateGroupHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}

	var req createGroupRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	group, err := domain.NewGroup(req.Name, req.MemberIDs, claims.Subject)
	if err != nil {
		json.WriteValidationError(w, err)
		return
	}

	if !group.HasMember(claims.Subject) {
		group.AddMember(claims.Subject)
	}

	if err := h.groupRepository.Create(r.Context(), group); err != nil {
		json.WriteInternalError(w, err)
		return
	}

	if err := h.publisher.PublishGroupCreated(r.Context(), *group); err != nil {
		h.logger.Warn(logging.RabbitMQ, logging.Publish, "group created event publish failed", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
	}

	json.Write(w, http.StatusCreated, toGroupResponse(group))
}

// AddMemberHandler godoc
// @Summary      Add a member to a group
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        groupId path string true "Group ID"
// @Param        request body memberRequest true "User to add"
// @Success      200 {object} groupResponse "Updated group"
// @Failure      403 {object} map[string]interface{} "Caller is not an admin"
// @Failure      404 {object} map[string]interface{} "Group or user not found"
// @Security     SessionAuth
// @Router       /groups/{groupId}/members [post]
func (h *Handler) AddMemberHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r); !ok {
		return
	}

	group, ok := h.findGroup(w, r)
	if !ok {
		return
	}

	var req memberRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	if _, err := h.userRepository.GetByID(r.Context(), req.UserID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			json.WriteError(w, http.StatusNotFound, err, "User not found")
			return
		}
		json.WriteInternalError(w, err)
		return
	}

	group.AddMember(req.UserID)

	if err := h.groupRepository.Update(r.Context(), group); err != nil {
		json.WriteInternalError(w, err)
		return
	}

	json.Write(w, http.StatusOK, toGroupResponse(group))
}

// RemoveMemberHandler godoc
// @Summary      Remove a member from a group
// @Tags         groups
// @Produce      json
// @Param        groupId path string true "Group ID"
// @Param        userId path string true "User ID"
// @Success      200 {object} groupResponse "Updated group"
// @Failure      403 {object} map[string]interface{} "Caller is not an admin"
// @Failure      404 {object} map[string]interface{} "Group not found"
// @Security     SessionAuth
// @Router       /groups/{groupId}/members/{userId} [delete]
func (h *Handler) RemoveMemberHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r); !ok {
		return
	}

	group, ok := h.findGroup(w, r)
	if !ok {
		return
	}

	group.RemoveMember(chi.URLParam(r, "userId"))

	if err := h.groupRepository.Update(r.Context(), group); err != nil {
		json.WriteInternalError(w, err)
		return
	}

	json.Write(w, http.StatusOK, toGroupResponse(group))
}

// DeleteGroupHandler godoc
// @Summary      Delete a group
// @Description  Removes a group. Admin only. Message history for the group's room is kept.
// @Tags         groups
// @Produce      json
// @Param        groupId path string true "Group ID"
// @Success      204 "Group deleted"
// @Failure      403 {object} map[string]interface{} "Caller is not an admin"
// @Failure      404 {object} map[string]interface{} "Group not found"
// @Security     SessionAuth
// @Router       /groups/{groupId} [delete]
func (h *Handler) DeleteGroupHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r); !ok {
		return
	}

	group, ok := h.findGroup(w, r)
	if !ok {
		return
	}

	if err := h.groupRepository.Delete(r.Context(), group.ID); err != nil {
		if errors.Is(err, domain.ErrGroupNotFound) {
			json.WriteError(w, http.StatusNotFound, err, "Group not found")
			return
		}
		json.WriteInternalError(w, err)
		return
	}

	if err := h.publisher.PublishGroupDeleted(r.Context(), *group); err != nil {
		h.logger.Warn(logging.RabbitMQ, logging.Publish, "group deleted event publish failed", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) requireAdmin(w http.ResponseWriter, r *http.Request) (*utils.SessionClaims, bool) {
	claims, ok := utils.ClaimsFromContext(r.Context())
	if !ok || claims.Role != domain.RoleAdmin {
		json.WriteError(w, http.StatusForbidden, errors.New("forbidden"), "Only admins can manage groups")
		return nil, false
	}
	return claims, true
}

func (h *Handler) findGroup(w http.ResponseWriter, r *http.Request) (*domain.Group, bool) {
	groupID := chi.URLParam(r, "groupId")
	if groupID == "" {
		json.WriteBadRequestError(w, "Group ID is missing")
		return nil, false
	}

	group, err := h.groupRepository.GetByID(r.Context(), groupID)
	if err != nil {
		if errors.Is(err, domain.ErrGroupNotFound) {
			json.WriteError(w, http.StatusNotFound, err, "Group not found")
			return nil, false
		}
		json.WriteInternalError(w, err)
		return nil, false
	}

	return group, true
}
