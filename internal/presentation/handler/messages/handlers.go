package messages

import (
	"errors"
	"net/http"

	"github.com/dmelnic/teamchat/internal/domain"
	"github.com/dmelnic/teamchat/internal/infrastructure/json"
	"github.com/dmelnic/teamchat/internal/presentation/utils"
)

type Handler struct {
	messageRepository domain.MessageRepository
	groupRepository   domain.GroupRepository
}

func NewHandler(
	messageRepository domain.MessageRepository,
	groupRepository domain.GroupRepository,
) *Handler {
	return &Handler{
		messageRepository: messageRepository,
		groupRepository:   groupRepository,
	}
}

// GetHistoryHandler godoc
// @Summary      Message history
// @Description  Returns the stored messages for one conversation, oldest first. Pass exactly one of receiverId (a direct chat with that user) or groupId. Either direct participant gets the same history; group history requires membership.
// @Tags         messages
// @Produce      json
// @Param        receiverId query string false "Other participant of a direct chat"
// @Param        groupId query string false "Group chat"
// @Success      200 {array} messageResponse "Conversation history"
// @Failure      400 {object} map[string]interface{} "Neither or both of receiverId and groupId given"
// @Failure      403 {object} map[string]interface{} "Caller is not a member of the group"
// @Security     SessionAuth
// @Router       /messages [get]
func (h *Handler) GetHistoryHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := utils.ClaimsFromContext(r.Context())
	if !ok {
		json.WriteUnauthorizedError(w, "Not authenticated")
		return
	}

	receiverID := r.URL.Query().Get("receiverId")
	groupID := r.URL.Query().Get("groupId")

	if groupID != "" {
		group, err := h.groupRepository.GetByID(r.Context(), groupID)
		if err != nil {
			if errors.Is(err, domain.ErrGroupNotFound) {
				json.WriteError(w, http.StatusNotFound, err, "Group not found")
				return
			}
			json.WriteInternalError(w, err)
			return
		}

		if !group.HasMember(claims.Subject) && claims.Role != domain.RoleAdmin {
			json.WriteError(w, http.StatusForbidden, errors.New("forbidden"), "You are not a member of this group")
			return
		}
	}

	roomKey, err := domain.ResolveRoomKey(domain.RoomTarget{
		GroupID: groupID,
		SelfID:  claims.Subject,
		OtherID: receiverID,
	})
	if err != nil {
		json.WriteBadRequestError(w, "Pass exactly one of receiverId or groupId")
		return
	}

	history, err := h.messageRepository.GetByRoomKey(r.Context(), roomKey)
	if err != nil {
		json.WriteInternalError(w, err)
		return
	}

	resp := make([]messageResponse, 0, len(history))
	for i := range history {
		resp = append(resp, toMessageResponse(&history[i]))
	}

	json.Write(w, http.StatusOK, resp)
}
