package groups

import (
	"time"

	"github.com/dmelnic/teamchat/internal/domain"
)

// createGroupRequest represents a new group chat
type createGroupRequest struct {
	Name      string   `json:"name" example:"engineering" minLength:"2" maxLength:"64"`
	MemberIDs []string `json:"memberIds"` // Initial members; the creator is added automatically
}

// memberRequest names a user to add to a group
type memberRequest struct {
	UserID string `json:"userId" example:"550e8400-e29b-41d4-a716-446655440000"`
}

// groupResponse is the public view of a group
type groupResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	MemberIDs []string `json:"memberIds"`
	CreatedBy string   `json:"createdBy"`
	CreatedAt string   `json:"createdAt"`
}

func toGroupResponse(group *domain.Group) groupResponse {
	return groupResponse{
		ID:        group.ID,
		Name:      group.Name,
		MemberIDs: group.MemberIDs,
		CreatedBy: group.CreatedBy,
		CreatedAt: group.CreatedAt.UTC().Format(time.RFC3339),
	}
}
