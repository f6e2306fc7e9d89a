package users

import (
	"time"

	"github.com/dmelnic/teamchat/internal/domain"
)

// updateStatusRequest represents a status change
type updateStatusRequest struct {
	Status string `json:"status" example:"away" enum:"online,away,offline"`
}

// userResponse is the public view of a user, password hash excluded
type userResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

func toUserResponse(user *domain.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		Status:    user.Status,
		CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339),
	}
}
