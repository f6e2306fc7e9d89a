package auth

import (
	"time"

	"github.com/dmelnic/teamchat/internal/domain"
)

// loginRequest represents the login credentials
type loginRequest struct {
	Email    string `json:"email" example:"alice@team.com"` // Account email
	Password string `json:"password" example:"hunter2hunter2"`
}

// loginResponse carries the session token alongside the user profile
type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// registerRequest represents an admin creating a new account
type registerRequest struct {
	Name     string `json:"name" example:"Alice" minLength:"2" maxLength:"64"`
	Email    string `json:"email" example:"alice@team.com"`
	Password string `json:"password" minLength:"8"`
	Role     string `json:"role" example:"member" enum:"admin,member"`
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
