package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmelnic/teamchat/internal/infrastructure/validate"
	"github.com/google/uuid"
)

const (
	RoleAdmin  = "admin"
	RoleMember = "member"

	StatusOnline  = "online"
	StatusAway    = "away"
	StatusOffline = "offline"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type User struct {
	ID           string    `bson:"_id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	Role         string    `bson:"role" json:"role"`
	Status       string    `bson:"status" json:"status"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetAll(ctx context.Context) ([]User, error)
	UpdateStatus(ctx context.Context, id string, status string) error
	Delete(ctx context.Context, id string) error
	CountByRole(ctx context.Context, role string) (int64, error)
}

func NewUser(rawName, rawEmail, passwordHash, role string) (*User, error) {
	validateName := validate.Field("name", validate.Required(), validate.LengthBetween(2, 64))
	if err := validateName(rawName); err != nil {
		return nil, err
	}

	validateEmail := validate.Field("email", validate.Required(), validate.Email())
	if err := validateEmail(rawEmail); err != nil {
		return nil, err
	}

	if role == "" {
		role = RoleMember
	}
	if role != RoleAdmin && role != RoleMember {
		return nil, errors.New("role must be admin or member")
	}

	return &User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(rawName),
		Email:        strings.ToLower(strings.TrimSpace(rawEmail)),
		PasswordHash: passwordHash,
		Role:         role,
		Status:       StatusOffline,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func ValidStatus(status string) bool {
	switch status {
	case StatusOnline, StatusAway, StatusOffline:
		return true
	}
	return false
}
