package domain

import (
	"context"
	"errors"
	"time"

	"github.com/dmelnic/teamchat/internal/infrastructure/validate"
	"github.com/google/uuid"
)

var (
	ErrGroupNotFound      = errors.New("group not found")
	ErrGroupAlreadyExists = errors.New("group already exists")
)

type Group struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	MemberIDs []string  `bson:"member_ids" json:"memberIds"`
	CreatedBy string    `bson:"created_by" json:"createdBy"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

type GroupRepository interface {
	Create(ctx context.Context, group *Group) error
	GetByID(ctx context.Context, id string) (*Group, error)
	GetAll(ctx context.Context) ([]Group, error)
	Update(ctx context.Context, group *Group) error
	Delete(ctx context.Context, id string) error
}

func NewGroup(rawName string, memberIDs []string, createdBy string) (*Group, error) {
	validateName := validate.Field("name", validate.Required(), validate.LengthBetween(2, 64))
	if err := validateName(rawName); err != nil {
		return nil, err
	}

	if memberIDs == nil {
		memberIDs = make([]string, 0)
	}

	return &Group{
		ID:        uuid.NewString(),
		Name:      rawName,
		MemberIDs: memberIDs,
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (g *Group) HasMember(userID string) bool {
	for _, id := range g.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func (g *Group) AddMember(userID string) {
	if g.HasMember(userID) {
		return
	}
	g.MemberIDs = append(g.MemberIDs, userID)
}

func (g *Group) RemoveMember(userID string) {
	for i, id := range g.MemberIDs {
		if id == userID {
			g.MemberIDs = append(g.MemberIDs[:i], g.MemberIDs[i+1:]...)
			return
		}
	}
}
