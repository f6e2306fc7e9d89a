package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dmelnic/teamchat/internal/domain"
	"github.com/dmelnic/teamchat/internal/persistence/db"
)

type groupRepository struct {
	db *mongo.Database
}

func NewGroupRepository(db *mongo.Database) domain.GroupRepository {
	return &groupRepository{
		db: db,
	}
}

func (r *groupRepository) Create(ctx context.Context, group *domain.Group) error {
	collection := r.db.Collection(db.GroupsCollection)

	_, err := collection.InsertOne(ctx, group)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrGroupAlreadyExists
	}
	return err
}

func (r *groupRepository) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	collection := r.db.Collection(db.GroupsCollection)

	var group domain.Group
	err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&group)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrGroupNotFound
	}
	if err != nil {
		return nil, err
	}

	return &group, nil
}

func (r *groupRepository) GetAll(ctx context.Context) ([]domain.Group, error) {
	collection := r.db.Collection(db.GroupsCollection)

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	groups := make([]domain.Group, 0)
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, err
	}

	return groups, nil
}

func (r *groupRepository) Update(ctx context.Context, group *domain.Group) error {
	collection := r.db.Collection(db.GroupsCollection)

	update := bson.M{"$set": bson.M{
		"name":       group.Name,
		"member_ids": group.MemberIDs,
	}}

	result, err := collection.UpdateOne(ctx, bson.M{"_id": group.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrGroupNotFound
	}

	return nil
}

func (r *groupRepository) Delete(ctx context.Context, id string) error {
	collection := r.db.Collection(db.GroupsCollection)

	result, err := collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrGroupNotFound
	}

	return nil
}
