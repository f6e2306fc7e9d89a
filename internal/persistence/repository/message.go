package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dmelnic/teamchat/internal/domain"
	"github.com/dmelnic/teamchat/internal/persistence/db"
)

type messageRepository struct {
	db *mongo.Database
}

func NewMessageRepository(db *mongo.Database) domain.MessageRepository {
	return &messageRepository{
		db: db,
	}
}

// Persist assigns the message its id and timestamp at write time, so the
// stored record and the broadcast copy are always the same.
func (r *messageRepository) Persist(ctx context.Context, msg *domain.Message) error {
	collection := r.db.Collection(db.MessagesCollection)

	msg.ID = uuid.NewString()
	msg.CreatedAt = time.Now().UTC()

	_, err := collection.InsertOne(ctx, msg)
	return err
}

func (r *messageRepository) GetByRoomKey(ctx context.Context, roomKey string) ([]domain.Message, error) {
	collection := r.db.Collection(db.MessagesCollection)

	filter := bson.M{"room_key": roomKey}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	messages := make([]domain.Message, 0)
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}

	return messages, nil
}
