package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"signalidea/pkg/logger"
	"signalidea/pkg/metrics"
	"signalidea/social-service/internal/app/social/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type messageRepository struct {
	collection *mongo.Collection
}

// NewMessageRepository создает репозиторий личных сообщений и индексы под диалоги и входящие
func NewMessageRepository(db *mongo.Database) MessageRepository {
	collection := db.Collection("messages")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sender_id", Value: 1}, {Key: "recipient_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("conversation_idx"),
		},
		{
			Keys:    bson.D{{Key: "recipient_id", Value: 1}, {Key: "read", Value: 1}},
			Options: options.Index().SetName("recipient_unread_idx"),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		// индексы могут уже существовать
		logger.Warn().Err(err).Msg("Failed to create message indexes")
	}

	return &messageRepository{collection: collection}
}

func (r *messageRepository) Create(ctx context.Context, message *entity.Message) error {
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "messages")
	result, err := r.collection.InsertOne(ctx, message)
	timer.Done(err)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		message.ID = oid
	}

	return nil
}

func (r *messageRepository) GetByID(ctx context.Context, id string) (*entity.Message, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var message entity.Message
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&message)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}

	return &message, nil
}

// ListConversation - переписка двух пользователей в обе стороны, новые первыми
func (r *messageRepository) ListConversation(ctx context.Context, userID, otherID string, limit int64) ([]entity.Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"sender_id": userID, "recipient_id": otherID},
		bson.M{"sender_id": otherID, "recipient_id": userID},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "messages")
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		timer.Done(err)
		return nil, fmt.Errorf("failed to find messages: %w", err)
	}
	defer cursor.Close(ctx)

	messages := make([]entity.Message, 0)
	err = cursor.All(ctx, &messages)
	timer.Done(err)
	if err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}

	return messages, nil
}

// ListInbox группирует сообщения по собеседнику: последнее сообщение и число непрочитанных
func (r *messageRepository) ListInbox(ctx context.Context, userID string) ([]InboxRow, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"$or": bson.A{
			bson.M{"sender_id": userID},
			bson.M{"recipient_id": userID},
		}}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$sender_id", userID}},
				"$recipient_id",
				"$sender_id",
			}},
			"last_message": bson.M{"$first": "$$ROOT"},
			"unread_count": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$and": bson.A{
					bson.M{"$eq": bson.A{"$recipient_id", userID}},
					bson.M{"$eq": bson.A{"$read", false}},
				}},
				1,
				0,
			}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "last_message.created_at", Value: -1}}}},
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "messages")
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		timer.Done(err)
		return nil, fmt.Errorf("failed to aggregate inbox: %w", err)
	}
	defer cursor.Close(ctx)

	rows := make([]InboxRow, 0)
	err = cursor.All(ctx, &rows)
	timer.Done(err)
	if err != nil {
		return nil, fmt.Errorf("failed to decode inbox: %w", err)
	}

	return rows, nil
}

func (r *messageRepository) MarkRead(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "messages")
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": bson.M{"read": true}})
	timer.Done(err)
	if err != nil {
		return fmt.Errorf("failed to mark message read: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *messageRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"recipient_id": recipientID, "read": false})
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return count, nil
}
