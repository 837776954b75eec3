package mongodb

import (
	"context"
	"fmt"
	"time"

	"reelchat-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const notificationCollection = "notifications"

type NotificationRepository struct {
	coll *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{
		coll: db.Collection(notificationCollection),
	}
}

func (r *NotificationRepository) Save(ctx context.Context, n *models.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	if _, err := r.coll.InsertOne(ctx, n); err != nil {
		return fmt.Errorf("failed to persist notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) FindByReceiver(ctx context.Context, receiverID string, limit int64) ([]models.Notification, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, bson.M{"receiver_id": receiverID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return notifications, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, receiverID string) error {
	_, err := r.coll.UpdateMany(ctx,
		bson.M{"receiver_id": receiverID, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	return err
}
