package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/autotrackhq/autotrack/internal/models"
)

// MongoNotificationCollection implements NotificationCollection for MongoDB.
type MongoNotificationCollection struct {
	Collection *mongo.Collection
}

// InsertNotification inserts a notification into the collection.
func (c *MongoNotificationCollection) InsertNotification(ctx context.Context, notification models.Notification) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}
	_, err := c.Collection.InsertOne(ctx, notification)
	return err
}

// FindNotificationsByUser returns a user's notifications, newest first.
func (c *MongoNotificationCollection) FindNotificationsByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(50)
	cursor, err := c.Collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkNotificationRead flags a notification as read.
func (c *MongoNotificationCollection) MarkNotificationRead(ctx context.Context, id, userID string) error {
	result, err := c.Collection.UpdateOne(
		ctx,
		bson.M{"id": id, "user_id": userID},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteNotification deletes a notification by its ID.
func (c *MongoNotificationCollection) DeleteNotification(ctx context.Context, id, userID string) error {
	result, err := c.Collection.DeleteOne(ctx, bson.M{"id": id, "user_id": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
