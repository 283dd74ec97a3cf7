package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/autotrackhq/autotrack/internal/models"
)

// MongoMileageLogCollection implements MileageLogCollection for MongoDB.
type MongoMileageLogCollection struct {
	Collection *mongo.Collection
}

// InsertLog inserts a mileage log entry into the collection.
func (c *MongoMileageLogCollection) InsertLog(ctx context.Context, log models.MileageLog) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	_, err := c.Collection.InsertOne(ctx, log)
	return err
}

// FindLogsByCar returns a car's mileage history, newest first.
func (c *MongoMileageLogCollection) FindLogsByCar(ctx context.Context, carID, userID string) ([]models.MileageLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := c.Collection.Find(ctx, bson.M{"car_id": carID, "user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	var logs []models.MileageLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// DeleteLogsByCar deletes all mileage logs belonging to a car.
func (c *MongoMileageLogCollection) DeleteLogsByCar(ctx context.Context, carID string) error {
	_, err := c.Collection.DeleteMany(ctx, bson.M{"car_id": carID})
	return err
}
