package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/autotrackhq/autotrack/internal/models"
)

// MongoTaskCollection implements TaskCollection for MongoDB.
type MongoTaskCollection struct {
	Collection *mongo.Collection
}

// InsertTask inserts a maintenance task record into the collection.
func (c *MongoTaskCollection) InsertTask(ctx context.Context, task models.MaintenanceTask) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	_, err := c.Collection.InsertOne(ctx, task)
	return err
}

// FindTasksByUser returns a user's tasks, optionally filtered by car.
func (c *MongoTaskCollection) FindTasksByUser(ctx context.Context, userID, carID string) ([]models.MaintenanceTask, error) {
	filter := bson.M{"user_id": userID}
	if carID != "" {
		filter["car_id"] = carID
	}

	cursor, err := c.Collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var tasks []models.MaintenanceTask
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindTaskByID finds a task by its ID, scoped to the owning user.
func (c *MongoTaskCollection) FindTaskByID(ctx context.Context, id, userID string) (*models.MaintenanceTask, error) {
	var task models.MaintenanceTask
	err := c.Collection.FindOne(ctx, bson.M{"id": id, "user_id": userID}).Decode(&task)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

// UpdateTask replaces a task's persisted fields. Derived fields carry no
// bson tags and are never written.
func (c *MongoTaskCollection) UpdateTask(ctx context.Context, id, userID string, task models.MaintenanceTask) error {
	update := bson.M{"$set": bson.M{
		"task_type":              task.TaskType,
		"description":            task.Description,
		"last_performed_date":    task.LastPerformedDate,
		"last_performed_mileage": task.LastPerformedMileage,
		"interval_miles":         task.IntervalMiles,
		"interval_months":        task.IntervalMonths,
		"cost":                   task.Cost,
		"notes":                  task.Notes,
		"replacement_requested":  task.ReplacementRequested,
		"replacement_reason":     task.ReplacementReason,
	}}

	result, err := c.Collection.UpdateOne(ctx, bson.M{"id": id, "user_id": userID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTask deletes a task by its ID, scoped to the owning user.
func (c *MongoTaskCollection) DeleteTask(ctx context.Context, id, userID string) error {
	result, err := c.Collection.DeleteOne(ctx, bson.M{"id": id, "user_id": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTasksByCar deletes all tasks belonging to a car.
func (c *MongoTaskCollection) DeleteTasksByCar(ctx context.Context, carID string) error {
	_, err := c.Collection.DeleteMany(ctx, bson.M{"car_id": carID})
	return err
}
