package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/autotrackhq/autotrack/internal/models"
)

// MongoCarCollection implements CarCollection for MongoDB.
type MongoCarCollection struct {
	Collection *mongo.Collection
}

// InsertCar inserts a car record into the collection.
func (c *MongoCarCollection) InsertCar(ctx context.Context, car models.Car) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	if car.CreatedAt.IsZero() {
		car.CreatedAt = time.Now()
	}
	_, err := c.Collection.InsertOne(ctx, car)
	return err
}

// FindCarsByUser returns all cars owned by a user.
func (c *MongoCarCollection) FindCarsByUser(ctx context.Context, userID string) ([]models.Car, error) {
	cursor, err := c.Collection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	var cars []models.Car
	if err := cursor.All(ctx, &cars); err != nil {
		return nil, err
	}
	return cars, nil
}

// FindCarByID finds a car by its ID, scoped to the owning user.
func (c *MongoCarCollection) FindCarByID(ctx context.Context, id, userID string) (*models.Car, error) {
	var car models.Car
	err := c.Collection.FindOne(ctx, bson.M{"id": id, "user_id": userID}).Decode(&car)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &car, nil
}

// UpdateCar replaces a car's mutable fields.
func (c *MongoCarCollection) UpdateCar(ctx context.Context, id, userID string, car models.Car) error {
	update := bson.M{"$set": bson.M{
		"make":            car.Make,
		"model":           car.Model,
		"year":            car.Year,
		"color":           car.Color,
		"license_plate":   car.LicensePlate,
		"vin":             car.VIN,
		"current_mileage": car.CurrentMileage,
		"image_url":       car.ImageURL,
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

// RaiseCarMileage bumps a car's current mileage, but only when the new
// reading is higher. Lower readings leave the high-water mark untouched.
func (c *MongoCarCollection) RaiseCarMileage(ctx context.Context, id string, mileage int) error {
	_, err := c.Collection.UpdateOne(
		ctx,
		bson.M{"id": id, "current_mileage": bson.M{"$lt": mileage}},
		bson.M{"$set": bson.M{"current_mileage": mileage}},
	)
	return err
}

// DeleteCar deletes a car by its ID, scoped to the owning user.
func (c *MongoCarCollection) DeleteCar(ctx context.Context, id, userID string) error {
	result, err := c.Collection.DeleteOne(ctx, bson.M{"id": id, "user_id": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
