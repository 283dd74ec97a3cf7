package models

import (
	"time"
)

// Car represents a vehicle owned by a user. CurrentMileage is a high-water
// mark in miles: mileage logs and task completions only ever raise it.
type Car struct {
	ID             string    `bson:"id" json:"id"`
	UserID         string    `bson:"user_id" json:"user_id"`
	Make           string    `bson:"make" json:"make"`
	Model          string    `bson:"model" json:"model"`
	Year           int       `bson:"year" json:"year"`
	Color          string    `bson:"color,omitempty" json:"color,omitempty"`
	LicensePlate   string    `bson:"license_plate,omitempty" json:"license_plate,omitempty"`
	VIN            string    `bson:"vin,omitempty" json:"vin,omitempty"`
	CurrentMileage int       `bson:"current_mileage" json:"current_mileage"` // in miles
	ImageURL       string    `bson:"image_url,omitempty" json:"image_url,omitempty"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
}
