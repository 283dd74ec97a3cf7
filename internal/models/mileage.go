package models

import (
	"time"
)

// MileageLog represents a single odometer reading for a car. Logs are
// append-only and listed newest first.
type MileageLog struct {
	ID      string    `bson:"id" json:"id"`
	CarID   string    `bson:"car_id" json:"car_id"`
	UserID  string    `bson:"user_id" json:"user_id"`
	Mileage int       `bson:"mileage" json:"mileage"` // in miles
	Date    time.Time `bson:"date" json:"date"`
	Notes   string    `bson:"notes,omitempty" json:"notes,omitempty"`

	// MileageLabel is the reading formatted in the requesting user's
	// preferred unit, filled in at response time.
	MileageLabel string `bson:"-" json:"mileage_label,omitempty"`
}
