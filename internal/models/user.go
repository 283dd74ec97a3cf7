package models

import (
	"time"
)

// DistanceUnit is the unit a user wants distances displayed in. Distances are
// always stored in miles; any other unit is a display-time conversion.
type DistanceUnit string

const (
	UnitMiles      DistanceUnit = "miles"
	UnitKilometers DistanceUnit = "kilometers"
)

// IsValidDistanceUnit checks if a distance unit is valid
func IsValidDistanceUnit(unit DistanceUnit) bool {
	switch unit {
	case UnitMiles, UnitKilometers:
		return true
	default:
		return false
	}
}

// UserSettings holds per-user preferences.
type UserSettings struct {
	EmailReminders     bool         `bson:"email_reminders" json:"email_reminders"`
	PushNotifications  bool         `bson:"push_notifications" json:"push_notifications"`
	ReminderDaysBefore int          `bson:"reminder_days_before" json:"reminder_days_before"`
	Theme              string       `bson:"theme" json:"theme"` // "light" or "dark"
	DistanceUnit       DistanceUnit `bson:"distance_unit" json:"distance_unit"`
	Language           string       `bson:"language" json:"language"` // locale code, e.g. "en"
}

// DefaultSettings returns the settings assigned to a newly registered user.
func DefaultSettings() UserSettings {
	return UserSettings{
		EmailReminders:     true,
		PushNotifications:  true,
		ReminderDaysBefore: 7,
		Theme:              "light",
		DistanceUnit:       UnitMiles,
		Language:           "en",
	}
}

// User represents a registered account.
type User struct {
	ID           string       `bson:"id" json:"id"`
	Email        string       `bson:"email" json:"email"`
	Name         string       `bson:"name" json:"name"`
	PasswordHash string       `bson:"password_hash" json:"-"`
	Settings     UserSettings `bson:"settings" json:"settings"`
	CreatedAt    time.Time    `bson:"created_at" json:"created_at"`
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse represents a successful login or registration response
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

// Claims represents JWT claims
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Exp    int64  `json:"exp"`
}
