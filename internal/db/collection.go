package db

import (
	"context"

	"github.com/autotrackhq/autotrack/internal/models"
)

// UserCollection defines the interface for user database operations
type UserCollection interface {
	InsertUser(ctx context.Context, user models.User) error
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUsers(ctx context.Context) ([]models.User, error)
	UpdateSettings(ctx context.Context, id string, settings models.UserSettings) error
}

// CarCollection defines the interface for car database operations.
// Every lookup is scoped to the owning user.
type CarCollection interface {
	InsertCar(ctx context.Context, car models.Car) error
	FindCarsByUser(ctx context.Context, userID string) ([]models.Car, error)
	FindCarByID(ctx context.Context, id, userID string) (*models.Car, error)
	UpdateCar(ctx context.Context, id, userID string, car models.Car) error
	RaiseCarMileage(ctx context.Context, id string, mileage int) error
	DeleteCar(ctx context.Context, id, userID string) error
}

// TaskCollection defines the interface for maintenance task operations.
type TaskCollection interface {
	InsertTask(ctx context.Context, task models.MaintenanceTask) error
	FindTasksByUser(ctx context.Context, userID, carID string) ([]models.MaintenanceTask, error)
	FindTaskByID(ctx context.Context, id, userID string) (*models.MaintenanceTask, error)
	UpdateTask(ctx context.Context, id, userID string, task models.MaintenanceTask) error
	DeleteTask(ctx context.Context, id, userID string) error
	DeleteTasksByCar(ctx context.Context, carID string) error
}

// MileageLogCollection defines the interface for mileage log operations.
type MileageLogCollection interface {
	InsertLog(ctx context.Context, log models.MileageLog) error
	FindLogsByCar(ctx context.Context, carID, userID string) ([]models.MileageLog, error)
	DeleteLogsByCar(ctx context.Context, carID string) error
}

// NotificationCollection defines the interface for notification operations.
type NotificationCollection interface {
	InsertNotification(ctx context.Context, notification models.Notification) error
	FindNotificationsByUser(ctx context.Context, userID string) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id, userID string) error
	DeleteNotification(ctx context.Context, id, userID string) error
}
