package handlers

import (
	"context"
	"net/http"

	"github.com/stretchr/testify/mock"

	"github.com/autotrackhq/autotrack/internal/middleware"
	"github.com/autotrackhq/autotrack/internal/models"
)

// MockUserCollection is a mock implementation of db.UserCollection
type MockUserCollection struct {
	mock.Mock
}

func (m *MockUserCollection) InsertUser(ctx context.Context, user models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserCollection) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) FindUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserCollection) UpdateSettings(ctx context.Context, id string, settings models.UserSettings) error {
	args := m.Called(ctx, id, settings)
	return args.Error(0)
}

// MockCarCollection is a mock implementation of db.CarCollection
type MockCarCollection struct {
	mock.Mock
}

func (m *MockCarCollection) InsertCar(ctx context.Context, car models.Car) error {
	args := m.Called(ctx, car)
	return args.Error(0)
}

func (m *MockCarCollection) FindCarsByUser(ctx context.Context, userID string) ([]models.Car, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Car), args.Error(1)
}

func (m *MockCarCollection) FindCarByID(ctx context.Context, id, userID string) (*models.Car, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Car), args.Error(1)
}

func (m *MockCarCollection) UpdateCar(ctx context.Context, id, userID string, car models.Car) error {
	args := m.Called(ctx, id, userID, car)
	return args.Error(0)
}

func (m *MockCarCollection) RaiseCarMileage(ctx context.Context, id string, mileage int) error {
	args := m.Called(ctx, id, mileage)
	return args.Error(0)
}

func (m *MockCarCollection) DeleteCar(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockTaskCollection is a mock implementation of db.TaskCollection
type MockTaskCollection struct {
	mock.Mock
}

func (m *MockTaskCollection) InsertTask(ctx context.Context, task models.MaintenanceTask) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskCollection) FindTasksByUser(ctx context.Context, userID, carID string) ([]models.MaintenanceTask, error) {
	args := m.Called(ctx, userID, carID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MaintenanceTask), args.Error(1)
}

func (m *MockTaskCollection) FindTaskByID(ctx context.Context, id, userID string) (*models.MaintenanceTask, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MaintenanceTask), args.Error(1)
}

func (m *MockTaskCollection) UpdateTask(ctx context.Context, id, userID string, task models.MaintenanceTask) error {
	args := m.Called(ctx, id, userID, task)
	return args.Error(0)
}

func (m *MockTaskCollection) DeleteTask(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockTaskCollection) DeleteTasksByCar(ctx context.Context, carID string) error {
	args := m.Called(ctx, carID)
	return args.Error(0)
}

// MockMileageLogCollection is a mock implementation of db.MileageLogCollection
type MockMileageLogCollection struct {
	mock.Mock
}

func (m *MockMileageLogCollection) InsertLog(ctx context.Context, log models.MileageLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockMileageLogCollection) FindLogsByCar(ctx context.Context, carID, userID string) ([]models.MileageLog, error) {
	args := m.Called(ctx, carID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MileageLog), args.Error(1)
}

func (m *MockMileageLogCollection) DeleteLogsByCar(ctx context.Context, carID string) error {
	args := m.Called(ctx, carID)
	return args.Error(0)
}

// MockNotificationCollection is a mock implementation of db.NotificationCollection
type MockNotificationCollection struct {
	mock.Mock
}

func (m *MockNotificationCollection) InsertNotification(ctx context.Context, notification models.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationCollection) FindNotificationsByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationCollection) MarkNotificationRead(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockNotificationCollection) DeleteNotification(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// authedRequest builds a request carrying the given user's claims, the way
// the auth middleware would.
func authedRequest(r *http.Request, userID string) *http.Request {
	claims := &models.Claims{UserID: userID, Email: userID + "@example.com"}
	ctx := context.WithValue(r.Context(), middleware.UserContextKey, claims)
	return r.WithContext(ctx)
}
