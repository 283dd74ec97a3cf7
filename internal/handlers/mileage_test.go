package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/autotrackhq/autotrack/internal/db"
	"github.com/autotrackhq/autotrack/internal/models"
	"github.com/autotrackhq/autotrack/internal/units"
)

func newMileageFixture() (*MockMileageLogCollection, *MockCarCollection, *MockUserCollection, *MileageHandler) {
	logs := new(MockMileageLogCollection)
	cars := new(MockCarCollection)
	users := new(MockUserCollection)
	return logs, cars, users, NewMileageHandler(logs, cars, users, units.NewConverter())
}

func TestMileageCreate(t *testing.T) {
	t.Run("records log and raises car mileage", func(t *testing.T) {
		logs, cars, _, handler := newMileageFixture()

		car := &models.Car{ID: "car-1", UserID: "user-1", CurrentMileage: 54000}
		cars.On("FindCarByID", mock.Anything, "car-1", "user-1").Return(car, nil)
		logs.On("InsertLog", mock.Anything, mock.AnythingOfType("models.MileageLog")).Return(nil)
		cars.On("RaiseCarMileage", mock.Anything, "car-1", 54200).Return(nil)

		body, _ := json.Marshal(map[string]any{"car_id": "car-1", "mileage": 54200})
		req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/mileage", bytes.NewReader(body)), "user-1")
		rec := httptest.NewRecorder()

		handler.Create(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var got models.MileageLog
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.NotEmpty(t, got.ID)
		assert.Equal(t, 54200, got.Mileage)
		cars.AssertExpectations(t)
		logs.AssertExpectations(t)
	})

	t.Run("accepts a reading below the car's current mileage", func(t *testing.T) {
		logs, cars, _, handler := newMileageFixture()

		car := &models.Car{ID: "car-1", UserID: "user-1", CurrentMileage: 54000}
		cars.On("FindCarByID", mock.Anything, "car-1", "user-1").Return(car, nil)
		logs.On("InsertLog", mock.Anything, mock.AnythingOfType("models.MileageLog")).Return(nil)
		cars.On("RaiseCarMileage", mock.Anything, "car-1", 53000).Return(nil)

		body, _ := json.Marshal(map[string]any{"car_id": "car-1", "mileage": 53000})
		req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/mileage", bytes.NewReader(body)), "user-1")
		rec := httptest.NewRecorder()

		handler.Create(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("rejects negative mileage", func(t *testing.T) {
		_, _, _, handler := newMileageFixture()

		body, _ := json.Marshal(map[string]any{"car_id": "car-1", "mileage": -10})
		req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/mileage", bytes.NewReader(body)), "user-1")
		rec := httptest.NewRecorder()

		handler.Create(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects log for unknown car", func(t *testing.T) {
		_, cars, _, handler := newMileageFixture()
		cars.On("FindCarByID", mock.Anything, "car-9", "user-1").Return(nil, db.ErrNotFound)

		body, _ := json.Marshal(map[string]any{"car_id": "car-9", "mileage": 1000})
		req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/mileage", bytes.NewReader(body)), "user-1")
		rec := httptest.NewRecorder()

		handler.Create(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestMileageList(t *testing.T) {
	t.Run("formats labels in the user's unit", func(t *testing.T) {
		logs, _, users, handler := newMileageFixture()

		stored := []models.MileageLog{
			{ID: "log-1", CarID: "car-1", UserID: "user-1", Mileage: 54200, Date: time.Now().UTC()},
			{ID: "log-2", CarID: "car-1", UserID: "user-1", Mileage: 54000, Date: time.Now().UTC().AddDate(0, 0, -7)},
		}
		metric := milesUser("user-1")
		metric.Settings.DistanceUnit = models.UnitKilometers

		logs.On("FindLogsByCar", mock.Anything, "car-1", "user-1").Return(stored, nil)
		users.On("FindUserByID", mock.Anything, "user-1").Return(metric, nil)

		req := authedRequest(httptest.NewRequest(http.MethodGet, "/api/mileage/car-1", nil), "user-1")
		req.SetPathValue("car_id", "car-1")
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var got []models.MileageLog
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 2)
		// 54200 mi rounds to 87226 km.
		assert.Equal(t, "87,226 km", got[0].MileageLabel)
	})

	t.Run("falls back to miles when profile lookup fails", func(t *testing.T) {
		logs, _, users, handler := newMileageFixture()

		stored := []models.MileageLog{{ID: "log-1", CarID: "car-1", UserID: "user-1", Mileage: 54200, Date: time.Now().UTC()}}
		logs.On("FindLogsByCar", mock.Anything, "car-1", "user-1").Return(stored, nil)
		users.On("FindUserByID", mock.Anything, "user-1").Return(nil, db.ErrNotFound)

		req := authedRequest(httptest.NewRequest(http.MethodGet, "/api/mileage/car-1", nil), "user-1")
		req.SetPathValue("car_id", "car-1")
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var got []models.MileageLog
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "54,200 mi", got[0].MileageLabel)
	})
}
