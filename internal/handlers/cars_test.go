package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/autotrackhq/autotrack/internal/db"
	"github.com/autotrackhq/autotrack/internal/models"
)

func newCarsFixture() (*MockCarCollection, *MockTaskCollection, *MockMileageLogCollection, *CarsHandler) {
	cars := new(MockCarCollection)
	tasks := new(MockTaskCollection)
	logs := new(MockMileageLogCollection)
	return cars, tasks, logs, NewCarsHandler(cars, tasks, logs)
}

func TestCarsCreate(t *testing.T) {
	t.Run("creates car scoped to the user", func(t *testing.T) {
		cars, _, _, handler := newCarsFixture()
		cars.On("InsertCar", mock.Anything, mock.AnythingOfType("models.Car")).Return(nil)

		body, _ := json.Marshal(map[string]any{
			"make":            "Toyota",
			"model":           "Corolla",
			"year":            2019,
			"current_mileage": 42000,
		})
		req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/cars", bytes.NewReader(body)), "user-1")
		rec := httptest.NewRecorder()

		handler.Collection(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var got models.Car
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.NotEmpty(t, got.ID)
		assert.Equal(t, "user-1", got.UserID)
		assert.Equal(t, 42000, got.CurrentMileage)
		cars.AssertExpectations(t)
	})

	t.Run("requires make and model", func(t *testing.T) {
		cars, _, _, handler := newCarsFixture()

		body, _ := json.Marshal(map[string]any{"make": "Toyota"})
		req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/cars", bytes.NewReader(body)), "user-1")
		rec := httptest.NewRecorder()

		handler.Collection(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		cars.AssertNotCalled(t, "InsertCar", mock.Anything, mock.Anything)
	})

	t.Run("rejects negative mileage", func(t *testing.T) {
		_, _, _, handler := newCarsFixture()

		body, _ := json.Marshal(map[string]any{"make": "Toyota", "model": "Corolla", "current_mileage": -1})
		req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/cars", bytes.NewReader(body)), "user-1")
		rec := httptest.NewRecorder()

		handler.Collection(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("requires authentication context", func(t *testing.T) {
		_, _, _, handler := newCarsFixture()

		req := httptest.NewRequest(http.MethodPost, "/api/cars", bytes.NewReader([]byte("{}")))
		rec := httptest.NewRecorder()

		handler.Collection(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestCarsList(t *testing.T) {
	t.Run("returns empty array when user has no cars", func(t *testing.T) {
		cars, _, _, handler := newCarsFixture()
		cars.On("FindCarsByUser", mock.Anything, "user-1").Return([]models.Car(nil), nil)

		req := authedRequest(httptest.NewRequest(http.MethodGet, "/api/cars", nil), "user-1")
		rec := httptest.NewRecorder()

		handler.Collection(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})
}

func TestCarsItem(t *testing.T) {
	t.Run("get returns the car", func(t *testing.T) {
		cars, _, _, handler := newCarsFixture()
		car := &models.Car{ID: "car-1", UserID: "user-1", Make: "Honda", Model: "Civic", CurrentMileage: 60000}
		cars.On("FindCarByID", mock.Anything, "car-1", "user-1").Return(car, nil)

		req := authedRequest(httptest.NewRequest(http.MethodGet, "/api/cars/car-1", nil), "user-1")
		req.SetPathValue("id", "car-1")
		rec := httptest.NewRecorder()

		handler.Item(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var got models.Car
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "Honda", got.Make)
	})

	t.Run("get returns 404 for another user's car", func(t *testing.T) {
		cars, _, _, handler := newCarsFixture()
		cars.On("FindCarByID", mock.Anything, "car-1", "user-2").Return(nil, db.ErrNotFound)

		req := authedRequest(httptest.NewRequest(http.MethodGet, "/api/cars/car-1", nil), "user-2")
		req.SetPathValue("id", "car-1")
		rec := httptest.NewRecorder()

		handler.Item(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("partial update keeps unset fields", func(t *testing.T) {
		cars, _, _, handler := newCarsFixture()
		car := &models.Car{ID: "car-1", UserID: "user-1", Make: "Honda", Model: "Civic", Color: "blue", CurrentMileage: 60000}
		cars.On("FindCarByID", mock.Anything, "car-1", "user-1").Return(car, nil)
		cars.On("UpdateCar", mock.Anything, "car-1", "user-1", mock.AnythingOfType("models.Car")).Return(nil)

		body, _ := json.Marshal(map[string]any{"current_mileage": 61000})
		req := authedRequest(httptest.NewRequest(http.MethodPut, "/api/cars/car-1", bytes.NewReader(body)), "user-1")
		req.SetPathValue("id", "car-1")
		rec := httptest.NewRecorder()

		handler.Item(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var got models.Car
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, 61000, got.CurrentMileage)
		assert.Equal(t, "blue", got.Color)
	})

	t.Run("delete cascades to tasks and logs", func(t *testing.T) {
		cars, tasks, logs, handler := newCarsFixture()
		cars.On("DeleteCar", mock.Anything, "car-1", "user-1").Return(nil)
		tasks.On("DeleteTasksByCar", mock.Anything, "car-1").Return(nil)
		logs.On("DeleteLogsByCar", mock.Anything, "car-1").Return(nil)

		req := authedRequest(httptest.NewRequest(http.MethodDelete, "/api/cars/car-1", nil), "user-1")
		req.SetPathValue("id", "car-1")
		rec := httptest.NewRecorder()

		handler.Item(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		tasks.AssertExpectations(t)
		logs.AssertExpectations(t)
	})
}
