package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/autotrackhq/autotrack/internal/maintenance"
	"github.com/autotrackhq/autotrack/internal/models"
)

func TestDashboardStats(t *testing.T) {
	cars := new(MockCarCollection)
	tasks := new(MockTaskCollection)
	handler := NewDashboardHandler(cars, tasks, maintenance.NewEngine())

	now := time.Now().UTC()
	ownedCars := []models.Car{
		{ID: "car-1", UserID: "user-1", CurrentMileage: 54600},
		{ID: "car-2", UserID: "user-1", CurrentMileage: 12000},
	}
	ownedTasks := []models.MaintenanceTask{
		// Overdue by mileage: due at 50000, car at 54600.
		{ID: "t1", CarID: "car-1", LastPerformedMileage: 30000, LastPerformedDate: now.AddDate(0, -2, 0), IntervalMiles: 20000, IntervalMonths: 24},
		// Due soon: due at 55000, 400 miles away.
		{ID: "t2", CarID: "car-1", LastPerformedMileage: 50000, LastPerformedDate: now.AddDate(0, -1, 0), IntervalMiles: 5000, IntervalMonths: 6},
		// Good: freshly serviced.
		{ID: "t3", CarID: "car-2", LastPerformedMileage: 12000, LastPerformedDate: now, IntervalMiles: 5000, IntervalMonths: 6},
		// Replacement requested overrides everything else.
		{ID: "t4", CarID: "car-2", LastPerformedMileage: 12000, LastPerformedDate: now, IntervalMiles: 5000, IntervalMonths: 6, ReplacementRequested: true},
	}

	cars.On("FindCarsByUser", mock.Anything, "user-1").Return(ownedCars, nil)
	tasks.On("FindTasksByUser", mock.Anything, "user-1", "").Return(ownedTasks, nil)

	req := authedRequest(httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil), "user-1")
	rec := httptest.NewRecorder()

	handler.Stats(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got DashboardStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 2, got.TotalCars)
	assert.Equal(t, 4, got.TotalTasks)
	assert.Equal(t, 1, got.Overdue)
	assert.Equal(t, 1, got.DueSoon)
	assert.Equal(t, 1, got.Good)
	assert.Equal(t, 1, got.ReplacementRequested)
}
