package handlers

import (
	"net/http"
	"time"

	"github.com/autotrackhq/autotrack/internal/db"
	"github.com/autotrackhq/autotrack/internal/maintenance"
	"github.com/autotrackhq/autotrack/internal/middleware"
	"github.com/autotrackhq/autotrack/internal/models"
)

// DashboardHandler aggregates per-status task counts for a user.
type DashboardHandler struct {
	cars   db.CarCollection
	tasks  db.TaskCollection
	engine *maintenance.Engine
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(cars db.CarCollection, tasks db.TaskCollection, engine *maintenance.Engine) *DashboardHandler {
	return &DashboardHandler{
		cars:   cars,
		tasks:  tasks,
		engine: engine,
	}
}

// DashboardStats is the /api/dashboard/stats payload.
type DashboardStats struct {
	TotalCars            int `json:"total_cars"`
	TotalTasks           int `json:"total_tasks"`
	Overdue              int `json:"overdue"`
	DueSoon              int `json:"due_soon"`
	Good                 int `json:"good"`
	ReplacementRequested int `json:"replacement_requested"`
}

// Stats handles GET /api/dashboard/stats.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	cars, err := h.cars.FindCarsByUser(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "Failed to list cars", http.StatusInternalServerError)
		return
	}
	tasks, err := h.tasks.FindTasksByUser(r.Context(), claims.UserID, "")
	if err != nil {
		http.Error(w, "Failed to list tasks", http.StatusInternalServerError)
		return
	}

	mileageByCar := make(map[string]int, len(cars))
	for _, car := range cars {
		mileageByCar[car.ID] = car.CurrentMileage
	}

	stats := DashboardStats{
		TotalCars:  len(cars),
		TotalTasks: len(tasks),
	}

	now := time.Now().UTC()
	for _, task := range tasks {
		res, err := h.engine.Evaluate(maintenance.Input{
			LastPerformedMileage: task.LastPerformedMileage,
			LastPerformedDate:    task.LastPerformedDate,
			IntervalMiles:        task.IntervalMiles,
			IntervalMonths:       task.IntervalMonths,
			CurrentMileage:       mileageByCar[task.CarID],
			Today:                now,
			ReplacementRequested: task.ReplacementRequested,
		})
		if err != nil {
			http.Error(w, "Failed to evaluate task", http.StatusInternalServerError)
			return
		}

		switch res.Status {
		case models.StatusOverdue:
			stats.Overdue++
		case models.StatusDueSoon:
			stats.DueSoon++
		case models.StatusReplacementRequested:
			stats.ReplacementRequested++
		default:
			stats.Good++
		}
	}

	writeJSON(w, http.StatusOK, stats)
}
