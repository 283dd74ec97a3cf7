package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/autotrackhq/autotrack/internal/db"
	"github.com/autotrackhq/autotrack/internal/maintenance"
	"github.com/autotrackhq/autotrack/internal/middleware"
	"github.com/autotrackhq/autotrack/internal/models"
	"github.com/autotrackhq/autotrack/internal/units"
)

// MaintenanceHandler handles maintenance task requests. Task status is never
// read back from storage: every response re-derives it from the car's
// current mileage and the clock.
type MaintenanceHandler struct {
	tasks     db.TaskCollection
	cars      db.CarCollection
	users     db.UserCollection
	engine    *maintenance.Engine
	converter *units.Converter
}

// NewMaintenanceHandler creates a new maintenance handler.
func NewMaintenanceHandler(tasks db.TaskCollection, cars db.CarCollection, users db.UserCollection, engine *maintenance.Engine, converter *units.Converter) *MaintenanceHandler {
	return &MaintenanceHandler{
		tasks:     tasks,
		cars:      cars,
		users:     users,
		engine:    engine,
		converter: converter,
	}
}

// Collection handles POST and GET on /api/maintenance.
func (h *MaintenanceHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Item handles GET, PUT and DELETE on /api/maintenance/{id}.
func (h *MaintenanceHandler) Item(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPut:
		h.update(w, r)
	case http.MethodDelete:
		h.delete(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Replacement handles POST (request) and DELETE (cancel) on
// /api/maintenance/{id}/replacement.
func (h *MaintenanceHandler) Replacement(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.requestReplacement(w, r)
	case http.MethodDelete:
		h.cancelReplacement(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// preferredUnit resolves the requesting user's distance unit, defaulting to
// miles when the profile cannot be loaded.
func (h *MaintenanceHandler) preferredUnit(r *http.Request, userID string) models.DistanceUnit {
	user, err := h.users.FindUserByID(r.Context(), userID)
	if err != nil || !models.IsValidDistanceUnit(user.Settings.DistanceUnit) {
		return models.UnitMiles
	}
	return user.Settings.DistanceUnit
}

// decorate fills a task's derived fields against the car's current mileage.
func (h *MaintenanceHandler) decorate(task *models.MaintenanceTask, carMileage int, unit models.DistanceUnit) error {
	res, err := h.engine.Evaluate(maintenance.Input{
		LastPerformedMileage: task.LastPerformedMileage,
		LastPerformedDate:    task.LastPerformedDate,
		IntervalMiles:        task.IntervalMiles,
		IntervalMonths:       task.IntervalMonths,
		CurrentMileage:       carMileage,
		Today:                time.Now().UTC(),
		ReplacementRequested: task.ReplacementRequested,
	})
	if err != nil {
		return err
	}

	task.Status = res.Status
	task.NextDueMileage = res.NextDueMileage
	task.NextDueDate = res.NextDueDate

	label, err := h.converter.FormatLabel(res.NextDueMileage, unit, true)
	if err != nil {
		return err
	}
	task.NextDueLabel = label
	return nil
}

type taskCreateRequest struct {
	CarID                string          `json:"car_id"`
	TaskType             models.TaskType `json:"task_type"`
	Description          string          `json:"description"`
	LastPerformedDate    *time.Time      `json:"last_performed_date"`
	LastPerformedMileage *int            `json:"last_performed_mileage"`
	IntervalMiles        *int            `json:"interval_miles"`
	IntervalMonths       *int            `json:"interval_months"`
	Cost                 float64         `json:"cost"`
	Notes                string          `json:"notes"`
}

func (h *MaintenanceHandler) create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req taskCreateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	info, valid := models.TaskTypeDefaults(req.TaskType)
	if !valid {
		http.Error(w, "Invalid task type", http.StatusBadRequest)
		return
	}

	car, err := h.cars.FindCarByID(r.Context(), req.CarID, claims.UserID)
	if err != nil {
		writeStoreError(w, err, "Car not found")
		return
	}

	// Intervals fall back to the task-type registry defaults; explicit
	// non-positive values are rejected, never coerced.
	intervalMiles := info.DefaultIntervalMiles
	if req.IntervalMiles != nil {
		intervalMiles = *req.IntervalMiles
	}
	intervalMonths := info.DefaultIntervalMonths
	if req.IntervalMonths != nil {
		intervalMonths = *req.IntervalMonths
	}
	if intervalMiles <= 0 {
		http.Error(w, "interval_miles must be positive", http.StatusBadRequest)
		return
	}
	if intervalMonths <= 0 {
		http.Error(w, "interval_months must be positive", http.StatusBadRequest)
		return
	}

	// A task with no history counts as just serviced at the car's current
	// mileage.
	now := time.Now().UTC()
	lastDate := now
	if req.LastPerformedDate != nil {
		lastDate = *req.LastPerformedDate
	}
	lastMileage := car.CurrentMileage
	if req.LastPerformedMileage != nil {
		lastMileage = *req.LastPerformedMileage
	}
	if lastMileage < 0 {
		http.Error(w, "last_performed_mileage must not be negative", http.StatusBadRequest)
		return
	}

	task := models.MaintenanceTask{
		ID:                   uuid.NewString(),
		CarID:                req.CarID,
		UserID:               claims.UserID,
		TaskType:             req.TaskType,
		Description:          req.Description,
		LastPerformedDate:    lastDate,
		LastPerformedMileage: lastMileage,
		IntervalMiles:        intervalMiles,
		IntervalMonths:       intervalMonths,
		Cost:                 req.Cost,
		Notes:                req.Notes,
		CreatedAt:            now,
	}

	if err := h.tasks.InsertTask(r.Context(), task); err != nil {
		http.Error(w, "Failed to create task", http.StatusInternalServerError)
		return
	}

	if err := h.decorate(&task, car.CurrentMileage, h.preferredUnit(r, claims.UserID)); err != nil {
		writeValidationError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

func (h *MaintenanceHandler) list(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	carID := r.URL.Query().Get("car_id")
	tasks, err := h.tasks.FindTasksByUser(r.Context(), claims.UserID, carID)
	if err != nil {
		http.Error(w, "Failed to list tasks", http.StatusInternalServerError)
		return
	}

	unit := h.preferredUnit(r, claims.UserID)

	mileageByCar := map[string]int{}
	result := make([]models.MaintenanceTask, 0, len(tasks))
	for _, task := range tasks {
		carMileage, seen := mileageByCar[task.CarID]
		if !seen {
			car, err := h.cars.FindCarByID(r.Context(), task.CarID, claims.UserID)
			if err == nil {
				carMileage = car.CurrentMileage
			}
			mileageByCar[task.CarID] = carMileage
		}

		if err := h.decorate(&task, carMileage, unit); err != nil {
			http.Error(w, "Failed to evaluate task", http.StatusInternalServerError)
			return
		}
		result = append(result, task)
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *MaintenanceHandler) get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	task, err := h.tasks.FindTaskByID(r.Context(), r.PathValue("id"), claims.UserID)
	if err != nil {
		writeStoreError(w, err, "Task not found")
		return
	}

	carMileage := 0
	if car, err := h.cars.FindCarByID(r.Context(), task.CarID, claims.UserID); err == nil {
		carMileage = car.CurrentMileage
	}

	if err := h.decorate(task, carMileage, h.preferredUnit(r, claims.UserID)); err != nil {
		writeValidationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *MaintenanceHandler) update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	task, err := h.tasks.FindTaskByID(r.Context(), r.PathValue("id"), claims.UserID)
	if err != nil {
		writeStoreError(w, err, "Task not found")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req struct {
		TaskType             *models.TaskType `json:"task_type"`
		Description          *string          `json:"description"`
		LastPerformedDate    *time.Time       `json:"last_performed_date"`
		LastPerformedMileage *int             `json:"last_performed_mileage"`
		IntervalMiles        *int             `json:"interval_miles"`
		IntervalMonths       *int             `json:"interval_months"`
		Cost                 *float64         `json:"cost"`
		Notes                *string          `json:"notes"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if req.TaskType != nil {
		if !models.IsValidTaskType(*req.TaskType) {
			http.Error(w, "Invalid task type", http.StatusBadRequest)
			return
		}
		task.TaskType = *req.TaskType
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.LastPerformedDate != nil {
		task.LastPerformedDate = *req.LastPerformedDate
	}
	if req.LastPerformedMileage != nil {
		if *req.LastPerformedMileage < 0 {
			http.Error(w, "last_performed_mileage must not be negative", http.StatusBadRequest)
			return
		}
		task.LastPerformedMileage = *req.LastPerformedMileage
	}
	if req.IntervalMiles != nil {
		if *req.IntervalMiles <= 0 {
			http.Error(w, "interval_miles must be positive", http.StatusBadRequest)
			return
		}
		task.IntervalMiles = *req.IntervalMiles
	}
	if req.IntervalMonths != nil {
		if *req.IntervalMonths <= 0 {
			http.Error(w, "interval_months must be positive", http.StatusBadRequest)
			return
		}
		task.IntervalMonths = *req.IntervalMonths
	}
	if req.Cost != nil {
		task.Cost = *req.Cost
	}
	if req.Notes != nil {
		task.Notes = *req.Notes
	}

	if err := h.tasks.UpdateTask(r.Context(), task.ID, claims.UserID, *task); err != nil {
		writeStoreError(w, err, "Task not found")
		return
	}

	carMileage := 0
	if car, err := h.cars.FindCarByID(r.Context(), task.CarID, claims.UserID); err == nil {
		carMileage = car.CurrentMileage
	}
	if err := h.decorate(task, carMileage, h.preferredUnit(r, claims.UserID)); err != nil {
		writeValidationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *MaintenanceHandler) delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	if err := h.tasks.DeleteTask(r.Context(), r.PathValue("id"), claims.UserID); err != nil {
		writeStoreError(w, err, "Task not found")
		return
	}

	writeMessage(w, http.StatusOK, "Task deleted successfully")
}

// Complete handles POST /api/maintenance/{id}/complete.
func (h *MaintenanceHandler) Complete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	task, err := h.tasks.FindTaskByID(r.Context(), r.PathValue("id"), claims.UserID)
	if err != nil {
		writeStoreError(w, err, "Task not found")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req struct {
		Mileage int `json:"mileage"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if err := h.engine.Complete(task, req.Mileage, time.Now().UTC()); err != nil {
		writeValidationError(w, err)
		return
	}

	if err := h.tasks.UpdateTask(r.Context(), task.ID, claims.UserID, *task); err != nil {
		writeStoreError(w, err, "Task not found")
		return
	}

	// Completion can raise the car's mileage high-water mark.
	if err := h.cars.RaiseCarMileage(r.Context(), task.CarID, req.Mileage); err != nil {
		http.Error(w, "Failed to update car mileage", http.StatusInternalServerError)
		return
	}

	carMileage := req.Mileage
	if car, err := h.cars.FindCarByID(r.Context(), task.CarID, claims.UserID); err == nil {
		carMileage = car.CurrentMileage
	}
	if err := h.decorate(task, carMileage, h.preferredUnit(r, claims.UserID)); err != nil {
		writeValidationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *MaintenanceHandler) requestReplacement(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	task, err := h.tasks.FindTaskByID(r.Context(), r.PathValue("id"), claims.UserID)
	if err != nil {
		writeStoreError(w, err, "Task not found")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if err := maintenance.RequestReplacement(task, req.Reason); err != nil {
		writeValidationError(w, err)
		return
	}

	if err := h.tasks.UpdateTask(r.Context(), task.ID, claims.UserID, *task); err != nil {
		writeStoreError(w, err, "Task not found")
		return
	}

	carMileage := 0
	if car, err := h.cars.FindCarByID(r.Context(), task.CarID, claims.UserID); err == nil {
		carMileage = car.CurrentMileage
	}
	if err := h.decorate(task, carMileage, h.preferredUnit(r, claims.UserID)); err != nil {
		writeValidationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *MaintenanceHandler) cancelReplacement(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	task, err := h.tasks.FindTaskByID(r.Context(), r.PathValue("id"), claims.UserID)
	if err != nil {
		writeStoreError(w, err, "Task not found")
		return
	}

	maintenance.CancelReplacement(task)

	if err := h.tasks.UpdateTask(r.Context(), task.ID, claims.UserID, *task); err != nil {
		writeStoreError(w, err, "Task not found")
		return
	}

	carMileage := 0
	if car, err := h.cars.FindCarByID(r.Context(), task.CarID, claims.UserID); err == nil {
		carMileage = car.CurrentMileage
	}
	if err := h.decorate(task, carMileage, h.preferredUnit(r, claims.UserID)); err != nil {
		writeValidationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}
