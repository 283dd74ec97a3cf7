package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/autotrackhq/autotrack/internal/db"
	"github.com/autotrackhq/autotrack/internal/middleware"
	"github.com/autotrackhq/autotrack/internal/models"
	"github.com/autotrackhq/autotrack/internal/units"
)

// MileageHandler handles odometer log requests.
type MileageHandler struct {
	logs      db.MileageLogCollection
	cars      db.CarCollection
	users     db.UserCollection
	converter *units.Converter
}

// NewMileageHandler creates a new mileage handler.
func NewMileageHandler(logs db.MileageLogCollection, cars db.CarCollection, users db.UserCollection, converter *units.Converter) *MileageHandler {
	return &MileageHandler{
		logs:      logs,
		cars:      cars,
		users:     users,
		converter: converter,
	}
}

// Create handles POST /api/mileage.
func (h *MileageHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

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

	var req struct {
		CarID   string     `json:"car_id"`
		Mileage int        `json:"mileage"`
		Date    *time.Time `json:"date"`
		Notes   string     `json:"notes"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if req.Mileage < 0 {
		http.Error(w, "Mileage must not be negative", http.StatusBadRequest)
		return
	}

	if _, err := h.cars.FindCarByID(r.Context(), req.CarID, claims.UserID); err != nil {
		writeStoreError(w, err, "Car not found")
		return
	}

	date := time.Now().UTC()
	if req.Date != nil {
		date = *req.Date
	}

	entry := models.MileageLog{
		ID:      uuid.NewString(),
		CarID:   req.CarID,
		UserID:  claims.UserID,
		Mileage: req.Mileage,
		Date:    date,
		Notes:   req.Notes,
	}

	if err := h.logs.InsertLog(r.Context(), entry); err != nil {
		http.Error(w, "Failed to log mileage", http.StatusInternalServerError)
		return
	}

	// The car's current mileage only moves up; a lower reading stays in the
	// history without rolling the car back.
	if err := h.cars.RaiseCarMileage(r.Context(), req.CarID, req.Mileage); err != nil {
		http.Error(w, "Failed to update car mileage", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// List handles GET /api/mileage/{car_id}.
func (h *MileageHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	logs, err := h.logs.FindLogsByCar(r.Context(), r.PathValue("car_id"), claims.UserID)
	if err != nil {
		http.Error(w, "Failed to list mileage logs", http.StatusInternalServerError)
		return
	}

	unit := models.UnitMiles
	if user, err := h.users.FindUserByID(r.Context(), claims.UserID); err == nil && models.IsValidDistanceUnit(user.Settings.DistanceUnit) {
		unit = user.Settings.DistanceUnit
	}

	result := make([]models.MileageLog, 0, len(logs))
	for _, entry := range logs {
		if label, err := h.converter.FormatLabel(entry.Mileage, unit, true); err == nil {
			entry.MileageLabel = label
		}
		result = append(result, entry)
	}

	writeJSON(w, http.StatusOK, result)
}
