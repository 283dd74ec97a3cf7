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
)

// CarsHandler handles car CRUD requests.
type CarsHandler struct {
	cars  db.CarCollection
	tasks db.TaskCollection
	logs  db.MileageLogCollection
}

// NewCarsHandler creates a new cars handler.
func NewCarsHandler(cars db.CarCollection, tasks db.TaskCollection, logs db.MileageLogCollection) *CarsHandler {
	return &CarsHandler{
		cars:  cars,
		tasks: tasks,
		logs:  logs,
	}
}

// Collection handles POST and GET on /api/cars.
func (h *CarsHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Item handles GET, PUT and DELETE on /api/cars/{id}.
func (h *CarsHandler) Item(w http.ResponseWriter, r *http.Request) {
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

type carRequest struct {
	Make           string `json:"make"`
	Model          string `json:"model"`
	Year           int    `json:"year"`
	Color          string `json:"color"`
	LicensePlate   string `json:"license_plate"`
	VIN            string `json:"vin"`
	CurrentMileage int    `json:"current_mileage"`
	ImageURL       string `json:"image_url"`
}

func (h *CarsHandler) create(w http.ResponseWriter, r *http.Request) {
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

	var req carRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if req.Make == "" || req.Model == "" {
		http.Error(w, "Make and model are required", http.StatusBadRequest)
		return
	}
	if req.CurrentMileage < 0 {
		http.Error(w, "Mileage must not be negative", http.StatusBadRequest)
		return
	}

	car := models.Car{
		ID:             uuid.NewString(),
		UserID:         claims.UserID,
		Make:           req.Make,
		Model:          req.Model,
		Year:           req.Year,
		Color:          req.Color,
		LicensePlate:   req.LicensePlate,
		VIN:            req.VIN,
		CurrentMileage: req.CurrentMileage,
		ImageURL:       req.ImageURL,
		CreatedAt:      time.Now().UTC(),
	}

	if err := h.cars.InsertCar(r.Context(), car); err != nil {
		http.Error(w, "Failed to create car", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, car)
}

func (h *CarsHandler) list(w http.ResponseWriter, r *http.Request) {
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
	if cars == nil {
		cars = []models.Car{}
	}

	writeJSON(w, http.StatusOK, cars)
}

func (h *CarsHandler) get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	car, err := h.cars.FindCarByID(r.Context(), r.PathValue("id"), claims.UserID)
	if err != nil {
		writeStoreError(w, err, "Car not found")
		return
	}

	writeJSON(w, http.StatusOK, car)
}

func (h *CarsHandler) update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	car, err := h.cars.FindCarByID(r.Context(), r.PathValue("id"), claims.UserID)
	if err != nil {
		writeStoreError(w, err, "Car not found")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	// Pointer fields distinguish "absent" from zero values.
	var req struct {
		Make           *string `json:"make"`
		Model          *string `json:"model"`
		Year           *int    `json:"year"`
		Color          *string `json:"color"`
		LicensePlate   *string `json:"license_plate"`
		VIN            *string `json:"vin"`
		CurrentMileage *int    `json:"current_mileage"`
		ImageURL       *string `json:"image_url"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if req.Make != nil {
		car.Make = *req.Make
	}
	if req.Model != nil {
		car.Model = *req.Model
	}
	if req.Year != nil {
		car.Year = *req.Year
	}
	if req.Color != nil {
		car.Color = *req.Color
	}
	if req.LicensePlate != nil {
		car.LicensePlate = *req.LicensePlate
	}
	if req.VIN != nil {
		car.VIN = *req.VIN
	}
	if req.CurrentMileage != nil {
		if *req.CurrentMileage < 0 {
			http.Error(w, "Mileage must not be negative", http.StatusBadRequest)
			return
		}
		car.CurrentMileage = *req.CurrentMileage
	}
	if req.ImageURL != nil {
		car.ImageURL = *req.ImageURL
	}

	if err := h.cars.UpdateCar(r.Context(), car.ID, claims.UserID, *car); err != nil {
		writeStoreError(w, err, "Car not found")
		return
	}

	writeJSON(w, http.StatusOK, car)
}

func (h *CarsHandler) delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	carID := r.PathValue("id")
	if err := h.cars.DeleteCar(r.Context(), carID, claims.UserID); err != nil {
		writeStoreError(w, err, "Car not found")
		return
	}

	// Also delete related maintenance tasks and mileage logs.
	if err := h.tasks.DeleteTasksByCar(r.Context(), carID); err != nil {
		http.Error(w, "Failed to delete maintenance tasks", http.StatusInternalServerError)
		return
	}
	if err := h.logs.DeleteLogsByCar(r.Context(), carID); err != nil {
		http.Error(w, "Failed to delete mileage logs", http.StatusInternalServerError)
		return
	}

	writeMessage(w, http.StatusOK, "Car deleted successfully")
}
