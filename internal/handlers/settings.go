package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/autotrackhq/autotrack/internal/db"
	"github.com/autotrackhq/autotrack/internal/middleware"
	"github.com/autotrackhq/autotrack/internal/models"
)

// SettingsHandler handles user preference requests. The distance unit
// chosen here drives every formatted distance in the API; stored values
// stay in miles regardless.
type SettingsHandler struct {
	users db.UserCollection
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(users db.UserCollection) *SettingsHandler {
	return &SettingsHandler{users: users}
}

// Settings handles GET and PUT on /api/settings.
func (h *SettingsHandler) Settings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPut:
		h.update(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	user, err := h.users.FindUserByID(r.Context(), claims.UserID)
	if err != nil {
		writeStoreError(w, err, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, user.Settings)
}

func (h *SettingsHandler) update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	user, err := h.users.FindUserByID(r.Context(), claims.UserID)
	if err != nil {
		writeStoreError(w, err, "User not found")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req struct {
		EmailReminders     *bool                `json:"email_reminders"`
		PushNotifications  *bool                `json:"push_notifications"`
		ReminderDaysBefore *int                 `json:"reminder_days_before"`
		Theme              *string              `json:"theme"`
		DistanceUnit       *models.DistanceUnit `json:"distance_unit"`
		Language           *string              `json:"language"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	settings := user.Settings
	if req.EmailReminders != nil {
		settings.EmailReminders = *req.EmailReminders
	}
	if req.PushNotifications != nil {
		settings.PushNotifications = *req.PushNotifications
	}
	if req.ReminderDaysBefore != nil {
		if *req.ReminderDaysBefore < 0 {
			http.Error(w, "reminder_days_before must not be negative", http.StatusBadRequest)
			return
		}
		settings.ReminderDaysBefore = *req.ReminderDaysBefore
	}
	if req.Theme != nil {
		settings.Theme = *req.Theme
	}
	if req.DistanceUnit != nil {
		if !models.IsValidDistanceUnit(*req.DistanceUnit) {
			http.Error(w, "Invalid distance unit", http.StatusBadRequest)
			return
		}
		settings.DistanceUnit = *req.DistanceUnit
	}
	if req.Language != nil {
		settings.Language = *req.Language
	}

	if err := h.users.UpdateSettings(r.Context(), claims.UserID, settings); err != nil {
		writeStoreError(w, err, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, settings)
}
