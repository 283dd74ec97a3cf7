package handlers

import (
	"net/http"
)

// HealthHandler serves the API root and health endpoints.
type HealthHandler struct{}

// NewHealthHandler creates a new health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Root handles GET /api/.
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusOK, "AutoTrack API is running")
}

// Health handles GET /api/health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "autotrack-api",
	})
}
