package handlers

import (
	"net/http"

	"github.com/autotrackhq/autotrack/internal/db"
	"github.com/autotrackhq/autotrack/internal/middleware"
	"github.com/autotrackhq/autotrack/internal/models"
)

// NotificationsHandler handles notification requests.
type NotificationsHandler struct {
	notifications db.NotificationCollection
}

// NewNotificationsHandler creates a new notifications handler.
func NewNotificationsHandler(notifications db.NotificationCollection) *NotificationsHandler {
	return &NotificationsHandler{notifications: notifications}
}

// List handles GET /api/notifications.
func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	notifications, err := h.notifications.FindNotificationsByUser(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "Failed to list notifications", http.StatusInternalServerError)
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}

	writeJSON(w, http.StatusOK, notifications)
}

// MarkRead handles PUT /api/notifications/{id}/read.
func (h *NotificationsHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	if err := h.notifications.MarkNotificationRead(r.Context(), r.PathValue("id"), claims.UserID); err != nil {
		writeStoreError(w, err, "Notification not found")
		return
	}

	writeMessage(w, http.StatusOK, "Notification marked as read")
}

// Delete handles DELETE /api/notifications/{id}.
func (h *NotificationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	if err := h.notifications.DeleteNotification(r.Context(), r.PathValue("id"), claims.UserID); err != nil {
		writeStoreError(w, err, "Notification not found")
		return
	}

	writeMessage(w, http.StatusOK, "Notification deleted")
}
