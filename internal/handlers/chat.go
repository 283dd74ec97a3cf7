package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/autotrackhq/autotrack/internal/chat"
	"github.com/autotrackhq/autotrack/internal/db"
	"github.com/autotrackhq/autotrack/internal/middleware"
	"github.com/autotrackhq/autotrack/internal/models"
)

// ChatHandler proxies AI-mechanic messages to the upstream assistant,
// enriching them with the user's car context.
type ChatHandler struct {
	client *chat.Client
	cars   db.CarCollection
	tasks  db.TaskCollection
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(client *chat.Client, cars db.CarCollection, tasks db.TaskCollection) *ChatHandler {
	return &ChatHandler{
		client: client,
		cars:   cars,
		tasks:  tasks,
	}
}

// Chat handles POST /api/chat.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
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

	var msg models.ChatMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(msg.Message) == "" {
		http.Error(w, "Message is required", http.StatusBadRequest)
		return
	}

	system := h.systemPrompt(r, claims.UserID, msg.CarID)

	response, err := h.client.Send(r.Context(), system, msg.Message)
	if err != nil {
		log.WithError(err).Error("chat upstream failed")
		http.Error(w, "Failed to get response from AI mechanic", http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{
		Response:    response,
		Suggestions: chat.Suggestions(msg.Message),
	})
}

func (h *ChatHandler) systemPrompt(r *http.Request, userID, carID string) string {
	var b strings.Builder
	b.WriteString("You are AutoBot, a friendly and knowledgeable AI mechanic assistant. ")
	b.WriteString("You help car owners with maintenance advice, diagnosing problems, repair guidance, ")
	b.WriteString("and recommendations on when to seek professional help.\n")

	if carID != "" {
		if car, err := h.cars.FindCarByID(r.Context(), carID, userID); err == nil {
			fmt.Fprintf(&b, "\nUser's car: %d %s %s\nCurrent Mileage: %d miles\n", car.Year, car.Make, car.Model, car.CurrentMileage)
			if tasks, err := h.tasks.FindTasksByUser(r.Context(), userID, carID); err == nil && len(tasks) > 0 {
				b.WriteString("Maintenance History: ")
				for i, task := range tasks {
					if i > 0 {
						b.WriteString(", ")
					}
					fmt.Fprintf(&b, "%s (last done at %d miles)", task.TaskType, task.LastPerformedMileage)
				}
				b.WriteString("\n")
			}
		}
	}

	b.WriteString("\nBe helpful, clear, and safety-conscious. If a repair is dangerous or complex, ")
	b.WriteString("recommend visiting a professional mechanic. Keep responses concise but thorough.")
	return b.String()
}
