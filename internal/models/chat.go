package models

// ChatMessage represents a message sent to the AI mechanic.
type ChatMessage struct {
	Message string `json:"message"`
	CarID   string `json:"car_id,omitempty"`
}

// ChatResponse represents the AI mechanic's reply.
type ChatResponse struct {
	Response    string   `json:"response"`
	Suggestions []string `json:"suggestions,omitempty"`
}
