// Package chat proxies AI-mechanic messages to a configured upstream
// assistant endpoint.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// ErrNotConfigured is returned when no upstream endpoint is set.
var ErrNotConfigured = errors.New("mechanic assistant endpoint not configured")

// Client sends user messages, plus a system prompt describing the user's
// car, to the upstream assistant and returns its reply text.
type Client struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a chat client from MECHANIC_API_URL and MECHANIC_API_KEY.
func NewClient() *Client {
	return &Client{
		url:    os.Getenv("MECHANIC_API_URL"),
		apiKey: os.Getenv("MECHANIC_API_KEY"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type upstreamRequest struct {
	System  string `json:"system"`
	Message string `json:"message"`
}

type upstreamResponse struct {
	Response string `json:"response"`
}

// Send forwards a message to the upstream assistant.
func (c *Client) Send(ctx context.Context, system, message string) (string, error) {
	if c.url == "" {
		return "", ErrNotConfigured
	}

	payload, err := json.Marshal(upstreamRequest{System: system, Message: message})
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat upstream returned status %d", resp.StatusCode)
	}

	var out upstreamResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}
	return out.Response, nil
}

// Suggestions returns follow-up questions matched to keywords in the user's
// message.
func Suggestions(message string) []string {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "oil"):
		return []string{"How often should I change my oil?", "What type of oil should I use?"}
	case strings.Contains(lower, "brake"):
		return []string{"How do I know if my brakes need replacing?", "What causes squeaky brakes?"}
	case strings.Contains(lower, "noise"), strings.Contains(lower, "sound"):
		return []string{"What could cause a knocking sound?", "Should I be worried about this noise?"}
	default:
		return nil
	}
}
