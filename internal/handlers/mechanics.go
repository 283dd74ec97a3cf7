package handlers

import (
	"fmt"
	"net/http"
	"net/url"
)

// MechanicsHandler builds maps URLs for finding mechanics near the user. It
// is a thin wrapper: no maps API is called server-side, the frontend opens
// or embeds the returned URLs.
type MechanicsHandler struct{}

// NewMechanicsHandler creates a new mechanics handler.
func NewMechanicsHandler() *MechanicsHandler {
	return &MechanicsHandler{}
}

// NearbyResponse is the /api/mechanics/nearby payload.
type NearbyResponse struct {
	SearchURL string `json:"search_url"`
	EmbedURL  string `json:"embed_url"`
}

// Nearby handles GET /api/mechanics/nearby. Accepts either lat/lon query
// parameters or a free-text location.
func (h *MechanicsHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := "car mechanic near me"
	lat := r.URL.Query().Get("lat")
	lon := r.URL.Query().Get("lon")
	location := r.URL.Query().Get("location")

	switch {
	case lat != "" && lon != "":
		query = fmt.Sprintf("car mechanic near %s,%s", lat, lon)
	case location != "":
		query = fmt.Sprintf("car mechanic near %s", location)
	}

	search := url.Values{}
	search.Set("api", "1")
	search.Set("query", query)

	embed := url.Values{}
	embed.Set("q", query)
	embed.Set("output", "embed")

	writeJSON(w, http.StatusOK, NearbyResponse{
		SearchURL: "https://www.google.com/maps/search/?" + search.Encode(),
		EmbedURL:  "https://maps.google.com/maps?" + embed.Encode(),
	})
}
