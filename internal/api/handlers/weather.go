package handlers

import (
	"log"
	"net/http"
	"strconv"

	"logistics-dispatch-service/internal/api/dto"
	"logistics-dispatch-service/internal/ports"
)

// Default coordinates when the caller supplies none (Bengaluru depot).
const (
	defaultLat = 12.9716
	defaultLng = 77.5946
)

// WeatherHandler exposes the weather lookup endpoint.
type WeatherHandler struct {
	Weather ports.WeatherService
}

func (h *WeatherHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	lat, ok := parseCoord(r.URL.Query().Get("lat"), defaultLat)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "lat/lng must be numeric.")
		return
	}

	lng, ok := parseCoord(r.URL.Query().Get("lng"), defaultLng)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "lat/lng must be numeric.")
		return
	}

	reading, err := h.Weather.Reading(r.Context(), lat, lng)
	if err != nil {
		log.Printf("weather lookup failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewWeatherResponse(reading))
}

func parseCoord(raw string, fallback float64) (float64, bool) {
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
