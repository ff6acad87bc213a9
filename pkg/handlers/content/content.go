package content

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/chris/loyalty-points/pkg/catalog"
	"github.com/chris/loyalty-points/pkg/weather"
	"github.com/go-chi/chi/v5"
)

// ContentHandler proxies the external weather and book-catalog APIs.
type ContentHandler struct {
	Weather *weather.Client
	Catalog *catalog.Client
}

// NewContentHandler creates a new ContentHandler.
func NewContentHandler(w *weather.Client, c *catalog.Client) *ContentHandler {
	return &ContentHandler{Weather: w, Catalog: c}
}

// Routes mounts the content endpoints.
func (h *ContentHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/weather/{city}", h.GetWeather)
	r.Get("/novels/{subject}", h.ListNovels)
	return r
}

// GetWeather returns the flattened forecast for a city.
func (h *ContentHandler) GetWeather(w http.ResponseWriter, r *http.Request) {
	city := chi.URLParam(r, "city")

	report, err := h.Weather.Forecast(r.Context(), city)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to fetch forecast: %v", err), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(report); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// ListNovels returns the catalog entries for a subject.
func (h *ContentHandler) ListNovels(w http.ResponseWriter, r *http.Request) {
	subject := chi.URLParam(r, "subject")

	novels, err := h.Catalog.ListBySubject(r.Context(), subject)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to fetch catalog: %v", err), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(novels); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
