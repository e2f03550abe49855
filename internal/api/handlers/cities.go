package handlers

import (
	"bus-ticket-service/internal/api/dto"
	"bus-ticket-service/internal/ports"
	"net/http"
)

type CityHandler struct {
	Routes ports.RouteRepository
}

// List returns the distinct cities served by any stop, for search form
// autocomplete. Public; no API key required.
func (h *CityHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	cities, err := h.Routes.ListCities(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if cities == nil {
		cities = []string{}
	}
	writeJSON(w, r, http.StatusOK, dto.ListCitiesResponse{Cities: cities})
}
