package handlers

import (
	"bus-ticket-service/internal/api/dto"
	"bus-ticket-service/internal/services"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
)

type ExpandHandler struct {
	Expander    *services.Expander
	HorizonDays int
}

// Expand materializes trips from active templates over a date window. With
// an empty body the window defaults to today through the configured
// horizon, same as the background job. Safe to call repeatedly.
func (h *ExpandHandler) Expand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.ExpandRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil && err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	from := time.Now()
	to := from.AddDate(0, 0, h.HorizonDays)

	if strings.TrimSpace(req.From) != "" {
		parsed, err := time.Parse("2006-01-02", req.From)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "from must be formatted as YYYY-MM-DD")
			return
		}
		from = parsed
		to = from.AddDate(0, 0, h.HorizonDays)
	}
	if strings.TrimSpace(req.To) != "" {
		parsed, err := time.Parse("2006-01-02", req.To)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "to must be formatted as YYYY-MM-DD")
			return
		}
		to = parsed
	}
	if to.Before(from) {
		writeError(w, r, http.StatusBadRequest, "to must not be before from")
		return
	}

	created, err := h.Expander.ExpandHorizon(r.Context(), from, to)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ExpandResponse{
		TripsCreated: created,
		From:         from.Format("2006-01-02"),
		To:           to.Format("2006-01-02"),
	})
}
