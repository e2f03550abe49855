package handlers

import (
	"bus-ticket-service/internal/api/dto"
	"bus-ticket-service/internal/services"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type TripHandler struct {
	Search  *services.TripSearch
	SeatMap *services.SeatMap
}

// SearchTrips finds sellable trips between two cities around a target date.
// Routes the timetable implies but has not materialized yet are expanded
// before the query runs, so a fresh deployment still returns results.
func (h *TripHandler) SearchTrips(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.SearchTripsRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	fromCity := strings.TrimSpace(req.FromCity)
	toCity := strings.TrimSpace(req.ToCity)
	if fromCity == "" {
		writeError(w, r, http.StatusBadRequest, "from_city is required")
		return
	}
	if toCity == "" {
		writeError(w, r, http.StatusBadRequest, "to_city is required")
		return
	}

	date := time.Now()
	if strings.TrimSpace(req.Date) != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "date must be formatted as YYYY-MM-DD")
			return
		}
		date = parsed
	}

	results, err := h.Search.Search(r.Context(), fromCity, toCity, date)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := dto.SearchTripsResponse{Trips: make([]dto.TripResponse, 0, len(results))}
	for _, t := range results {
		res.Trips = append(res.Trips, dto.TripResponse{
			TripID:       t.TripID,
			Name:         t.Name,
			RouteID:      t.RouteID,
			DepartureAt:  t.DepartureAt,
			ArrivalAt:    t.ArrivalAt,
			Price:        t.Price,
			Currency:     t.Currency,
			IsTargetDate: t.IsTargetDate,
		})
	}
	writeJSON(w, r, http.StatusOK, res)
}

// Seats returns the seat map for one trip.
func (h *TripHandler) Seats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	tripID, err := strconv.Atoi(r.PathValue("trip_id"))
	if err != nil || tripID <= 0 {
		writeError(w, r, http.StatusBadRequest, "trip_id must be a positive integer")
		return
	}

	seatMap, err := h.SeatMap.Get(r.Context(), tripID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := dto.SeatMapResponse{
		Seats: make([]dto.SeatResponse, 0, len(seatMap.Seats)),
		Layout: dto.SeatLayoutResponse{
			Type: seatMap.Layout.Type,
			MaxX: seatMap.Layout.MaxX,
			MaxY: seatMap.Layout.MaxY,
		},
	}
	for _, s := range seatMap.Seats {
		res.Seats = append(res.Seats, dto.SeatResponse{
			ID:     s.ID,
			Name:   s.Name,
			Number: s.Number,
			State:  s.State,
			PosX:   s.PosX,
			PosY:   s.PosY,
		})
	}
	writeJSON(w, r, http.StatusOK, res)
}
