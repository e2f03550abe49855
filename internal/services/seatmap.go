package services

import (
	"bus-ticket-service/internal/domain"
	"bus-ticket-service/internal/platform/obs"
	"bus-ticket-service/internal/ports"
	"context"
	"encoding/json"
	"fmt"
	"log"
)

// SeatMapSeat is one seat as rendered to clients.
type SeatMapSeat struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Number int    `json:"number"`
	State  string `json:"state"`
	PosX   int    `json:"pos_x"`
	PosY   int    `json:"pos_y"`
}

// SeatMapLayout is the bounding-box metadata clients use to draw the grid.
// MaxX/MaxY default to 0 when the trip has no seats.
type SeatMapLayout struct {
	Type string `json:"type"`
	MaxX int    `json:"max_x"`
	MaxY int    `json:"max_y"`
}

// SeatMapResponse is the full seat map for one trip.
type SeatMapResponse struct {
	Seats  []SeatMapSeat `json:"seats"`
	Layout SeatMapLayout `json:"layout"`
}

// SeatMap serves per-trip seat maps, optionally fronted by a cache that
// booking and confirmation invalidate on every seat transition.
type SeatMap struct {
	Trips    ports.TripRepository
	Seats    ports.SeatRepository
	Vehicles ports.VehicleRepository
	Cache    ports.SeatMapCache
}

// Get returns the seat map for a trip. Cache failures degrade to the
// repository rather than failing the request.
func (s *SeatMap) Get(ctx context.Context, tripID int) (_ *SeatMapResponse, err error) {
	defer obs.Time(ctx, "seatmap.Get")(&err)

	if s.Cache != nil {
		payload, ok, err := s.Cache.Get(ctx, tripID)
		if err != nil {
			log.Printf("warn: seat map cache get trip_id=%d: %v", tripID, err)
		} else if ok {
			var cached SeatMapResponse
			if err := json.Unmarshal(payload, &cached); err == nil {
				return &cached, nil
			}
			log.Printf("warn: seat map cache payload corrupt trip_id=%d", tripID)
		}
	}

	trip, err := s.Trips.GetTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("seat map: get trip %d: %w", tripID, err)
	}
	if trip == nil {
		return nil, &domain.NotFoundError{Resource: "trip", ID: tripID}
	}

	seats, err := s.Seats.ListSeats(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("seat map: list seats for trip %d: %w", tripID, err)
	}

	layoutType := "other"
	if trip.VehicleID != 0 {
		vehicle, err := s.Vehicles.GetVehicle(ctx, trip.VehicleID)
		if err != nil {
			return nil, fmt.Errorf("seat map: get vehicle %d: %w", trip.VehicleID, err)
		}
		if vehicle.Layout != nil {
			layoutType = vehicle.Layout.LayoutType
		}
	}

	res := &SeatMapResponse{
		Seats:  make([]SeatMapSeat, 0, len(seats)),
		Layout: SeatMapLayout{Type: layoutType},
	}
	for _, seat := range seats {
		res.Seats = append(res.Seats, SeatMapSeat{
			ID:     seat.SeatID,
			Name:   seat.Name(),
			Number: seat.Number,
			State:  string(seat.State),
			PosX:   seat.PosX,
			PosY:   seat.PosY,
		})
		if seat.PosX > res.Layout.MaxX {
			res.Layout.MaxX = seat.PosX
		}
		if seat.PosY > res.Layout.MaxY {
			res.Layout.MaxY = seat.PosY
		}
	}

	if s.Cache != nil {
		if payload, err := json.Marshal(res); err == nil {
			if err := s.Cache.Put(ctx, tripID, payload); err != nil {
				log.Printf("warn: seat map cache put trip_id=%d: %v", tripID, err)
			}
		}
	}
	return res, nil
}
