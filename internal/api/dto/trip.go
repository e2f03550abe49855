package dto

import "time"

type SearchTripsRequest struct {
	FromCity string `json:"from_city"`
	ToCity   string `json:"to_city"`
	Date     string `json:"date"`
}

type TripResponse struct {
	TripID       int       `json:"trip_id"`
	Name         string    `json:"name"`
	RouteID      int       `json:"route_id"`
	DepartureAt  time.Time `json:"departure_at"`
	ArrivalAt    time.Time `json:"arrival_at"`
	Price        float64   `json:"price"`
	Currency     string    `json:"currency"`
	IsTargetDate bool      `json:"is_target_date"`
}

type SearchTripsResponse struct {
	Trips []TripResponse `json:"trips"`
}

type SeatResponse struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Number int    `json:"number"`
	State  string `json:"state"`
	PosX   int    `json:"pos_x"`
	PosY   int    `json:"pos_y"`
}

type SeatLayoutResponse struct {
	Type string `json:"type"`
	MaxX int    `json:"max_x"`
	MaxY int    `json:"max_y"`
}

type SeatMapResponse struct {
	Seats  []SeatResponse     `json:"seats"`
	Layout SeatLayoutResponse `json:"layout"`
}

type ExpandRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type ExpandResponse struct {
	TripsCreated int    `json:"trips_created"`
	From         string `json:"from"`
	To           string `json:"to"`
}

type ListCitiesResponse struct {
	Cities []string `json:"cities"`
}
