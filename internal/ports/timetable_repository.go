package ports

import (
	"bus-ticket-service/internal/domain"
	"context"
	"time"
)

// Port: access to recurring schedule definitions.
type TemplateRepository interface {
	// Active templates with exceptions loaded, optionally filtered by route.
	// An empty routeIDs slice means all routes.
	ListActiveTemplates(ctx context.Context, routeIDs []int) ([]*domain.TripTemplate, error)
}

// Port: access to routes and their waypoints.
type RouteRepository interface {
	GetRoute(ctx context.Context, routeID int) (*domain.Route, error)
	// Distinct non-empty stop cities, ordered.
	ListCities(ctx context.Context) ([]string, error)
}

// Port: vehicle master data, read-only. Only the seat layout is consumed.
type VehicleRepository interface {
	GetVehicle(ctx context.Context, vehicleID int) (*domain.Vehicle, error)
}

// NewTrip carries everything needed to materialize one trip instance with
// its seat pool in a single atomic insert.
type NewTrip struct {
	Name        string
	RouteID     int
	VehicleID   int
	DriverName  string
	TemplateID  int
	DepartureAt time.Time
	ArrivalAt   time.Time
	State       domain.TripState
	Seats       []domain.SeatPosition
}

// Port: trip instance persistence.
type TripRepository interface {
	// CreateIfAbsent inserts the trip and its seats unless an instance
	// already exists for (template, departure). The check and insert are a
	// single atomic operation against the store; concurrent callers racing
	// on the same key see exactly one creation. Returns whether a row was
	// created.
	CreateIfAbsent(ctx context.Context, trip NewTrip) (created bool, err error)

	GetTrip(ctx context.Context, tripID int) (*domain.TripInstance, error)

	// Sellable trips on the given routes departing within [from, to],
	// ordered by departure.
	ListSellable(ctx context.Context, routeIDs []int, from, to time.Time) ([]*domain.TripInstance, error)
}
