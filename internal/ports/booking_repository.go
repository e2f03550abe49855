package ports

import (
	"bus-ticket-service/internal/domain"
	"context"
)

// Port: seat inventory reads. Mutations go through the booking and order
// repositories so state transitions stay inside their transactions.
type SeatRepository interface {
	ListSeats(ctx context.Context, tripID int) ([]domain.Seat, error)
}

// Port: customer identity store keyed by email.
type CustomerRepository interface {
	// Match-or-create by the natural key. Creation happens only when no
	// existing row matches; concurrent calls for the same email resolve to
	// one row.
	FindOrCreateByEmail(ctx context.Context, c domain.Customer) (*domain.Customer, error)
}

// Port: pricing storage keyed by (route, origin stop, destination stop).
type PriceRepository interface {
	// PriceFor returns the unit price for the segment, and whether a price
	// row exists at all.
	PriceFor(ctx context.Context, routeID, stopFromID, stopToID int) (float64, bool, error)

	// RoutePrices returns route id -> price for routes whose start/end
	// cities match the given pair (case-insensitive substring match).
	RoutePrices(ctx context.Context, fromCity, toCity string) (map[int]float64, error)
}

// NewOrder is the input to the atomic reservation transaction.
type NewOrder struct {
	TripID     int
	SeatIDs    []int
	CustomerID int
	Currency   string
	PriceUnit  float64
	TripName   string
}

// Port: order persistence and the seat-acquisition critical section.
type OrderRepository interface {
	// CreateReservation validates and mutates in one atomic unit: every
	// seat must belong to the trip (else *domain.NotFoundError) and be
	// available (else *domain.ConflictError naming the seats); on success
	// the order and its lines exist and all seats are reserved. No partial
	// state is observable on failure.
	CreateReservation(ctx context.Context, o NewOrder) (*domain.Order, error)

	GetOrder(ctx context.Context, orderID int) (*domain.Order, error)

	// ConfirmOrder transitions the order's reserved seats to sold and the
	// order to confirmed. Idempotent for already confirmed orders.
	ConfirmOrder(ctx context.Context, orderID int) error
}
