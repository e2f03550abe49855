package services

import (
	"bus-ticket-service/internal/domain"
	"bus-ticket-service/internal/platform/obs"
	"bus-ticket-service/internal/ports"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
)

// BookingMetrics receives booking outcomes. Nil-safe at the call sites.
type BookingMetrics interface {
	BookingsInc()
	BookingConflictsInc()
	SeatsReservedAdd(n int)
}

// CustomerInfo is the caller-supplied identity for a booking. Email is the
// natural key used for match-or-create.
type CustomerInfo struct {
	Name  string
	Email string
	Phone string
}

// BookingRequest selects seats on one trip for one customer.
type BookingRequest struct {
	TripID   int
	SeatIDs  []int
	Customer CustomerInfo
}

// Booking coordinates seat acquisition: it validates input, resolves the
// customer and price, and delegates the check-and-reserve critical section
// to the order repository, which executes it atomically. A failed
// acquisition returns immediately with a conflict; retrying with a
// different seat selection is the caller's concern.
type Booking struct {
	Trips     ports.TripRepository
	Routes    ports.RouteRepository
	Customers ports.CustomerRepository
	Prices    ports.PriceRepository
	Orders    ports.OrderRepository
	Events    ports.OrderEventPublisher
	Cache     ports.SeatMapCache
	Metrics   BookingMetrics
}

// Book reserves the selected seats and creates an order for them.
// Validation and not-found checks happen before any mutation; the seat
// transition and order insert are all-or-nothing.
func (b *Booking) Book(ctx context.Context, req BookingRequest) (_ *domain.Order, err error) {
	defer obs.Time(ctx, "booking.Book")(&err)

	if len(req.SeatIDs) == 0 {
		return nil, &domain.ValidationError{Field: "seat_ids", Reason: "at least one seat must be selected"}
	}
	seen := make(map[int]struct{}, len(req.SeatIDs))
	for _, id := range req.SeatIDs {
		if _, dup := seen[id]; dup {
			return nil, &domain.ValidationError{Field: "seat_ids", Reason: fmt.Sprintf("seat %d requested more than once", id)}
		}
		seen[id] = struct{}{}
	}
	if strings.TrimSpace(req.Customer.Email) == "" {
		return nil, &domain.ValidationError{Field: "customer_info.email", Reason: "email is required"}
	}

	trip, err := b.Trips.GetTrip(ctx, req.TripID)
	if err != nil {
		return nil, fmt.Errorf("book: get trip %d: %w", req.TripID, err)
	}
	if trip == nil {
		return nil, &domain.NotFoundError{Resource: "trip", ID: req.TripID}
	}

	route, err := b.Routes.GetRoute(ctx, trip.RouteID)
	if err != nil {
		return nil, fmt.Errorf("book: get route %d: %w", trip.RouteID, err)
	}

	customer, err := b.Customers.FindOrCreateByEmail(ctx, domain.Customer{
		Name:  strings.TrimSpace(req.Customer.Name),
		Email: strings.TrimSpace(req.Customer.Email),
		Phone: strings.TrimSpace(req.Customer.Phone),
	})
	if err != nil {
		return nil, fmt.Errorf("book: resolve customer: %w", err)
	}

	price, found, err := b.Prices.PriceFor(ctx, route.RouteID, route.StartStopID(), route.EndStopID())
	if err != nil {
		return nil, fmt.Errorf("book: resolve price for route %d: %w", route.RouteID, err)
	}
	if !found {
		// Accepted behavior: the order proceeds at zero. Logged loudly
		// because a missing route price is more likely a catalog gap than
		// an intended free trip.
		log.Printf("warn: no price defined route_id=%d from=%d to=%d, booking at 0.0", route.RouteID, route.StartStopID(), route.EndStopID())
		price = 0
	}

	order, err := b.Orders.CreateReservation(ctx, ports.NewOrder{
		TripID:     req.TripID,
		SeatIDs:    req.SeatIDs,
		CustomerID: customer.CustomerID,
		Currency:   route.Currency,
		PriceUnit:  price,
		TripName:   trip.Name,
	})
	if err != nil {
		var conflict *domain.ConflictError
		if errors.As(err, &conflict) && b.Metrics != nil {
			b.Metrics.BookingConflictsInc()
		}
		return nil, err
	}

	if b.Metrics != nil {
		b.Metrics.BookingsInc()
		b.Metrics.SeatsReservedAdd(len(req.SeatIDs))
	}
	if b.Cache != nil {
		if err := b.Cache.Invalidate(ctx, req.TripID); err != nil {
			log.Printf("warn: invalidate seat map cache trip_id=%d: %v", req.TripID, err)
		}
	}
	if b.Events != nil {
		if err := b.Events.OrderCreated(order); err != nil {
			log.Printf("warn: publish order created order_id=%d: %v", order.OrderID, err)
		}
	}
	return order, nil
}
