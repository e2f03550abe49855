package services

import (
	"bus-ticket-service/internal/adapters/repositories"
	"bus-ticket-service/internal/domain"
	"bus-ticket-service/internal/ports"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// createTrip materializes one manual trip with the given number of seats
// and returns its id plus the seat ids in seat-number order.
func createTrip(t *testing.T, store *repositories.MemoryStore, routeID, seatCount int) (int, []int) {
	t.Helper()
	ctx := context.Background()

	dep := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	created, err := store.CreateIfAbsent(ctx, ports.NewTrip{
		Name:        "Prague - Brno on 02.03.2026",
		RouteID:     routeID,
		VehicleID:   1,
		DepartureAt: dep,
		ArrivalAt:   dep.Add(150 * time.Minute),
		State:       domain.TripConfirmed,
		Seats:       domain.BuildSeatGrid(seatCount),
	})
	if err != nil || !created {
		t.Fatalf("create trip: created=%v err=%v", created, err)
	}

	trips, err := store.ListSellable(ctx, []int{routeID}, dep.AddDate(0, 0, -1), dep.AddDate(0, 0, 1))
	if err != nil || len(trips) == 0 {
		t.Fatalf("list trips: %v", err)
	}
	tripID := trips[len(trips)-1].TripID

	seats, err := store.ListSeats(ctx, tripID)
	if err != nil {
		t.Fatalf("list seats: %v", err)
	}
	seatIDs := make([]int, len(seats))
	for i, s := range seats {
		seatIDs[i] = s.SeatID
	}
	return tripID, seatIDs
}

func newBooking(store *repositories.MemoryStore) *Booking {
	return &Booking{
		Trips:     store,
		Routes:    store,
		Customers: store,
		Prices:    store,
		Orders:    store,
	}
}

func TestBookReservesSeats(t *testing.T) {
	store := newTimetableStore()
	store.PutPrice(1, 1, 2, 249)
	tripID, seatIDs := createTrip(t, store, 1, 8)

	b := newBooking(store)
	ctx := context.Background()

	order, err := b.Book(ctx, BookingRequest{
		TripID:  tripID,
		SeatIDs: seatIDs[:2],
		Customer: CustomerInfo{
			Name:  "Jan Novak",
			Email: "jan@example.com",
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if order.State != domain.OrderReserved {
		t.Errorf("order state = %s, want reserved", order.State)
	}
	if order.AmountTotal != 498 {
		t.Errorf("amount = %v, want 498", order.AmountTotal)
	}
	if order.Currency != "CZK" {
		t.Errorf("currency = %q, want CZK", order.Currency)
	}
	if len(order.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(order.Lines))
	}
	if order.Lines[0].Description != "Ticket: Prague - Brno on 02.03.2026 - Seat 1" {
		t.Errorf("line description = %q", order.Lines[0].Description)
	}
	if order.Reference == "" {
		t.Error("expected a non-empty order reference")
	}

	seats, _ := store.ListSeats(ctx, tripID)
	reserved := 0
	for _, s := range seats {
		if s.State == domain.SeatReserved {
			reserved++
		}
	}
	if reserved != 2 {
		t.Fatalf("reserved seats = %d, want 2", reserved)
	}
}

func TestBookConflictOnTakenSeat(t *testing.T) {
	store := newTimetableStore()
	store.PutPrice(1, 1, 2, 249)
	tripID, seatIDs := createTrip(t, store, 1, 4)

	b := newBooking(store)
	ctx := context.Background()

	if _, err := b.Book(ctx, BookingRequest{
		TripID:   tripID,
		SeatIDs:  []int{seatIDs[0]},
		Customer: CustomerInfo{Email: "first@example.com"},
	}); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	_, err := b.Book(ctx, BookingRequest{
		TripID:   tripID,
		SeatIDs:  []int{seatIDs[0], seatIDs[1]},
		Customer: CustomerInfo{Email: "second@example.com"},
	})
	var conflict *domain.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if len(conflict.SeatIDs) != 1 || conflict.SeatIDs[0] != seatIDs[0] {
		t.Fatalf("conflict seats = %v, want [%d]", conflict.SeatIDs, seatIDs[0])
	}

	// The losing booking must not have touched the free seat.
	seats, _ := store.ListSeats(ctx, tripID)
	for _, s := range seats {
		if s.SeatID == seatIDs[1] && s.State != domain.SeatAvailable {
			t.Fatalf("seat %d state = %s, want available", s.SeatID, s.State)
		}
	}
}

func TestBookUnknownTrip(t *testing.T) {
	store := newTimetableStore()
	b := newBooking(store)

	_, err := b.Book(context.Background(), BookingRequest{
		TripID:   42,
		SeatIDs:  []int{1},
		Customer: CustomerInfo{Email: "x@example.com"},
	})
	var notFound *domain.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestBookValidation(t *testing.T) {
	store := newTimetableStore()
	b := newBooking(store)
	ctx := context.Background()

	var validation *domain.ValidationError

	_, err := b.Book(ctx, BookingRequest{TripID: 1, Customer: CustomerInfo{Email: "x@example.com"}})
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError for empty seats, got %v", err)
	}

	_, err = b.Book(ctx, BookingRequest{TripID: 1, SeatIDs: []int{1}})
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError for missing email, got %v", err)
	}
}

func TestBookRejectsRepeatedSeat(t *testing.T) {
	store := newTimetableStore()
	store.PutPrice(1, 1, 2, 249)
	tripID, seatIDs := createTrip(t, store, 1, 4)

	b := newBooking(store)
	ctx := context.Background()

	_, err := b.Book(ctx, BookingRequest{
		TripID:   tripID,
		SeatIDs:  []int{seatIDs[0], seatIDs[0]},
		Customer: CustomerInfo{Email: "dup@example.com"},
	})
	var validation *domain.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError for repeated seat, got %v", err)
	}
	if validation.Field != "seat_ids" {
		t.Fatalf("validation field = %q, want seat_ids", validation.Field)
	}

	// Nothing may have been reserved by the rejected request.
	seats, _ := store.ListSeats(ctx, tripID)
	for _, s := range seats {
		if s.State != domain.SeatAvailable {
			t.Fatalf("seat %d state = %s, want available", s.SeatID, s.State)
		}
	}
}

func TestBookWithoutPriceFallsBackToZero(t *testing.T) {
	store := newTimetableStore()
	tripID, seatIDs := createTrip(t, store, 1, 4)

	b := newBooking(store)
	order, err := b.Book(context.Background(), BookingRequest{
		TripID:   tripID,
		SeatIDs:  seatIDs[:2],
		Customer: CustomerInfo{Email: "x@example.com"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.AmountTotal != 0 {
		t.Fatalf("amount = %v, want 0 when no price is defined", order.AmountTotal)
	}
}

func TestBookReusesCustomerByEmail(t *testing.T) {
	store := newTimetableStore()
	store.PutPrice(1, 1, 2, 249)
	tripID, seatIDs := createTrip(t, store, 1, 4)

	b := newBooking(store)
	ctx := context.Background()

	first, err := b.Book(ctx, BookingRequest{
		TripID:   tripID,
		SeatIDs:  []int{seatIDs[0]},
		Customer: CustomerInfo{Name: "Jan", Email: "jan@example.com"},
	})
	if err != nil {
		t.Fatalf("first booking: %v", err)
	}
	second, err := b.Book(ctx, BookingRequest{
		TripID:   tripID,
		SeatIDs:  []int{seatIDs[1]},
		Customer: CustomerInfo{Name: "Jan", Email: "JAN@example.com"},
	})
	if err != nil {
		t.Fatalf("second booking: %v", err)
	}
	if first.CustomerID != second.CustomerID {
		t.Fatalf("customer ids differ: %d vs %d", first.CustomerID, second.CustomerID)
	}
}

func TestBookConcurrentSingleSeat(t *testing.T) {
	store := newTimetableStore()
	store.PutPrice(1, 1, 2, 249)
	tripID, seatIDs := createTrip(t, store, 1, 4)

	b := newBooking(store)
	target := seatIDs[0]

	const attempts = 16
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := b.Book(context.Background(), BookingRequest{
				TripID:   tripID,
				SeatIDs:  []int{target},
				Customer: CustomerInfo{Email: fmt.Sprintf("racer%d@example.com", n)},
			})
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	wins, conflicts := 0, 0
	for err := range results {
		if err == nil {
			wins++
			continue
		}
		var conflict *domain.ConflictError
		if errors.As(err, &conflict) {
			conflicts++
			continue
		}
		t.Fatalf("unexpected error: %v", err)
	}
	if wins != 1 {
		t.Fatalf("winners = %d, want exactly 1", wins)
	}
	if conflicts != attempts-1 {
		t.Fatalf("conflicts = %d, want %d", conflicts, attempts-1)
	}
}
