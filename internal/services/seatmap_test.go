package services

import (
	"bus-ticket-service/internal/domain"
	"context"
	"errors"
	"testing"
)

// mapCache is a trivial SeatMapCache for asserting cache interaction.
type mapCache struct {
	data map[int][]byte
	puts int
}

func newMapCache() *mapCache { return &mapCache{data: map[int][]byte{}} }

func (c *mapCache) Get(_ context.Context, tripID int) ([]byte, bool, error) {
	b, ok := c.data[tripID]
	return b, ok, nil
}

func (c *mapCache) Put(_ context.Context, tripID int, payload []byte) error {
	c.data[tripID] = payload
	c.puts++
	return nil
}

func (c *mapCache) Invalidate(_ context.Context, tripID int) error {
	delete(c.data, tripID)
	return nil
}

func TestSeatMapGet(t *testing.T) {
	store := newTimetableStore()
	tripID, _ := createTrip(t, store, 1, 8)

	sm := &SeatMap{Trips: store, Seats: store, Vehicles: store}
	res, err := sm.Get(context.Background(), tripID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Seats) != 8 {
		t.Fatalf("expected 8 seats, got %d", len(res.Seats))
	}
	if res.Layout.Type != "2-2" {
		t.Errorf("layout type = %q, want 2-2", res.Layout.Type)
	}
	if res.Layout.MaxX != 4 || res.Layout.MaxY != 1 {
		t.Errorf("bounds = (%d, %d), want (4, 1)", res.Layout.MaxX, res.Layout.MaxY)
	}
	if res.Seats[0].Name != "Seat 1" || res.Seats[0].State != "available" {
		t.Errorf("first seat = %+v", res.Seats[0])
	}
}

func TestSeatMapUnknownTrip(t *testing.T) {
	store := newTimetableStore()
	sm := &SeatMap{Trips: store, Seats: store, Vehicles: store}

	_, err := sm.Get(context.Background(), 404)
	var notFound *domain.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestSeatMapCacheRoundTrip(t *testing.T) {
	store := newTimetableStore()
	tripID, _ := createTrip(t, store, 1, 4)

	cache := newMapCache()
	sm := &SeatMap{Trips: store, Seats: store, Vehicles: store, Cache: cache}
	ctx := context.Background()

	first, err := sm.Get(ctx, tripID)
	if err != nil {
		t.Fatalf("first get: %v", err)
	}
	if cache.puts != 1 {
		t.Fatalf("cache puts = %d, want 1", cache.puts)
	}

	// The second read is served from the cache.
	second, err := sm.Get(ctx, tripID)
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if cache.puts != 1 {
		t.Fatalf("cache puts after hit = %d, want 1", cache.puts)
	}
	if len(second.Seats) != len(first.Seats) {
		t.Fatalf("cached seat count %d, want %d", len(second.Seats), len(first.Seats))
	}
}

func TestBookingInvalidatesSeatMapCache(t *testing.T) {
	store := newTimetableStore()
	store.PutPrice(1, 1, 2, 249)
	tripID, seatIDs := createTrip(t, store, 1, 4)

	cache := newMapCache()
	sm := &SeatMap{Trips: store, Seats: store, Vehicles: store, Cache: cache}
	ctx := context.Background()

	if _, err := sm.Get(ctx, tripID); err != nil {
		t.Fatalf("warm cache: %v", err)
	}

	b := newBooking(store)
	b.Cache = cache
	if _, err := b.Book(ctx, BookingRequest{
		TripID:   tripID,
		SeatIDs:  []int{seatIDs[0]},
		Customer: CustomerInfo{Email: "jan@example.com"},
	}); err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	res, err := sm.Get(ctx, tripID)
	if err != nil {
		t.Fatalf("get after booking: %v", err)
	}
	reserved := 0
	for _, s := range res.Seats {
		if s.State == "reserved" {
			reserved++
		}
	}
	if reserved != 1 {
		t.Fatalf("seat map shows %d reserved seats, want 1", reserved)
	}
}
