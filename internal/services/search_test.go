package services

import (
	"bus-ticket-service/internal/domain"
	"context"
	"testing"
	"time"
)

func TestSearchMaterializesAndFindsTrips(t *testing.T) {
	store := newTimetableStore()
	store.PutPrice(1, 1, 2, 249)
	store.PutTemplate(&domain.TripTemplate{
		TemplateID:         1,
		RouteID:            1,
		VehicleID:          1,
		DepartureTimeOfDay: 8.0,
		Weekdays:           [7]bool{true, true, true, true, true, true, true},
		Active:             true,
	})

	s := &TripSearch{
		Prices:   store,
		Routes:   store,
		Trips:    store,
		Expander: newExpander(store),
	}

	target := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	results, err := s.Search(context.Background(), "Prague", "Brno", target)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 trip, got %d", len(results))
	}

	r := results[0]
	if !r.IsTargetDate {
		t.Error("expected the materialized trip to be flagged as target date")
	}
	if r.Price != 249 {
		t.Errorf("price = %v, want 249", r.Price)
	}
	if r.Currency != "CZK" {
		t.Errorf("currency = %q, want CZK", r.Currency)
	}
	wantDep := time.Date(2026, 3, 4, 8, 0, 0, 0, time.UTC)
	if !r.DepartureAt.Equal(wantDep) {
		t.Errorf("departure = %v, want %v", r.DepartureAt, wantDep)
	}
}

func TestSearchIncludesNeighborDays(t *testing.T) {
	store := newTimetableStore()
	store.PutPrice(1, 1, 2, 249)
	store.PutTemplate(&domain.TripTemplate{
		TemplateID:         1,
		RouteID:            1,
		VehicleID:          1,
		DepartureTimeOfDay: 8.0,
		Weekdays:           [7]bool{true, true, true, true, true, true, true},
		Active:             true,
	})

	e := newExpander(store)
	ctx := context.Background()

	// Pre-expand the surrounding week, as the background job would.
	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	if _, err := e.ExpandHorizon(ctx, from, from.AddDate(0, 0, 6)); err != nil {
		t.Fatalf("pre-expand: %v", err)
	}

	s := &TripSearch{Prices: store, Routes: store, Trips: store, Expander: e}
	target := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)

	results, err := s.Search(ctx, "Prague", "Brno", target)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Day before, target day, day after.
	if len(results) != 3 {
		t.Fatalf("expected 3 trips, got %d", len(results))
	}

	onTarget := 0
	for i, r := range results {
		if i > 0 && r.DepartureAt.Before(results[i-1].DepartureAt) {
			t.Fatal("results are not ordered by departure")
		}
		if r.IsTargetDate {
			onTarget++
		}
	}
	if onTarget != 1 {
		t.Fatalf("target-date trips = %d, want 1", onTarget)
	}
}

func TestSearchUnknownCityPair(t *testing.T) {
	store := newTimetableStore()
	store.PutPrice(1, 1, 2, 249)

	s := &TripSearch{Prices: store, Routes: store, Trips: store, Expander: newExpander(store)}

	results, err := s.Search(context.Background(), "Prague", "Atlantis", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no trips, got %d", len(results))
	}
}

func TestSearchUnpricedRouteExcluded(t *testing.T) {
	store := newTimetableStore()
	// Route exists and has a template, but no price row.
	store.PutTemplate(&domain.TripTemplate{
		TemplateID:         1,
		RouteID:            1,
		VehicleID:          1,
		DepartureTimeOfDay: 8.0,
		Weekdays:           [7]bool{true, true, true, true, true, true, true},
		Active:             true,
	})

	s := &TripSearch{Prices: store, Routes: store, Trips: store, Expander: newExpander(store)}

	results, err := s.Search(context.Background(), "Prague", "Brno", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected unpriced route to be excluded, got %d trips", len(results))
	}
}
