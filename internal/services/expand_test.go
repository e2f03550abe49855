package services

import (
	"bus-ticket-service/internal/adapters/repositories"
	"bus-ticket-service/internal/domain"
	"context"
	"testing"
	"time"
)

func newTimetableStore() *repositories.MemoryStore {
	store := repositories.NewMemoryStore()

	store.PutStop(domain.Stop{StopID: 1, Name: "Prague, Florenc", City: "Prague"})
	store.PutStop(domain.Stop{StopID: 2, Name: "Brno, Zvonarka", City: "Brno"})
	store.PutRoute(&domain.Route{
		RouteID:  1,
		Name:     "Prague - Brno",
		Currency: "CZK",
		Waypoints: []domain.Waypoint{
			{WaypointID: 1, RouteID: 1, StopID: 1, Sequence: 1},
			{WaypointID: 2, RouteID: 1, StopID: 2, Sequence: 2, TimeOffset: 2.5},
		},
	})
	store.PutVehicle(&domain.Vehicle{
		VehicleID: 1,
		Name:      "Coach",
		Layout: &domain.SeatLayout{
			LayoutID:   1,
			LayoutType: "2-2",
			Rows: []domain.LayoutRow{
				{Sequence: 1, RowName: "1", SeatCount: 4},
				{Sequence: 2, RowName: "2", SeatCount: 4},
			},
		},
	})
	return store
}

func newExpander(store *repositories.MemoryStore) *Expander {
	return &Expander{
		Templates: store,
		Routes:    store,
		Vehicles:  store,
		Trips:     store,
	}
}

func TestCandidateDepartures(t *testing.T) {
	tpl := &domain.TripTemplate{
		DepartureTimeOfDay: 14.5,
		Weekdays:           [7]bool{true, false, true, false, true, false, false}, // Mon, Wed, Fri
	}

	// 2026-03-02 is a Monday.
	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 6)

	got := CandidateDepartures(tpl, from, to)
	if len(got) != 3 {
		t.Fatalf("expected 3 departures, got %d", len(got))
	}
	want := []time.Time{
		time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC),
		time.Date(2026, 3, 4, 14, 30, 0, 0, time.UTC),
		time.Date(2026, 3, 6, 14, 30, 0, 0, time.UTC),
	}
	for i, w := range want {
		if !got[i].Equal(w) {
			t.Errorf("departure %d = %v, want %v", i, got[i], w)
		}
	}
}

func TestCandidateDeparturesInvertedWindow(t *testing.T) {
	tpl := &domain.TripTemplate{
		Weekdays: [7]bool{true, true, true, true, true, true, true},
	}
	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	if got := CandidateDepartures(tpl, from, from.AddDate(0, 0, -3)); len(got) != 0 {
		t.Fatalf("inverted window produced %d departures", len(got))
	}
}

func TestExpandHorizonMaterializesTrips(t *testing.T) {
	store := newTimetableStore()
	store.PutTemplate(&domain.TripTemplate{
		TemplateID:         1,
		Name:               "Morning run",
		RouteID:            1,
		VehicleID:          1,
		DriverName:         "Karel",
		DepartureTimeOfDay: 8.0,
		Weekdays:           [7]bool{true, false, true, false, true, false, false},
		Active:             true,
	})

	e := newExpander(store)
	ctx := context.Background()

	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC) // Monday
	to := from.AddDate(0, 0, 6)

	created, err := e.ExpandHorizon(ctx, from, to)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created != 3 {
		t.Fatalf("created = %d, want 3", created)
	}

	trips, err := store.ListSellable(ctx, []int{1}, from, to.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("list sellable: %v", err)
	}
	if len(trips) != 3 {
		t.Fatalf("expected 3 sellable trips, got %d", len(trips))
	}

	first := trips[0]
	if first.Name != "Prague - Brno on 02.03.2026" {
		t.Errorf("trip name = %q", first.Name)
	}
	wantDep := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	if !first.DepartureAt.Equal(wantDep) {
		t.Errorf("departure = %v, want %v", first.DepartureAt, wantDep)
	}
	wantArr := wantDep.Add(2*time.Hour + 30*time.Minute)
	if !first.ArrivalAt.Equal(wantArr) {
		t.Errorf("arrival = %v, want %v", first.ArrivalAt, wantArr)
	}
	if first.State != domain.TripConfirmed {
		t.Errorf("state = %s, want confirmed", first.State)
	}

	seats, err := store.ListSeats(ctx, first.TripID)
	if err != nil {
		t.Fatalf("list seats: %v", err)
	}
	if len(seats) != 8 {
		t.Fatalf("expected 8 seats, got %d", len(seats))
	}
	for _, s := range seats {
		if s.State != domain.SeatAvailable {
			t.Errorf("seat %d state = %s, want available", s.Number, s.State)
		}
	}
}

func TestExpandHorizonIdempotent(t *testing.T) {
	store := newTimetableStore()
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
	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 6)

	if created, err := e.ExpandHorizon(ctx, from, to); err != nil || created != 7 {
		t.Fatalf("first run created=%d err=%v, want 7", created, err)
	}
	if created, err := e.ExpandHorizon(ctx, from, to); err != nil || created != 0 {
		t.Fatalf("second run created=%d err=%v, want 0", created, err)
	}

	// A widened window only adds the new days.
	if created, err := e.ExpandHorizon(ctx, from, to.AddDate(0, 0, 2)); err != nil || created != 2 {
		t.Fatalf("widened run created=%d err=%v, want 2", created, err)
	}
}

func TestExpandHorizonHonorsExceptions(t *testing.T) {
	store := newTimetableStore()
	store.PutTemplate(&domain.TripTemplate{
		TemplateID:         1,
		RouteID:            1,
		VehicleID:          1,
		DepartureTimeOfDay: 17.5,
		Weekdays:           [7]bool{true, true, true, true, true, true, true},
		Active:             true,
		Exceptions: []domain.ExceptionDate{
			{TemplateID: 1, Date: time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)},
		},
	})

	e := newExpander(store)
	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	created, err := e.ExpandHorizon(context.Background(), from, from.AddDate(0, 0, 4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created != 4 {
		t.Fatalf("created = %d, want 4 (5 days minus 1 exception)", created)
	}
}

func TestExpandSkipsInactiveTemplates(t *testing.T) {
	store := newTimetableStore()
	store.PutTemplate(&domain.TripTemplate{
		TemplateID:         1,
		RouteID:            1,
		VehicleID:          1,
		DepartureTimeOfDay: 8.0,
		Weekdays:           [7]bool{true, true, true, true, true, true, true},
		Active:             false,
	})

	e := newExpander(store)
	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	created, err := e.ExpandHorizon(context.Background(), from, from.AddDate(0, 0, 6))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created != 0 {
		t.Fatalf("created = %d for inactive template, want 0", created)
	}
}

func TestEnsureInstancesSingleDate(t *testing.T) {
	store := newTimetableStore()
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
	date := time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC) // clock part must be irrelevant

	if created, err := e.EnsureInstances(ctx, date, []int{1}); err != nil || created != 1 {
		t.Fatalf("created=%d err=%v, want 1", created, err)
	}
	if created, err := e.EnsureInstances(ctx, date, []int{1}); err != nil || created != 0 {
		t.Fatalf("repeat created=%d err=%v, want 0", created, err)
	}

	// A different route filter must not touch this template.
	if created, err := e.EnsureInstances(ctx, date.AddDate(0, 0, 1), []int{99}); err != nil || created != 0 {
		t.Fatalf("foreign route created=%d err=%v, want 0", created, err)
	}
}
