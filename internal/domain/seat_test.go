package domain

import "testing"

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to SeatState }{
		{SeatAvailable, SeatReserved},
		{SeatAvailable, SeatSold},
		{SeatReserved, SeatSold},
	}
	for _, tr := range allowed {
		if !CanTransition(tr.from, tr.to) {
			t.Errorf("expected %s -> %s to be allowed", tr.from, tr.to)
		}
	}

	forbidden := []struct{ from, to SeatState }{
		{SeatReserved, SeatAvailable},
		{SeatSold, SeatAvailable},
		{SeatSold, SeatReserved},
		{SeatSold, SeatSold},
		{SeatAvailable, SeatAvailable},
	}
	for _, tr := range forbidden {
		if CanTransition(tr.from, tr.to) {
			t.Errorf("expected %s -> %s to be forbidden", tr.from, tr.to)
		}
	}
}

func TestBuildSeatGridSkipsAisle(t *testing.T) {
	grid := BuildSeatGrid(6)
	if len(grid) != 6 {
		t.Fatalf("expected 6 seats, got %d", len(grid))
	}

	want := []SeatPosition{
		{Number: 1, PosX: 0, PosY: 0},
		{Number: 2, PosX: 1, PosY: 0},
		{Number: 3, PosX: 3, PosY: 0},
		{Number: 4, PosX: 4, PosY: 0},
		{Number: 5, PosX: 0, PosY: 1},
		{Number: 6, PosX: 1, PosY: 1},
	}
	for i, w := range want {
		if grid[i] != w {
			t.Errorf("seat %d = %+v, want %+v", i+1, grid[i], w)
		}
	}

	// No seat may ever sit in the aisle column.
	for _, p := range BuildSeatGrid(41) {
		if p.PosX == 2 {
			t.Fatalf("seat %d placed in the aisle", p.Number)
		}
	}
}

func TestBuildSeatGridEmpty(t *testing.T) {
	if got := BuildSeatGrid(0); got != nil {
		t.Fatalf("expected nil for zero seats, got %v", got)
	}
	if got := BuildSeatGrid(-3); got != nil {
		t.Fatalf("expected nil for negative seats, got %v", got)
	}
}

func TestSeatName(t *testing.T) {
	s := Seat{Number: 12}
	if s.Name() != "Seat 12" {
		t.Fatalf("seat name = %q, want %q", s.Name(), "Seat 12")
	}
}
