package services

import (
	"bus-ticket-service/internal/domain"
	"testing"
	"time"
)

func TestArrivalTimeAccumulatesOffsets(t *testing.T) {
	route := &domain.Route{
		RouteID: 1,
		Waypoints: []domain.Waypoint{
			{Sequence: 1, DayOffset: 0, TimeOffset: 0},
			{Sequence: 2, DayOffset: 0, TimeOffset: 5.25},
			{Sequence: 3, DayOffset: 1, TimeOffset: 0.5},
		},
	}

	depart := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	got := ArrivalTime(depart, route)
	want := time.Date(2024, 1, 2, 10, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("arrival = %v, want %v", got, want)
	}
}

func TestArrivalTimeSameDay(t *testing.T) {
	route := &domain.Route{
		Waypoints: []domain.Waypoint{
			{Sequence: 1, DayOffset: 0, TimeOffset: 0},
			{Sequence: 2, DayOffset: 0, TimeOffset: 2.5},
		},
	}

	depart := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	got := ArrivalTime(depart, route)
	want := time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("arrival = %v, want %v", got, want)
	}
}

func TestArrivalTimeNoWaypoints(t *testing.T) {
	depart := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	if got := ArrivalTime(depart, &domain.Route{}); !got.Equal(depart) {
		t.Fatalf("arrival = %v, want departure %v", got, depart)
	}
}
