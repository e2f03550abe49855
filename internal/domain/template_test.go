package domain

import (
	"testing"
	"time"
)

func TestWeekdayIndex(t *testing.T) {
	if got := WeekdayIndex(time.Monday); got != 0 {
		t.Fatalf("Monday index = %d, want 0", got)
	}
	if got := WeekdayIndex(time.Sunday); got != 6 {
		t.Fatalf("Sunday index = %d, want 6", got)
	}
	if got := WeekdayIndex(time.Wednesday); got != 2 {
		t.Fatalf("Wednesday index = %d, want 2", got)
	}
}

func TestDepartureClock(t *testing.T) {
	tpl := &TripTemplate{DepartureTimeOfDay: 14.5}
	h, m := tpl.DepartureClock()
	if h != 14 || m != 30 {
		t.Fatalf("14.5 -> %d:%02d, want 14:30", h, m)
	}

	// Float noise from upstream systems must still land on the minute.
	tpl.DepartureTimeOfDay = 14.499999
	h, m = tpl.DepartureClock()
	if h != 14 || m != 30 {
		t.Fatalf("14.499999 -> %d:%02d, want 14:30", h, m)
	}

	tpl.DepartureTimeOfDay = 9.25
	h, m = tpl.DepartureClock()
	if h != 9 || m != 15 {
		t.Fatalf("9.25 -> %d:%02d, want 9:15", h, m)
	}

	// Rounding up at the hour boundary carries into the hour.
	tpl.DepartureTimeOfDay = 10.9999
	h, m = tpl.DepartureClock()
	if h != 11 || m != 0 {
		t.Fatalf("10.9999 -> %d:%02d, want 11:00", h, m)
	}
}

func TestDepartureAtDiscardsClock(t *testing.T) {
	tpl := &TripTemplate{DepartureTimeOfDay: 8.5}
	date := time.Date(2026, 3, 2, 23, 59, 0, 0, time.UTC)

	got := tpl.DepartureAt(date)
	want := time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("DepartureAt = %v, want %v", got, want)
	}
}

func TestRunsOnWeekdayMask(t *testing.T) {
	tpl := &TripTemplate{
		Weekdays: [7]bool{true, false, true, false, true, false, false}, // Mon, Wed, Fri
	}

	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	if !tpl.RunsOn(monday) {
		t.Fatal("expected template to run on Monday")
	}
	tuesday := monday.AddDate(0, 0, 1)
	if tpl.RunsOn(tuesday) {
		t.Fatal("expected template not to run on Tuesday")
	}
}

func TestRunsOnAllFalseMask(t *testing.T) {
	tpl := &TripTemplate{}
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		if tpl.RunsOn(day.AddDate(0, 0, i)) {
			t.Fatalf("all-false mask ran on %v", day.AddDate(0, 0, i))
		}
	}
}

func TestRunsOnValidityWindow(t *testing.T) {
	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	tpl := &TripTemplate{
		Weekdays:  [7]bool{true, true, true, true, true, true, true},
		ValidFrom: &from,
		ValidTo:   &to,
	}

	if tpl.RunsOn(from.AddDate(0, 0, -1)) {
		t.Fatal("expected no run before valid_from")
	}
	if !tpl.RunsOn(from) {
		t.Fatal("expected run on valid_from itself")
	}
	if !tpl.RunsOn(to) {
		t.Fatal("expected run on valid_to itself")
	}
	if tpl.RunsOn(to.AddDate(0, 0, 1)) {
		t.Fatal("expected no run after valid_to")
	}
}

func TestRunsOnExceptionDate(t *testing.T) {
	day := time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC)
	tpl := &TripTemplate{
		Weekdays:   [7]bool{true, true, true, true, true, true, true},
		Exceptions: []ExceptionDate{{Date: day, Reason: "holiday"}},
	}

	if tpl.RunsOn(day) {
		t.Fatal("expected no run on exception date")
	}
	if !tpl.RunsOn(day.AddDate(0, 0, 1)) {
		t.Fatal("expected run on the day after the exception")
	}
}
