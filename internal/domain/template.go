package domain

import (
	"math"
	"time"
)

// WeekdayIndex maps time.Weekday onto the template's Monday-first mask
// index (Monday=0 .. Sunday=6).
func WeekdayIndex(d time.Weekday) int {
	// time.Weekday has Sunday=0; the mask is Monday-first.
	return (int(d) + 6) % 7
}

// ExceptionDate is a calendar date on which a template must not generate a
// trip, regardless of weekday match.
type ExceptionDate struct {
	TemplateID int
	Date       time.Time
	Reason     string
}

// TripTemplate is a recurrence rule that generates concrete trips.
//
// DepartureTimeOfDay is expressed in fractional hours from midnight
// (14.5 means 14:30). Weekdays is a fixed seven-slot mask indexed
// Monday-first. ValidFrom/ValidTo bound the generation window; nil means
// unbounded on that side. Templates are soft-disabled via Active rather
// than deleted, since historical trips reference them.
type TripTemplate struct {
	TemplateID         int
	Name               string
	RouteID            int
	VehicleID          int
	DriverName         string
	DepartureTimeOfDay float64
	Weekdays           [7]bool
	ValidFrom          *time.Time
	ValidTo            *time.Time
	Active             bool
	Exceptions         []ExceptionDate
}

// DepartureClock decomposes the fractional time-of-day into hour and
// minute. The minute is rounded, not truncated, so 14.499 maps to 14:30.
func (t *TripTemplate) DepartureClock() (hour, minute int) {
	hour = int(math.Floor(t.DepartureTimeOfDay))
	minute = int(math.Round(math.Mod(t.DepartureTimeOfDay*60, 60)))
	if minute == 60 {
		hour++
		minute = 0
	}
	return hour, minute
}

// DepartureAt combines a calendar date with the template's time-of-day.
// The date's own clock component is discarded.
func (t *TripTemplate) DepartureAt(date time.Time) time.Time {
	h, m := t.DepartureClock()
	y, mo, d := date.Date()
	return time.Date(y, mo, d, h, m, 0, 0, date.Location())
}

// RunsOn reports whether the template generates a trip on the given date:
// the date must fall inside the validity window, its weekday must be set in
// the mask, and it must not be an exception date.
func (t *TripTemplate) RunsOn(date time.Time) bool {
	day := DateOnly(date)
	if t.ValidFrom != nil && day.Before(DateOnly(*t.ValidFrom)) {
		return false
	}
	if t.ValidTo != nil && day.After(DateOnly(*t.ValidTo)) {
		return false
	}
	if !t.Weekdays[WeekdayIndex(day.Weekday())] {
		return false
	}
	for _, ex := range t.Exceptions {
		if DateOnly(ex.Date).Equal(day) {
			return false
		}
	}
	return true
}

// DateOnly truncates a timestamp to midnight in its own location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
