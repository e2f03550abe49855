package domain

import (
	"fmt"
	"time"
)

// Trip lifecycle states.
type TripState string

const (
	TripDraft      TripState = "draft"
	TripConfirmed  TripState = "confirmed"
	TripInProgress TripState = "in_progress"
	TripDone       TripState = "done"
	TripCancelled  TripState = "cancelled"
)

// TripInstance is one concrete, schedulable departure, either materialized
// from a template or created directly. TemplateID is nil for manual trips;
// generated trips are unique per (template, departure) pair.
type TripInstance struct {
	TripID      int
	Name        string
	RouteID     int
	VehicleID   int
	DriverName  string
	TemplateID  *int
	DepartureAt time.Time
	ArrivalAt   time.Time
	State       TripState
	IsSellable  bool
}

// TripName formats the display name assigned at creation.
func TripName(routeName string, departureAt time.Time) string {
	return fmt.Sprintf("%s on %s", routeName, departureAt.Format("02.01.2006"))
}
