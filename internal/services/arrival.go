package services

import (
	"bus-ticket-service/internal/domain"
	"time"
)

// ArrivalTime derives a trip's arrival timestamp from its departure and
// the route's accumulated waypoint offsets: the last waypoint's day offset
// in whole days plus its time offset in fractional hours.
//
// A route without waypoints yields arrival == departure; that is a valid
// degenerate case, not an error. The function is pure so the ad-hoc
// recompute path and the bulk expansion path produce identical results.
func ArrivalTime(departureAt time.Time, route *domain.Route) time.Time {
	last := route.LastWaypoint()
	if last == nil {
		return departureAt
	}
	offset := time.Duration(last.DayOffset)*24*time.Hour +
		time.Duration(last.TimeOffset*float64(time.Hour))
	return departureAt.Add(offset)
}
