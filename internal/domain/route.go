package domain

import "sort"

// A boarding point served by one or more routes. City is derived from the
// stop name (first comma-separated token) when the stop is written.
type Stop struct {
	StopID int
	Name   string
	City   string
}

// Waypoint is an ordered stop on a route. Offsets are cumulative from the
// route origin: DayOffset whole days plus TimeOffset fractional hours.
type Waypoint struct {
	WaypointID int
	RouteID    int
	StopID     int
	Sequence   int
	DayOffset  int
	TimeOffset float64
}

// Route is an ordered sequence of waypoints. Currency is carried explicitly
// per route rather than resolved from ambient company state.
type Route struct {
	RouteID   int
	Name      string
	Company   string
	Currency  string
	Waypoints []Waypoint
}

// SortWaypoints orders the waypoints by sequence. Repositories call this
// after loading so the first/last derivations below hold.
func (r *Route) SortWaypoints() {
	sort.Slice(r.Waypoints, func(i, j int) bool {
		if r.Waypoints[i].Sequence != r.Waypoints[j].Sequence {
			return r.Waypoints[i].Sequence < r.Waypoints[j].Sequence
		}
		return r.Waypoints[i].WaypointID < r.Waypoints[j].WaypointID
	})
}

// StartStopID returns the stop id of the first waypoint, or 0 when the
// route has no waypoints.
func (r *Route) StartStopID() int {
	if len(r.Waypoints) == 0 {
		return 0
	}
	return r.Waypoints[0].StopID
}

// EndStopID returns the stop id of the last waypoint, or 0 when the route
// has no waypoints.
func (r *Route) EndStopID() int {
	if len(r.Waypoints) == 0 {
		return 0
	}
	return r.Waypoints[len(r.Waypoints)-1].StopID
}

// LastWaypoint returns the waypoint with the highest sequence, or nil when
// the route has none. Its offsets define the total route duration.
func (r *Route) LastWaypoint() *Waypoint {
	if len(r.Waypoints) == 0 {
		return nil
	}
	return &r.Waypoints[len(r.Waypoints)-1]
}

// Schedulable reports whether the route can be priced or scheduled.
// A route needs at least two waypoints to have a start and an end.
func (r *Route) Schedulable() bool {
	return len(r.Waypoints) >= 2
}
