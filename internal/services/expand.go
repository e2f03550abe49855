package services

import (
	"bus-ticket-service/internal/domain"
	"bus-ticket-service/internal/platform/obs"
	"bus-ticket-service/internal/ports"
	"context"
	"fmt"
	"log"
	"time"
)

// CandidateDepartures computes the departure timestamps a template yields
// inside [from, to], honoring the weekday mask, the validity window, and
// exception dates. Pure; materialization is the Expander's job.
//
// An inverted window (from after to) or an all-false mask yields an empty
// result, not an error.
func CandidateDepartures(t *domain.TripTemplate, from, to time.Time) []time.Time {
	var out []time.Time
	day := domain.DateOnly(from)
	end := domain.DateOnly(to)
	for !day.After(end) {
		if t.RunsOn(day) {
			out = append(out, t.DepartureAt(day))
		}
		day = day.AddDate(0, 0, 1)
	}
	return out
}

// ExpanderMetrics receives expansion outcome counts. Nil-safe at the
// call sites in Expander.
type ExpanderMetrics interface {
	TripsCreatedInc()
	TripsSkippedInc()
	ExpansionObserve(d time.Duration)
}

// Expander turns trip templates into concrete trip instances.
//
// It serves two independent triggers: the periodic batch job over a long
// horizon and the on-demand single-date call issued during trip search.
// Both run through the same guard and creation path; the repository's
// atomic insert-if-absent makes overlapping invocations safe.
type Expander struct {
	Templates ports.TemplateRepository
	Routes    ports.RouteRepository
	Vehicles  ports.VehicleRepository
	Trips     ports.TripRepository
	Metrics   ExpanderMetrics
}

// ExpandHorizon materializes trips for every active template across
// [from, to]. Returns the number of trips created.
func (e *Expander) ExpandHorizon(ctx context.Context, from, to time.Time) (_ int, err error) {
	defer obs.Time(ctx, "expander.ExpandHorizon")(&err)
	start := time.Now()
	defer func() {
		if e.Metrics != nil {
			e.Metrics.ExpansionObserve(time.Since(start))
		}
	}()

	templates, err := e.Templates.ListActiveTemplates(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("expand horizon: list templates: %w", err)
	}

	created := 0
	for _, tpl := range templates {
		n, err := e.expandTemplate(ctx, tpl, from, to)
		if err != nil {
			return created, fmt.Errorf("expand horizon: template %d: %w", tpl.TemplateID, err)
		}
		created += n
	}
	return created, nil
}

// EnsureInstances materializes trips for a single target date on the given
// routes. Called synchronously by the search flow, so the window is as
// narrow as possible. An empty routeIDs slice covers all routes.
func (e *Expander) EnsureInstances(ctx context.Context, date time.Time, routeIDs []int) (_ int, err error) {
	defer obs.Time(ctx, "expander.EnsureInstances")(&err)

	templates, err := e.Templates.ListActiveTemplates(ctx, routeIDs)
	if err != nil {
		return 0, fmt.Errorf("ensure instances: list templates: %w", err)
	}

	day := domain.DateOnly(date)
	created := 0
	for _, tpl := range templates {
		n, err := e.expandTemplate(ctx, tpl, day, day)
		if err != nil {
			return created, fmt.Errorf("ensure instances: template %d: %w", tpl.TemplateID, err)
		}
		created += n
	}
	return created, nil
}

// expandTemplate runs one template over a window. Trips are created in
// confirmed state with the seat pool copied from the vehicle layout; a
// vehicle without a layout yields a trip with no seats.
func (e *Expander) expandTemplate(ctx context.Context, tpl *domain.TripTemplate, from, to time.Time) (int, error) {
	departures := CandidateDepartures(tpl, from, to)
	if len(departures) == 0 {
		return 0, nil
	}

	route, err := e.Routes.GetRoute(ctx, tpl.RouteID)
	if err != nil {
		return 0, fmt.Errorf("get route %d: %w", tpl.RouteID, err)
	}

	var seats []domain.SeatPosition
	if tpl.VehicleID != 0 {
		vehicle, err := e.Vehicles.GetVehicle(ctx, tpl.VehicleID)
		if err != nil {
			return 0, fmt.Errorf("get vehicle %d: %w", tpl.VehicleID, err)
		}
		if vehicle.Layout != nil {
			seats = domain.BuildSeatGrid(vehicle.Layout.TotalSeats())
		} else {
			log.Printf("template_id=%d vehicle_id=%d has no seat layout, trips created without seats", tpl.TemplateID, tpl.VehicleID)
		}
	}

	created := 0
	for _, dep := range departures {
		trip := ports.NewTrip{
			Name:        domain.TripName(route.Name, dep),
			RouteID:     tpl.RouteID,
			VehicleID:   tpl.VehicleID,
			DriverName:  tpl.DriverName,
			TemplateID:  tpl.TemplateID,
			DepartureAt: dep,
			ArrivalAt:   ArrivalTime(dep, route),
			State:       domain.TripConfirmed,
			Seats:       seats,
		}
		ok, err := e.Trips.CreateIfAbsent(ctx, trip)
		if err != nil {
			return created, fmt.Errorf("create trip at %s: %w", dep.Format(time.RFC3339), err)
		}
		if ok {
			created++
			if e.Metrics != nil {
				e.Metrics.TripsCreatedInc()
			}
		} else if e.Metrics != nil {
			e.Metrics.TripsSkippedInc()
		}
	}
	return created, nil
}
