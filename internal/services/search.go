package services

import (
	"bus-ticket-service/internal/domain"
	"bus-ticket-service/internal/platform/obs"
	"bus-ticket-service/internal/ports"
	"context"
	"fmt"
	"sort"
	"time"
)

// SearchResult is one trip matching a city-pair search, with its route
// price attached.
type SearchResult struct {
	TripID       int
	Name         string
	RouteID      int
	DepartureAt  time.Time
	ArrivalAt    time.Time
	Price        float64
	Currency     string
	IsTargetDate bool
}

// TripSearch finds sellable trips between two cities around a target date.
// Before querying it calls the expander's narrow on-demand path so trips
// the timetable implies but has not yet materialized show up in results.
type TripSearch struct {
	Prices   ports.PriceRepository
	Routes   ports.RouteRepository
	Trips    ports.TripRepository
	Expander *Expander
}

// Search returns trips on priced routes for the city pair, departing from
// one day before to one day after the target date, ordered by departure.
// A city pair with no priced route yields an empty result.
func (s *TripSearch) Search(ctx context.Context, fromCity, toCity string, date time.Time) (_ []SearchResult, err error) {
	defer obs.Time(ctx, "search.Search")(&err)

	priceByRoute, err := s.Prices.RoutePrices(ctx, fromCity, toCity)
	if err != nil {
		return nil, fmt.Errorf("search trips: route prices %q -> %q: %w", fromCity, toCity, err)
	}
	if len(priceByRoute) == 0 {
		return []SearchResult{}, nil
	}

	routeIDs := make([]int, 0, len(priceByRoute))
	for id := range priceByRoute {
		routeIDs = append(routeIDs, id)
	}
	sort.Ints(routeIDs)

	if _, err := s.Expander.EnsureInstances(ctx, date, routeIDs); err != nil {
		return nil, fmt.Errorf("search trips: ensure instances: %w", err)
	}

	day := domain.DateOnly(date)
	from := day.AddDate(0, 0, -1)
	to := day.AddDate(0, 0, 2).Add(-time.Nanosecond)
	trips, err := s.Trips.ListSellable(ctx, routeIDs, from, to)
	if err != nil {
		return nil, fmt.Errorf("search trips: list sellable: %w", err)
	}

	routeCurrency := map[int]string{}
	results := make([]SearchResult, 0, len(trips))
	for _, trip := range trips {
		currency, ok := routeCurrency[trip.RouteID]
		if !ok {
			route, err := s.Routes.GetRoute(ctx, trip.RouteID)
			if err != nil {
				return nil, fmt.Errorf("search trips: get route %d: %w", trip.RouteID, err)
			}
			currency = route.Currency
			routeCurrency[trip.RouteID] = currency
		}
		results = append(results, SearchResult{
			TripID:       trip.TripID,
			Name:         trip.Name,
			RouteID:      trip.RouteID,
			DepartureAt:  trip.DepartureAt,
			ArrivalAt:    trip.ArrivalAt,
			Price:        priceByRoute[trip.RouteID],
			Currency:     currency,
			IsTargetDate: sameDate(trip.DepartureAt, date),
		})
	}
	return results, nil
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
