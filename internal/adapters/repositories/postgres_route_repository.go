package repositories

import (
	"bus-ticket-service/internal/domain"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Postgres-backed implementation of the RouteRepository port.
type PostgresRouteRepository struct{ DB *sql.DB }

func NewPostgresRouteRepository(db *sql.DB) *PostgresRouteRepository {
	return &PostgresRouteRepository{DB: db}
}

func (r *PostgresRouteRepository) GetRoute(ctx context.Context, routeID int) (*domain.Route, error) {
	if r.DB == nil {
		return nil, errors.New("route repository: DB is nil")
	}

	route := &domain.Route{}
	err := r.DB.QueryRowContext(ctx, `
	SELECT route_id, name, company, currency FROM routes WHERE route_id = $1;`, routeID).
		Scan(&route.RouteID, &route.Name, &route.Company, &route.Currency)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Resource: "route", ID: routeID}
	}
	if err != nil {
		return nil, fmt.Errorf("get route %d: query routes: %w", routeID, err)
	}

	rows, err := r.DB.QueryContext(ctx, `
	SELECT waypoint_id, stop_id, sequence, day_offset, time_offset
	FROM waypoints
	WHERE route_id = $1
	ORDER BY sequence, waypoint_id;`, routeID)
	if err != nil {
		return nil, fmt.Errorf("get route %d: query waypoints: %w", routeID, err)
	}
	defer rows.Close()

	for rows.Next() {
		w := domain.Waypoint{RouteID: routeID}
		if err := rows.Scan(&w.WaypointID, &w.StopID, &w.Sequence, &w.DayOffset, &w.TimeOffset); err != nil {
			return nil, fmt.Errorf("get route %d: scan waypoint: %w", routeID, err)
		}
		route.Waypoints = append(route.Waypoints, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get route %d: waypoint iteration: %w", routeID, err)
	}

	route.SortWaypoints()
	return route, nil
}

// Distinct non-empty stop cities, ordered.
func (r *PostgresRouteRepository) ListCities(ctx context.Context) ([]string, error) {
	if r.DB == nil {
		return nil, errors.New("route repository: DB is nil")
	}

	rows, err := r.DB.QueryContext(ctx, `
	SELECT DISTINCT city FROM stops WHERE city <> '' ORDER BY city;`)
	if err != nil {
		return nil, fmt.Errorf("list cities: query stops: %w", err)
	}
	defer rows.Close()

	cities := make([]string, 0, 32)
	for rows.Next() {
		var city string
		if err := rows.Scan(&city); err != nil {
			return nil, fmt.Errorf("list cities: scan row: %w", err)
		}
		cities = append(cities, city)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cities: row iteration: %w", err)
	}
	return cities, nil
}
