package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Postgres-backed implementation of the PriceRepository port.
type PostgresPriceRepository struct{ DB *sql.DB }

func NewPostgresPriceRepository(db *sql.DB) *PostgresPriceRepository {
	return &PostgresPriceRepository{DB: db}
}

func (r *PostgresPriceRepository) PriceFor(ctx context.Context, routeID, stopFromID, stopToID int) (float64, bool, error) {
	if r.DB == nil {
		return 0, false, errors.New("price repository: DB is nil")
	}

	var price float64
	err := r.DB.QueryRowContext(ctx, `
	SELECT price FROM prices
	WHERE route_id = $1 AND stop_from_id = $2 AND stop_to_id = $3;`,
		routeID, stopFromID, stopToID).Scan(&price)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("price for route=%d from=%d to=%d: %w", routeID, stopFromID, stopToID, err)
	}
	return price, true, nil
}

// Route id -> price for routes priced between the two cities. Matching is
// a case-insensitive substring match on the stop cities of the price row.
func (r *PostgresPriceRepository) RoutePrices(ctx context.Context, fromCity, toCity string) (map[int]float64, error) {
	if r.DB == nil {
		return nil, errors.New("price repository: DB is nil")
	}

	rows, err := r.DB.QueryContext(ctx, `
	SELECT p.route_id, p.price
	FROM prices p
	JOIN stops sf ON sf.stop_id = p.stop_from_id
	JOIN stops st ON st.stop_id = p.stop_to_id
	WHERE sf.city ILIKE '%' || $1 || '%'
	  AND st.city ILIKE '%' || $2 || '%'
	ORDER BY p.route_id, p.stop_from_id, p.stop_to_id;`, fromCity, toCity)
	if err != nil {
		return nil, fmt.Errorf("route prices %q -> %q: query prices: %w", fromCity, toCity, err)
	}
	defer rows.Close()

	out := map[int]float64{}
	for rows.Next() {
		var routeID int
		var price float64
		if err := rows.Scan(&routeID, &price); err != nil {
			return nil, fmt.Errorf("route prices %q -> %q: scan row: %w", fromCity, toCity, err)
		}
		// Multiple segment prices can exist per route; the ORDER BY makes
		// the lowest (stop_from_id, stop_to_id) pair win for each route.
		if _, ok := out[routeID]; !ok {
			out[routeID] = price
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("route prices %q -> %q: row iteration: %w", fromCity, toCity, err)
	}
	return out, nil
}
