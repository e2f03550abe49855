package repositories

import (
	"bus-ticket-service/internal/domain"
	"bus-ticket-service/internal/ports"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Postgres-backed implementation of the TripRepository port.
type PostgresTripRepository struct{ DB *sql.DB }

func NewPostgresTripRepository(db *sql.DB) *PostgresTripRepository {
	return &PostgresTripRepository{DB: db}
}

// CreateIfAbsent materializes a trip and its seat pool in one transaction.
//
// The uniqueness guard is the database's own: INSERT ... ON CONFLICT on
// the (template_id, departure_at) unique index. Two expander invocations
// racing on the same key cannot both insert; the loser sees no returned
// row and reports created=false. Seats are only generated alongside a
// winning insert, so a trip can never end up with a doubled seat pool.
func (r *PostgresTripRepository) CreateIfAbsent(ctx context.Context, trip ports.NewTrip) (bool, error) {
	if r.DB == nil {
		return false, errors.New("trip repository: DB is nil")
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("create trip: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var vehicleID any
	if trip.VehicleID > 0 {
		vehicleID = trip.VehicleID
	}
	// Manual trips carry no template; NULL also exempts them from the
	// uniqueness guard.
	var templateID any
	if trip.TemplateID > 0 {
		templateID = trip.TemplateID
	}

	var tripID int
	err = tx.QueryRowContext(ctx, `
	INSERT INTO trips (
		name, route_id, vehicle_id, driver_name, template_id,
		departure_at, arrival_at, state, is_sellable
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)
	ON CONFLICT (template_id, departure_at) DO NOTHING
	RETURNING trip_id;`,
		trip.Name, trip.RouteID, vehicleID, trip.DriverName, templateID,
		trip.DepartureAt, trip.ArrivalAt, string(trip.State),
	).Scan(&tripID)
	if errors.Is(err, sql.ErrNoRows) {
		// Conflict: an instance already exists for (template, departure).
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create trip: insert trips: %w", err)
	}

	if len(trip.Seats) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO seats (trip_id, number, pos_x, pos_y, state)
		VALUES ($1, $2, $3, $4, 'available');`)
		if err != nil {
			return false, fmt.Errorf("create trip: prepare seat insert: %w", err)
		}
		defer stmt.Close()

		for _, seat := range trip.Seats {
			if _, err := stmt.ExecContext(ctx, tripID, seat.Number, seat.PosX, seat.PosY); err != nil {
				return false, fmt.Errorf("create trip: insert seat %d: %w", seat.Number, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("create trip: commit tx: %w", err)
	}
	return true, nil
}

func (r *PostgresTripRepository) GetTrip(ctx context.Context, tripID int) (*domain.TripInstance, error) {
	if r.DB == nil {
		return nil, errors.New("trip repository: DB is nil")
	}

	t := &domain.TripInstance{}
	var templateID sql.NullInt64
	var state string
	err := r.DB.QueryRowContext(ctx, `
	SELECT trip_id, name, route_id, COALESCE(vehicle_id, 0), driver_name,
	       template_id, departure_at, arrival_at, state, is_sellable
	FROM trips WHERE trip_id = $1;`, tripID).
		Scan(&t.TripID, &t.Name, &t.RouteID, &t.VehicleID, &t.DriverName,
			&templateID, &t.DepartureAt, &t.ArrivalAt, &state, &t.IsSellable)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get trip %d: query trips: %w", tripID, err)
	}
	if templateID.Valid {
		id := int(templateID.Int64)
		t.TemplateID = &id
	}
	t.State = domain.TripState(state)
	return t, nil
}

// Sellable trips on the given routes within [from, to], ordered by
// departure. Cancelled and done trips never sell.
func (r *PostgresTripRepository) ListSellable(ctx context.Context, routeIDs []int, from, to time.Time) ([]*domain.TripInstance, error) {
	if r.DB == nil {
		return nil, errors.New("trip repository: DB is nil")
	}
	if len(routeIDs) == 0 {
		return []*domain.TripInstance{}, nil
	}

	placeholders := make([]string, len(routeIDs))
	args := []any{from, to}
	for i, id := range routeIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+3)
		args = append(args, id)
	}

	query := fmt.Sprintf(`
	SELECT trip_id, name, route_id, COALESCE(vehicle_id, 0), driver_name,
	       template_id, departure_at, arrival_at, state, is_sellable
	FROM trips
	WHERE is_sellable
	  AND state IN ('draft', 'confirmed', 'in_progress')
	  AND departure_at >= $1 AND departure_at <= $2
	  AND route_id IN (%s)
	ORDER BY departure_at;`, strings.Join(placeholders, ","))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sellable trips: query trips: %w", err)
	}
	defer rows.Close()

	trips := make([]*domain.TripInstance, 0, 16)
	for rows.Next() {
		t := &domain.TripInstance{}
		var templateID sql.NullInt64
		var state string
		err := rows.Scan(&t.TripID, &t.Name, &t.RouteID, &t.VehicleID, &t.DriverName,
			&templateID, &t.DepartureAt, &t.ArrivalAt, &state, &t.IsSellable)
		if err != nil {
			return nil, fmt.Errorf("list sellable trips: scan row: %w", err)
		}
		if templateID.Valid {
			id := int(templateID.Int64)
			t.TemplateID = &id
		}
		t.State = domain.TripState(state)
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sellable trips: row iteration: %w", err)
	}
	return trips, nil
}
