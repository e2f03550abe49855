package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the Postgres schema. Statements are idempotent so the server
// and dbtool can both run this safely.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS stops (
			stop_id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			city TEXT NOT NULL
		);`,

		`CREATE TABLE IF NOT EXISTS routes (
			route_id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			company TEXT NOT NULL DEFAULT '',
			currency TEXT NOT NULL DEFAULT 'CZK'
		);`,

		`CREATE TABLE IF NOT EXISTS waypoints (
			waypoint_id SERIAL PRIMARY KEY,
			route_id INTEGER NOT NULL REFERENCES routes(route_id) ON DELETE CASCADE,
			stop_id INTEGER NOT NULL REFERENCES stops(stop_id),
			sequence INTEGER NOT NULL DEFAULT 10,
			day_offset INTEGER NOT NULL DEFAULT 0,
			time_offset DOUBLE PRECISION NOT NULL DEFAULT 0
		);`,

		`CREATE TABLE IF NOT EXISTS seat_layouts (
			layout_id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			layout_type TEXT NOT NULL DEFAULT '2-2'
		);`,

		`CREATE TABLE IF NOT EXISTS seat_layout_rows (
			layout_id INTEGER NOT NULL REFERENCES seat_layouts(layout_id) ON DELETE CASCADE,
			sequence INTEGER NOT NULL DEFAULT 10,
			row_name TEXT NOT NULL,
			seat_count INTEGER NOT NULL
		);`,

		`CREATE TABLE IF NOT EXISTS vehicles (
			vehicle_id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			license_plate TEXT NOT NULL DEFAULT '',
			layout_id INTEGER REFERENCES seat_layouts(layout_id)
		);`,

		`CREATE TABLE IF NOT EXISTS trip_templates (
			template_id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			route_id INTEGER NOT NULL REFERENCES routes(route_id),
			vehicle_id INTEGER REFERENCES vehicles(vehicle_id),
			driver_name TEXT NOT NULL DEFAULT '',
			departure_time_of_day DOUBLE PRECISION NOT NULL,
			monday BOOLEAN NOT NULL DEFAULT TRUE,
			tuesday BOOLEAN NOT NULL DEFAULT TRUE,
			wednesday BOOLEAN NOT NULL DEFAULT TRUE,
			thursday BOOLEAN NOT NULL DEFAULT TRUE,
			friday BOOLEAN NOT NULL DEFAULT TRUE,
			saturday BOOLEAN NOT NULL DEFAULT FALSE,
			sunday BOOLEAN NOT NULL DEFAULT FALSE,
			valid_from DATE,
			valid_to DATE,
			active BOOLEAN NOT NULL DEFAULT TRUE
		);`,

		`CREATE TABLE IF NOT EXISTS template_exceptions (
			template_id INTEGER NOT NULL REFERENCES trip_templates(template_id) ON DELETE CASCADE,
			date DATE NOT NULL,
			reason TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (template_id, date)
		);`,

		`CREATE TABLE IF NOT EXISTS trips (
			trip_id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			route_id INTEGER NOT NULL REFERENCES routes(route_id),
			vehicle_id INTEGER REFERENCES vehicles(vehicle_id),
			driver_name TEXT NOT NULL DEFAULT '',
			template_id INTEGER REFERENCES trip_templates(template_id) ON DELETE SET NULL,
			departure_at TIMESTAMPTZ NOT NULL,
			arrival_at TIMESTAMPTZ NOT NULL,
			state TEXT NOT NULL DEFAULT 'draft',
			is_sellable BOOLEAN NOT NULL DEFAULT TRUE
		);`,

		// The expansion idempotency key. NULL template_id rows (manual
		// trips) are exempt because unique indexes ignore NULLs.
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_trips_template_departure
			ON trips(template_id, departure_at);`,

		`CREATE TABLE IF NOT EXISTS seats (
			seat_id SERIAL PRIMARY KEY,
			trip_id INTEGER NOT NULL REFERENCES trips(trip_id) ON DELETE CASCADE,
			number INTEGER NOT NULL,
			pos_x INTEGER NOT NULL DEFAULT 0,
			pos_y INTEGER NOT NULL DEFAULT 0,
			state TEXT NOT NULL DEFAULT 'available'
		);`,

		`CREATE INDEX IF NOT EXISTS idx_seats_trip ON seats(trip_id);`,

		`CREATE TABLE IF NOT EXISTS customers (
			customer_id SERIAL PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL UNIQUE,
			phone TEXT NOT NULL DEFAULT ''
		);`,

		`CREATE TABLE IF NOT EXISTS orders (
			order_id SERIAL PRIMARY KEY,
			reference TEXT NOT NULL,
			customer_id INTEGER NOT NULL REFERENCES customers(customer_id),
			amount_total DOUBLE PRECISION NOT NULL DEFAULT 0,
			currency TEXT NOT NULL DEFAULT 'CZK',
			state TEXT NOT NULL DEFAULT 'reserved',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,

		`CREATE TABLE IF NOT EXISTS order_lines (
			line_id SERIAL PRIMARY KEY,
			order_id INTEGER NOT NULL REFERENCES orders(order_id) ON DELETE CASCADE,
			trip_id INTEGER NOT NULL REFERENCES trips(trip_id),
			seat_id INTEGER NOT NULL REFERENCES seats(seat_id),
			description TEXT NOT NULL DEFAULT '',
			price_unit DOUBLE PRECISION NOT NULL DEFAULT 0
		);`,

		`CREATE TABLE IF NOT EXISTS prices (
			route_id INTEGER NOT NULL REFERENCES routes(route_id) ON DELETE CASCADE,
			stop_from_id INTEGER NOT NULL REFERENCES stops(stop_id),
			stop_to_id INTEGER NOT NULL REFERENCES stops(stop_id),
			price DOUBLE PRECISION NOT NULL DEFAULT 0,
			PRIMARY KEY (route_id, stop_from_id, stop_to_id)
		);`,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
