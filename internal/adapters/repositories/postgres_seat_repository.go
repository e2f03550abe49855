package repositories

import (
	"bus-ticket-service/internal/domain"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Postgres-backed implementation of the SeatRepository port.
type PostgresSeatRepository struct{ DB *sql.DB }

func NewPostgresSeatRepository(db *sql.DB) *PostgresSeatRepository {
	return &PostgresSeatRepository{DB: db}
}

func (r *PostgresSeatRepository) ListSeats(ctx context.Context, tripID int) ([]domain.Seat, error) {
	if r.DB == nil {
		return nil, errors.New("seat repository: DB is nil")
	}

	rows, err := r.DB.QueryContext(ctx, `
	SELECT seat_id, trip_id, number, pos_x, pos_y, state
	FROM seats
	WHERE trip_id = $1
	ORDER BY number;`, tripID)
	if err != nil {
		return nil, fmt.Errorf("list seats trip=%d: query seats: %w", tripID, err)
	}
	defer rows.Close()

	seats := make([]domain.Seat, 0, 48)
	for rows.Next() {
		var s domain.Seat
		var state string
		if err := rows.Scan(&s.SeatID, &s.TripID, &s.Number, &s.PosX, &s.PosY, &state); err != nil {
			return nil, fmt.Errorf("list seats trip=%d: scan row: %w", tripID, err)
		}
		s.State = domain.SeatState(state)
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list seats trip=%d: row iteration: %w", tripID, err)
	}
	return seats, nil
}
