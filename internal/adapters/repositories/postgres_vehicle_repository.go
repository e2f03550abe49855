package repositories

import (
	"bus-ticket-service/internal/domain"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Postgres-backed implementation of the VehicleRepository port.
type PostgresVehicleRepository struct{ DB *sql.DB }

func NewPostgresVehicleRepository(db *sql.DB) *PostgresVehicleRepository {
	return &PostgresVehicleRepository{DB: db}
}

func (r *PostgresVehicleRepository) GetVehicle(ctx context.Context, vehicleID int) (*domain.Vehicle, error) {
	if r.DB == nil {
		return nil, errors.New("vehicle repository: DB is nil")
	}

	v := &domain.Vehicle{}
	var layoutID sql.NullInt64
	err := r.DB.QueryRowContext(ctx, `
	SELECT vehicle_id, name, license_plate, layout_id
	FROM vehicles WHERE vehicle_id = $1;`, vehicleID).
		Scan(&v.VehicleID, &v.Name, &v.LicensePlate, &layoutID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Resource: "vehicle", ID: vehicleID}
	}
	if err != nil {
		return nil, fmt.Errorf("get vehicle %d: query vehicles: %w", vehicleID, err)
	}
	if !layoutID.Valid {
		return v, nil
	}

	layout := &domain.SeatLayout{LayoutID: int(layoutID.Int64)}
	err = r.DB.QueryRowContext(ctx, `
	SELECT name, layout_type FROM seat_layouts WHERE layout_id = $1;`, layout.LayoutID).
		Scan(&layout.Name, &layout.LayoutType)
	if errors.Is(err, sql.ErrNoRows) {
		// Dangling layout reference: treat as no layout rather than failing
		// trip generation.
		return v, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get vehicle %d: query layout %d: %w", vehicleID, layout.LayoutID, err)
	}

	rows, err := r.DB.QueryContext(ctx, `
	SELECT sequence, row_name, seat_count
	FROM seat_layout_rows
	WHERE layout_id = $1
	ORDER BY sequence;`, layout.LayoutID)
	if err != nil {
		return nil, fmt.Errorf("get vehicle %d: query layout rows: %w", vehicleID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var row domain.LayoutRow
		if err := rows.Scan(&row.Sequence, &row.RowName, &row.SeatCount); err != nil {
			return nil, fmt.Errorf("get vehicle %d: scan layout row: %w", vehicleID, err)
		}
		layout.Rows = append(layout.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get vehicle %d: layout row iteration: %w", vehicleID, err)
	}

	v.Layout = layout
	return v, nil
}
