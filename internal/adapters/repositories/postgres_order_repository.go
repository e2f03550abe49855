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

// Postgres-backed implementation of the OrderRepository port.
type PostgresOrderRepository struct{ DB *sql.DB }

func NewPostgresOrderRepository(db *sql.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{DB: db}
}

// CreateReservation is the seat-acquisition critical section.
//
// The seat rows are locked with SELECT ... FOR UPDATE before the
// availability check, so no concurrent transaction can observe the same
// "available" snapshot and also succeed: the loser blocks on the row lock
// and re-reads the winner's committed state. Validation failures roll the
// transaction back before any mutation, so no partial state is ever
// observable.
func (r *PostgresOrderRepository) CreateReservation(ctx context.Context, o ports.NewOrder) (*domain.Order, error) {
	if r.DB == nil {
		return nil, errors.New("order repository: DB is nil")
	}
	if len(o.SeatIDs) == 0 {
		return nil, errors.New("create reservation: seat ids must not be empty")
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("create reservation: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	placeholders := make([]string, len(o.SeatIDs))
	args := []any{o.TripID}
	for i, id := range o.SeatIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		args = append(args, id)
	}

	query := fmt.Sprintf(`
	SELECT seat_id, number, state
	FROM seats
	WHERE trip_id = $1 AND seat_id IN (%s)
	FOR UPDATE;`, strings.Join(placeholders, ","))

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("create reservation: lock seats: %w", err)
	}

	type lockedSeat struct {
		number int
		state  domain.SeatState
	}
	locked := make(map[int]lockedSeat, len(o.SeatIDs))
	for rows.Next() {
		var id, number int
		var state string
		if err := rows.Scan(&id, &number, &state); err != nil {
			rows.Close()
			return nil, fmt.Errorf("create reservation: scan seat: %w", err)
		}
		locked[id] = lockedSeat{number: number, state: domain.SeatState(state)}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("create reservation: seat iteration: %w", err)
	}
	rows.Close()

	for _, id := range o.SeatIDs {
		if _, ok := locked[id]; !ok {
			return nil, &domain.NotFoundError{Resource: "seat", ID: id}
		}
	}

	var conflicts []int
	for _, id := range o.SeatIDs {
		if locked[id].state != domain.SeatAvailable {
			conflicts = append(conflicts, id)
		}
	}
	if len(conflicts) > 0 {
		return nil, &domain.ConflictError{SeatIDs: conflicts}
	}

	total := o.PriceUnit * float64(len(o.SeatIDs))
	order := &domain.Order{
		CustomerID:  o.CustomerID,
		AmountTotal: total,
		Currency:    o.Currency,
		State:       domain.OrderReserved,
	}
	err = tx.QueryRowContext(ctx, `
	INSERT INTO orders (reference, customer_id, amount_total, currency, state)
	VALUES ('', $1, $2, $3, 'reserved')
	RETURNING order_id, created_at;`,
		o.CustomerID, total, o.Currency).Scan(&order.OrderID, &order.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create reservation: insert order: %w", err)
	}

	order.Reference = fmt.Sprintf("BT%05d", order.OrderID)
	if _, err := tx.ExecContext(ctx, `
	UPDATE orders SET reference = $1 WHERE order_id = $2;`,
		order.Reference, order.OrderID); err != nil {
		return nil, fmt.Errorf("create reservation: set reference: %w", err)
	}

	lineStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO order_lines (order_id, trip_id, seat_id, description, price_unit)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING line_id;`)
	if err != nil {
		return nil, fmt.Errorf("create reservation: prepare line insert: %w", err)
	}
	defer lineStmt.Close()

	for _, id := range o.SeatIDs {
		desc := fmt.Sprintf("Ticket: %s - Seat %d", o.TripName, locked[id].number)
		line := domain.OrderLine{
			OrderID:     order.OrderID,
			TripID:      o.TripID,
			SeatID:      id,
			Description: desc,
			PriceUnit:   o.PriceUnit,
		}
		if err := lineStmt.QueryRowContext(ctx, order.OrderID, o.TripID, id, desc, o.PriceUnit).Scan(&line.LineID); err != nil {
			return nil, fmt.Errorf("create reservation: insert line seat=%d: %w", id, err)
		}
		order.Lines = append(order.Lines, line)
	}

	// The rows are locked and verified available; the state guard is kept
	// anyway so the affected count re-proves the precondition.
	res, err := tx.ExecContext(ctx, fmt.Sprintf(`
	UPDATE seats SET state = 'reserved'
	WHERE trip_id = $1 AND seat_id IN (%s) AND state = 'available';`,
		strings.Join(placeholders, ",")), args...)
	if err != nil {
		return nil, fmt.Errorf("create reservation: reserve seats: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("create reservation: rows affected: %w", err)
	}
	if int(affected) != len(o.SeatIDs) {
		return nil, fmt.Errorf("create reservation: reserved %d of %d seats", affected, len(o.SeatIDs))
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create reservation: commit tx: %w", err)
	}
	return order, nil
}

func (r *PostgresOrderRepository) GetOrder(ctx context.Context, orderID int) (*domain.Order, error) {
	if r.DB == nil {
		return nil, errors.New("order repository: DB is nil")
	}

	order := &domain.Order{}
	var state string
	var createdAt time.Time
	err := r.DB.QueryRowContext(ctx, `
	SELECT order_id, reference, customer_id, amount_total, currency, state, created_at
	FROM orders WHERE order_id = $1;`, orderID).
		Scan(&order.OrderID, &order.Reference, &order.CustomerID,
			&order.AmountTotal, &order.Currency, &state, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Resource: "order", ID: orderID}
	}
	if err != nil {
		return nil, fmt.Errorf("get order %d: query orders: %w", orderID, err)
	}
	order.State = domain.OrderState(state)
	order.CreatedAt = createdAt

	rows, err := r.DB.QueryContext(ctx, `
	SELECT line_id, trip_id, seat_id, description, price_unit
	FROM order_lines WHERE order_id = $1 ORDER BY line_id;`, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order %d: query lines: %w", orderID, err)
	}
	defer rows.Close()

	for rows.Next() {
		line := domain.OrderLine{OrderID: orderID}
		if err := rows.Scan(&line.LineID, &line.TripID, &line.SeatID, &line.Description, &line.PriceUnit); err != nil {
			return nil, fmt.Errorf("get order %d: scan line: %w", orderID, err)
		}
		order.Lines = append(order.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get order %d: line iteration: %w", orderID, err)
	}
	return order, nil
}

// ConfirmOrder sells the order's reserved seats and marks the order
// confirmed, in one transaction. Already confirmed orders are a no-op so
// redelivered confirmation events stay harmless.
func (r *PostgresOrderRepository) ConfirmOrder(ctx context.Context, orderID int) error {
	if r.DB == nil {
		return errors.New("order repository: DB is nil")
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("confirm order %d: begin tx: %w", orderID, err)
	}
	defer func() { _ = tx.Rollback() }()

	var state string
	err = tx.QueryRowContext(ctx, `
	SELECT state FROM orders WHERE order_id = $1 FOR UPDATE;`, orderID).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.NotFoundError{Resource: "order", ID: orderID}
	}
	if err != nil {
		return fmt.Errorf("confirm order %d: lock order: %w", orderID, err)
	}
	if domain.OrderState(state) == domain.OrderConfirmed {
		return nil
	}

	if _, err := tx.ExecContext(ctx, `
	UPDATE seats SET state = 'sold'
	WHERE state = 'reserved'
	  AND seat_id IN (SELECT seat_id FROM order_lines WHERE order_id = $1);`, orderID); err != nil {
		return fmt.Errorf("confirm order %d: sell seats: %w", orderID, err)
	}

	if _, err := tx.ExecContext(ctx, `
	UPDATE orders SET state = 'confirmed' WHERE order_id = $1;`, orderID); err != nil {
		return fmt.Errorf("confirm order %d: update order: %w", orderID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("confirm order %d: commit tx: %w", orderID, err)
	}
	return nil
}
