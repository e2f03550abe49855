package repositories

import (
	"bus-ticket-service/internal/domain"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Postgres-backed implementation of the CustomerRepository port.
type PostgresCustomerRepository struct{ DB *sql.DB }

func NewPostgresCustomerRepository(db *sql.DB) *PostgresCustomerRepository {
	return &PostgresCustomerRepository{DB: db}
}

// Match-or-create on the email unique key. The upsert makes concurrent
// calls for the same email converge on one row; an existing customer's
// name and phone are left as they are.
func (r *PostgresCustomerRepository) FindOrCreateByEmail(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	if r.DB == nil {
		return nil, errors.New("customer repository: DB is nil")
	}
	if c.Email == "" {
		return nil, errors.New("find or create customer: email must not be empty")
	}

	out := &domain.Customer{}
	err := r.DB.QueryRowContext(ctx, `
	INSERT INTO customers (name, email, phone) VALUES ($1, $2, $3)
	ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
	RETURNING customer_id, name, email, phone;`,
		c.Name, c.Email, c.Phone).
		Scan(&out.CustomerID, &out.Name, &out.Email, &out.Phone)
	if err != nil {
		return nil, fmt.Errorf("find or create customer %q: %w", c.Email, err)
	}
	return out, nil
}
