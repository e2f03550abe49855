package repositories

import (
	"bus-ticket-service/internal/domain"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Postgres-backed implementation of the TemplateRepository port.
type PostgresTemplateRepository struct{ DB *sql.DB }

func NewPostgresTemplateRepository(db *sql.DB) *PostgresTemplateRepository {
	return &PostgresTemplateRepository{DB: db}
}

// Active templates with their exception dates, optionally filtered by
// route. Exceptions load in one second query keyed by template id.
func (r *PostgresTemplateRepository) ListActiveTemplates(ctx context.Context, routeIDs []int) ([]*domain.TripTemplate, error) {
	if r.DB == nil {
		return nil, errors.New("template repository: DB is nil")
	}

	query := `
	SELECT
		template_id, name, route_id, COALESCE(vehicle_id, 0), driver_name,
		departure_time_of_day,
		monday, tuesday, wednesday, thursday, friday, saturday, sunday,
		valid_from, valid_to
	FROM trip_templates
	WHERE active`
	args := []any{}
	if len(routeIDs) > 0 {
		placeholders := make([]string, len(routeIDs))
		for i, id := range routeIDs {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
			args = append(args, id)
		}
		query += fmt.Sprintf(" AND route_id IN (%s)", strings.Join(placeholders, ","))
	}
	query += " ORDER BY template_id;"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list templates: query trip_templates: %w", err)
	}
	defer rows.Close()

	templates := make([]*domain.TripTemplate, 0, 16)
	byID := map[int]*domain.TripTemplate{}
	for rows.Next() {
		t := &domain.TripTemplate{Active: true}
		var validFrom, validTo sql.NullTime
		err := rows.Scan(
			&t.TemplateID, &t.Name, &t.RouteID, &t.VehicleID, &t.DriverName,
			&t.DepartureTimeOfDay,
			&t.Weekdays[0], &t.Weekdays[1], &t.Weekdays[2], &t.Weekdays[3],
			&t.Weekdays[4], &t.Weekdays[5], &t.Weekdays[6],
			&validFrom, &validTo,
		)
		if err != nil {
			return nil, fmt.Errorf("list templates: scan row: %w", err)
		}
		if validFrom.Valid {
			v := validFrom.Time
			t.ValidFrom = &v
		}
		if validTo.Valid {
			v := validTo.Time
			t.ValidTo = &v
		}
		templates = append(templates, t)
		byID[t.TemplateID] = t
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list templates: row iteration: %w", err)
	}
	if len(templates) == 0 {
		return templates, nil
	}

	ids := make([]string, 0, len(templates))
	exArgs := make([]any, 0, len(templates))
	for i, t := range templates {
		ids = append(ids, fmt.Sprintf("$%d", i+1))
		exArgs = append(exArgs, t.TemplateID)
	}
	exQuery := fmt.Sprintf(`
	SELECT template_id, date, reason
	FROM template_exceptions
	WHERE template_id IN (%s);`, strings.Join(ids, ","))

	exRows, err := r.DB.QueryContext(ctx, exQuery, exArgs...)
	if err != nil {
		return nil, fmt.Errorf("list templates: query exceptions: %w", err)
	}
	defer exRows.Close()

	for exRows.Next() {
		var templateID int
		var date time.Time
		var reason string
		if err := exRows.Scan(&templateID, &date, &reason); err != nil {
			return nil, fmt.Errorf("list templates: scan exception: %w", err)
		}
		if t, ok := byID[templateID]; ok {
			t.Exceptions = append(t.Exceptions, domain.ExceptionDate{
				TemplateID: templateID,
				Date:       date,
				Reason:     reason,
			})
		}
	}
	if err := exRows.Err(); err != nil {
		return nil, fmt.Errorf("list templates: exception iteration: %w", err)
	}

	return templates, nil
}
