package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

type stopSeed struct {
	StopID int    `json:"stop_id"`
	Name   string `json:"name"`
}

type waypointSeed struct {
	StopID     int     `json:"stop_id"`
	Sequence   int     `json:"sequence"`
	DayOffset  int     `json:"day_offset"`
	TimeOffset float64 `json:"time_offset"`
}

type routeSeed struct {
	RouteID   int            `json:"route_id"`
	Name      string         `json:"name"`
	Company   string         `json:"company"`
	Currency  string         `json:"currency"`
	Waypoints []waypointSeed `json:"waypoints"`
}

type layoutRowSeed struct {
	Sequence  int    `json:"sequence"`
	RowName   string `json:"row_name"`
	SeatCount int    `json:"seat_count"`
}

type layoutSeed struct {
	LayoutID   int             `json:"layout_id"`
	Name       string          `json:"name"`
	LayoutType string          `json:"layout_type"`
	Rows       []layoutRowSeed `json:"rows"`
}

type vehicleSeed struct {
	VehicleID    int    `json:"vehicle_id"`
	Name         string `json:"name"`
	LicensePlate string `json:"license_plate"`
	LayoutID     int    `json:"layout_id"`
}

type templateSeed struct {
	TemplateID         int      `json:"template_id"`
	Name               string   `json:"name"`
	RouteID            int      `json:"route_id"`
	VehicleID          int      `json:"vehicle_id"`
	DriverName         string   `json:"driver_name"`
	DepartureTimeOfDay float64  `json:"departure_time_of_day"`
	Weekdays           []bool   `json:"weekdays"`
	ValidFrom          string   `json:"valid_from"`
	ValidTo            string   `json:"valid_to"`
	Exceptions         []string `json:"exceptions"`
}

type priceSeed struct {
	RouteID    int     `json:"route_id"`
	StopFromID int     `json:"stop_from_id"`
	StopToID   int     `json:"stop_to_id"`
	Price      float64 `json:"price"`
}

type timetableSeed struct {
	Stops     []stopSeed     `json:"stops"`
	Routes    []routeSeed    `json:"routes"`
	Layouts   []layoutSeed   `json:"layouts"`
	Vehicles  []vehicleSeed  `json:"vehicles"`
	Templates []templateSeed `json:"templates"`
	Prices    []priceSeed    `json:"prices"`
}

// Populate the database with timetable master data from a JSON file.
// Rows are upserted by their seed ids so re-seeding is harmless.
func SeedFromJSON(ctx context.Context, db *sql.DB, jsonPath string) error {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed timetable: read %q: %w", jsonPath, err)
	}

	var seed timetableSeed
	if err := json.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("seed timetable: parse json: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed timetable: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, s := range seed.Stops {
		name := strings.TrimSpace(s.Name)
		if s.StopID <= 0 || name == "" {
			return fmt.Errorf("seed timetable: stop %d: id and name are required", s.StopID)
		}
		// City is the first comma-separated token of the stop name.
		city := strings.TrimSpace(strings.SplitN(name, ",", 2)[0])
		_, err := tx.ExecContext(ctx, `
			INSERT INTO stops (stop_id, name, city) VALUES ($1, $2, $3)
			ON CONFLICT (stop_id) DO UPDATE SET name = EXCLUDED.name, city = EXCLUDED.city;`,
			s.StopID, name, city)
		if err != nil {
			return fmt.Errorf("seed timetable: insert stop %d: %w", s.StopID, err)
		}
	}

	for _, r := range seed.Routes {
		if r.RouteID <= 0 || strings.TrimSpace(r.Name) == "" {
			return fmt.Errorf("seed timetable: route %d: id and name are required", r.RouteID)
		}
		currency := r.Currency
		if currency == "" {
			currency = "CZK"
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO routes (route_id, name, company, currency) VALUES ($1, $2, $3, $4)
			ON CONFLICT (route_id) DO UPDATE
			SET name = EXCLUDED.name, company = EXCLUDED.company, currency = EXCLUDED.currency;`,
			r.RouteID, r.Name, r.Company, currency)
		if err != nil {
			return fmt.Errorf("seed timetable: insert route %d: %w", r.RouteID, err)
		}

		// Waypoints are replaced wholesale; seed files own them.
		if _, err := tx.ExecContext(ctx, `DELETE FROM waypoints WHERE route_id = $1;`, r.RouteID); err != nil {
			return fmt.Errorf("seed timetable: clear waypoints route %d: %w", r.RouteID, err)
		}
		for _, w := range r.Waypoints {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO waypoints (route_id, stop_id, sequence, day_offset, time_offset)
				VALUES ($1, $2, $3, $4, $5);`,
				r.RouteID, w.StopID, w.Sequence, w.DayOffset, w.TimeOffset)
			if err != nil {
				return fmt.Errorf("seed timetable: insert waypoint route=%d stop=%d: %w", r.RouteID, w.StopID, err)
			}
		}
	}

	for _, l := range seed.Layouts {
		layoutType := l.LayoutType
		if layoutType == "" {
			layoutType = "2-2"
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO seat_layouts (layout_id, name, layout_type) VALUES ($1, $2, $3)
			ON CONFLICT (layout_id) DO UPDATE SET name = EXCLUDED.name, layout_type = EXCLUDED.layout_type;`,
			l.LayoutID, l.Name, layoutType)
		if err != nil {
			return fmt.Errorf("seed timetable: insert layout %d: %w", l.LayoutID, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM seat_layout_rows WHERE layout_id = $1;`, l.LayoutID); err != nil {
			return fmt.Errorf("seed timetable: clear layout rows %d: %w", l.LayoutID, err)
		}
		for _, row := range l.Rows {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO seat_layout_rows (layout_id, sequence, row_name, seat_count)
				VALUES ($1, $2, $3, $4);`,
				l.LayoutID, row.Sequence, row.RowName, row.SeatCount)
			if err != nil {
				return fmt.Errorf("seed timetable: insert layout row %d/%q: %w", l.LayoutID, row.RowName, err)
			}
		}
	}

	for _, v := range seed.Vehicles {
		var layoutID any
		if v.LayoutID > 0 {
			layoutID = v.LayoutID
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO vehicles (vehicle_id, name, license_plate, layout_id) VALUES ($1, $2, $3, $4)
			ON CONFLICT (vehicle_id) DO UPDATE
			SET name = EXCLUDED.name, license_plate = EXCLUDED.license_plate, layout_id = EXCLUDED.layout_id;`,
			v.VehicleID, v.Name, v.LicensePlate, layoutID)
		if err != nil {
			return fmt.Errorf("seed timetable: insert vehicle %d: %w", v.VehicleID, err)
		}
	}

	for _, t := range seed.Templates {
		if len(t.Weekdays) != 7 {
			return fmt.Errorf("seed timetable: template %d: weekdays must have 7 entries", t.TemplateID)
		}
		var validFrom, validTo any
		if t.ValidFrom != "" {
			validFrom = t.ValidFrom
		}
		if t.ValidTo != "" {
			validTo = t.ValidTo
		}
		var vehicleID any
		if t.VehicleID > 0 {
			vehicleID = t.VehicleID
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO trip_templates (
				template_id, name, route_id, vehicle_id, driver_name, departure_time_of_day,
				monday, tuesday, wednesday, thursday, friday, saturday, sunday,
				valid_from, valid_to, active
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, TRUE)
			ON CONFLICT (template_id) DO UPDATE SET
				name = EXCLUDED.name, route_id = EXCLUDED.route_id,
				vehicle_id = EXCLUDED.vehicle_id, driver_name = EXCLUDED.driver_name,
				departure_time_of_day = EXCLUDED.departure_time_of_day,
				monday = EXCLUDED.monday, tuesday = EXCLUDED.tuesday,
				wednesday = EXCLUDED.wednesday, thursday = EXCLUDED.thursday,
				friday = EXCLUDED.friday, saturday = EXCLUDED.saturday,
				sunday = EXCLUDED.sunday, valid_from = EXCLUDED.valid_from,
				valid_to = EXCLUDED.valid_to;`,
			t.TemplateID, t.Name, t.RouteID, vehicleID, t.DriverName, t.DepartureTimeOfDay,
			t.Weekdays[0], t.Weekdays[1], t.Weekdays[2], t.Weekdays[3],
			t.Weekdays[4], t.Weekdays[5], t.Weekdays[6],
			validFrom, validTo)
		if err != nil {
			return fmt.Errorf("seed timetable: insert template %d: %w", t.TemplateID, err)
		}
		for _, ex := range t.Exceptions {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO template_exceptions (template_id, date, reason) VALUES ($1, $2, '')
				ON CONFLICT (template_id, date) DO NOTHING;`,
				t.TemplateID, ex)
			if err != nil {
				return fmt.Errorf("seed timetable: insert exception %d/%s: %w", t.TemplateID, ex, err)
			}
		}
	}

	for _, p := range seed.Prices {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO prices (route_id, stop_from_id, stop_to_id, price) VALUES ($1, $2, $3, $4)
			ON CONFLICT (route_id, stop_from_id, stop_to_id) DO UPDATE SET price = EXCLUDED.price;`,
			p.RouteID, p.StopFromID, p.StopToID, p.Price)
		if err != nil {
			return fmt.Errorf("seed timetable: insert price route=%d: %w", p.RouteID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed timetable: commit tx: %w", err)
	}

	return nil
}
