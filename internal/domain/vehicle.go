package domain

// LayoutRow is one physical row of a seat layout.
type LayoutRow struct {
	Sequence  int
	RowName   string
	SeatCount int
}

// SeatLayout describes how a vehicle's seats are arranged. LayoutType is a
// coarse label for renderers ("2-2", "1-2", "other").
type SeatLayout struct {
	LayoutID   int
	Name       string
	LayoutType string
	Rows       []LayoutRow
}

// TotalSeats sums the per-row seat counts.
func (l *SeatLayout) TotalSeats() int {
	total := 0
	for _, r := range l.Rows {
		total += r.SeatCount
	}
	return total
}

// Vehicle master data as consumed here: a trip copies the assigned layout
// into concrete seats at materialization time. Layout is nil when the
// vehicle has none assigned; such trips are created without seats.
type Vehicle struct {
	VehicleID    int
	Name         string
	LicensePlate string
	Layout       *SeatLayout
}
