package domain

import "fmt"

// Seat states. Transitions are monotonic in the booking flow:
// available -> reserved -> sold, with available -> sold for direct sales.
// Nothing returns a seat to available except administrative cancellation.
type SeatState string

const (
	SeatAvailable SeatState = "available"
	SeatReserved  SeatState = "reserved"
	SeatSold      SeatState = "sold"
)

// CanTransition reports whether a seat may move between the two states.
func CanTransition(from, to SeatState) bool {
	switch {
	case from == SeatAvailable && to == SeatReserved:
		return true
	case from == SeatAvailable && to == SeatSold:
		return true
	case from == SeatReserved && to == SeatSold:
		return true
	}
	return false
}

// Seat is a bookable unit of capacity owned by exactly one trip.
type Seat struct {
	SeatID int
	TripID int
	Number int
	PosX   int
	PosY   int
	State  SeatState
}

// Name returns the seat's display label.
func (s Seat) Name() string {
	return fmt.Sprintf("Seat %d", s.Number)
}

// Grid geometry for generated seat maps: five columns with the aisle at
// x=2, so occupied columns are 0,1,3,4.
const (
	gridColumns = 5
	aisleColumn = 2
)

// SeatPosition is a grid slot produced by BuildSeatGrid.
type SeatPosition struct {
	Number int
	PosX   int
	PosY   int
}

// BuildSeatGrid lays out totalSeats sequential seats on the standard bus
// grid, four per row around the aisle.
func BuildSeatGrid(totalSeats int) []SeatPosition {
	if totalSeats <= 0 {
		return nil
	}
	positions := make([]SeatPosition, 0, totalSeats)
	col, row := 0, 0
	for n := 1; n <= totalSeats; n++ {
		if col == aisleColumn {
			col++
		}
		positions = append(positions, SeatPosition{Number: n, PosX: col, PosY: row})
		col++
		if col >= gridColumns {
			col, row = 0, row+1
		}
	}
	return positions
}
