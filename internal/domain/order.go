package domain

import "time"

// Customer identity resolved by natural key (email) at booking time.
type Customer struct {
	CustomerID int
	Name       string
	Email      string
	Phone      string
}

// Order states. An order is created in reserved state; confirmation (the
// downstream payment event) moves it to confirmed and sells its seats.
type OrderState string

const (
	OrderReserved  OrderState = "reserved"
	OrderConfirmed OrderState = "confirmed"
	OrderCancelled OrderState = "cancelled"
)

// OrderLine binds exactly one seat on one trip to an order.
type OrderLine struct {
	LineID      int
	OrderID     int
	TripID      int
	SeatID      int
	Description string
	PriceUnit   float64
}

// Order is a customer's purchase of one or more seats.
type Order struct {
	OrderID     int
	Reference   string
	CustomerID  int
	AmountTotal float64
	Currency    string
	State       OrderState
	CreatedAt   time.Time
	Lines       []OrderLine
}
