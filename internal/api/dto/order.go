package dto

import "time"

type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type CreateOrderRequest struct {
	TripID   int          `json:"trip_id"`
	SeatIDs  []int        `json:"seat_ids"`
	Customer CustomerInfo `json:"customer_info"`
}

type OrderLineResponse struct {
	LineID      int     `json:"line_id"`
	TripID      int     `json:"trip_id"`
	SeatID      int     `json:"seat_id"`
	Description string  `json:"description"`
	PriceUnit   float64 `json:"price_unit"`
}

type OrderResponse struct {
	OrderID     int                 `json:"order_id"`
	Reference   string              `json:"reference"`
	CustomerID  int                 `json:"customer_id"`
	AmountTotal float64             `json:"amount_total"`
	Currency    string              `json:"currency"`
	State       string              `json:"state"`
	CreatedAt   time.Time           `json:"created_at"`
	Lines       []OrderLineResponse `json:"lines"`
}
