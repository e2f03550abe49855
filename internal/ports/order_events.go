package ports

import "bus-ticket-service/internal/domain"

// Port: outbound order lifecycle events. Publishing is best effort; a
// failed publish never rolls back a booking.
type OrderEventPublisher interface {
	OrderCreated(order *domain.Order) error
	OrderConfirmed(orderID int) error
}
