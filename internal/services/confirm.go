package services

import (
	"bus-ticket-service/internal/platform/obs"
	"bus-ticket-service/internal/ports"
	"context"
	"fmt"
	"log"
)

// ConfirmMetrics receives confirmation outcomes. Nil-safe at the call site.
type ConfirmMetrics interface {
	OrdersConfirmedInc()
}

// Confirmation closes the seat state machine: when an order is confirmed
// (payment captured downstream), every seat on its lines moves from
// reserved to sold.
type Confirmation struct {
	Orders  ports.OrderRepository
	Events  ports.OrderEventPublisher
	Cache   ports.SeatMapCache
	Metrics ConfirmMetrics
}

// ConfirmOrder applies the reserved -> sold transition for the order's
// seats. Idempotent: a redelivered confirmation for an already confirmed
// order succeeds without touching seats again.
func (c *Confirmation) ConfirmOrder(ctx context.Context, orderID int) (err error) {
	defer obs.Time(ctx, "confirmation.ConfirmOrder")(&err)

	order, err := c.Orders.GetOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("confirm order %d: %w", orderID, err)
	}

	if err := c.Orders.ConfirmOrder(ctx, orderID); err != nil {
		return fmt.Errorf("confirm order %d: %w", orderID, err)
	}
	if c.Metrics != nil {
		c.Metrics.OrdersConfirmedInc()
	}

	if c.Cache != nil {
		trips := map[int]struct{}{}
		for _, line := range order.Lines {
			trips[line.TripID] = struct{}{}
		}
		for tripID := range trips {
			if err := c.Cache.Invalidate(ctx, tripID); err != nil {
				log.Printf("warn: invalidate seat map cache trip_id=%d: %v", tripID, err)
			}
		}
	}
	if c.Events != nil {
		if err := c.Events.OrderConfirmed(orderID); err != nil {
			log.Printf("warn: publish order confirmed order_id=%d: %v", orderID, err)
		}
	}
	return nil
}
