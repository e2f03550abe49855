package events

import (
	"bus-ticket-service/internal/domain"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	SubjectOrderCreated    = "orders.created"
	SubjectOrderConfirmed  = "orders.confirmed"
	SubjectPaymentCaptured = "payments.captured"
)

// PublisherMetrics receives publish outcomes and connection state.
type PublisherMetrics interface {
	NATSPublishedInc()
	NATSPublishErrInc()
	NATSSetConnected(connected bool)
}

// NATSPublisher emits order lifecycle events. Reconnects are handled by the
// client; the connection state is mirrored into metrics.
type NATSPublisher struct {
	nc      *nats.Conn
	metrics PublisherMetrics
}

func NewNATSPublisher(url string, m PublisherMetrics) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("bus-ticket-service"),
		nats.DisconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			log.Printf("nats disconnected")
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(true)
			}
			log.Printf("nats reconnected")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			log.Printf("nats closed")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	if m != nil {
		m.NATSSetConnected(true)
	}
	return &NATSPublisher{nc: nc, metrics: m}, nil
}

func (p *NATSPublisher) Close() {
	if p.nc != nil {
		_ = p.nc.Drain()
		p.nc.Close()
	}
}

// OrderCreatedMessage is the payload published on orders.created. Payment
// systems consume it and answer on orders.confirmed.
type OrderCreatedMessage struct {
	OrderID     int       `json:"orderId"`
	Reference   string    `json:"reference"`
	CustomerID  int       `json:"customerId"`
	AmountTotal float64   `json:"amountTotal"`
	Currency    string    `json:"currency"`
	SeatIDs     []int     `json:"seatIds"`
	CreatedAt   time.Time `json:"createdAt"`
}

// OrderConfirmedMessage is published on orders.confirmed once seats are
// sold. The same shape arrives inbound on payments.captured.
type OrderConfirmedMessage struct {
	OrderID int `json:"orderId"`
}

func (p *NATSPublisher) OrderCreated(order *domain.Order) error {
	seatIDs := make([]int, 0, len(order.Lines))
	for _, line := range order.Lines {
		seatIDs = append(seatIDs, line.SeatID)
	}
	return p.publish(SubjectOrderCreated, OrderCreatedMessage{
		OrderID:     order.OrderID,
		Reference:   order.Reference,
		CustomerID:  order.CustomerID,
		AmountTotal: order.AmountTotal,
		Currency:    order.Currency,
		SeatIDs:     seatIDs,
		CreatedAt:   order.CreatedAt,
	})
}

func (p *NATSPublisher) OrderConfirmed(orderID int) error {
	return p.publish(SubjectOrderConfirmed, OrderConfirmedMessage{OrderID: orderID})
}

func (p *NATSPublisher) publish(subject string, msg any) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("nats publish %s: marshal: %w", subject, err)
	}
	err = p.nc.Publish(subject, b)
	if p.metrics != nil {
		if err != nil {
			p.metrics.NATSPublishErrInc()
		} else {
			p.metrics.NATSPublishedInc()
		}
	}
	if err != nil {
		return fmt.Errorf("nats publish %s: %w", subject, err)
	}
	return nil
}

// ConfirmationHandler processes an inbound payment capture.
type ConfirmationHandler interface {
	ConfirmOrder(ctx context.Context, orderID int) error
}

// SubscribePayments wires inbound payments.captured messages to the
// confirmation flow. The outcome goes back out on orders.confirmed, so the
// inbound and outbound subjects must stay distinct. Malformed messages are
// logged and dropped; processing errors are logged, since NATS core has no
// redelivery to lean on.
func (p *NATSPublisher) SubscribePayments(ctx context.Context, h ConfirmationHandler) (*nats.Subscription, error) {
	sub, err := p.nc.Subscribe(SubjectPaymentCaptured, func(m *nats.Msg) {
		var msg OrderConfirmedMessage
		if err := json.Unmarshal(m.Data, &msg); err != nil {
			log.Printf("payments.captured: malformed message: %v", err)
			return
		}
		if msg.OrderID <= 0 {
			log.Printf("payments.captured: missing order id")
			return
		}
		if err := h.ConfirmOrder(ctx, msg.OrderID); err != nil {
			log.Printf("payments.captured: order=%d: %v", msg.OrderID, err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("nats subscribe %s: %w", SubjectPaymentCaptured, err)
	}
	return sub, nil
}
