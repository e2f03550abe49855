package handlers

import (
	"bus-ticket-service/internal/api/dto"
	"bus-ticket-service/internal/domain"
	"bus-ticket-service/internal/ports"
	"bus-ticket-service/internal/services"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
)

type OrderHandler struct {
	Booking      *services.Booking
	Confirmation *services.Confirmation
	Orders       ports.OrderRepository
}

// Create reserves the selected seats and returns the resulting order. A 409
// means at least one requested seat was already taken; the response names
// the contended seats.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.CreateOrderRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if req.TripID <= 0 {
		writeError(w, r, http.StatusBadRequest, "trip_id must be a positive integer")
		return
	}

	order, err := h.Booking.Book(r.Context(), services.BookingRequest{
		TripID:  req.TripID,
		SeatIDs: req.SeatIDs,
		Customer: services.CustomerInfo{
			Name:  req.Customer.Name,
			Email: req.Customer.Email,
			Phone: req.Customer.Phone,
		},
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, orderResponse(order))
}

// Confirm transitions the order's reserved seats to sold. Confirming an
// already confirmed order is a no-op and returns the order as-is.
func (h *OrderHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	orderID, err := strconv.Atoi(r.PathValue("order_id"))
	if err != nil || orderID <= 0 {
		writeError(w, r, http.StatusBadRequest, "order_id must be a positive integer")
		return
	}

	if err := h.Confirmation.ConfirmOrder(r.Context(), orderID); err != nil {
		writeDomainError(w, r, err)
		return
	}

	order, err := h.Orders.GetOrder(r.Context(), orderID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, orderResponse(order))
}

func orderResponse(order *domain.Order) dto.OrderResponse {
	res := dto.OrderResponse{
		OrderID:     order.OrderID,
		Reference:   order.Reference,
		CustomerID:  order.CustomerID,
		AmountTotal: order.AmountTotal,
		Currency:    order.Currency,
		State:       string(order.State),
		CreatedAt:   order.CreatedAt,
		Lines:       make([]dto.OrderLineResponse, 0, len(order.Lines)),
	}
	for _, line := range order.Lines {
		res.Lines = append(res.Lines, dto.OrderLineResponse{
			LineID:      line.LineID,
			TripID:      line.TripID,
			SeatID:      line.SeatID,
			Description: line.Description,
			PriceUnit:   line.PriceUnit,
		})
	}
	return res
}
