package repositories

import (
	"bus-ticket-service/internal/domain"
	"bus-ticket-service/internal/ports"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore is a mutex-guarded, map-backed implementation of every
// repository port. It mirrors the Postgres adapters' atomicity contracts
// (check-and-insert under one lock, seat validation and transition under
// one lock), which makes it usable both for service tests and for running
// the server without a database.
type MemoryStore struct {
	mu sync.Mutex

	stops     map[int]domain.Stop
	routes    map[int]*domain.Route
	vehicles  map[int]*domain.Vehicle
	templates map[int]*domain.TripTemplate
	trips     map[int]*domain.TripInstance
	seats     map[int]*domain.Seat
	customers map[int]*domain.Customer
	orders    map[int]*domain.Order
	prices    map[priceKey]float64

	// materialized (template, departure) pairs
	tripKeys map[tripKey]int

	nextTrip     int
	nextSeat     int
	nextCustomer int
	nextOrder    int
	nextLine     int
}

type priceKey struct {
	routeID    int
	stopFromID int
	stopToID   int
}

type tripKey struct {
	templateID  int
	departureAt int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		stops:     make(map[int]domain.Stop),
		routes:    make(map[int]*domain.Route),
		vehicles:  make(map[int]*domain.Vehicle),
		templates: make(map[int]*domain.TripTemplate),
		trips:     make(map[int]*domain.TripInstance),
		seats:     make(map[int]*domain.Seat),
		customers: make(map[int]*domain.Customer),
		orders:    make(map[int]*domain.Order),
		prices:    make(map[priceKey]float64),
		tripKeys:  make(map[tripKey]int),
	}
}

// Fixture setters. Callers own the ids.

func (m *MemoryStore) PutStop(s domain.Stop) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stops[s.StopID] = s
}

func (m *MemoryStore) PutRoute(r *domain.Route) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.SortWaypoints()
	m.routes[r.RouteID] = r
}

func (m *MemoryStore) PutVehicle(v *domain.Vehicle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vehicles[v.VehicleID] = v
}

func (m *MemoryStore) PutTemplate(t *domain.TripTemplate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.templates[t.TemplateID] = t
}

func (m *MemoryStore) PutPrice(routeID, stopFromID, stopToID int, price float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prices[priceKey{routeID, stopFromID, stopToID}] = price
}

// TemplateRepository

func (m *MemoryStore) ListActiveTemplates(_ context.Context, routeIDs []int) ([]*domain.TripTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	wanted := make(map[int]bool, len(routeIDs))
	for _, id := range routeIDs {
		wanted[id] = true
	}

	var out []*domain.TripTemplate
	for _, t := range m.templates {
		if !t.Active {
			continue
		}
		if len(routeIDs) > 0 && !wanted[t.RouteID] {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TemplateID < out[j].TemplateID })
	return out, nil
}

// RouteRepository

func (m *MemoryStore) GetRoute(_ context.Context, routeID int) (*domain.Route, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.routes[routeID]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "route", ID: routeID}
	}
	return r, nil
}

func (m *MemoryStore) ListCities(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[string]bool)
	var cities []string
	for _, s := range m.stops {
		if s.City == "" || seen[s.City] {
			continue
		}
		seen[s.City] = true
		cities = append(cities, s.City)
	}
	sort.Strings(cities)
	return cities, nil
}

// VehicleRepository

func (m *MemoryStore) GetVehicle(_ context.Context, vehicleID int) (*domain.Vehicle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vehicles[vehicleID]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "vehicle", ID: vehicleID}
	}
	return v, nil
}

// TripRepository

func (m *MemoryStore) CreateIfAbsent(_ context.Context, trip ports.NewTrip) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := tripKey{templateID: trip.TemplateID, departureAt: trip.DepartureAt.UnixNano()}
	if trip.TemplateID != 0 {
		if _, exists := m.tripKeys[key]; exists {
			return false, nil
		}
	}

	m.nextTrip++
	tripID := m.nextTrip
	var templateID *int
	if trip.TemplateID != 0 {
		id := trip.TemplateID
		templateID = &id
		m.tripKeys[key] = tripID
	}
	m.trips[tripID] = &domain.TripInstance{
		TripID:      tripID,
		Name:        trip.Name,
		RouteID:     trip.RouteID,
		VehicleID:   trip.VehicleID,
		DriverName:  trip.DriverName,
		TemplateID:  templateID,
		DepartureAt: trip.DepartureAt,
		ArrivalAt:   trip.ArrivalAt,
		State:       trip.State,
		IsSellable:  true,
	}
	for _, pos := range trip.Seats {
		m.nextSeat++
		m.seats[m.nextSeat] = &domain.Seat{
			SeatID: m.nextSeat,
			TripID: tripID,
			Number: pos.Number,
			PosX:   pos.PosX,
			PosY:   pos.PosY,
			State:  domain.SeatAvailable,
		}
	}
	return true, nil
}

func (m *MemoryStore) GetTrip(_ context.Context, tripID int) (*domain.TripInstance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trips[tripID]
	if !ok {
		return nil, nil
	}
	return t, nil
}

func (m *MemoryStore) ListSellable(_ context.Context, routeIDs []int, from, to time.Time) ([]*domain.TripInstance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	wanted := make(map[int]bool, len(routeIDs))
	for _, id := range routeIDs {
		wanted[id] = true
	}

	var out []*domain.TripInstance
	for _, t := range m.trips {
		if !t.IsSellable {
			continue
		}
		switch t.State {
		case domain.TripDraft, domain.TripConfirmed, domain.TripInProgress:
		default:
			continue
		}
		if len(routeIDs) > 0 && !wanted[t.RouteID] {
			continue
		}
		if t.DepartureAt.Before(from) || t.DepartureAt.After(to) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DepartureAt.Before(out[j].DepartureAt) })
	return out, nil
}

// SeatRepository

func (m *MemoryStore) ListSeats(_ context.Context, tripID int) ([]domain.Seat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Seat
	for _, s := range m.seats {
		if s.TripID == tripID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

// CustomerRepository

func (m *MemoryStore) FindOrCreateByEmail(_ context.Context, c domain.Customer) (*domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.customers {
		if strings.EqualFold(existing.Email, c.Email) {
			return existing, nil
		}
	}
	m.nextCustomer++
	created := &domain.Customer{
		CustomerID: m.nextCustomer,
		Name:       c.Name,
		Email:      c.Email,
		Phone:      c.Phone,
	}
	m.customers[created.CustomerID] = created
	return created, nil
}

// PriceRepository

func (m *MemoryStore) PriceFor(_ context.Context, routeID, stopFromID, stopToID int) (float64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.prices[priceKey{routeID, stopFromID, stopToID}]
	return p, ok, nil
}

func (m *MemoryStore) RoutePrices(_ context.Context, fromCity, toCity string) (map[int]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matches := func(stopID int, city string) bool {
		s, ok := m.stops[stopID]
		if !ok {
			return false
		}
		return strings.Contains(strings.ToLower(s.City), strings.ToLower(city))
	}

	out := make(map[int]float64)
	for _, r := range m.routes {
		if !r.Schedulable() {
			continue
		}
		if !matches(r.StartStopID(), fromCity) || !matches(r.EndStopID(), toCity) {
			continue
		}
		if p, ok := m.prices[priceKey{r.RouteID, r.StartStopID(), r.EndStopID()}]; ok {
			out[r.RouteID] = p
		}
	}
	return out, nil
}

// OrderRepository

func (m *MemoryStore) CreateReservation(_ context.Context, o ports.NewOrder) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Validate everything before touching any state. A repeated id in the
	// request counts as a conflict so one seat never yields two lines.
	seats := make([]*domain.Seat, 0, len(o.SeatIDs))
	taken := make(map[int]struct{}, len(o.SeatIDs))
	var conflicts []int
	for _, id := range o.SeatIDs {
		s, ok := m.seats[id]
		if !ok || s.TripID != o.TripID {
			return nil, &domain.NotFoundError{Resource: "seat", ID: id}
		}
		if _, dup := taken[id]; dup || s.State != domain.SeatAvailable {
			conflicts = append(conflicts, id)
			continue
		}
		taken[id] = struct{}{}
		seats = append(seats, s)
	}
	if len(conflicts) > 0 {
		return nil, &domain.ConflictError{SeatIDs: conflicts}
	}

	m.nextOrder++
	order := &domain.Order{
		OrderID:     m.nextOrder,
		Reference:   fmt.Sprintf("BT%05d", m.nextOrder),
		CustomerID:  o.CustomerID,
		AmountTotal: o.PriceUnit * float64(len(o.SeatIDs)),
		Currency:    o.Currency,
		State:       domain.OrderReserved,
		CreatedAt:   time.Now(),
	}
	for _, s := range seats {
		s.State = domain.SeatReserved
		m.nextLine++
		order.Lines = append(order.Lines, domain.OrderLine{
			LineID:      m.nextLine,
			OrderID:     order.OrderID,
			TripID:      o.TripID,
			SeatID:      s.SeatID,
			Description: fmt.Sprintf("Ticket: %s - Seat %d", o.TripName, s.Number),
			PriceUnit:   o.PriceUnit,
		})
	}
	m.orders[order.OrderID] = order
	return order, nil
}

func (m *MemoryStore) GetOrder(_ context.Context, orderID int) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "order", ID: orderID}
	}
	return o, nil
}

func (m *MemoryStore) ConfirmOrder(_ context.Context, orderID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return &domain.NotFoundError{Resource: "order", ID: orderID}
	}
	if o.State == domain.OrderConfirmed {
		return nil
	}
	for _, line := range o.Lines {
		if s, ok := m.seats[line.SeatID]; ok && s.State == domain.SeatReserved {
			s.State = domain.SeatSold
		}
	}
	o.State = domain.OrderConfirmed
	return nil
}
