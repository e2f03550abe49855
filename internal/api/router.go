package api

import (
	"bus-ticket-service/internal/api/handlers"
	"bus-ticket-service/internal/ports"
	"bus-ticket-service/internal/services"
	"net/http"
)

// RouterDeps carries everything the HTTP surface needs. Handlers stay
// unaware of concrete adapters; this is the API composition root.
type RouterDeps struct {
	Search       *services.TripSearch
	SeatMap      *services.SeatMap
	Booking      *services.Booking
	Confirmation *services.Confirmation
	Expander     *services.Expander
	Orders       ports.OrderRepository
	Routes       ports.RouteRepository
	APIKey       string
	HorizonDays  int
}

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. Health and the city list are public; everything else under
// /api/v1 requires the API key.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	tripHandler := &handlers.TripHandler{
		Search:  deps.Search,
		SeatMap: deps.SeatMap,
	}
	orderHandler := &handlers.OrderHandler{
		Booking:      deps.Booking,
		Confirmation: deps.Confirmation,
		Orders:       deps.Orders,
	}
	expandHandler := &handlers.ExpandHandler{
		Expander:    deps.Expander,
		HorizonDays: deps.HorizonDays,
	}
	cityHandler := &handlers.CityHandler{Routes: deps.Routes}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/api/v1/cities", cityHandler.List)

	protected := http.NewServeMux()
	protected.HandleFunc("/api/v1/trips/search", tripHandler.SearchTrips)
	protected.HandleFunc("/api/v1/trips/{trip_id}/seats", tripHandler.Seats)
	protected.HandleFunc("/api/v1/orders", orderHandler.Create)
	protected.HandleFunc("/api/v1/orders/{order_id}/confirm", orderHandler.Confirm)
	protected.HandleFunc("/api/v1/expand", expandHandler.Expand)

	mux.Handle("/api/v1/", apiKeyMiddleware(deps.APIKey, protected))

	return loggingMiddleware(mux)
}
