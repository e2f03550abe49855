package main

import (
	"bus-ticket-service/internal/adapters/cache"
	"bus-ticket-service/internal/adapters/events"
	"bus-ticket-service/internal/adapters/repositories"
	"bus-ticket-service/internal/api"
	"bus-ticket-service/internal/config"
	"bus-ticket-service/internal/platform/db"
	"bus-ticket-service/internal/platform/metrics"
	"bus-ticket-service/internal/services"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
)

// main is the application composition root. It wires concrete adapters
// (Postgres, Redis, NATS) behind ports and starts the HTTP server plus the
// background expansion job.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close()

	if cfg.InitSchema {
		log.Println("Initializing database schema...")
		if err := repositories.InitSchema(ctx, database); err != nil {
			log.Fatalf("schema initialization failed: %v", err)
		}
	}
	if cfg.SeedPath != "" {
		log.Printf("Seeding database from %s...", cfg.SeedPath)
		if err := repositories.SeedFromJSON(ctx, database, cfg.SeedPath); err != nil {
			log.Fatalf("seeding failed: %v", err)
		}
	}

	collector := metrics.NewCollector()
	var metricsSrv *http.Server
	if cfg.MetricsAddr != "" {
		metricsSrv = collector.Serve(cfg.MetricsAddr)
		log.Printf("Metrics listening addr=%s", cfg.MetricsAddr)
	}

	templateRepo := repositories.NewPostgresTemplateRepository(database)
	routeRepo := repositories.NewPostgresRouteRepository(database)
	vehicleRepo := repositories.NewPostgresVehicleRepository(database)
	tripRepo := repositories.NewPostgresTripRepository(database)
	seatRepo := repositories.NewPostgresSeatRepository(database)
	customerRepo := repositories.NewPostgresCustomerRepository(database)
	priceRepo := repositories.NewPostgresPriceRepository(database)
	orderRepo := repositories.NewPostgresOrderRepository(database)

	var seatCache *cache.RedisSeatMapCache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		seatCache = cache.NewRedisSeatMapCache(client, cfg.SeatCacheTTL)
		log.Printf("Seat map cache enabled addr=%s ttl=%s", cfg.RedisAddr, cfg.SeatCacheTTL)
	}

	var publisher *events.NATSPublisher
	if cfg.NATSURL != "" {
		publisher, err = events.NewNATSPublisher(cfg.NATSURL, collector)
		if err != nil {
			log.Fatal(err)
		}
		defer publisher.Close()
		log.Printf("Order events enabled url=%s", cfg.NATSURL)
	}

	expander := &services.Expander{
		Templates: templateRepo,
		Routes:    routeRepo,
		Vehicles:  vehicleRepo,
		Trips:     tripRepo,
		Metrics:   collector,
	}
	search := &services.TripSearch{
		Prices:   priceRepo,
		Routes:   routeRepo,
		Trips:    tripRepo,
		Expander: expander,
	}
	seatMap := &services.SeatMap{
		Trips:    tripRepo,
		Seats:    seatRepo,
		Vehicles: vehicleRepo,
	}
	booking := &services.Booking{
		Trips:     tripRepo,
		Routes:    routeRepo,
		Customers: customerRepo,
		Prices:    priceRepo,
		Orders:    orderRepo,
		Metrics:   collector,
	}
	confirmation := &services.Confirmation{
		Orders:  orderRepo,
		Metrics: collector,
	}
	if seatCache != nil {
		seatMap.Cache = seatCache
		booking.Cache = seatCache
		confirmation.Cache = seatCache
	}
	if publisher != nil {
		booking.Events = publisher
		confirmation.Events = publisher

		sub, err := publisher.SubscribePayments(ctx, confirmation)
		if err != nil {
			log.Fatal(err)
		}
		defer func() { _ = sub.Unsubscribe() }()
	}

	// Expand once at startup, then on a timer, so sellable trips always
	// cover the horizon without waiting for a search to trigger them.
	go runExpansionLoop(ctx, expander, cfg.ExpandEvery, cfg.HorizonDays)

	router := api.NewRouter(api.RouterDeps{
		Search:       search,
		SeatMap:      seatMap,
		Booking:      booking,
		Confirmation: confirmation,
		Expander:     expander,
		Orders:       orderRepo,
		Routes:       routeRepo,
		APIKey:       cfg.APIKey,
		HorizonDays:  cfg.HorizonDays,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server listening addr=:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			log.Printf("metrics shutdown: %v", err)
		}
	}
}

// runExpansionLoop materializes trips over the configured horizon, first
// immediately and then on every tick until the context ends.
func runExpansionLoop(ctx context.Context, expander *services.Expander, every time.Duration, horizonDays int) {
	run := func() {
		from := time.Now()
		to := from.AddDate(0, 0, horizonDays)
		created, err := expander.ExpandHorizon(ctx, from, to)
		if err != nil {
			log.Printf("expansion run failed: %v", err)
			return
		}
		log.Printf("expansion run done trips_created=%d horizon_days=%d", created, horizonDays)
	}

	run()

	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			run()
		}
	}
}
