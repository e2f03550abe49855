package metrics

import (
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the service's Prometheus metrics on a private registry.
type Collector struct {
	reg *prometheus.Registry

	TripsCreated prometheus.Counter
	TripsSkipped prometheus.Counter

	Bookings         prometheus.Counter
	BookingConflicts prometheus.Counter
	SeatsReserved    prometheus.Counter
	OrdersConfirmed  prometheus.Counter

	NATSPublished   prometheus.Counter
	NATSPublishErrs prometheus.Counter
	NATSConnected   prometheus.Gauge

	ExpansionDuration prometheus.Histogram
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		TripsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "busticket_trips_created_total",
			Help: "Total trip instances materialized from templates.",
		}),
		TripsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "busticket_trips_skipped_total",
			Help: "Total expansion candidates skipped by the idempotency guard.",
		}),
		Bookings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "busticket_bookings_total",
			Help: "Total successful bookings.",
		}),
		BookingConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "busticket_booking_conflicts_total",
			Help: "Total bookings rejected because a seat was not available.",
		}),
		SeatsReserved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "busticket_seats_reserved_total",
			Help: "Total seats moved to reserved by bookings.",
		}),
		OrdersConfirmed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "busticket_orders_confirmed_total",
			Help: "Total orders confirmed (seats sold).",
		}),
		NATSPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "busticket_nats_published_total",
			Help: "Total NATS messages published.",
		}),
		NATSPublishErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "busticket_nats_publish_errors_total",
			Help: "Total NATS publish errors.",
		}),
		NATSConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "busticket_nats_connected",
			Help: "1 if NATS connection is established, 0 otherwise.",
		}),
		ExpansionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "busticket_expansion_duration_seconds",
			Help:    "Duration of horizon expansion runs.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
	}

	reg.MustRegister(
		c.TripsCreated, c.TripsSkipped,
		c.Bookings, c.BookingConflicts, c.SeatsReserved, c.OrdersConfirmed,
		c.NATSPublished, c.NATSPublishErrs, c.NATSConnected,
		c.ExpansionDuration,
	)
	return c
}

// Serve starts a metrics listener on addr. The caller shuts it down.
func (c *Collector) Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server error: %v", err)
		}
	}()
	return srv
}

// Service metric adapters below satisfy the nil-safe interfaces the
// services accept, keeping prometheus out of the service packages.

func (c *Collector) TripsCreatedInc()                 { c.TripsCreated.Inc() }
func (c *Collector) TripsSkippedInc()                 { c.TripsSkipped.Inc() }
func (c *Collector) ExpansionObserve(d time.Duration) { c.ExpansionDuration.Observe(d.Seconds()) }

func (c *Collector) BookingsInc()         { c.Bookings.Inc() }
func (c *Collector) OrdersConfirmedInc()  { c.OrdersConfirmed.Inc() }
func (c *Collector) BookingConflictsInc() { c.BookingConflicts.Inc() }
func (c *Collector) SeatsReservedAdd(n int) {
	c.SeatsReserved.Add(float64(n))
}

func (c *Collector) NATSPublishedInc()  { c.NATSPublished.Inc() }
func (c *Collector) NATSPublishErrInc() { c.NATSPublishErrs.Inc() }
func (c *Collector) NATSSetConnected(connected bool) {
	if connected {
		c.NATSConnected.Set(1)
		return
	}
	c.NATSConnected.Set(0)
}
