// Package metrics exposes Prometheus collectors for the API.
package metrics

import (
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/cimillas/ticket-sales/internal/domain"
)

const namespace = "tickets"

type Collector struct {
	sales        *prometheus.CounterVec
	saleAttempts prometheus.Histogram
	requests     *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	cacheLookups *prometheus.CounterVec
	registerer   prometheus.Registerer
}

// New registers the collectors on reg. Passing a fresh registry keeps tests
// independent of the global one.
func New(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		registerer: reg,
		sales: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sales_total",
				Help:      "Finished ticket sale requests by outcome",
			},
			[]string{"outcome"},
		),
		saleAttempts: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "sale_attempts",
				Help:      "Transactions run per ticket sale",
				Buckets:   prometheus.LinearBuckets(1, 1, 5),
			},
		),
		requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by method, route pattern and status",
			},
			[]string{"method", "route", "status"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by method and route pattern",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		cacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "listing_cache_lookups_total",
				Help:      "Events listing cache lookups by result",
			},
			[]string{"result"},
		),
	}
}

func (c *Collector) ObserveSale(outcome domain.SaleOutcome, attempts int) {
	c.sales.WithLabelValues(string(outcome)).Inc()
	c.saleAttempts.Observe(float64(attempts))
}

func (c *Collector) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.latency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (c *Collector) ObserveCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.cacheLookups.WithLabelValues(result).Inc()
}

// WatchPool exports connection pool gauges read at scrape time.
func (c *Collector) WatchPool(pool *pgxpool.Pool) {
	gauge := func(name, help string, value func(*pgxpool.Stat) float64) {
		c.registerer.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{Namespace: namespace, Subsystem: "db_pool", Name: name, Help: help},
			func() float64 { return value(pool.Stat()) },
		))
	}
	gauge("acquired_conns", "Connections currently in use", func(s *pgxpool.Stat) float64 {
		return float64(s.AcquiredConns())
	})
	gauge("idle_conns", "Idle connections", func(s *pgxpool.Stat) float64 {
		return float64(s.IdleConns())
	})
	gauge("max_conns", "Configured pool size", func(s *pgxpool.Stat) float64 {
		return float64(s.MaxConns())
	})
}
