// Package metrics holds the Prometheus collectors for API calls and crawls.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors on a dedicated registry.
// All methods are nil-safe so callers may pass a nil *Metrics.
type Metrics struct {
	Registry          *prometheus.Registry
	RequestsTotal     *prometheus.CounterVec
	RequestDuration   prometheus.Histogram
	RateLimitedTotal  prometheus.Counter
	RateLimitWait     prometheus.Counter
	ProductsUpserted  prometheus.Counter
	CategoriesUpdated prometheus.Counter
	PagesCrawled      *prometheus.CounterVec
}

// New constructs and registers all metrics.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "envato_api_requests_total",
			Help: "Total API requests by response status class.",
		},
		[]string{"status"},
	)
	duration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "envato_api_request_duration_seconds",
			Help:    "API request latency.",
			Buckets: prometheus.DefBuckets,
		},
	)
	rateLimited := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "envato_api_rate_limited_total",
			Help: "Responses with HTTP 429.",
		},
	)
	rateLimitWait := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "envato_api_rate_limit_wait_seconds_total",
			Help: "Time spent sleeping after rate-limit responses.",
		},
	)
	products := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "envato_crawl_products_upserted_total",
			Help: "Products written to the cache by crawls.",
		},
	)
	categories := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "envato_crawl_categories_updated_total",
			Help: "Categories written to the cache.",
		},
	)
	pages := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "envato_crawl_pages_total",
			Help: "Search pages fetched by crawls, split by whether they were empty.",
		},
		[]string{"result"},
	)

	registry.MustRegister(requests, duration, rateLimited, rateLimitWait, products, categories, pages)

	return &Metrics{
		Registry:          registry,
		RequestsTotal:     requests,
		RequestDuration:   duration,
		RateLimitedTotal:  rateLimited,
		RateLimitWait:     rateLimitWait,
		ProductsUpserted:  products,
		CategoriesUpdated: categories,
		PagesCrawled:      pages,
	}
}

// ObserveRequest records one API response.
func (m *Metrics) ObserveRequest(status int, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(statusClass(status)).Inc()
	m.RequestDuration.Observe(d.Seconds())
}

// ObserveRateLimit records a 429 and the wait that followed it.
func (m *Metrics) ObserveRateLimit(wait time.Duration) {
	if m == nil {
		return
	}
	m.RateLimitedTotal.Inc()
	m.RateLimitWait.Add(wait.Seconds())
}

// AddProducts increments the upserted products counter.
func (m *Metrics) AddProducts(n int) {
	if m == nil {
		return
	}
	m.ProductsUpserted.Add(float64(n))
}

// IncCategories increments the updated categories counter.
func (m *Metrics) IncCategories() {
	if m == nil {
		return
	}
	m.CategoriesUpdated.Inc()
}

// IncPage counts a fetched search page.
func (m *Metrics) IncPage(empty bool) {
	if m == nil {
		return
	}
	result := "products"
	if empty {
		result = "empty"
	}
	m.PagesCrawled.WithLabelValues(result).Inc()
}

// WriteTextfile dumps the registry in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

func statusClass(status int) string {
	switch {
	case status == 0:
		return "error"
	case status == 429:
		return "429"
	default:
		return fmt.Sprintf("%dxx", status/100)
	}
}
