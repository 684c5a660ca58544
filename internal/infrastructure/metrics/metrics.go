package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ServerMetrics struct {
	Requests       *prometheus.CounterVec
	LatencyMS      *prometheus.HistogramVec
	OrdersCreated  prometheus.Counter
	Transitions    *prometheus.CounterVec
	CatalogLookups *prometheus.CounterVec
}

func NewServerMetrics(service string, reg prometheus.Registerer) *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "edushare",
		Subsystem: service,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"handler", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "edushare",
		Subsystem: service,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"handler"})
	ordersCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "edushare",
		Subsystem: service,
		Name:      "shares_created_total",
		Help:      "Shares persisted in pending status.",
	})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "edushare",
		Subsystem: service,
		Name:      "share_transitions_total",
		Help:      "Applied share status transitions.",
	}, []string{"from", "to"})
	catalogLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "edushare",
		Subsystem: service,
		Name:      "catalog_lookups_total",
		Help:      "Catalog item lookups by outcome.",
	}, []string{"outcome"})

	reg.MustRegister(requests, latency, ordersCreated, transitions, catalogLookups)
	return &ServerMetrics{
		Requests:       requests,
		LatencyMS:      latency,
		OrdersCreated:  ordersCreated,
		Transitions:    transitions,
		CatalogLookups: catalogLookups,
	}
}

// Middleware records request count and latency per chi route pattern.
func (m *ServerMetrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		handler := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			handler = r.Method + " " + rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.Requests.WithLabelValues(handler, strconv.Itoa(status)).Inc()
		m.LatencyMS.WithLabelValues(handler).Observe(float64(time.Since(start).Milliseconds()))
	})
}

func (m *ServerMetrics) ObserveOrderCreated() {
	m.OrdersCreated.Inc()
}

func (m *ServerMetrics) ObserveTransition(from, to string) {
	m.Transitions.WithLabelValues(from, to).Inc()
}

func (m *ServerMetrics) ObserveCatalogLookup(outcome string) {
	m.CatalogLookups.WithLabelValues(outcome).Inc()
}

func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
