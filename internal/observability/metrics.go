package observability

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"zonewatch/internal/models"
)

// Collector bundles the Prometheus metrics of the dashboard service.
type Collector struct {
	gatherer prometheus.Gatherer

	Travellers   *prometheus.GaugeVec
	Refreshes    *prometheus.CounterVec
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// NewCollector registers the metrics against reg, defaulting to the global
// registry when nil. Registering twice on one registry reuses the existing
// collectors.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	travellers, err := register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "zonewatch_travellers",
		Help: "Travellers in the current batch, by summary bucket (total, safe, restricted, inactive).",
	}, []string{"bucket"}), "zonewatch_travellers")
	if err != nil {
		return nil, err
	}

	refreshes, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "zonewatch_refreshes_total",
		Help: "Generated batches, labeled by trigger.",
	}, []string{"trigger"}), "zonewatch_refreshes_total")
	if err != nil {
		return nil, err
	}

	requests, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "zonewatch_http_requests_total",
		Help: "Handled HTTP requests, labeled by method, route pattern and status code.",
	}, []string{"method", "route", "code"}), "zonewatch_http_requests_total")
	if err != nil {
		return nil, err
	}

	durations, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "zonewatch_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"method", "route"}), "zonewatch_http_request_duration_seconds")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:     gatherer,
		Travellers:   travellers,
		Refreshes:    refreshes,
		HTTPRequests: requests,
		HTTPDuration: durations,
	}, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// RecordRefresh updates the traveller gauges for a freshly published batch.
func (c *Collector) RecordRefresh(trigger string, s models.Summary) {
	if c == nil {
		return
	}
	c.Refreshes.WithLabelValues(trigger).Inc()
	c.Travellers.WithLabelValues("total").Set(float64(s.Total))
	c.Travellers.WithLabelValues("safe").Set(float64(s.Safe))
	c.Travellers.WithLabelValues("restricted").Set(float64(s.Restricted))
	c.Travellers.WithLabelValues("inactive").Set(float64(s.Inactive))
}

// Middleware records request counts and latency by chi route pattern, so
// /travellers/{id} is one series rather than one per traveller.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		c.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		c.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C, name string) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
			var zero C
			return zero, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		var zero C
		return zero, err
	}
	return c, nil
}
