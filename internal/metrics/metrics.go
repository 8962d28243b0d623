package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "freightdesk"

// HTTPMetrics groups Prometheus collectors for HTTP observability.
type HTTPMetrics struct {
	ReqTotal *prometheus.CounterVec
	ReqDur   *prometheus.HistogramVec
	InFlight prometheus.Gauge
}

// Domain counts quotation lifecycle and costing events.
type Domain struct {
	QuotationTransitions *prometheus.CounterVec
	OperationalUpdates   *prometheus.CounterVec
	Calculations         prometheus.Counter
	HSCodeLookups        *prometheus.CounterVec
}

// Registry bundles the collectors the API exposes on /metrics.
type Registry struct {
	reg    *prometheus.Registry
	HTTP   *HTTPMetrics
	Domain *Domain
}

func New() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{reg: reg}
	r.HTTP = &HTTPMetrics{
		ReqTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests handled by the server.",
		}, []string{"method", "route", "status"}),
		ReqDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency distribution in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		}, []string{"method", "route"}),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
	}
	r.Domain = &Domain{
		QuotationTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotation_transitions_total",
			Help:      "Quotation status transitions by target status.",
		}, []string{"status"}),
		OperationalUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operational_updates_total",
			Help:      "Operational cost record updates by resulting profitability.",
		}, []string{"profitability"}),
		Calculations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotation_calculations_total",
			Help:      "Number of quotation totals computed.",
		}),
		HSCodeLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hscode_lookups_total",
			Help:      "HS code rate lookups by cache result.",
		}, []string{"result"}),
	}

	mustRegister(reg,
		r.HTTP.ReqTotal, r.HTTP.ReqDur, r.HTTP.InFlight,
		r.Domain.QuotationTransitions, r.Domain.OperationalUpdates, r.Domain.Calculations, r.Domain.HSCodeLookups,
	)
	return r
}

func mustRegister(reg prometheus.Registerer, collectors ...prometheus.Collector) {
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			panic(fmt.Errorf("register collector: %w", err))
		}
	}
}

// Gatherer exposes the underlying registry for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}

// Middleware records request count, latency and in-flight gauge per route.
func (r *Registry) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		r.HTTP.InFlight.Inc()
		defer r.HTTP.InFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		r.HTTP.ReqTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		r.HTTP.ReqDur.WithLabelValues(c.Request.Method, route).Observe(float64(time.Since(start)) / float64(time.Millisecond))
	}
}

// The Domain helpers tolerate a nil receiver so services can be built without metrics.

func (d *Domain) Transition(status string) {
	if d == nil {
		return
	}
	d.QuotationTransitions.WithLabelValues(status).Inc()
}

func (d *Domain) OperationalUpdated(profitability string) {
	if d == nil {
		return
	}
	d.OperationalUpdates.WithLabelValues(profitability).Inc()
}

func (d *Domain) Calculated() {
	if d == nil {
		return
	}
	d.Calculations.Inc()
}

func (d *Domain) HSCodeLookup(result string) {
	if d == nil {
		return
	}
	d.HSCodeLookups.WithLabelValues(result).Inc()
}
