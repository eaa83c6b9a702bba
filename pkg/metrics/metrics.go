package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "volunteer_roster"

// Collector holds the roster's Prometheus metrics on a private registry.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry     *prometheus.Registry
	mirrorWrites *prometheus.CounterVec
	volunteers   prometheus.Gauge
	httpRequests *prometheus.CounterVec
}

// New creates a collector with its own registry
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		mirrorWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mirror_writes_total",
			Help:      "Mirror write attempts by result.",
		}, []string{"result"}),
		volunteers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "volunteers",
			Help:      "Number of volunteers held in memory.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
	}

	c.registry.MustRegister(
		c.mirrorWrites,
		c.volunteers,
		c.httpRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// MirrorWrite records the outcome of a single mirror write attempt
func (c *Collector) MirrorWrite(err error) {
	if c == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.mirrorWrites.WithLabelValues(result).Inc()
}

// SetVolunteerCount records the current size of the roster
func (c *Collector) SetVolunteerCount(n int) {
	if c == nil {
		return
	}
	c.volunteers.Set(float64(n))
}

// HTTPRequest records a handled HTTP request
func (c *Collector) HTTPRequest(method, route string, status int) {
	if c == nil {
		return
	}
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
