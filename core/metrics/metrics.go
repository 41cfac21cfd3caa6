// Package metrics holds the Prometheus collectors of the dispatcher and the peer transports.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dispatch outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeConfigError = "config_error"
	OutcomeError       = "error"
)

// Config holds the metric name prefixes.
type Config struct {
	Namespace string `yaml:"namespace"`
	Subsystem string `yaml:"subsystem"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{Namespace: "litbridge"}
}

// Collector wraps the Prometheus metrics of litbridge in its own registry.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	DispatchTotal    *prometheus.CounterVec
	DispatchDuration *prometheus.HistogramVec
	RemoteTotal      *prometheus.CounterVec
	Peers            prometheus.Gauge
}

// NewCollector returns a Collector with a fresh registry.
func NewCollector(cfg Config) *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		registry: reg,
		DispatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "dispatch_total",
			Help:      "Total number of dispatched contract calls",
		}, []string{"descriptor", "outcome"}),
		DispatchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "dispatch_duration_seconds",
			Help:      "Duration of dispatched contract calls in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"descriptor"}),
		RemoteTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "remote_operations_total",
			Help:      "Total number of remote element operations served",
		}, []string{"transport", "operation", "status"}),
		Peers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "connected_peers",
			Help:      "Number of connected websocket peers",
		}),
	}

	reg.MustRegister(c.DispatchTotal, c.DispatchDuration, c.RemoteTotal, c.Peers)

	return c
}

// ObserveDispatch records one dispatched call.
func (c *Collector) ObserveDispatch(descriptor, outcome string, d time.Duration) {
	if c == nil {
		return
	}

	c.DispatchTotal.WithLabelValues(descriptor, outcome).Inc()
	c.DispatchDuration.WithLabelValues(descriptor).Observe(d.Seconds())
}

// ObserveRemote records one remote operation served by a transport.
func (c *Collector) ObserveRemote(transport, operation string, err error) {
	if c == nil {
		return
	}

	status := OutcomeOK
	if err != nil {
		status = OutcomeError
	}

	c.RemoteTotal.WithLabelValues(transport, operation, status).Inc()
}

// PeerConnected adjusts the connected peer gauge by delta.
func (c *Collector) PeerConnected(delta int) {
	if c == nil {
		return
	}

	c.Peers.Add(float64(delta))
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns the HTTP handler exposing the registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
