// Package export exposes the relay's self-observability surface: a
// Prometheus metrics server with pprof and a plain-text status endpoint.
package export

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/pprof"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// HealthConfig configures the health metrics server.
type HealthConfig struct {
	// Addr is the listen address for the health metrics server.
	// Defaults to ":9090".
	Addr string `yaml:"addr"`
}

// StatusSource writes one status field per call through the provided
// writer. The relay's stats record implements this shape.
type StatusSource func(write func(err error, category, field string, value int64))

// HealthMetrics exposes Prometheus metrics for relay health.
type HealthMetrics struct {
	log      logrus.FieldLogger
	addr     string
	server   *http.Server
	listener net.Listener
	registry *prometheus.Registry
	status   StatusSource

	// Ingest layer.
	PacketsReceived prometheus.Counter
	MetricsReceived *prometheus.CounterVec // metric_type
	MetricsDropped  prometheus.Counter
	BadLines        prometheus.Counter

	// Flush layer.
	FlushesTotal     prometheus.Counter
	PointsPublished  prometheus.Counter
	ResolutionErrors prometheus.Counter
	FlushDuration    prometheus.Histogram

	// Transport layer.
	TransportErrors  prometheus.Counter
	BatchesSent      prometheus.Counter
	BatchSendSeconds prometheus.Histogram

	running atomic.Bool
}

// NewHealthMetrics creates a new health metrics server.
func NewHealthMetrics(
	log logrus.FieldLogger,
	cfg HealthConfig,
) *HealthMetrics {
	reg := prometheus.NewRegistry()

	h := &HealthMetrics{
		log:      log.WithField("component", "health"),
		addr:     cfg.Addr,
		registry: reg,

		PacketsReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "zabbixoor",
			Name:      "packets_received_total",
			Help:      "Total statsd datagrams received.",
		}),
		MetricsReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zabbixoor",
			Name:      "metrics_received_total",
			Help:      "Total parsed statsd metrics by type.",
		}, []string{"metric_type"}),
		MetricsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "zabbixoor",
			Name:      "metrics_dropped_total",
			Help:      "Total metrics dropped due to ingest backpressure.",
		}),
		BadLines: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "zabbixoor",
			Name:      "bad_lines_total",
			Help:      "Total statsd lines that failed to parse.",
		}),
		FlushesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "zabbixoor",
			Name:      "flushes_total",
			Help:      "Total flush cycles completed.",
		}),
		PointsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "zabbixoor",
			Name:      "points_published_total",
			Help:      "Total data points handed to the Zabbix transport.",
		}),
		ResolutionErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "zabbixoor",
			Name:      "resolution_errors_total",
			Help:      "Total metrics dropped because no target resolved.",
		}),
		FlushDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "zabbixoor",
			Name:      "flush_duration_seconds",
			Help:      "Time spent converting a snapshot into data points.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		TransportErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "zabbixoor",
			Name:      "transport_errors_total",
			Help:      "Total flushes that ended with a transport error.",
		}),
		BatchesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "zabbixoor",
			Name:      "batches_sent_total",
			Help:      "Total trapper batches sent to the Zabbix server.",
		}),
		BatchSendSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "zabbixoor",
			Name:      "batch_send_seconds",
			Help:      "Round-trip time of a single trapper batch.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}

	reg.MustRegister(
		h.PacketsReceived,
		h.MetricsReceived,
		h.MetricsDropped,
		h.BadLines,
		h.FlushesTotal,
		h.PointsPublished,
		h.ResolutionErrors,
		h.FlushDuration,
		h.TransportErrors,
		h.BatchesSent,
		h.BatchSendSeconds,
	)

	return h
}

// SetStatusSource registers the source backing the /status endpoint.
// Must be called before Start.
func (h *HealthMetrics) SetStatusSource(src StatusSource) {
	h.status = src
}

// Start begins serving the /metrics, /status, and pprof endpoints.
func (h *HealthMetrics) Start(_ context.Context) error {
	if h.addr == "" {
		h.addr = ":9090"
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(
		h.registry,
		promhttp.HandlerOpts{},
	))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})
	mux.HandleFunc("/status", h.handleStatus)

	// pprof endpoints for CPU/memory profiling.
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	ln, err := net.Listen("tcp", h.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", h.addr, err)
	}

	h.listener = ln

	h.server = &http.Server{
		Handler: mux,
	}

	h.running.Store(true)

	go func() {
		h.log.WithField("addr", ln.Addr().String()).
			Info("Health metrics server started")

		if err := h.server.Serve(ln); err != nil &&
			err != http.ErrServerClosed {
			h.log.WithError(err).
				Error("Health metrics server error")
		}

		h.running.Store(false)
	}()

	return nil
}

// handleStatus renders one "category.field value" line per status field.
func (h *HealthMetrics) handleStatus(w http.ResponseWriter, _ *http.Request) {
	if h.status == nil {
		w.WriteHeader(http.StatusNoContent)

		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	h.status(func(err error, category, field string, value int64) {
		if err != nil {
			fmt.Fprintf(w, "%s.%s error: %v\n", category, field, err)

			return
		}

		fmt.Fprintf(w, "%s.%s %d\n", category, field, value)
	})
}

// Addr returns the actual listener address. Useful when started
// with ":0" to get the OS-assigned port.
func (h *HealthMetrics) Addr() string {
	if h.listener != nil {
		return h.listener.Addr().String()
	}

	return h.addr
}

// Stop gracefully shuts down the health metrics server.
func (h *HealthMetrics) Stop() error {
	if h.server == nil {
		return nil
	}

	return h.server.Close()
}
