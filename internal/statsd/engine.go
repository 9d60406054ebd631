// Package statsd receives statsd datagrams over UDP and aggregates them
// into per-interval snapshots for the flush handler.
package statsd

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ethpandaops/zabbixoor/internal/export"
)

// FlushHandler receives one interval's snapshot. Registered by the host
// wiring before Start; the engine calls it from its run loop, so a handler
// must not block for long.
type FlushHandler func(ctx context.Context, flushTime time.Time, snap Snapshot)

// Engine listens for statsd traffic and rotates an aggregation buffer on
// every flush interval.
type Engine struct {
	log     logrus.FieldLogger
	cfg     Config
	health  *export.HealthMetrics
	onFlush FlushHandler

	conn     *net.UDPConn
	metricCh chan Metric

	// Aggregation state, owned by the run loop goroutine.
	counters map[string]float64
	timers   map[string][]float64
	gauges   map[string]float64

	cancel context.CancelFunc
	done   chan struct{}
}

// NewEngine creates a statsd ingest engine.
func NewEngine(
	log logrus.FieldLogger,
	cfg Config,
	health *export.HealthMetrics,
) *Engine {
	cfg.ApplyDefaults()

	return &Engine{
		log:      log.WithField("component", "statsd"),
		cfg:      cfg,
		health:   health,
		metricCh: make(chan Metric, 8192),
		counters: make(map[string]float64),
		timers:   make(map[string][]float64),
		gauges:   make(map[string]float64),
		done:     make(chan struct{}),
	}
}

// OnFlush registers the snapshot handler. Must be called before Start.
func (e *Engine) OnFlush(fn FlushHandler) {
	e.onFlush = fn
}

// Start binds the UDP socket and starts the read and aggregation loops.
func (e *Engine) Start(ctx context.Context) error {
	addr, err := net.ResolveUDPAddr("udp", e.cfg.Listen)
	if err != nil {
		return fmt.Errorf("resolving listen address %s: %w", e.cfg.Listen, err)
	}

	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", e.cfg.Listen, err)
	}

	e.conn = conn

	ctx, e.cancel = context.WithCancel(ctx)

	go e.readLoop(ctx)
	go e.runLoop(ctx)

	e.log.WithFields(logrus.Fields{
		"listen":         conn.LocalAddr().String(),
		"flush_interval": e.cfg.FlushInterval,
	}).Info("statsd engine started")

	return nil
}

// Addr returns the bound UDP address. Useful when started with ":0" to
// get the OS-assigned port.
func (e *Engine) Addr() string {
	if e.conn != nil {
		return e.conn.LocalAddr().String()
	}

	return e.cfg.Listen
}

// Stop shuts down the engine. The interval in progress is discarded; the
// upstream aggregates it would carry are re-sent by clients anyway.
func (e *Engine) Stop() error {
	if e.cancel == nil {
		return nil
	}

	e.cancel()

	if e.conn != nil {
		e.conn.Close()
	}

	<-e.done

	return nil
}

// readLoop receives datagrams and feeds parsed metrics into the channel.
func (e *Engine) readLoop(ctx context.Context) {
	buf := make([]byte, 65535)

	for {
		n, _, err := e.conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
			}

			e.log.WithError(err).Warn("UDP read failed")

			continue
		}

		if e.health != nil {
			e.health.PacketsReceived.Inc()
		}

		e.handlePacket(buf[:n])
	}
}

// handlePacket splits a datagram into lines and queues each parsed metric.
func (e *Engine) handlePacket(data []byte) {
	for _, raw := range bytes.Split(data, []byte{'\n'}) {
		line := string(bytes.TrimSpace(raw))
		if line == "" {
			continue
		}

		m, err := ParseLine(line)
		if err != nil {
			if e.health != nil {
				e.health.BadLines.Inc()
			}

			e.log.WithError(err).Debug("Discarding bad statsd line")

			continue
		}

		select {
		case e.metricCh <- m:
			if e.health != nil {
				e.health.MetricsReceived.WithLabelValues(m.Type.String()).Inc()
			}
		default:
			if e.health != nil {
				e.health.MetricsDropped.Inc()
			}

			e.log.Warn("statsd metric channel full, dropping metric")
		}
	}
}

// runLoop owns the aggregation maps: it applies incoming metrics and flushes
// on every interval tick.
func (e *Engine) runLoop(ctx context.Context) {
	defer close(e.done)

	ticker := time.NewTicker(e.cfg.FlushInterval)
	defer ticker.Stop()

	// Batch size for draining the metric channel.
	const batchSize = 256

	for {
		select {
		case <-ctx.Done():
			return
		case m := <-e.metricCh:
			e.apply(m)
			e.drainMetrics(batchSize - 1)
		case <-ticker.C:
			e.flush(ctx, time.Now())
		}
	}
}

// drainMetrics applies up to n queued metrics without blocking.
func (e *Engine) drainMetrics(n int) {
	for i := 0; i < n; i++ {
		select {
		case m := <-e.metricCh:
			e.apply(m)
		default:
			return
		}
	}
}

// apply folds one metric into the current interval's aggregates.
func (e *Engine) apply(m Metric) {
	switch m.Type {
	case TypeCounter:
		// Scale by the inverse sample rate to estimate the true total.
		e.counters[m.Name] += m.Value / m.Rate
	case TypeTimer:
		e.timers[m.Name] = append(e.timers[m.Name], m.Value)
	case TypeGauge:
		if m.Delta {
			e.gauges[m.Name] += m.Value
		} else {
			e.gauges[m.Name] = m.Value
		}
	}
}

// flush snapshots the current aggregates, resets the interval state, and
// hands the snapshot to the registered handler.
func (e *Engine) flush(ctx context.Context, now time.Time) {
	snap := Snapshot{
		Counters:   e.counters,
		Timers:     e.timers,
		Gauges:     make(map[string]float64, len(e.gauges)),
		Thresholds: e.cfg.PercentThresholds,
		Interval:   e.cfg.FlushInterval,
	}

	for name, value := range e.gauges {
		snap.Gauges[name] = value
	}

	// Counters and timers start fresh each interval. Gauges keep their
	// last value unless configured otherwise.
	e.counters = make(map[string]float64)
	e.timers = make(map[string][]float64)

	if e.cfg.DeleteGauges {
		e.gauges = make(map[string]float64)
	}

	if e.onFlush != nil {
		e.onFlush(ctx, now, snap)
	}
}
