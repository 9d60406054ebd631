// Package relay converts aggregated metric snapshots into Zabbix data
// points and orchestrates their delivery through a batching transport.
package relay

import (
	"context"
	"sort"
	"time"

	processor "github.com/ethpandaops/go-batch-processor"
	"github.com/sirupsen/logrus"

	"github.com/ethpandaops/zabbixoor/internal/export"
	"github.com/ethpandaops/zabbixoor/internal/point"
	"github.com/ethpandaops/zabbixoor/internal/statsd"
	"github.com/ethpandaops/zabbixoor/internal/target"
)

// Relay is the flush orchestrator. One Flush call converts a snapshot into
// a flat point list and submits it; per-metric failures are contained, and
// the transport outcome lands in Stats via the completion callback.
type Relay struct {
	log       logrus.FieldLogger
	resolver  target.Resolver
	sessions  SessionFactory
	publisher Publisher
	publish   point.PublishConfig
	stats     *Stats
	health    *export.HealthMetrics

	// Optional NDJSON mirror of every flushed point.
	mirror *processor.BatchItemProcessor[point.Point]
}

// New creates a relay. A nil publisher falls back to IdentityPublisher;
// health may be nil in tests.
func New(
	log logrus.FieldLogger,
	resolver target.Resolver,
	sessions SessionFactory,
	publisher Publisher,
	publish point.PublishConfig,
	stats *Stats,
	health *export.HealthMetrics,
) *Relay {
	if publisher == nil {
		publisher = IdentityPublisher{}
	}

	return &Relay{
		log:       log.WithField("component", "relay"),
		resolver:  resolver,
		sessions:  sessions,
		publisher: publisher,
		publish:   publish,
		stats:     stats,
		health:    health,
	}
}

// SetMirror attaches an HTTP mirror processor that receives a copy of
// every flushed point. Must be called before the first Flush.
func (r *Relay) SetMirror(proc *processor.BatchItemProcessor[point.Point]) {
	r.mirror = proc
}

// Stats returns the relay's self-observability record.
func (r *Relay) Stats() *Stats {
	return r.stats
}

// Flush converts the snapshot into data points and submits them. A metric
// whose target cannot be resolved is logged, stamped in Stats, and skipped;
// one bad name never aborts the flush. Flush itself never fails — transport
// errors arrive later through the completion callback.
func (r *Relay) Flush(ctx context.Context, flushTime time.Time, snap statsd.Snapshot) {
	start := time.Now()
	intervalMs := snap.Interval.Milliseconds()

	pts := make([]point.Point, 0, snap.Size()*2)

	// Categories flush in a fixed order, names sorted within each, so a
	// given snapshot always produces the same point sequence.
	for _, name := range sortedKeys(snap.Counters) {
		tgt, ok := r.resolve(name)
		if !ok {
			continue
		}

		pts = append(pts, point.CounterPoints(
			r.publish.Counters, tgt.Host, tgt.Key,
			snap.Counters[name], intervalMs,
		)...)
	}

	for _, name := range sortedKeys(snap.Timers) {
		tgt, ok := r.resolve(name)
		if !ok {
			continue
		}

		pts = append(pts, point.TimerPoints(
			r.publish.Timers, tgt.Host, tgt.Key,
			snap.Timers[name], snap.Thresholds,
		)...)
	}

	for _, name := range sortedKeys(snap.Gauges) {
		tgt, ok := r.resolve(name)
		if !ok {
			continue
		}

		pts = append(pts, point.GaugePoints(
			r.publish.Gauges, tgt.Host, tgt.Key, snap.Gauges[name],
		)...)
	}

	if r.health != nil {
		r.health.FlushDuration.Observe(time.Since(start).Seconds())
	}

	if r.mirror != nil {
		r.mirrorPoints(ctx, pts)
	}

	session := r.sessions(flushTime, func(resp Response) {
		r.complete(start, flushTime, len(pts), resp)
	})

	r.publisher.Publish(pts, session)
}

// resolve maps a metric name to its target, containing any failure.
func (r *Relay) resolve(name string) (target.Target, bool) {
	tgt, err := r.resolver.Resolve(name)
	if err != nil {
		r.stats.RecordException(time.Now())

		if r.health != nil {
			r.health.ResolutionErrors.Inc()
		}

		r.log.WithError(err).WithField("metric", name).
			Error("Dropping metric with unresolvable target")

		return target.Target{}, false
	}

	return tgt, true
}

// complete records the transport outcome for one flush.
func (r *Relay) complete(
	start, flushTime time.Time,
	produced int,
	resp Response,
) {
	if len(resp.Errors) > 0 {
		r.stats.RecordException(time.Now())

		if r.health != nil {
			r.health.TransportErrors.Inc()
		}

		r.log.WithField("error", resp.Errors[0]).
			Error("Zabbix rejected flush")
	} else {
		r.stats.SetLastFlush(flushTime)
		// Duration is measured against the flush timestamp just
		// recorded, not against the previous flush.
		r.stats.SetFlushTime(start.Sub(flushTime))
	}

	if resp.StatusMessage != "" {
		r.log.WithField("status", resp.StatusMessage).
			Info("Zabbix send finished")
	}

	length := resp.Total
	if produced > length {
		length = produced
	}

	r.stats.SetFlushLength(length)

	if r.health != nil {
		r.health.FlushesTotal.Inc()
		r.health.PointsPublished.Add(float64(length))
	}
}

// mirrorPoints forwards a copy of the flushed points to the HTTP mirror.
// Best effort: a full mirror queue never delays the Zabbix path.
func (r *Relay) mirrorPoints(ctx context.Context, pts []point.Point) {
	items := make([]*point.Point, len(pts))
	for i := range pts {
		items[i] = &pts[i]
	}

	if err := r.mirror.Write(ctx, items); err != nil {
		r.log.WithError(err).Debug("Mirror write failed")
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
