package statsd

import "time"

// Snapshot is one flush interval's aggregated metrics. It is handed
// read-only to the flush handler; the engine never touches it again.
type Snapshot struct {
	// Counters maps metric name to the cumulative total for the interval.
	Counters map[string]float64

	// Timers maps metric name to the raw samples observed during the
	// interval. A timer that received no samples this interval is absent.
	Timers map[string][]float64

	// Gauges maps metric name to the current value.
	Gauges map[string]float64

	// Thresholds are the percentile cut points for timer summaries.
	Thresholds []float64

	// Interval is the length of the aggregation window.
	Interval time.Duration
}

// Size returns the number of metrics in the snapshot.
func (s *Snapshot) Size() int {
	return len(s.Counters) + len(s.Timers) + len(s.Gauges)
}
