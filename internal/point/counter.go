package point

// CounterPoints converts one aggregated counter into its published items.
// total is the cumulative value over the flush interval; intervalMs must be
// positive, which the flush loop guarantees.
func CounterPoints(
	cfg CounterPublishConfig,
	host, key string,
	total float64,
	intervalMs int64,
) []Point {
	if !cfg.IsEnabled() {
		return nil
	}

	pts := make([]Point, 0, 2)

	if cfg.IsSendTotal() {
		pts = append(pts, Point{
			Host:  host,
			Key:   key + "[total]",
			Value: total,
		})
	}

	if cfg.IsSendAvg() {
		// Per-second rate over the flush interval.
		pts = append(pts, Point{
			Host:  host,
			Key:   key + "[avg]",
			Value: total / (float64(intervalMs) / 1000),
		})
	}

	return pts
}
