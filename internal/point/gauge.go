package point

// GaugePoints converts one gauge into its published item: the current value
// recorded against the bare item key.
func GaugePoints(cfg GaugePublishConfig, host, key string, value float64) []Point {
	if !cfg.IsEnabled() {
		return nil
	}

	return []Point{{
		Host:  host,
		Key:   key,
		Value: value,
	}}
}
