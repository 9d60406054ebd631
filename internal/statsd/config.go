package statsd

import (
	"fmt"
	"time"
)

// Config configures the statsd ingest engine.
type Config struct {
	// Listen is the UDP address for statsd traffic. Defaults to ":8125".
	Listen string `yaml:"listen"`

	// FlushInterval is the aggregation window length. Counters and timers
	// are reset after every flush. Defaults to 10s.
	FlushInterval time.Duration `yaml:"flush_interval"`

	// PercentThresholds are the percentile cut points used for timer
	// summaries. Each must lie in (0, 100). Defaults to [90].
	PercentThresholds []float64 `yaml:"percent_thresholds"`

	// DeleteGauges drops gauge values after each flush instead of
	// re-reporting the last seen value every interval. Defaults to false.
	DeleteGauges bool `yaml:"delete_gauges"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Listen:            ":8125",
		FlushInterval:     10 * time.Second,
		PercentThresholds: []float64{90},
	}
}

// ApplyDefaults applies default values to unset fields.
func (c *Config) ApplyDefaults() {
	defaults := DefaultConfig()

	if c.Listen == "" {
		c.Listen = defaults.Listen
	}

	if c.FlushInterval <= 0 {
		c.FlushInterval = defaults.FlushInterval
	}

	if len(c.PercentThresholds) == 0 {
		c.PercentThresholds = defaults.PercentThresholds
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.FlushInterval <= 0 {
		return fmt.Errorf("flush_interval must be positive")
	}

	for _, p := range c.PercentThresholds {
		if p <= 0 || p >= 100 {
			return fmt.Errorf(
				"percent threshold %v must be between 0 and 100 exclusive", p,
			)
		}
	}

	return nil
}
