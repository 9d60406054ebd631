package point

// PublishConfig controls which derived items each metric category emits.
// Every flag defaults to enabled; configuration is explicit opt-out.
type PublishConfig struct {
	// Counters configures counter items.
	Counters CounterPublishConfig `yaml:"counters"`

	// Timers configures timer summary items.
	Timers TimerPublishConfig `yaml:"timers"`

	// Gauges configures gauge items.
	Gauges GaugePublishConfig `yaml:"gauges"`
}

// CounterPublishConfig configures counter items.
type CounterPublishConfig struct {
	// Enabled publishes counters at all. Defaults to true.
	Enabled *bool `yaml:"enabled"`

	// SendTotal publishes the cumulative total as key[total].
	// Defaults to true.
	SendTotal *bool `yaml:"send_total"`

	// SendAvg publishes the per-second rate as key[avg].
	// Defaults to true.
	SendAvg *bool `yaml:"send_avg"`
}

// TimerPublishConfig configures timer summary items.
type TimerPublishConfig struct {
	// Enabled publishes timers at all. Defaults to true.
	Enabled *bool `yaml:"enabled"`

	// SendLower publishes the smallest sample as key[lower].
	// Defaults to true.
	SendLower *bool `yaml:"send_lower"`

	// SendUpper publishes the largest sample as key[upper].
	// Defaults to true.
	SendUpper *bool `yaml:"send_upper"`

	// SendCount publishes the sample count as key[count].
	// Defaults to true.
	SendCount *bool `yaml:"send_count"`

	// SendMeanPercentile publishes the trimmed mean at each configured
	// percentile as key[mean][p]. Defaults to true.
	SendMeanPercentile *bool `yaml:"send_mean_percentile"`

	// SendUpperPercentile publishes the boundary value at each configured
	// percentile as key[upper][p]. Defaults to true.
	SendUpperPercentile *bool `yaml:"send_upper_percentile"`
}

// GaugePublishConfig configures gauge items.
type GaugePublishConfig struct {
	// Enabled publishes gauges at all. Defaults to true.
	Enabled *bool `yaml:"enabled"`
}

// IsEnabled returns whether counters are published.
func (c *CounterPublishConfig) IsEnabled() bool {
	if c.Enabled == nil {
		return true
	}

	return *c.Enabled
}

// IsSendTotal returns whether the cumulative total is published.
func (c *CounterPublishConfig) IsSendTotal() bool {
	if c.SendTotal == nil {
		return true
	}

	return *c.SendTotal
}

// IsSendAvg returns whether the per-second rate is published.
func (c *CounterPublishConfig) IsSendAvg() bool {
	if c.SendAvg == nil {
		return true
	}

	return *c.SendAvg
}

// IsEnabled returns whether timers are published.
func (c *TimerPublishConfig) IsEnabled() bool {
	if c.Enabled == nil {
		return true
	}

	return *c.Enabled
}

// IsSendLower returns whether the minimum sample is published.
func (c *TimerPublishConfig) IsSendLower() bool {
	if c.SendLower == nil {
		return true
	}

	return *c.SendLower
}

// IsSendUpper returns whether the maximum sample is published.
func (c *TimerPublishConfig) IsSendUpper() bool {
	if c.SendUpper == nil {
		return true
	}

	return *c.SendUpper
}

// IsSendCount returns whether the sample count is published.
func (c *TimerPublishConfig) IsSendCount() bool {
	if c.SendCount == nil {
		return true
	}

	return *c.SendCount
}

// IsSendMeanPercentile returns whether trimmed means are published.
func (c *TimerPublishConfig) IsSendMeanPercentile() bool {
	if c.SendMeanPercentile == nil {
		return true
	}

	return *c.SendMeanPercentile
}

// IsSendUpperPercentile returns whether percentile boundaries are published.
func (c *TimerPublishConfig) IsSendUpperPercentile() bool {
	if c.SendUpperPercentile == nil {
		return true
	}

	return *c.SendUpperPercentile
}

// IsEnabled returns whether gauges are published.
func (c *GaugePublishConfig) IsEnabled() bool {
	if c.Enabled == nil {
		return true
	}

	return *c.Enabled
}
