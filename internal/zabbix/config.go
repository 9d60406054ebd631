package zabbix

import (
	"fmt"
	"time"
)

// Config configures the Zabbix trapper transport.
type Config struct {
	// Host is the Zabbix server or proxy receiving trapper data.
	Host string `yaml:"host"`

	// Port is the trapper port. Defaults to 10051.
	Port int `yaml:"port"`

	// Timeout bounds a single batch send, connect included.
	// Defaults to 5s.
	Timeout time.Duration `yaml:"timeout"`

	// BatchSize caps the number of items per trapper request.
	// Defaults to 250.
	BatchSize int `yaml:"batch_size"`

	// MaxInflight caps concurrent trapper connections. Defaults to 2.
	MaxInflight int `yaml:"max_inflight"`

	// SendTimestamps attaches the flush time as each item's clock, so
	// values land on the interval they were aggregated in rather than
	// the moment they arrived. Defaults to false.
	SendTimestamps bool `yaml:"send_timestamps"`

	// StaticHost routes every metric to this Zabbix host instead of
	// decoding target hosts from metric names.
	StaticHost string `yaml:"static_host"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Port:        10051,
		Timeout:     5 * time.Second,
		BatchSize:   250,
		MaxInflight: 2,
	}
}

// ApplyDefaults applies default values to unset fields.
func (c *Config) ApplyDefaults() {
	defaults := DefaultConfig()

	if c.Port <= 0 {
		c.Port = defaults.Port
	}

	if c.Timeout <= 0 {
		c.Timeout = defaults.Timeout
	}

	if c.BatchSize <= 0 {
		c.BatchSize = defaults.BatchSize
	}

	if c.MaxInflight <= 0 {
		c.MaxInflight = defaults.MaxInflight
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("zabbix.host is required")
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("zabbix.port %d is out of range", c.Port)
	}

	return nil
}
