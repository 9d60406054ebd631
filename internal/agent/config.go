package agent

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ethpandaops/zabbixoor/internal/export"
	exporthttp "github.com/ethpandaops/zabbixoor/internal/export/http"
	"github.com/ethpandaops/zabbixoor/internal/point"
	"github.com/ethpandaops/zabbixoor/internal/statsd"
	"github.com/ethpandaops/zabbixoor/internal/zabbix"
)

// Config is the top-level configuration for the zabbixoor relay.
type Config struct {
	// LogLevel sets the logging verbosity (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// Statsd configures the UDP ingest and aggregation engine.
	Statsd statsd.Config `yaml:"statsd"`

	// Zabbix configures the trapper transport.
	Zabbix zabbix.Config `yaml:"zabbix"`

	// Publish configures which items each metric category emits.
	Publish point.PublishConfig `yaml:"publish"`

	// Mirror configures the optional HTTP NDJSON mirror of flushed points.
	Mirror exporthttp.Config `yaml:"mirror"`

	// Health configures the Prometheus health metrics server.
	Health export.HealthConfig `yaml:"health"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Statsd:   statsd.DefaultConfig(),
		Zabbix:   zabbix.DefaultConfig(),
		Mirror:   exporthttp.DefaultConfig(),
		Health: export.HealthConfig{
			Addr: ":9090",
		},
	}
}

// LoadConfig reads and parses a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg := DefaultConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for required fields and consistency.
// Invalid configuration is fatal at startup, never recovered.
func (c *Config) Validate() error {
	if err := c.Statsd.Validate(); err != nil {
		return err
	}

	if err := c.Zabbix.Validate(); err != nil {
		return err
	}

	if err := c.Mirror.Validate(); err != nil {
		return err
	}

	return nil
}
