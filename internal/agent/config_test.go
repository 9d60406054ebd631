package agent

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
statsd:
  listen: ":8125"
  flush_interval: 30s
  percent_thresholds: [90, 99]
zabbix:
  host: zabbix.example.com
  send_timestamps: true
publish:
  timers:
    send_upper_percentile: false
mirror:
  enabled: true
  address: http://collector:8080/points
  compression: zstd
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.Statsd.FlushInterval)
	assert.Equal(t, []float64{90, 99}, cfg.Statsd.PercentThresholds)
	assert.Equal(t, "zabbix.example.com", cfg.Zabbix.Host)
	assert.True(t, cfg.Zabbix.SendTimestamps)
	assert.False(t, cfg.Publish.Timers.IsSendUpperPercentile())
	assert.True(t, cfg.Mirror.Enabled)
	assert.Equal(t, "zstd", cfg.Mirror.Compression)

	// Unset fields keep their defaults.
	assert.Equal(t, 10051, cfg.Zabbix.Port)
	assert.Equal(t, 250, cfg.Zabbix.BatchSize)
	assert.True(t, cfg.Publish.Counters.IsEnabled())
	assert.Equal(t, ":9090", cfg.Health.Addr)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestLoadConfig_BadYAML(t *testing.T) {
	path := writeConfig(t, "zabbix: [not a mapping")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}

func TestLoadConfig_MissingZabbixHost(t *testing.T) {
	path := writeConfig(t, "log_level: info\n")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zabbix.host is required")
}

func TestLoadConfig_BadThreshold(t *testing.T) {
	path := writeConfig(t, `
statsd:
  percent_thresholds: [100]
zabbix:
  host: zabbix.example.com
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "between 0 and 100")
}

func TestLoadConfig_MirrorRequiresAddress(t *testing.T) {
	path := writeConfig(t, `
zabbix:
  host: zabbix.example.com
mirror:
  enabled: true
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mirror address is required")
}
