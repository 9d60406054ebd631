package export

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLog() logrus.FieldLogger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	return log
}

func startHealth(t *testing.T) *HealthMetrics {
	t.Helper()

	h := NewHealthMetrics(testLog(), HealthConfig{Addr: "127.0.0.1:0"})
	require.NoError(t, h.Start(context.Background()))

	t.Cleanup(func() { h.Stop() })

	return h
}

func httpGet(t *testing.T, url string) (int, string) {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, string(body)
}

func TestHealthMetrics_ServesMetrics(t *testing.T) {
	h := startHealth(t)

	h.PacketsReceived.Inc()
	h.MetricsReceived.WithLabelValues("c").Add(3)

	code, body := httpGet(t, "http://"+h.Addr()+"/metrics")

	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "zabbixoor_packets_received_total 1")
	assert.Contains(t, body,
		`zabbixoor_metrics_received_total{metric_type="c"} 3`)
}

func TestHealthMetrics_Healthz(t *testing.T) {
	h := startHealth(t)

	code, body := httpGet(t, "http://"+h.Addr()+"/healthz")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body)
}

func TestHealthMetrics_Status(t *testing.T) {
	h := NewHealthMetrics(testLog(), HealthConfig{Addr: "127.0.0.1:0"})

	h.SetStatusSource(func(write func(err error, category, field string, value int64)) {
		write(nil, "zabbix", "last_flush", 1700000000)
		write(nil, "zabbix", "flush_length", 42)
	})

	require.NoError(t, h.Start(context.Background()))

	t.Cleanup(func() { h.Stop() })

	code, body := httpGet(t, "http://"+h.Addr()+"/status")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "zabbix.last_flush 1700000000\nzabbix.flush_length 42\n", body)
}

func TestHealthMetrics_StatusWithoutSource(t *testing.T) {
	h := startHealth(t)

	code, _ := httpGet(t, "http://"+h.Addr()+"/status")

	assert.Equal(t, http.StatusNoContent, code)
}

func TestHealthMetrics_StopIdempotent(t *testing.T) {
	h := NewHealthMetrics(testLog(), HealthConfig{Addr: "127.0.0.1:0"})

	// Stop before Start is a no-op.
	require.NoError(t, h.Stop())

	require.NoError(t, h.Start(context.Background()))
	require.NoError(t, h.Stop())
	require.NoError(t, h.Stop())
}

func TestHealthMetrics_AddrBeforeStart(t *testing.T) {
	h := NewHealthMetrics(testLog(), HealthConfig{Addr: ":9191"})

	assert.Equal(t, ":9191", h.Addr())
}
