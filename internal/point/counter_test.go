package point

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(v bool) *bool { return &v }

func TestCounterPoints_Defaults(t *testing.T) {
	pts := CounterPoints(CounterPublishConfig{}, "web01", "requests", 300, 10000)

	require.Len(t, pts, 2)
	assert.Equal(t, Point{Host: "web01", Key: "requests[total]", Value: 300}, pts[0])
	// 300 over a 10s interval.
	assert.Equal(t, Point{Host: "web01", Key: "requests[avg]", Value: 30}, pts[1])
}

func TestCounterPoints_TotalOnly(t *testing.T) {
	cfg := CounterPublishConfig{SendAvg: boolPtr(false)}

	for _, intervalMs := range []int64{1000, 10000, 60000} {
		pts := CounterPoints(cfg, "web01", "requests", 42, intervalMs)

		require.Len(t, pts, 1)
		assert.Equal(t, "requests[total]", pts[0].Key)
		assert.Equal(t, float64(42), pts[0].Value)
	}
}

func TestCounterPoints_Disabled(t *testing.T) {
	cfg := CounterPublishConfig{Enabled: boolPtr(false)}

	assert.Empty(t, CounterPoints(cfg, "web01", "requests", 42, 10000))
}

func TestGaugePoints(t *testing.T) {
	pts := GaugePoints(GaugePublishConfig{}, "web01", "queue_depth", 17.5)

	require.Len(t, pts, 1)
	assert.Equal(t, Point{Host: "web01", Key: "queue_depth", Value: 17.5}, pts[0])
}

func TestGaugePoints_Disabled(t *testing.T) {
	cfg := GaugePublishConfig{Enabled: boolPtr(false)}

	assert.Empty(t, GaugePoints(cfg, "web01", "queue_depth", 17.5))
}
