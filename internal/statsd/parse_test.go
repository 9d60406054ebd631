package statsd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine_Counter(t *testing.T) {
	m, err := ParseLine("web01_requests:1|c")
	require.NoError(t, err)

	assert.Equal(t, "web01_requests", m.Name)
	assert.Equal(t, TypeCounter, m.Type)
	assert.Equal(t, float64(1), m.Value)
	assert.Equal(t, float64(1), m.Rate)
}

func TestParseLine_SampledCounter(t *testing.T) {
	m, err := ParseLine("web01_requests:1|c|@0.1")
	require.NoError(t, err)

	assert.Equal(t, TypeCounter, m.Type)
	assert.Equal(t, 0.1, m.Rate)
}

func TestParseLine_Timer(t *testing.T) {
	m, err := ParseLine("web01_latency:320.5|ms")
	require.NoError(t, err)

	assert.Equal(t, TypeTimer, m.Type)
	assert.Equal(t, 320.5, m.Value)
}

func TestParseLine_Gauge(t *testing.T) {
	m, err := ParseLine("web01_queue:17|g")
	require.NoError(t, err)

	assert.Equal(t, TypeGauge, m.Type)
	assert.Equal(t, float64(17), m.Value)
	assert.False(t, m.Delta)
}

func TestParseLine_GaugeDelta(t *testing.T) {
	m, err := ParseLine("web01_queue:+3|g")
	require.NoError(t, err)
	assert.True(t, m.Delta)
	assert.Equal(t, float64(3), m.Value)

	m, err = ParseLine("web01_queue:-2|g")
	require.NoError(t, err)
	assert.True(t, m.Delta)
	assert.Equal(t, float64(-2), m.Value)
}

func TestParseLine_SanitizesName(t *testing.T) {
	m, err := ParseLine("web 01/api requests!:1|c")
	require.NoError(t, err)

	assert.Equal(t, "web_01-api_requests", m.Name)
}

func TestParseLine_Bad(t *testing.T) {
	for _, line := range []string{
		"",
		"noseparator",
		"name:",
		"name:1",
		"name:abc|c",
		"name:1|x",
		"name:1|c|@0",
		"name:1|c|@2",
		":1|c",
	} {
		_, err := ParseLine(line)
		assert.Error(t, err, "line %q", line)
	}
}
