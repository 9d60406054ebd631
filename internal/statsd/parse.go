package statsd

import (
	"fmt"
	"strconv"
	"strings"
)

// MetricType identifies a statsd metric category.
type MetricType int

// Metric categories, in the order they are flushed.
const (
	TypeCounter MetricType = iota
	TypeTimer
	TypeGauge
)

// String returns the statsd wire token for the type.
func (t MetricType) String() string {
	switch t {
	case TypeCounter:
		return "c"
	case TypeTimer:
		return "ms"
	case TypeGauge:
		return "g"
	default:
		return "unknown"
	}
}

// Metric is one parsed statsd line.
type Metric struct {
	Name  string
	Type  MetricType
	Value float64

	// Rate is the client-side sample rate in (0, 1]. Counters are scaled
	// by 1/Rate to estimate the true total.
	Rate float64

	// Delta marks a gauge adjustment (leading + or -) rather than an
	// absolute value.
	Delta bool
}

// ParseLine parses a single "name:value|type[|@rate]" statsd line.
func ParseLine(line string) (Metric, error) {
	name, rest, ok := strings.Cut(line, ":")
	if !ok || name == "" {
		return Metric{}, fmt.Errorf("line %q has no name separator", line)
	}

	fields := strings.Split(rest, "|")
	if len(fields) < 2 || fields[0] == "" {
		return Metric{}, fmt.Errorf("line %q has no type field", line)
	}

	m := Metric{
		Name: sanitizeName(name),
		Rate: 1,
	}

	if m.Name == "" {
		return Metric{}, fmt.Errorf("line %q has an empty metric name", line)
	}

	switch fields[1] {
	case "c":
		m.Type = TypeCounter
	case "ms":
		m.Type = TypeTimer
	case "g":
		m.Type = TypeGauge
		m.Delta = fields[0][0] == '+' || fields[0][0] == '-'
	default:
		return Metric{}, fmt.Errorf(
			"line %q has unknown type %q", line, fields[1],
		)
	}

	value, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return Metric{}, fmt.Errorf("line %q has a bad value: %w", line, err)
	}

	m.Value = value

	if len(fields) > 2 && strings.HasPrefix(fields[2], "@") {
		rate, err := strconv.ParseFloat(fields[2][1:], 64)
		if err != nil || rate <= 0 || rate > 1 {
			return Metric{}, fmt.Errorf(
				"line %q has a bad sample rate %q", line, fields[2],
			)
		}

		m.Rate = rate
	}

	return m, nil
}

// sanitizeName normalizes a metric name the way statsd servers do: spaces
// become underscores, slashes become dashes, and anything outside
// [a-zA-Z0-9._-] is stripped.
func sanitizeName(name string) string {
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "/", "-")

	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			return r
		default:
			return -1
		}
	}, name)
}
