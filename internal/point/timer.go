package point

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// TimerPoints converts one timer's samples into summary items: min, max,
// count, and a trimmed mean plus upper boundary at each configured
// percentile threshold. The input slice is never mutated, so repeated calls
// with the same samples yield identical output.
func TimerPoints(
	cfg TimerPublishConfig,
	host, key string,
	samples []float64,
	thresholds []float64,
) []Point {
	if !cfg.IsEnabled() {
		return nil
	}

	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	n := len(sorted)

	// min/max/mean fields fall back to 0 when there are no samples.
	var low, high float64
	if n > 0 {
		low = sorted[0]
		high = sorted[n-1]
	}

	pts := make([]Point, 0, 3+2*len(thresholds))

	if cfg.IsSendLower() {
		pts = append(pts, Point{Host: host, Key: key + "[lower]", Value: low})
	}

	if cfg.IsSendUpper() {
		pts = append(pts, Point{Host: host, Key: key + "[upper]", Value: high})
	}

	if cfg.IsSendCount() {
		pts = append(pts, Point{Host: host, Key: key + "[count]", Value: float64(n)})
	}

	if !cfg.IsSendMeanPercentile() && !cfg.IsSendUpperPercentile() {
		return pts
	}

	for _, pct := range thresholds {
		mean, boundary := trimmed(sorted, pct)
		suffix := percentileSuffix(pct)

		if cfg.IsSendMeanPercentile() {
			pts = append(pts, Point{
				Host:  host,
				Key:   fmt.Sprintf("%s[mean][%s]", key, suffix),
				Value: mean,
			})
		}

		if cfg.IsSendUpperPercentile() {
			pts = append(pts, Point{
				Host:  host,
				Key:   fmt.Sprintf("%s[upper][%s]", key, suffix),
				Value: boundary,
			})
		}
	}

	return pts
}

// trimmed computes the mean of the samples at or below the percentile
// boundary and the boundary value itself. sorted must be ascending. With one
// sample or none the percentile collapses to the plain min/max values.
func trimmed(sorted []float64, pct float64) (mean, boundary float64) {
	n := len(sorted)
	if n <= 1 {
		if n == 0 {
			return 0, 0
		}

		return sorted[0], sorted[0]
	}

	// Round half away from zero, so .5 boundaries are stable across
	// platforms.
	idx := int(math.Round((100 - pct) / 100 * float64(n)))

	kept := n - idx
	if kept <= 0 {
		return 0, 0
	}

	var sum float64
	for _, v := range sorted[:kept] {
		sum += v
	}

	return sum / float64(kept), sorted[kept-1]
}

// percentileSuffix formats a threshold for use inside an item key, e.g.
// 99.9 becomes "99_9". Dots would read as nested key parameters.
func percentileSuffix(pct float64) string {
	return strings.ReplaceAll(
		strconv.FormatFloat(pct, 'f', -1, 64), ".", "_",
	)
}
