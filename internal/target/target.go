// Package target maps raw metric names to Zabbix addressing.
package target

import "fmt"

// Target addresses a single data point: the monitored host the value
// belongs to and the item key it is recorded under.
type Target struct {
	Host string
	Key  string
}

// ResolutionError indicates a metric name could not be mapped to a
// host/key pair. The metric carrying it is dropped from the flush.
type ResolutionError struct {
	Metric string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("no zabbix target for metric %q", e.Metric)
}
