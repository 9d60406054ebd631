package target

import "strings"

// Resolver maps a raw metric name to a Zabbix target. Resolution failure is
// fatal for that metric only; there is no silent default host.
type Resolver interface {
	Resolve(metric string) (Target, error)
}

// StaticResolver routes every metric to one configured host, using the full
// metric name as the item key.
type StaticResolver struct {
	host string
}

// NewStaticResolver creates a resolver pinned to the given host.
func NewStaticResolver(host string) *StaticResolver {
	return &StaticResolver{host: host}
}

// Resolve returns the configured host with the unmodified metric name as key.
func (r *StaticResolver) Resolve(metric string) (Target, error) {
	if r.host == "" || metric == "" {
		return Target{}, &ResolutionError{Metric: metric}
	}

	return Target{Host: r.host, Key: metric}, nil
}

// DecodingResolver extracts the target host from the metric name itself.
// Three grammars are tried in order:
//
//	logstash.<host>.<key>  underscores become dots in host and key
//	kamon.<host>.<key>     underscores become dots in host only
//	statsd.*               the relay's own hostname, key unchanged
//	<host>_<key>           split on the first underscore
type DecodingResolver struct {
	hostname string
}

// NewDecodingResolver creates a resolver that attributes statsd-internal
// metrics to the given hostname, normally the local machine's.
func NewDecodingResolver(hostname string) *DecodingResolver {
	return &DecodingResolver{hostname: hostname}
}

// Resolve decodes the host and item key embedded in the metric name.
func (r *DecodingResolver) Resolve(metric string) (Target, error) {
	host, key := r.decode(metric)
	if host == "" || key == "" {
		return Target{}, &ResolutionError{Metric: metric}
	}

	return Target{Host: host, Key: key}, nil
}

func (r *DecodingResolver) decode(metric string) (host, key string) {
	parts := strings.Split(metric, ".")

	switch {
	case len(parts) == 3 &&
		(parts[0] == "logstash" || parts[0] == "kamon"):
		// Underscores stand in for dots, since dots would shift the
		// namespace split. logstash encodes both host and key that way,
		// kamon only the host.
		host = strings.ReplaceAll(parts[1], "_", ".")
		key = parts[2]

		if parts[0] == "logstash" {
			key = strings.ReplaceAll(key, "_", ".")
		}
	case strings.HasPrefix(metric, "statsd."):
		// statsd's internal metrics are recorded against the relay host.
		host = r.hostname
		key = metric
	default:
		host, key, _ = strings.Cut(metric, "_")
	}

	return host, key
}
