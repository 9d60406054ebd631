package relay

import (
	"sync/atomic"
	"time"
)

// Stats is the relay's self-observability record. One instance is created
// at startup and threaded through the relay and the status endpoint; there
// is no process-wide singleton. Fields are atomics because the transport
// completion callback runs on its own goroutine.
type Stats struct {
	lastFlush     atomic.Int64 // unix seconds of the last clean flush
	lastException atomic.Int64 // unix seconds of the most recent error
	flushTime     atomic.Int64 // last flush duration in milliseconds
	flushLength   atomic.Int64 // points in the last flush
}

// NewStats creates a zeroed stats record.
func NewStats() *Stats {
	return &Stats{}
}

// RecordException stamps the most recent per-metric or transport error.
func (s *Stats) RecordException(t time.Time) {
	s.lastException.Store(t.Unix())
}

// SetLastFlush records the timestamp of a flush with no transport error.
func (s *Stats) SetLastFlush(t time.Time) {
	s.lastFlush.Store(t.Unix())
}

// SetFlushTime records the last flush duration.
func (s *Stats) SetFlushTime(d time.Duration) {
	s.flushTime.Store(d.Milliseconds())
}

// SetFlushLength records the point count of the last flush.
func (s *Stats) SetFlushLength(n int) {
	s.flushLength.Store(int64(n))
}

// LastFlush returns the unix timestamp of the last clean flush.
func (s *Stats) LastFlush() int64 { return s.lastFlush.Load() }

// LastException returns the unix timestamp of the most recent error.
func (s *Stats) LastException() int64 { return s.lastException.Load() }

// FlushTime returns the last flush duration in milliseconds.
func (s *Stats) FlushTime() int64 { return s.flushTime.Load() }

// FlushLength returns the point count of the last flush.
func (s *Stats) FlushLength() int64 { return s.flushLength.Load() }

// WriteStatus emits every field through the writer, one call per field,
// all under the "zabbix" category.
func (s *Stats) WriteStatus(write func(err error, category, field string, value int64)) {
	write(nil, "zabbix", "last_flush", s.LastFlush())
	write(nil, "zabbix", "last_exception", s.LastException())
	write(nil, "zabbix", "flush_time", s.FlushTime())
	write(nil, "zabbix", "flush_length", s.FlushLength())
}
