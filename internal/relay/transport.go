package relay

import (
	"time"

	"github.com/ethpandaops/zabbixoor/internal/point"
)

// Response summarizes one flush's transport outcome.
type Response struct {
	// Errors holds one description per failed batch. Empty means the
	// flush was accepted.
	Errors []string

	// StatusMessage is informational server output, if any.
	StatusMessage string

	// Total is the number of points the server acknowledged.
	Total int
}

// CompletionFunc receives the transport outcome for one flush. It fires
// exactly once per session, on a goroutine owned by the transport.
type CompletionFunc func(Response)

// Session accepts one flush's points for delivery. SubmitBatch returns
// immediately; the completion callback fires once delivery settles.
type Session interface {
	SubmitBatch(points []point.Point)
}

// SessionFactory creates a transport session for a single flush cycle.
// flushTime is attached to each point when the transport is configured to
// send timestamps.
type SessionFactory func(flushTime time.Time, done CompletionFunc) Session
