package relay

import "github.com/ethpandaops/zabbixoor/internal/point"

// Publisher hands a flush's points to the transport session. The host
// wiring may swap in an implementation that filters or rewrites the list
// before delegating to the session.
type Publisher interface {
	Publish(points []point.Point, session Session)
}

// IdentityPublisher submits the points unmodified. This is the default.
type IdentityPublisher struct{}

// Publish delegates straight to the session.
func (IdentityPublisher) Publish(points []point.Point, session Session) {
	session.SubmitBatch(points)
}
