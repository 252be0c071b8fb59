// Package queue defines message payloads exchanged over the message broker.
package queue

// AuditQueueName is the durable queue audit events are published on.
const AuditQueueName = "audit.events"

// AuditEvent is published after a state-changing operation so an audit
// trail can be kept without touching the request path.  ActorID is the
// user who triggered the change, zero when unknown (e.g. unauthenticated
// delete endpoints).
type AuditEvent struct {
	ActorID int64  `json:"actor_id"`
	Action  string `json:"action"`
	Detail  string `json:"detail"`
	At      string `json:"at"`
}
