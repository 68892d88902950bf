// Package audit defines the security event payloads exchanged over the
// message broker. Every security-relevant action is written to the
// system_logs table synchronously; events are additionally fanned out to
// RabbitMQ so external tooling can consume them without polling the
// database.
package audit

const eventQueueName = "audit.events"

// Event describes one security-relevant action (failed login, role change,
// account block). UserID is zero when no account is involved.
type Event struct {
	Type    string `json:"type"`
	UserID  uint64 `json:"user_id,omitempty"`
	Message string `json:"message"`
	IP      string `json:"ip,omitempty"`
	At      string `json:"at"`
}
