package model

import "time"

// System log types.
const (
	LogInfo     = "info"
	LogWarning  = "warning"
	LogError    = "error"
	LogSecurity = "security"
)

// SystemLog represents a row in the append-only `system_logs` table.
// UserID is nil for anonymous events and is set to NULL by the database
// when the referenced user is deleted.
type SystemLog struct {
	ID        uint64
	Type      string
	UserID    *uint64
	Message   string
	IPAddress string
	CreatedAt time.Time
}
