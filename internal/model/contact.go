package model

import "time"

// Contact message states. The transition pending -> answered is one-way;
// answered messages are never reopened.
const (
	ContactPending  = "pending"
	ContactAnswered = "answered"
)

// ContactMessage represents a row in the `contact_messages` table.
// RespondedBy is nil until an admin answers.
type ContactMessage struct {
	ID            uint64
	Name          string
	Email         string
	Subject       string
	Message       string
	Status        string
	AdminResponse string
	RespondedBy   *uint64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
