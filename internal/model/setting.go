package model

import "time"

// Setting represents a row in the `system_settings` table. Protected rows
// are operator-managed and are never written by the bulk settings update.
type Setting struct {
	Key         string
	Value       string
	Description string
	Protected   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
