package model

import "time"

// HealthRecordTypes enumerates the accepted record_type values.
var HealthRecordTypes = []string{"checkup", "vaccination", "treatment", "medication", "other"}

// HealthRecord represents a row in the `animal_health_records` table.
// PerformedBy is optional free text (vet or staff name). UserID duplicates
// the owner of the animal's farm.
type HealthRecord struct {
	ID          uint64
	UserID      uint64
	AnimalID    uint64
	Date        time.Time
	Type        string
	Description string
	PerformedBy string
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
