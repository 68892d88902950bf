package repository

import (
	"database/sql"

	"github.com/agrodesk/farm-manager/internal/model"
)

// healthSchema maps model.HealthRecord onto animal_health_records.
var healthSchema = Schema[model.HealthRecord]{
	Table:    "animal_health_records",
	OwnerCol: "user_id",
	Cols:     []string{"animal_id", "record_date", "record_type", "description", "performed_by", "notes"},
	Values: func(h *model.HealthRecord) []any {
		return []any{h.AnimalID, h.Date, h.Type, h.Description, h.PerformedBy, h.Notes}
	},
	Scan: func(row RowScanner) (*model.HealthRecord, error) {
		var h model.HealthRecord
		var performedBy, notes sql.NullString
		if err := row.Scan(&h.ID, &h.UserID, &h.AnimalID, &h.Date, &h.Type,
			&h.Description, &performedBy, &notes, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		h.PerformedBy = performedBy.String
		h.Notes = notes.String
		return &h, nil
	},
}

// HealthRecordRepo provides owner-scoped persistence for animal health
// records.
type HealthRecordRepo struct {
	*Owned[model.HealthRecord]
}

func NewHealthRecordRepo(db *sql.DB) *HealthRecordRepo {
	return &HealthRecordRepo{Owned: NewOwned(db, healthSchema, 20)}
}
