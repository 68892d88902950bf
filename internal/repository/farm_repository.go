package repository

import (
	"context"
	"database/sql"

	"github.com/agrodesk/farm-manager/internal/model"
)

// farmSchema maps model.Farm onto the farms table.
var farmSchema = Schema[model.Farm]{
	Table:    "farms",
	OwnerCol: "user_id",
	Cols:     []string{"farm_name", "location", "size", "farm_type", "description"},
	Values: func(f *model.Farm) []any {
		return []any{f.Name, f.Location, f.Size, f.Type, f.Description}
	},
	Scan: func(row RowScanner) (*model.Farm, error) {
		var f model.Farm
		var desc sql.NullString
		if err := row.Scan(&f.ID, &f.UserID, &f.Name, &f.Location, &f.Size, &f.Type,
			&desc, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		f.Description = desc.String
		return &f, nil
	},
}

// FarmRepo provides owner-scoped persistence for farms plus the dependent
// checks that guard deletion.
type FarmRepo struct {
	*Owned[model.Farm]
}

func NewFarmRepo(db *sql.DB) *FarmRepo {
	return &FarmRepo{Owned: NewOwned(db, farmSchema, 10)}
}

// Owns reports whether the farm exists and belongs to the user. Used when
// validating farm_id selections on animal and employee forms.
func (r *FarmRepo) Owns(ctx context.Context, farmID, userID uint64) (bool, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM farms WHERE id = ? AND user_id = ?", farmID, userID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DependentCounts returns how many animals and employees reference the farm.
func (r *FarmRepo) DependentCounts(ctx context.Context, farmID uint64) (animals, employees int64, err error) {
	if err = r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM animals WHERE farm_id = ?", farmID).Scan(&animals); err != nil {
		return 0, 0, err
	}
	if err = r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM employees WHERE farm_id = ?", farmID).Scan(&employees); err != nil {
		return 0, 0, err
	}
	return animals, employees, nil
}

// Delete removes the owner's farm only when it has no dependent animals or
// employees; otherwise it fails with HasDependentsError carrying the
// blocking counts. The ownership check runs first so a foreign farm id
// reports ErrNotFound rather than its dependent counts.
func (r *FarmRepo) Delete(ctx context.Context, id, ownerID uint64) error {
	if _, err := r.GetByIDForOwner(ctx, id, ownerID); err != nil {
		return err
	}
	animals, employees, err := r.DependentCounts(ctx, id)
	if err != nil {
		return err
	}
	if animals > 0 || employees > 0 {
		return &HasDependentsError{Animals: animals, Employees: employees}
	}
	return r.Owned.Delete(ctx, id, ownerID)
}
