package repository

import (
	"context"
	"database/sql"

	"github.com/agrodesk/farm-manager/internal/model"
)

// animalSchema maps model.Animal onto the animals table. The owner column
// is the denormalized user_id copied from the farm at insert time.
var animalSchema = Schema[model.Animal]{
	Table:    "animals",
	OwnerCol: "user_id",
	Cols:     []string{"farm_id", "animal_type", "breed", "purpose", "quantity", "registration_date", "notes"},
	Values: func(a *model.Animal) []any {
		return []any{a.FarmID, a.Type, a.Breed, a.Purpose, a.Quantity, a.RegistrationDate, a.Notes}
	},
	Scan: func(row RowScanner) (*model.Animal, error) {
		var a model.Animal
		var notes sql.NullString
		if err := row.Scan(&a.ID, &a.UserID, &a.FarmID, &a.Type, &a.Breed, &a.Purpose,
			&a.Quantity, &a.RegistrationDate, &notes, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		a.Notes = notes.String
		return &a, nil
	},
}

// AnimalRepo provides owner-scoped persistence for animal batches.
type AnimalRepo struct {
	*Owned[model.Animal]
}

func NewAnimalRepo(db *sql.DB) *AnimalRepo {
	return &AnimalRepo{Owned: NewOwned(db, animalSchema, 20)}
}

// Owns reports whether the animal exists and belongs to the user. Used
// when validating animal_id selections on health record forms.
func (r *AnimalRepo) Owns(ctx context.Context, animalID, userID uint64) (bool, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM animals WHERE id = ? AND user_id = ?", animalID, userID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Delete removes the owner's animal batch together with its health
// records inside one transaction; the records cannot outlive the batch.
func (r *AnimalRepo) Delete(ctx context.Context, id, ownerID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		"DELETE FROM animal_health_records WHERE animal_id = ? AND user_id = ?", id, ownerID); err != nil {
		return err
	}
	var res sql.Result
	if res, err = tx.ExecContext(ctx,
		"DELETE FROM animals WHERE id = ? AND user_id = ?", id, ownerID); err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrNotFound
		return err
	}
	return nil
}
