package repository

import (
	"context"
	"database/sql"

	"github.com/agrodesk/farm-manager/internal/model"
)

// SettingRepo manages the system_settings key/value store. Protected rows
// carry protected = 1 and are excluded from every write this repository
// issues; there is no code path that can flip a protected value.
type SettingRepo struct {
	DB *sql.DB
}

func NewSettingRepo(db *sql.DB) *SettingRepo { return &SettingRepo{DB: db} }

const settingSelect = `SELECT setting_key, setting_value, description, protected,
	created_at, updated_at FROM system_settings`

// List returns all settings ordered by key.
func (r *SettingRepo) List(ctx context.Context) ([]*model.Setting, error) {
	rows, err := r.DB.QueryContext(ctx, settingSelect+" ORDER BY setting_key")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Setting
	for rows.Next() {
		var s model.Setting
		if err := rows.Scan(&s.Key, &s.Value, &s.Description, &s.Protected,
			&s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

// Get fetches one setting by key.
func (r *SettingRepo) Get(ctx context.Context, key string) (*model.Setting, error) {
	var s model.Setting
	err := r.DB.QueryRowContext(ctx, settingSelect+" WHERE setting_key = ?", key).
		Scan(&s.Key, &s.Value, &s.Description, &s.Protected, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateValue writes one unprotected setting. The protected filter is part
// of the UPDATE itself, so a protected key can never be written even when
// named explicitly; it reports ErrProtected, an unknown key ErrNotFound.
func (r *SettingRepo) UpdateValue(ctx context.Context, key, value string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE system_settings SET setting_value = ? WHERE setting_key = ? AND protected = 0",
		value, key)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	s, err := r.Get(ctx, key)
	if err != nil {
		return err
	}
	if s.Protected {
		return ErrProtected
	}
	return nil // value unchanged
}

// BulkUpdate applies a map of submitted values. Protected and unknown keys
// are skipped and reported back so the controller can name them; nothing
// about a skipped key aborts the rest of the batch.
func (r *SettingRepo) BulkUpdate(ctx context.Context, values map[string]string) (updated, skipped []string, err error) {
	for key, value := range values {
		switch err := r.UpdateValue(ctx, key, value); err {
		case nil:
			updated = append(updated, key)
		case ErrProtected, ErrNotFound:
			skipped = append(skipped, key)
		default:
			return nil, nil, err
		}
	}
	return updated, skipped, nil
}
