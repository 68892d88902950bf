package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSettingRepo(t *testing.T) (*SettingRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSettingRepo(db), mock
}

var settingCols = []string{"setting_key", "setting_value", "description",
	"protected", "created_at", "updated_at"}

const settingUpdateSQL = "UPDATE system_settings SET setting_value = ? WHERE setting_key = ? AND protected = 0"

func TestUpdateValueWritesUnprotectedSetting(t *testing.T) {
	repo, mock := newSettingRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(settingUpdateSQL)).
		WithArgs("Agrodesk", "site_name").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.UpdateValue(context.Background(), "site_name", "Agrodesk"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateValueNeverTouchesProtectedSetting(t *testing.T) {
	repo, mock := newSettingRepo(t)
	now := time.Now()

	// The protected filter in the UPDATE matches zero rows; the follow-up
	// read shows the key is protected.
	mock.ExpectExec(regexp.QuoteMeta(settingUpdateSQL)).
		WithArgs("off", "maintenance_mode").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("FROM system_settings WHERE setting_key = ?")).
		WithArgs("maintenance_mode").
		WillReturnRows(sqlmock.NewRows(settingCols).
			AddRow("maintenance_mode", "on", "operator switch", true, now, now))

	err := repo.UpdateValue(context.Background(), "maintenance_mode", "off")
	assert.ErrorIs(t, err, ErrProtected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateValueUnknownKey(t *testing.T) {
	repo, mock := newSettingRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(settingUpdateSQL)).
		WithArgs("x", "no_such_key").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("FROM system_settings WHERE setting_key = ?")).
		WithArgs("no_such_key").
		WillReturnRows(sqlmock.NewRows(settingCols))

	err := repo.UpdateValue(context.Background(), "no_such_key", "x")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateValueUnchangedValueIsNoOp(t *testing.T) {
	repo, mock := newSettingRepo(t)
	now := time.Now()

	mock.ExpectExec(regexp.QuoteMeta(settingUpdateSQL)).
		WithArgs("Agrodesk", "site_name").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("FROM system_settings WHERE setting_key = ?")).
		WithArgs("site_name").
		WillReturnRows(sqlmock.NewRows(settingCols).
			AddRow("site_name", "Agrodesk", "display name", false, now, now))

	assert.NoError(t, repo.UpdateValue(context.Background(), "site_name", "Agrodesk"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkUpdateSkipsProtectedAndContinues(t *testing.T) {
	repo, mock := newSettingRepo(t)
	now := time.Now()

	// Map iteration order is random, so expectations are unordered.
	mock.MatchExpectationsInOrder(false)
	mock.ExpectExec(regexp.QuoteMeta(settingUpdateSQL)).
		WithArgs("Agrodesk", "site_name").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(settingUpdateSQL)).
		WithArgs("off", "maintenance_mode").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("FROM system_settings WHERE setting_key = ?")).
		WithArgs("maintenance_mode").
		WillReturnRows(sqlmock.NewRows(settingCols).
			AddRow("maintenance_mode", "on", "operator switch", true, now, now))

	updated, skipped, err := repo.BulkUpdate(context.Background(), map[string]string{
		"site_name":        "Agrodesk",
		"maintenance_mode": "off",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"site_name"}, updated)
	assert.Equal(t, []string{"maintenance_mode"}, skipped)
	assert.NoError(t, mock.ExpectationsWereMet())
}
