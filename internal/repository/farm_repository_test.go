package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrodesk/farm-manager/internal/model"
)

func newFarmRepo(t *testing.T) (*FarmRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewFarmRepo(db), mock
}

var farmCols = []string{"id", "user_id", "farm_name", "location", "size",
	"farm_type", "description", "created_at", "updated_at"}

func farmRow(id, ownerID uint64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(farmCols).
		AddRow(id, ownerID, "Greenacre", "Valley Rd", 12.5, "Dairy", "pasture", now, now)
}

func TestFarmGetScopedToOwner(t *testing.T) {
	repo, mock := newFarmRepo(t)

	// A farm that exists but belongs to user 99 yields no row for user 42.
	mock.ExpectQuery(regexp.QuoteMeta("FROM farms WHERE id = ? AND user_id = ?")).
		WithArgs(uint64(5), uint64(42)).
		WillReturnRows(sqlmock.NewRows(farmCols))

	_, err := repo.GetByIDForOwner(context.Background(), 5, 42)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFarmListAlwaysFiltersByOwner(t *testing.T) {
	repo, mock := newFarmRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM farms WHERE user_id = ? AND farm_type = ?")).
		WithArgs(uint64(42), "Dairy").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id = ? AND farm_type = ? ORDER BY id DESC LIMIT ? OFFSET ?")).
		WithArgs(uint64(42), "Dairy", 10, 0).
		WillReturnRows(farmRow(5, 42))

	farms, total, err := repo.ListByOwner(context.Background(), 42,
		Filter{{Col: "farm_type", Val: "Dairy"}}, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, farms, 1)
	assert.Equal(t, "Greenacre", farms[0].Name)
	assert.EqualValues(t, 42, farms[0].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFarmDeleteBlockedByDependents(t *testing.T) {
	repo, mock := newFarmRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM farms WHERE id = ? AND user_id = ?")).
		WithArgs(uint64(5), uint64(42)).
		WillReturnRows(farmRow(5, 42))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM animals WHERE farm_id = ?")).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM employees WHERE farm_id = ?")).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	err := repo.Delete(context.Background(), 5, 42)
	var dep *HasDependentsError
	require.True(t, errors.As(err, &dep))
	assert.EqualValues(t, 3, dep.Animals)
	assert.EqualValues(t, 0, dep.Employees)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFarmDeleteWithoutDependents(t *testing.T) {
	repo, mock := newFarmRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM farms WHERE id = ? AND user_id = ?")).
		WithArgs(uint64(5), uint64(42)).
		WillReturnRows(farmRow(5, 42))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM animals WHERE farm_id = ?")).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM employees WHERE farm_id = ?")).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM farms WHERE id = ? AND user_id = ?")).
		WithArgs(uint64(5), uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Delete(context.Background(), 5, 42))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFarmDeleteForeignFarmReportsNotFound(t *testing.T) {
	repo, mock := newFarmRepo(t)

	// The ownership check runs first, so another user's farm never reveals
	// its dependent counts.
	mock.ExpectQuery(regexp.QuoteMeta("FROM farms WHERE id = ? AND user_id = ?")).
		WithArgs(uint64(5), uint64(42)).
		WillReturnRows(sqlmock.NewRows(farmCols))

	err := repo.Delete(context.Background(), 5, 42)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFarmUpdateReportsAffectedRows(t *testing.T) {
	repo, mock := newFarmRepo(t)

	farm := &model.Farm{Name: "Greenacre", Location: "Valley Rd", Size: 12.5,
		Type: "Dairy", Description: "pasture"}
	mock.ExpectExec(regexp.QuoteMeta("UPDATE farms SET farm_name = ?, location = ?, size = ?, farm_type = ?, description = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND user_id = ?")).
		WithArgs(farm.Name, farm.Location, farm.Size, farm.Type, farm.Description, uint64(5), uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.Update(context.Background(), 5, 42, farm)
	require.NoError(t, err)
	assert.EqualValues(t, 0, affected, "identical values are a no-op, not an error")
	assert.NoError(t, mock.ExpectationsWereMet())
}
