package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnimalRepo(t *testing.T) (*AnimalRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewAnimalRepo(db), mock
}

func TestAnimalOwnsChecksOwnerColumn(t *testing.T) {
	repo, mock := newAnimalRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM animals WHERE id = ? AND user_id = ?")).
		WithArgs(uint64(3), uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	ok, err := repo.Owns(context.Background(), 3, 42)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnimalDeleteCascadesHealthRecords(t *testing.T) {
	repo, mock := newAnimalRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM animal_health_records WHERE animal_id = ? AND user_id = ?")).
		WithArgs(uint64(3), uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM animals WHERE id = ? AND user_id = ?")).
		WithArgs(uint64(3), uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, repo.Delete(context.Background(), 3, 42))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnimalDeleteForeignBatchRollsBack(t *testing.T) {
	repo, mock := newAnimalRepo(t)

	// Zero records removed is fine, but zero animals means the batch does
	// not belong to this owner; nothing commits.
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM animal_health_records WHERE animal_id = ? AND user_id = ?")).
		WithArgs(uint64(3), uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM animals WHERE id = ? AND user_id = ?")).
		WithArgs(uint64(3), uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), 3, 42)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
