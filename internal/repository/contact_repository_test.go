package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContactRepo(t *testing.T) (*ContactRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewContactRepo(db), mock
}

const respondSQL = "SET status = 'answered', admin_response = ?, responded_by = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND status = 'pending'"

func TestRespondAnswersPendingMessage(t *testing.T) {
	repo, mock := newContactRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(respondSQL)).
		WithArgs("We restocked.", uint64(1), uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Respond(context.Background(), 9, 1, "We restocked."))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRespondIsOneWay(t *testing.T) {
	repo, mock := newContactRepo(t)

	// An already-answered message matches zero rows; the transition cannot
	// run twice or be reversed.
	mock.ExpectExec(regexp.QuoteMeta(respondSQL)).
		WithArgs("Second answer", uint64(1), uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Respond(context.Background(), 9, 1, "Second answer")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
