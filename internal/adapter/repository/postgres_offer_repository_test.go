package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"startupmarket/internal/domain/entity"
	"startupmarket/pkg/errors"
)

const (
	selectForUpdate = `(?s)SELECT .+ FROM offers WHERE id = \$1 FOR UPDATE`
	updateOffer     = `UPDATE offers\s+SET status = \$1`
)

func newMockOfferRepo(t *testing.T) (*postgresOfferRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &postgresOfferRepository{db: sqlx.NewDb(db, "postgres")}, mock
}

func pendingOfferRows(id string) *sqlmock.Rows {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{
		"id", "product_id", "product_name", "buyer_id", "seller_id", "amount", "message", "status",
		"counter_amount", "counter_message", "counter_response_message", "version", "created_at", "updated_at",
	}).AddRow(id, "p-1", "Acme", "buyer", "seller", "100.00", "hi", "pending",
		nil, "", "", int64(1), now, now)
}

func acceptAsSeller(o *entity.Offer) error { return o.Accept("seller") }

func TestPostgresTransitionCommits(t *testing.T) {
	repo, mock := newMockOfferRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(selectForUpdate).WithArgs("o-1").WillReturnRows(pendingOfferRows("o-1"))
	mock.ExpectExec(updateOffer).
		WithArgs("accepted", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), int64(2), sqlmock.AnyArg(), "o-1", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	offer, err := repo.Transition(context.Background(), "o-1", acceptAsSeller)
	require.NoError(t, err)
	assert.Equal(t, entity.OfferStatusAccepted, offer.Status)
	assert.Equal(t, int64(2), offer.Version)
	assert.Equal(t, "100", offer.Amount.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTransitionVersionConflict(t *testing.T) {
	repo, mock := newMockOfferRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(selectForUpdate).WithArgs("o-1").WillReturnRows(pendingOfferRows("o-1"))
	mock.ExpectExec(updateOffer).
		WithArgs("accepted", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), int64(2), sqlmock.AnyArg(), "o-1", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	offer, err := repo.Transition(context.Background(), "o-1", acceptAsSeller)
	assert.Nil(t, offer)
	assert.True(t, errors.Is(err, errors.CodeInvalidState))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTransitionRejectedByEntity(t *testing.T) {
	repo, mock := newMockOfferRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(selectForUpdate).WithArgs("o-1").WillReturnRows(pendingOfferRows("o-1"))
	mock.ExpectRollback()

	_, err := repo.Transition(context.Background(), "o-1", func(o *entity.Offer) error {
		return o.Accept("buyer")
	})
	assert.True(t, errors.Is(err, errors.CodeUnauthorized))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTransitionMissingOffer(t *testing.T) {
	repo, mock := newMockOfferRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(selectForUpdate).WithArgs("missing").WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Transition(context.Background(), "missing", acceptAsSeller)
	assert.True(t, errors.Is(err, errors.CodeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
