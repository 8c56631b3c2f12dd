package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"escrow/internal/clientcard/models"
	"escrow/pkg/platform/sentinel"
	"escrow/pkg/requestcontext"
)

var cacheColumns = []string{"client_id", "first_name", "middle_name", "last_name", "inn", "address", "checked_at"}

func newMockCache(t *testing.T) (*PostgresCache, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresCache(db, 5*time.Minute, nil), mock
}

func TestPostgresCache_FindClient(t *testing.T) {
	now := time.Date(2025, 12, 3, 10, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)
	selectQuery := regexp.QuoteMeta("FROM client_card_cache")

	t.Run("returns fresh row with address", func(t *testing.T) {
		cache, mock := newMockCache(t)
		mock.ExpectQuery(selectQuery).
			WithArgs("42", now.Add(-5*time.Minute)).
			WillReturnRows(sqlmock.NewRows(cacheColumns).
				AddRow("42", "Ivan", "", "Petrov", "123", []byte(`{"city":"Moscow","street":"Tverskaya"}`), now))

		record, err := cache.FindClient(ctx, "42")
		require.NoError(t, err)
		assert.Equal(t, "Petrov", record.LastName)
		assert.Equal(t, "123", record.TaxID)
		require.NotNil(t, record.Address)
		assert.Equal(t, "Tverskaya", record.Address.Street)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("null address stays nil", func(t *testing.T) {
		cache, mock := newMockCache(t)
		mock.ExpectQuery(selectQuery).
			WillReturnRows(sqlmock.NewRows(cacheColumns).AddRow("42", "Ivan", "", "Petrov", "123", nil, now))

		record, err := cache.FindClient(ctx, "42")
		require.NoError(t, err)
		assert.Nil(t, record.Address)
	})

	t.Run("no rows maps to not found", func(t *testing.T) {
		cache, mock := newMockCache(t)
		mock.ExpectQuery(selectQuery).WillReturnRows(sqlmock.NewRows(cacheColumns))

		_, err := cache.FindClient(ctx, "42")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("driver errors are wrapped", func(t *testing.T) {
		cache, mock := newMockCache(t)
		dbErr := errors.New("connection reset")
		mock.ExpectQuery(selectQuery).WillReturnError(dbErr)

		_, err := cache.FindClient(ctx, "42")
		assert.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, sentinel.ErrNotFound)
	})
}

func TestPostgresCache_SaveClient(t *testing.T) {
	now := time.Date(2025, 12, 3, 10, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)
	upsert := regexp.QuoteMeta("INSERT INTO client_card_cache")

	t.Run("upserts record", func(t *testing.T) {
		cache, mock := newMockCache(t)
		mock.ExpectExec(upsert).
			WithArgs("42", "Ivan", "", "Petrov", "123", []byte(`{"city":"Moscow"}`), now).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := cache.SaveClient(ctx, &models.ClientInformation{
			ID:        "42",
			FirstName: "Ivan",
			LastName:  "Petrov",
			TaxID:     "123",
			Address:   &models.Address{City: "Moscow"},
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nil record is rejected", func(t *testing.T) {
		cache, _ := newMockCache(t)
		assert.Error(t, cache.SaveClient(ctx, nil))
	})
}

func TestPostgresCache_DeleteExpired(t *testing.T) {
	now := time.Date(2025, 12, 3, 10, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)
	cache, mock := newMockCache(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM client_card_cache")).
		WithArgs(now.Add(-5 * time.Minute)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	deleted, err := cache.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
}
