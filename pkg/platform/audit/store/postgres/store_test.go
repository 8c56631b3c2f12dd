package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "escrow/pkg/platform/audit"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db), mock
}

func TestStore_Append(t *testing.T) {
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	event := audit.Event{
		Timestamp: ts,
		Subject:   "42",
		Action:    string(audit.EventDepositorErrorFilled),
		Source:    "CSPC",
		RequestID: "req-1",
		Caller:    "refund-ui",
	}

	t.Run("derives category from action", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audit_events")).
			WithArgs(sqlmock.AnyArg(), "compliance", ts, "42", "depositor_error_filled", "CSPC", "", "req-1", "refund-ui").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, store.Append(context.Background(), event))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wraps insert errors", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audit_events")).
			WillReturnError(errors.New("connection reset"))

		err := store.Append(context.Background(), event)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "insert audit event")
	})
}

func TestStore_ListBySubject(t *testing.T) {
	store, mock := newMockStore(t)
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"category", "timestamp", "subject", "action", "source", "reason", "request_id", "caller"}).
		AddRow("operations", ts, "42", "client_lookup_failed", "CSPC", "timeout", "req-2", "").
		AddRow("compliance", ts.Add(-time.Minute), "42", "depositor_error_filled", "CSPC", "", "req-1", "refund-ui")
	mock.ExpectQuery(regexp.QuoteMeta("FROM audit_events")).WithArgs("42").WillReturnRows(rows)

	events, err := store.ListBySubject(context.Background(), "42")

	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, audit.CategoryOperations, events[0].Category)
	assert.Equal(t, "timeout", events[0].Reason)
	assert.Equal(t, audit.CategoryCompliance, events[1].Category)
	assert.Equal(t, "refund-ui", events[1].Caller)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ListRecent(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("LIMIT $1")).WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"category", "timestamp", "subject", "action", "source", "reason", "request_id", "caller"}))

	events, err := store.ListRecent(context.Background(), 5)

	require.NoError(t, err)
	assert.Empty(t, events)
	assert.NoError(t, mock.ExpectationsWereMet())
}
