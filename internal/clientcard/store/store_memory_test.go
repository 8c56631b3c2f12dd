package store

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"escrow/internal/clientcard/metrics"
	"escrow/internal/clientcard/models"
	"escrow/pkg/platform/sentinel"
)

func TestInMemoryCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 12, 3, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	m := metrics.NewWithRegisterer(prometheus.NewRegistry())
	cache := NewInMemoryCache(5*time.Minute, WithMemoryClock(clock), WithMemoryMetrics(m))

	record := &models.ClientInformation{
		ID:        "42",
		FirstName: "Ivan",
		LastName:  "Petrov",
		TaxID:     "123",
		Address:   &models.Address{City: "Moscow"},
	}

	t.Run("miss before save", func(t *testing.T) {
		_, err := cache.FindClient(ctx, "42")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheMisses.WithLabelValues("memory")))
	})

	t.Run("hit after save", func(t *testing.T) {
		require.NoError(t, cache.SaveClient(ctx, record))

		found, err := cache.FindClient(ctx, "42")
		require.NoError(t, err)
		assert.Equal(t, record, found)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheHits.WithLabelValues("memory")))
	})

	t.Run("returned record is detached from cache", func(t *testing.T) {
		found, err := cache.FindClient(ctx, "42")
		require.NoError(t, err)
		found.FirstName = "mutated"
		found.Address.City = "mutated"

		again, err := cache.FindClient(ctx, "42")
		require.NoError(t, err)
		assert.Equal(t, "Ivan", again.FirstName)
		assert.Equal(t, "Moscow", again.Address.City)
	})

	t.Run("expires after ttl and is evicted on read", func(t *testing.T) {
		now = now.Add(5 * time.Minute)
		_, err := cache.FindClient(ctx, "42")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
		assert.Zero(t, cache.Len())
	})

	t.Run("nil record is a no-op", func(t *testing.T) {
		assert.NoError(t, cache.SaveClient(ctx, nil))
	})
}

func TestInMemoryCache_DeleteExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 12, 3, 10, 0, 0, 0, time.UTC)
	cache := NewInMemoryCache(time.Minute, WithMemoryClock(func() time.Time { return now }))

	require.NoError(t, cache.SaveClient(ctx, &models.ClientInformation{ID: "old-1"}))
	require.NoError(t, cache.SaveClient(ctx, &models.ClientInformation{ID: "old-2"}))
	now = now.Add(30 * time.Second)
	require.NoError(t, cache.SaveClient(ctx, &models.ClientInformation{ID: "fresh"}))
	now = now.Add(45 * time.Second)

	deleted, err := cache.DeleteExpired(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.Equal(t, 1, cache.Len())
	_, err = cache.FindClient(ctx, "fresh")
	assert.NoError(t, err)
}
