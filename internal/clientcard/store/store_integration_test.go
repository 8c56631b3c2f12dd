//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"escrow/internal/clientcard/models"
	"escrow/pkg/platform/sentinel"
	"escrow/pkg/requestcontext"
	"escrow/pkg/testutil/containers"
)

type cache interface {
	FindClient(ctx context.Context, clientID string) (*models.ClientInformation, error)
	SaveClient(ctx context.Context, record *models.ClientInformation) error
}

type CacheIntegrationSuite struct {
	suite.Suite
	postgres *PostgresCache
	redis    *RedisCache
	flush    func(ctx context.Context) error
}

func TestCacheIntegrationSuite(t *testing.T) {
	suite.Run(t, new(CacheIntegrationSuite))
}

func (s *CacheIntegrationSuite) SetupSuite() {
	ctx := context.Background()

	pg := containers.NewPostgresContainer(s.T())
	s.postgres = NewPostgresCache(pg.DB, time.Minute, nil)
	s.Require().NoError(s.postgres.EnsureSchema(ctx))
	// Schema creation must be idempotent
	s.Require().NoError(s.postgres.EnsureSchema(ctx))

	rc := containers.NewRedisContainer(s.T())
	s.redis = NewRedisCache(rc.Client, time.Minute, nil)
	s.flush = rc.FlushAll
}

func (s *CacheIntegrationSuite) SetupTest() {
	s.Require().NoError(s.flush(context.Background()))
}

func (s *CacheIntegrationSuite) caches() map[string]cache {
	return map[string]cache{"postgres": s.postgres, "redis": s.redis}
}

func (s *CacheIntegrationSuite) TestRoundTrip() {
	checkedAt := time.Now().UTC().Truncate(time.Microsecond)
	record := &models.ClientInformation{
		ID:         "42",
		FirstName:  "Ivan",
		MiddleName: "Ivanovich",
		LastName:   "Petrov",
		TaxID:      "123",
		Address:    &models.Address{City: "Moscow", Street: "Tverskaya", House: "1"},
		CheckedAt:  checkedAt,
	}
	for name, c := range s.caches() {
		s.Run(name, func() {
			ctx := context.Background()
			_, err := c.FindClient(ctx, "42")
			s.ErrorIs(err, sentinel.ErrNotFound)

			require.NoError(s.T(), c.SaveClient(ctx, record))
			found, err := c.FindClient(ctx, "42")
			require.NoError(s.T(), err)
			assert.Equal(s.T(), record.LastName, found.LastName)
			assert.Equal(s.T(), record.MiddleName, found.MiddleName)
			assert.Equal(s.T(), record.Address, found.Address)
			assert.True(s.T(), record.CheckedAt.Equal(found.CheckedAt))
		})
	}
}

func (s *CacheIntegrationSuite) TestPostgresRespectsTTL() {
	ctx := context.Background()
	stale := &models.ClientInformation{ID: "stale", LastName: "Old", CheckedAt: time.Now().Add(-2 * time.Minute)}
	s.Require().NoError(s.postgres.SaveClient(ctx, stale))

	_, err := s.postgres.FindClient(ctx, "stale")
	s.ErrorIs(err, sentinel.ErrNotFound)

	deleted, err := s.postgres.DeleteExpired(requestcontext.WithTime(ctx, time.Now()))
	s.Require().NoError(err)
	s.GreaterOrEqual(deleted, int64(1))
}
