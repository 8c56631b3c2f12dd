package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"escrow/internal/clientcard/metrics"
	"escrow/internal/clientcard/models"
	"escrow/pkg/platform/sentinel"
	"escrow/pkg/requestcontext"
)

//go:embed migrations/001_client_card_cache.sql
var clientCardCacheSchema string

// PostgresCache persists client card cache entries in PostgreSQL.
type PostgresCache struct {
	db       *sql.DB
	cacheTTL time.Duration
	metrics  *metrics.Metrics
}

// NewPostgresCache constructs a PostgreSQL-backed client card cache.
func NewPostgresCache(db *sql.DB, cacheTTL time.Duration, metrics *metrics.Metrics) *PostgresCache {
	return &PostgresCache{
		db:       db,
		cacheTTL: cacheTTL,
		metrics:  metrics,
	}
}

// EnsureSchema creates the cache table when missing.
func (c *PostgresCache) EnsureSchema(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, clientCardCacheSchema); err != nil {
		return fmt.Errorf("ensure client card cache schema: %w", err)
	}
	return nil
}

func (c *PostgresCache) FindClient(ctx context.Context, clientID string) (*models.ClientInformation, error) {
	cutoff := requestcontext.Now(ctx).Add(-c.cacheTTL)
	query := `
		SELECT client_id, first_name, middle_name, last_name, inn, address, checked_at
		FROM client_card_cache
		WHERE client_id = $1 AND checked_at > $2
	`
	var (
		record  models.ClientInformation
		address []byte
	)
	err := c.db.QueryRowContext(ctx, query, clientID, cutoff).Scan(
		&record.ID,
		&record.FirstName,
		&record.MiddleName,
		&record.LastName,
		&record.TaxID,
		&address,
		&record.CheckedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.recordMiss()
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find client cache: %w", err)
	}
	if len(address) > 0 {
		record.Address = &models.Address{}
		if err := json.Unmarshal(address, record.Address); err != nil {
			return nil, fmt.Errorf("decode cached address: %w", err)
		}
	}
	c.recordHit()
	return &record, nil
}

func (c *PostgresCache) SaveClient(ctx context.Context, record *models.ClientInformation) error {
	if record == nil {
		return errors.New("client record is required")
	}
	var address any
	if record.Address != nil {
		raw, err := json.Marshal(record.Address)
		if err != nil {
			return fmt.Errorf("encode cached address: %w", err)
		}
		address = raw
	}
	checkedAt := record.CheckedAt
	if checkedAt.IsZero() {
		checkedAt = requestcontext.Now(ctx)
	}
	query := `
		INSERT INTO client_card_cache (client_id, first_name, middle_name, last_name, inn, address, checked_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (client_id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			middle_name = EXCLUDED.middle_name,
			last_name = EXCLUDED.last_name,
			inn = EXCLUDED.inn,
			address = EXCLUDED.address,
			checked_at = EXCLUDED.checked_at
	`
	_, err := c.db.ExecContext(ctx, query,
		record.ID,
		record.FirstName,
		record.MiddleName,
		record.LastName,
		record.TaxID,
		address,
		checkedAt,
	)
	if err != nil {
		return fmt.Errorf("save client cache: %w", err)
	}
	return nil
}

// DeleteExpired removes entries older than the TTL and returns how many were dropped.
func (c *PostgresCache) DeleteExpired(ctx context.Context) (int64, error) {
	cutoff := requestcontext.Now(ctx).Add(-c.cacheTTL)
	res, err := c.db.ExecContext(ctx, `DELETE FROM client_card_cache WHERE checked_at <= $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete expired client cache: %w", err)
	}
	return res.RowsAffected()
}

func (c *PostgresCache) recordHit() {
	if c.metrics != nil {
		c.metrics.RecordCacheHit("postgres")
	}
}

func (c *PostgresCache) recordMiss() {
	if c.metrics != nil {
		c.metrics.RecordCacheMiss("postgres")
	}
}
