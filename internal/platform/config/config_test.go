package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		for _, key := range []string{"ESCROW_ADDR", "CSPC_BASE_URL", "CSPC_TIMEOUT", "CSPC_CACHE", "KAFKA_BROKERS", "AUTH_DISABLED"} {
			t.Setenv(key, "")
		}
		cfg := FromEnv()

		assert.Equal(t, ":8080", cfg.Server.Addr)
		assert.False(t, cfg.Server.AuthDisabled)
		assert.Equal(t, 3*time.Second, cfg.ClientCard.Timeout)
		assert.Equal(t, ClientCardCacheTTL, cfg.ClientCard.CacheTTL)
		assert.Equal(t, "memory", cfg.ClientCard.Cache)
		assert.Nil(t, cfg.Kafka.Brokers)
		assert.Equal(t, "escrow.audit", cfg.Kafka.AuditTopic)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("ESCROW_ADDR", ":9090")
		t.Setenv("CSPC_BASE_URL", "http://cspc.internal")
		t.Setenv("CSPC_TIMEOUT", "750ms")
		t.Setenv("CSPC_CACHE", "redis")
		t.Setenv("REDIS_POOL_SIZE", "32")
		t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
		t.Setenv("AUTH_DISABLED", "true")
		cfg := FromEnv()

		assert.Equal(t, ":9090", cfg.Server.Addr)
		assert.True(t, cfg.Server.AuthDisabled)
		assert.Equal(t, "http://cspc.internal", cfg.ClientCard.BaseURL)
		assert.Equal(t, 750*time.Millisecond, cfg.ClientCard.Timeout)
		assert.Equal(t, "redis", cfg.ClientCard.Cache)
		assert.Equal(t, 32, cfg.Redis.PoolSize)
		assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	})

	t.Run("malformed numbers fall back to defaults", func(t *testing.T) {
		t.Setenv("REDIS_POOL_SIZE", "lots")
		t.Setenv("CSPC_TIMEOUT", "soon")
		cfg := FromEnv()

		assert.Equal(t, 10, cfg.Redis.PoolSize)
		assert.Equal(t, 3*time.Second, cfg.ClientCard.Timeout)
	})
}
