package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRequestScopedValues(t *testing.T) {
	ctx := context.Background()

	t.Run("empty context yields zero values", func(t *testing.T) {
		assert.Empty(t, RequestID(ctx))
		assert.Empty(t, Caller(ctx))
		assert.WithinDuration(t, time.Now(), Now(ctx), time.Second)
	})

	t.Run("injected values are returned", func(t *testing.T) {
		fixed := time.Date(2025, 12, 3, 10, 0, 0, 0, time.UTC)
		c := WithTime(WithCaller(WithRequestID(ctx, "req-1"), "refund-api"), fixed)

		assert.Equal(t, "req-1", RequestID(c))
		assert.Equal(t, "refund-api", Caller(c))
		assert.Equal(t, fixed, Now(c))
	})
}
