package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"at_deals/internal/infrastructure/translation/cache"
)

func TestMemory(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	m := cache.NewMemory(time.Hour, time.Minute)

	_, ok, err := m.Get(ctx, "missing")
	rq.NoError(err)
	rq.False(ok)

	value := []byte(`{"text":"你好"}`)
	rq.NoError(m.Set(ctx, "k", value, time.Hour))

	value[0] = 'x'

	got, ok, err := m.Get(ctx, "k")
	rq.NoError(err)
	rq.True(ok)
	rq.JSONEq(`{"text":"你好"}`, string(got))
	rq.Equal(1, m.Len())

	rq.NoError(m.Set(ctx, "short", []byte("v"), time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, ok, err = m.Get(ctx, "short")
	rq.NoError(err)
	rq.False(ok)
}
