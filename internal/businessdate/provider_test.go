package businessdate

import (
	"context"
	"testing"
	"time"

	"harborstay-backend/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bdate(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newTestRedis(t *testing.T) *redis.Client {
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestProvider_SeedAndGet(t *testing.T) {
	rdb := newTestRedis(t)
	p := New(rdb, bdate("2026-10-01"))

	got, err := p.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, bdate("2026-10-01"), got)
}

func TestProvider_SeedDoesNotRewind(t *testing.T) {
	rdb := newTestRedis(t)
	p := New(rdb, bdate("2026-10-01"))
	require.NoError(t, p.Set(context.Background(), bdate("2026-10-05")))

	// A second provider against the same store must not reset the date
	// back to its own initial value.
	p2 := New(rdb, bdate("2026-09-01"))
	got, err := p2.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, bdate("2026-10-05"), got)
}

func TestProvider_SetAdvances(t *testing.T) {
	rdb := newTestRedis(t)
	p := New(rdb, bdate("2026-10-01"))

	require.NoError(t, p.Set(context.Background(), bdate("2026-10-02")))
	got, err := p.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, bdate("2026-10-02"), got)
}

func TestProvider_NormalizesToMidnightUTC(t *testing.T) {
	p := New(nil, time.Date(2026, 10, 1, 17, 45, 3, 0, time.UTC))

	got, err := p.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, bdate("2026-10-01"), got)
}

func TestProvider_NilClientFallback(t *testing.T) {
	p := New(nil, bdate("2026-10-01"))

	got, err := p.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, bdate("2026-10-01"), got)

	require.NoError(t, p.Set(context.Background(), bdate("2026-10-09")))
	got, err = p.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, bdate("2026-10-09"), got)
}
