package businessdate

import (
	"context"
	"sync"
	"time"

	"harborstay-backend/internal/domain"

	"github.com/redis/go-redis/v9"
)

const redisKey = "harborstay:business_date"

// Provider is the single authoritative "today" for every past-date guard.
// The engine never reads the wall clock for date decisions; the business
// date is advanced by the night audit or set by an admin.
type Provider interface {
	Get(ctx context.Context) (time.Time, error)
	Set(ctx context.Context, date time.Time) error
}

// RedisProvider shares the business date across processes via Redis,
// falling back to process-local state when no client is configured.
type RedisProvider struct {
	rdb *redis.Client

	mu       sync.RWMutex
	fallback time.Time
}

// New returns a Provider seeded with initial. rdb may be nil (tests,
// single-process deployments); the seed is only written to Redis when the
// key does not exist yet, so a restart never rewinds the date.
func New(rdb *redis.Client, initial time.Time) *RedisProvider {
	p := &RedisProvider{rdb: rdb, fallback: domain.Date(initial)}
	if rdb != nil {
		rdb.SetNX(context.Background(), redisKey, p.fallback.Format(domain.DateLayout), 0)
	}
	return p
}

func (p *RedisProvider) Get(ctx context.Context) (time.Time, error) {
	if p.rdb != nil {
		s, err := p.rdb.Get(ctx, redisKey).Result()
		if err == nil {
			return domain.ParseDate(s)
		}
		if err != redis.Nil {
			return time.Time{}, err
		}
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.fallback, nil
}

func (p *RedisProvider) Set(ctx context.Context, date time.Time) error {
	date = domain.Date(date)
	if p.rdb != nil {
		if err := p.rdb.Set(ctx, redisKey, date.Format(domain.DateLayout), 0).Err(); err != nil {
			return err
		}
	}
	p.mu.Lock()
	p.fallback = date
	p.mu.Unlock()
	return nil
}
