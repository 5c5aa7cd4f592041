package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"paybridge/internal/domain/plans"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const plansKey = "paybridge:plans:v1"

// PlanCache is a read-through cache of the plan catalog. A cache outage is
// logged and served from the source.
type PlanCache struct {
	rdb    redis.Cmdable
	source plans.Lister
	ttl    time.Duration
	logger *zap.SugaredLogger
}

func NewPlanCache(rdb redis.Cmdable, source plans.Lister, ttl time.Duration, logger *zap.SugaredLogger) *PlanCache {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &PlanCache{rdb: rdb, source: source, ttl: ttl, logger: logger}
}

// NewClient connects to addr and pings it.
func NewClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

func (c *PlanCache) List(ctx context.Context) ([]plans.Plan, error) {
	raw, err := c.rdb.Get(ctx, plansKey).Bytes()
	switch {
	case err == nil:
		var cached []plans.Plan
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		c.logger.Warnw("discarding unreadable plan cache entry", "key", plansKey)
	case !errors.Is(err, redis.Nil):
		c.logger.Warnw("plan cache read failed", "error", err.Error())
	}

	list, err := c.source.List(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(list); err == nil {
		if err := c.rdb.Set(ctx, plansKey, payload, c.ttl).Err(); err != nil {
			c.logger.Warnw("plan cache write failed", "error", err.Error())
		}
	}
	return list, nil
}

// Invalidate drops the cached catalog.
func (c *PlanCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, plansKey).Err()
}
