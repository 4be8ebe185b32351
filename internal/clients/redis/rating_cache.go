package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	types "github.com/boardside/kilterboard-backend/internal/domain"
	"github.com/boardside/kilterboard-backend/internal/platform/logger"
)

// RatingCache keeps computed vote aggregates warm between writes. Every vote
// submission invalidates its problem's entry, so a cache hit is never stale.
type RatingCache interface {
	Get(ctx context.Context, problemID uuid.UUID) (*types.AggregateRating, bool)
	Set(ctx context.Context, problemID uuid.UUID, agg types.AggregateRating)
	Invalidate(ctx context.Context, problemID uuid.UUID)
}

type ratingCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewRatingCache wraps an optional Redis client. With a nil client every Get
// misses and writes are dropped, which keeps vote reads correct, just slower.
func NewRatingCache(rdb *goredis.Client, baseLog *logger.Logger, ttl time.Duration) RatingCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &ratingCache{
		log: baseLog.With("service", "RatingCache"),
		rdb: rdb,
		ttl: ttl,
	}
}

func ratingKey(problemID uuid.UUID) string {
	return "rating:" + problemID.String()
}

func (c *ratingCache) Get(ctx context.Context, problemID uuid.UUID) (*types.AggregateRating, bool) {
	if c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, ratingKey(problemID)).Bytes()
	if err == goredis.Nil {
		return nil, false
	}
	if err != nil {
		c.log.Warn("rating cache read failed", "problem_id", problemID, "error", err)
		return nil, false
	}
	var agg types.AggregateRating
	if err := json.Unmarshal(raw, &agg); err != nil {
		c.log.Warn("bad rating cache payload", "problem_id", problemID, "error", err)
		return nil, false
	}
	return &agg, true
}

func (c *ratingCache) Set(ctx context.Context, problemID uuid.UUID, agg types.AggregateRating) {
	if c.rdb == nil {
		return
	}
	raw, err := json.Marshal(agg)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, ratingKey(problemID), raw, c.ttl).Err(); err != nil {
		c.log.Warn("rating cache write failed", "problem_id", problemID, "error", err)
	}
}

func (c *ratingCache) Invalidate(ctx context.Context, problemID uuid.UUID) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, ratingKey(problemID)).Err(); err != nil {
		c.log.Warn("rating cache invalidation failed", "problem_id", problemID, "error", err)
	}
}
