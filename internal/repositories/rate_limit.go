package repositories

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/books4all/internal/logger"
)

// RateLimitRepository is a sliding-window limiter over Redis sorted sets:
// every call is a member scored by its timestamp, members older than the window are trimmed.
type RateLimitRepository struct {
	client *redis.Client
	now    func() time.Time
}

func NewRateLimitRepository(client *redis.Client) *RateLimitRepository {
	return &RateLimitRepository{client: client, now: time.Now}
}

// Allow records a call for key and reports whether it fits in limit calls per window.
// When it does not, the returned duration tells when the oldest call leaves the window.
func (r *RateLimitRepository) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error) {
	key = "rate_limit:" + key
	now := r.now()
	windowStart := now.Add(-window)

	pipe := r.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart.UnixNano(), 10))
	count := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixNano()), Member: uuid.NewString()})
	pipe.Expire(ctx, key, window)
	_, err := pipe.Exec(ctx)

	logger.Log.Infow("rate limit check",
		"key", key,
		"count", count.Val(),
		"error", err,
	)

	if err != nil {
		return false, 0, err
	}
	if count.Val() < int64(limit) {
		return true, 0, nil
	}

	oldest, err := r.client.ZRangeWithScores(ctx, key, 0, 0).Result()
	if err != nil || len(oldest) == 0 {
		return false, window, err
	}
	retryAfter := time.Unix(0, int64(oldest[0].Score)).Add(window).Sub(now)
	if retryAfter < time.Second {
		retryAfter = time.Second
	}
	return false, retryAfter, nil
}
