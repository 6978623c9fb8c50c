package repositories

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/books4all/internal/logger"
)

// TokenRevocationRepository remembers revoked token ids in Redis until the token would expire anyway.
type TokenRevocationRepository struct {
	client *redis.Client
}

func NewTokenRevocationRepository(client *redis.Client) *TokenRevocationRepository {
	return &TokenRevocationRepository{client: client}
}

func revocationKey(jti string) string {
	return "revoked:" + jti
}

// Revoke marks jti as revoked until expiresAt. Already expired tokens are ignored.
func (r *TokenRevocationRepository) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	key := revocationKey(jti)
	err := r.client.Set(ctx, key, "1", ttl).Err()

	logger.Log.Infow("token revoked",
		"key", key,
		"ttl", ttl,
		"result", "ok",
		"error", err,
	)

	return err
}

func (r *TokenRevocationRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	key := revocationKey(jti)
	n, err := r.client.Exists(ctx, key).Result()

	logger.Log.Infow("token revocation check",
		"key", key,
		"result", n,
		"error", err,
	)

	if err != nil {
		return false, err
	}
	return n > 0, nil
}
