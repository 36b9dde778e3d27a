package ingest

import (
	"context"
	"time"

	"backend/internal/providers/redis"

	"go.uber.org/zap"
)

// DedupGuard suppresses re-processing of a provider-assigned message id.
// Carriers split long messages and retry webhook deliveries; the guard makes
// ingestion idempotent on the provider id.
type DedupGuard interface {
	// Reserve atomically claims the id; false means another delivery already
	// claimed it and the message must be skipped. An empty id is always
	// processable (UI submissions carry no provider id).
	Reserve(ctx context.Context, providerMessageID string) (bool, error)
	// Release frees a reservation so a later carrier retry can succeed after
	// a persistence failure.
	Release(ctx context.Context, providerMessageID string)
}

const dedupKeyPrefix = "dedup:provider:"

// RedisDedupGuard backs the guard with SETNX and a bounded TTL: carriers do
// not retry beyond ~24h, so older keys may expire without correctness loss.
type RedisDedupGuard struct {
	redisP *redis.RedisProvider
	ttl    time.Duration
	logger *zap.SugaredLogger
}

func NewRedisDedupGuard(redisP *redis.RedisProvider, ttl time.Duration, logger *zap.Logger) *RedisDedupGuard {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisDedupGuard{
		redisP: redisP,
		ttl:    ttl,
		logger: logger.Sugar(),
	}
}

func (g *RedisDedupGuard) Reserve(ctx context.Context, providerMessageID string) (bool, error) {
	if providerMessageID == "" {
		return true, nil
	}

	ok, err := g.redisP.SetNX(ctx, dedupKeyPrefix+providerMessageID, 1, g.ttl).Result()
	if err != nil {
		// Fail open: a redis outage must not reject inbound messages. The
		// worst case is a duplicate row, which the product tolerates better
		// than a lost message.
		g.logger.Warnw("Dedup reserve failed, processing anyway",
			"provider_message_id", providerMessageID, "error", err)
		return true, nil
	}
	return ok, nil
}

func (g *RedisDedupGuard) Release(ctx context.Context, providerMessageID string) {
	if providerMessageID == "" {
		return
	}
	if err := g.redisP.Del(ctx, dedupKeyPrefix+providerMessageID).Err(); err != nil {
		g.logger.Warnw("Dedup release failed",
			"provider_message_id", providerMessageID, "error", err)
	}
}
