package cache

import (
	"context"

	"github.com/creditline/backend/internal/domain/shared"
	"github.com/creditline/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewIdempotencyStore picks Redis when it is enabled and reachable and falls
// back to the in-memory store otherwise
func NewIdempotencyStore(ctx context.Context, cfg *config.RedisConfig, log *zap.Logger) shared.IdempotencyStore {
	if cfg == nil || !cfg.Enabled {
		log.Info("Using in-memory idempotency store")
		return NewInMemoryIdempotencyStore()
	}

	store, err := NewRedisIdempotencyStore(ctx, cfg)
	if err != nil {
		log.Warn("Redis unavailable, falling back to in-memory idempotency store",
			zap.String("addr", cfg.RedisAddr()),
			zap.Error(err),
		)
		return NewInMemoryIdempotencyStore()
	}

	log.Info("Using Redis idempotency store", zap.String("addr", cfg.RedisAddr()))
	return store
}
