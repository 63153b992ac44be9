package shared

import (
	"context"
	"time"
)

// IdempotencyStore holds Idempotency-Key claims so that a retried write is
// applied once. Keys are opaque to the store.
type IdempotencyStore interface {
	// Claim takes key for ttl. It reports false when an unexpired claim
	// already exists.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Held reports whether key has an unexpired claim
	Held(ctx context.Context, key string) (bool, error)
	// Release drops a claim so a failed write can be retried
	Release(ctx context.Context, key string) error
	Close() error
}
