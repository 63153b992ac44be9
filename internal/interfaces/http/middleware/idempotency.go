package middleware

import (
	"net/http"
	"time"

	"github.com/creditline/backend/internal/domain/shared"
	"github.com/creditline/backend/internal/infrastructure/logger"
	"github.com/creditline/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// IdempotencyKeyHeader lets a client retry a write without applying it twice
	IdempotencyKeyHeader = "Idempotency-Key"

	maxIdempotencyKeyLength = 255
)

// Idempotency claims the Idempotency-Key of a request in store for ttl.
// A key that is still held answers 409 without reaching the handler. When the
// handler fails (status >= 400) the key is released so the client may retry.
// Requests without the header pass through untouched, and so does every
// request when the store itself is failing.
func Idempotency(store shared.IdempotencyStore, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" || store == nil {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeBadRequest,
				"Idempotency-Key must be at most 255 characters",
				requestIDOf(c),
			))
			return
		}

		ctx := c.Request.Context()
		scoped := c.Request.Method + " " + c.FullPath() + ":" + key

		claimed, err := store.Claim(ctx, scoped, ttl)
		if err != nil {
			logger.L(ctx).Warn("Idempotency store unavailable, processing request without key",
				zap.String("idempotency_key", key),
				zap.Error(err),
			)
			c.Next()
			return
		}
		if !claimed {
			c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeDuplicateRequest,
				"A request with this Idempotency-Key was already processed",
				requestIDOf(c),
			))
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			if err := store.Release(ctx, scoped); err != nil {
				logger.L(ctx).Warn("Failed to release idempotency key",
					zap.String("idempotency_key", key),
					zap.Error(err),
				)
			}
		}
	}
}
