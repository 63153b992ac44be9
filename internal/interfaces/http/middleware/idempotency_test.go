package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/creditline/backend/internal/infrastructure/cache"
	"github.com/creditline/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Held(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockIdempotencyStore) Close() error {
	return nil
}

// newIdempotentRouter answers POST /credits with the status held in *status.
func newIdempotentRouter(store *cache.InMemoryIdempotencyStore, status *int, calls *int) *gin.Engine {
	router := gin.New()
	router.POST("/credits", Idempotency(store, time.Hour), func(c *gin.Context) {
		*calls++
		c.JSON(*status, dto.NewSuccessResponse(nil))
	})
	return router
}

func postWithKey(router *gin.Engine, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/credits", strings.NewReader(`{}`))
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIdempotency(t *testing.T) {
	t.Run("without header every request reaches the handler", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore()
		defer store.Close()
		status, calls := http.StatusCreated, 0
		router := newIdempotentRouter(store, &status, &calls)

		assert.Equal(t, http.StatusCreated, postWithKey(router, "").Code)
		assert.Equal(t, http.StatusCreated, postWithKey(router, "").Code)
		assert.Equal(t, 2, calls)
		assert.Equal(t, 0, store.Size())
	})

	t.Run("repeated key is rejected with 409", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore()
		defer store.Close()
		status, calls := http.StatusCreated, 0
		router := newIdempotentRouter(store, &status, &calls)

		assert.Equal(t, http.StatusCreated, postWithKey(router, "key-1").Code)

		w := postWithKey(router, "key-1")
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), dto.ErrCodeDuplicateRequest)
		assert.Equal(t, 1, calls)

		assert.Equal(t, http.StatusCreated, postWithKey(router, "key-2").Code)
		assert.Equal(t, 2, calls)
	})

	t.Run("failed request releases its key", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore()
		defer store.Close()
		status, calls := http.StatusBadRequest, 0
		router := newIdempotentRouter(store, &status, &calls)

		assert.Equal(t, http.StatusBadRequest, postWithKey(router, "retry-me").Code)
		assert.Equal(t, 0, store.Size())

		status = http.StatusCreated
		assert.Equal(t, http.StatusCreated, postWithKey(router, "retry-me").Code)
		assert.Equal(t, 2, calls)
	})

	t.Run("overlong key is rejected", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore()
		defer store.Close()
		status, calls := http.StatusCreated, 0
		router := newIdempotentRouter(store, &status, &calls)

		w := postWithKey(router, strings.Repeat("k", 256))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, 0, calls)
	})
}

func TestIdempotency_StoreFailureFailsOpen(t *testing.T) {
	store := new(MockIdempotencyStore)
	store.On("Claim", mock.Anything, "POST /credits:k", time.Minute).
		Return(false, errors.New("connection refused"))

	router := gin.New()
	called := false
	router.POST("/credits", Idempotency(store, time.Minute), func(c *gin.Context) {
		called = true
		c.Status(http.StatusCreated)
	})

	w := postWithKey(router, "k")
	require.True(t, called)
	assert.Equal(t, http.StatusCreated, w.Code)
	store.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
}
