package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func findEntry(entries []observer.LoggedEntry, msg string) *observer.LoggedEntry {
	for i := range entries {
		if entries[i].Message == msg {
			return &entries[i]
		}
	}
	return nil
}

// withRequestID stands in for the request ID middleware
func withRequestID(id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

func TestGinMiddleware(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	router := gin.New()
	router.Use(withRequestID("test-req-123"))
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/credits", func(c *gin.Context) {
		L(c.Request.Context()).Info("inside handler")
		c.JSON(http.StatusOK, gin.H{"data": []string{}})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/credits?customer_id=1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	inner := findEntry(recorded.All(), "inside handler")
	require.NotNil(t, inner)
	assert.Equal(t, "test-req-123", inner.ContextMap()["request_id"])
	assert.Equal(t, "/credits", inner.ContextMap()["path"])

	access := findEntry(recorded.All(), "HTTP Request")
	require.NotNil(t, access)
	assert.Equal(t, zapcore.InfoLevel, access.Level)
	assert.Equal(t, "customer_id=1", access.ContextMap()["query"])
	assert.Equal(t, "test-req-123", access.ContextMap()["request_id"])
	assert.EqualValues(t, http.StatusOK, access.ContextMap()["status"])
}

func TestGinMiddleware_LevelByStatus(t *testing.T) {
	tests := []struct {
		status int
		level  zapcore.Level
	}{
		{http.StatusCreated, zapcore.InfoLevel},
		{http.StatusBadRequest, zapcore.WarnLevel},
		{http.StatusConflict, zapcore.WarnLevel},
		{http.StatusInternalServerError, zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		core, recorded := observer.New(zapcore.DebugLevel)
		router := gin.New()
		router.Use(GinMiddleware(zap.New(core)))
		router.GET("/s", func(c *gin.Context) { c.Status(tt.status) })

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/s", nil)
		router.ServeHTTP(w, req)

		entry := findEntry(recorded.All(), "HTTP Request")
		require.NotNil(t, entry)
		assert.Equal(t, tt.level, entry.Level, "status %d", tt.status)
	}
}

func TestGinMiddleware_BelowLevelWritesNothing(t *testing.T) {
	core, recorded := observer.New(zapcore.WarnLevel)
	router := gin.New()
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/ok", nil)
	router.ServeHTTP(w, req)

	assert.Zero(t, recorded.Len())
}

func TestRecovery(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)

	router := gin.New()
	router.Use(withRequestID("req-panic"))
	router.Use(Recovery(zap.New(core)))
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/panic", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"ERR_INTERNAL"`)
	assert.Contains(t, w.Body.String(), `"req-panic"`)

	entry := findEntry(recorded.All(), "Panic recovered")
	require.NotNil(t, entry)
	assert.Equal(t, "req-panic", entry.ContextMap()["request_id"])
	assert.Equal(t, "boom", entry.ContextMap()["panic"])
}
