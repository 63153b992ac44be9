package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/creditline/backend/internal/infrastructure/persistence"
	"github.com/creditline/backend/internal/infrastructure/telemetry"
	"github.com/creditline/backend/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProbe struct {
	pingErr error
	stats   persistence.ConnectionStats
}

func (p stubProbe) Ping() error { return p.pingErr }

func (p stubProbe) Stats() (persistence.ConnectionStats, error) { return p.stats, nil }

func newSystemEngine(probe DatabaseProbe) *gin.Engine {
	h := NewSystemHandler("credit-api", probe)
	engine := gin.New()
	engine.GET("/health", h.Health)
	engine.GET("/system/info", h.GetSystemInfo)
	return engine
}

func TestSystemHandler_Health(t *testing.T) {
	t.Run("healthy database", func(t *testing.T) {
		engine := newSystemEngine(stubProbe{stats: persistence.ConnectionStats{MaxOpenConnections: 25, Idle: 2}})

		w := testutil.DoJSON(t, engine, http.MethodGet, "/health", nil, nil)

		require.Equal(t, http.StatusOK, w.Code)
		resp := testutil.Decode[HealthResponse](t, w)
		assert.Equal(t, "healthy", resp.Data.Status)
		require.NotNil(t, resp.Data.Pool)
		assert.Equal(t, 25, resp.Data.Pool.MaxOpenConnections)
	})

	t.Run("unreachable database", func(t *testing.T) {
		engine := newSystemEngine(stubProbe{pingErr: errors.New("dial tcp: connection refused")})

		w := testutil.DoJSON(t, engine, http.MethodGet, "/health", nil, nil)

		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		resp := testutil.Decode[HealthResponse](t, w)
		assert.False(t, resp.Success)
		assert.Equal(t, "unhealthy", resp.Data.Status)
		assert.Contains(t, resp.Data.Error, "connection refused")
	})
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	engine := newSystemEngine(stubProbe{})

	w := testutil.DoJSON(t, engine, http.MethodGet, "/system/info", nil, nil)

	require.Equal(t, http.StatusOK, w.Code)
	resp := testutil.Decode[SystemInfoResponse](t, w)
	assert.Equal(t, "credit-api", resp.Data.Name)
	assert.Equal(t, telemetry.ServiceVersion, resp.Data.Version)
	assert.NotEmpty(t, resp.Data.GoVersion)
}
