package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/creditline/backend/internal/infrastructure/persistence"
	"github.com/creditline/backend/internal/infrastructure/telemetry"
	"github.com/creditline/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// DatabaseProbe is the part of the database the health check needs
type DatabaseProbe interface {
	Ping() error
	Stats() (persistence.ConnectionStats, error)
}

// SystemHandler handles health and system information endpoints
type SystemHandler struct {
	BaseHandler
	name      string
	db        DatabaseProbe
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(name string, db DatabaseProbe) *SystemHandler {
	return &SystemHandler{
		name:      name,
		db:        db,
		startTime: time.Now(),
	}
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// HealthResponse reports the state of the service and its database
type HealthResponse struct {
	Status   string                       `json:"status"`
	Database string                       `json:"database"`
	Pool     *persistence.ConnectionStats `json:"pool,omitempty"`
	Error    string                       `json:"error,omitempty"`
}

// GetSystemInfo returns the service name, version and uptime.
// GET /system/info
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	info := SystemInfoResponse{
		Name:      h.name,
		Version:   telemetry.ServiceVersion,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}

	h.Success(c, info)
}

// Health pings the database and reports pool statistics.
// An unreachable database yields 503.
// GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	if err := h.db.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, dto.Response{
			Success: false,
			Data: HealthResponse{
				Status:   "unhealthy",
				Database: "unreachable",
				Error:    err.Error(),
			},
		})
		return
	}

	resp := HealthResponse{Status: "healthy", Database: "ok"}
	if stats, err := h.db.Stats(); err == nil {
		resp.Pool = &stats
	}
	h.Success(c, resp)
}
