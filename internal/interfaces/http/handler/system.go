package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/retailpos/backend/internal/interfaces/http/dto"
)

// Pinger checks that a backing store is reachable
type Pinger interface {
	Ping() error
}

// SystemHandler exposes liveness and readiness endpoints
type SystemHandler struct {
	BaseHandler
	db        Pinger
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db Pinger) *SystemHandler {
	return &SystemHandler{
		db:        db,
		startTime: time.Now(),
	}
}

// HealthResponse is the liveness payload
type HealthResponse struct {
	Status    string `json:"status"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
	Time      string `json:"time"`
}

// ReadyResponse is the readiness payload
type ReadyResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Time     string `json:"time"`
}

// Health reports that the process is alive
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(HealthResponse{
		Status:    "ok",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Time:      time.Now().Format(time.RFC3339),
	}))
}

// Ready reports whether the database is reachable
func (h *SystemHandler) Ready(c *gin.Context) {
	resp := ReadyResponse{
		Status:   "ready",
		Database: "ok",
		Time:     time.Now().Format(time.RFC3339),
	}
	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			resp.Status = "not_ready"
			resp.Database = "error"
			c.JSON(http.StatusServiceUnavailable, dto.NewSuccessResponse(resp))
			return
		}
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// RegisterDirect attaches the endpoints to the engine root so they stay
// outside API versioning and authentication.
func (h *SystemHandler) RegisterDirect(engine *gin.Engine) {
	engine.GET("/health", h.Health)
	engine.GET("/ready", h.Ready)
}
