package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/movable/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Pinger reports whether a backing service is reachable
type Pinger interface {
	Ping() error
}

// HealthResponse is the body of the health endpoint
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// HealthHandler answers liveness and readiness probes
type HealthHandler struct {
	database     Pinger
	cacheBackend string
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(database Pinger, cacheBackend string) *HealthHandler {
	return &HealthHandler{database: database, cacheBackend: cacheBackend}
}

// RegisterRoutes registers /health and /ping on the engine root
func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.Health)
	r.GET("/ping", h.Ping)
}

// Ping answers pong without touching dependencies
func (h *HealthHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// Health reports the database state, answering 503 when it is unreachable
func (h *HealthHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Services: map[string]string{
			"database": "healthy",
			"cache":    h.cacheBackend,
		},
	}
	if err := h.database.Ping(); err != nil {
		logger.L(c.Request.Context()).Warn("Database health check failed", zap.Error(err))
		resp.Status = "unhealthy"
		resp.Services["database"] = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
