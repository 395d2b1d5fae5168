package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/poster-api/internal/model"
	"github.com/maxviazov/poster-api/pkg/response"
)

const pingTimeout = 2 * time.Second

// Pinger is the minimal contract readiness needs from a database.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler exposes liveness and readiness endpoints.
type HealthHandler struct {
	db Pinger
}

// NewHealthHandler accepts a nil Pinger when no database is configured.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Liveness responds OK if the process is up; it doesn't check dependencies.
func (h *HealthHandler) Liveness(c *gin.Context) {
	response.WriteData(c, http.StatusOK, model.HealthStatus{Status: "alive"})
}

// Readiness verifies the database when one is configured.
func (h *HealthHandler) Readiness(c *gin.Context) {
	if h.db == nil {
		response.WriteData(c, http.StatusOK, model.HealthStatus{Status: "ready", Database: "disabled"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		response.WriteData(c, http.StatusServiceUnavailable, model.HealthStatus{
			Status:   "unavailable",
			Database: "down",
			Error:    err.Error(),
		})
		return
	}
	response.WriteData(c, http.StatusOK, model.HealthStatus{Status: "ready", Database: "up"})
}
