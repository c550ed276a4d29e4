package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/searchly/bff/internal/utils"
)

// Pinger reports cache connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports service liveness and cache connectivity.
type HealthHandler struct {
	cache Pinger
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(cache Pinger) *HealthHandler {
	return &HealthHandler{cache: cache}
}

// GetHealth returns service status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	cacheStatus := "ok"
	if err := h.cache.Ping(c.Request.Context()); err != nil {
		cacheStatus = "unreachable"
	}

	utils.Success(c, 200, "OK", gin.H{
		"status": "ok",
		"cache":  cacheStatus,
	})
}
