package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type ModelStatus interface {
	Available() bool
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	model    ModelStatus
	database Pinger
	cache    Pinger
}

// NewHealthHandler builds a health handler. database and cache may be nil when not configured.
func NewHealthHandler(model ModelStatus, database, cache Pinger) *HealthHandler {
	return &HealthHandler{model: model, database: database, cache: cache}
}

type HealthStatus struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	components := make(map[string]string)
	healthy := true

	if h.model.Available() {
		components["model"] = "ok"
	} else {
		components["model"] = "unavailable"
		healthy = false
	}

	if !checkDependency(ctx, components, "database", h.database) {
		healthy = false
	}
	if !checkDependency(ctx, components, "cache", h.cache) {
		healthy = false
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if !healthy {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, HealthStatus{Status: status, Components: components})
}

func checkDependency(ctx context.Context, components map[string]string, name string, p Pinger) bool {
	if p == nil {
		components[name] = "not configured"
		return true
	}
	if err := p.Ping(ctx); err != nil {
		components[name] = "error: " + err.Error()
		return false
	}
	components[name] = "ok"
	return true
}
