package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	apprelay "github.com/scafi/integration-backend/internal/application/relay"
)

// ReadinessChecker aggregates the component health probes.
type ReadinessChecker interface {
	Check(ctx context.Context) apprelay.Readiness
}

// SystemHandler serves the liveness and readiness endpoints.
type SystemHandler struct {
	readiness ReadinessChecker
}

func NewSystemHandler(readiness ReadinessChecker) *SystemHandler {
	return &SystemHandler{readiness: readiness}
}

// RegisterRoutes mounts the probes at the engine root, outside any API
// version prefix, where orchestrators expect them.
func (h *SystemHandler) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/healthz", h.Healthz)
	engine.GET("/readyz", h.Readyz)
}

// Healthz handles GET /healthz. Liveness only; no dependencies probed.
func (h *SystemHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readyz handles GET /readyz.
func (h *SystemHandler) Readyz(c *gin.Context) {
	r := h.readiness.Check(c.Request.Context())
	status := http.StatusOK
	if !r.Ready {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, r)
}
