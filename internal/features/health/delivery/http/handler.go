package http

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"tma-backend/internal/common/logger"
	"tma-backend/internal/common/response"
)

const checkTimeout = 2 * time.Second

// Checker pings one dependency.
type Checker func(ctx context.Context) error

type HealthHandler struct {
	version string
	started time.Time
	checks  map[string]Checker
}

// NewHealthHandler creates the probe handler. Only configured dependencies
// should be passed in checks, an absent one is not a failure.
func NewHealthHandler(version string, checks map[string]Checker) *HealthHandler {
	if checks == nil {
		checks = map[string]Checker{}
	}
	return &HealthHandler{version: version, started: time.Now(), checks: checks}
}

func (h *HealthHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/health", h.health)
	router.GET("/health/ready", h.ready)
	router.GET("/health/live", h.live)
}

type HealthStatus struct {
	Status    string            `json:"status" example:"ok"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version,omitempty"`
	Uptime    string            `json:"uptime,omitempty"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// @Summary Service health
// @Tags health
// @Produce json
// @Success 200 {object} response.Envelope{data=HealthStatus}
// @Router /health [get]
func (h *HealthHandler) health(c *gin.Context) {
	response.OK(c, HealthStatus{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   h.version,
		Uptime:    time.Since(h.started).Round(time.Second).String(),
	})
}

// @Summary Readiness probe
// @Description Pings Postgres and Redis when they are configured
// @Tags health
// @Produce json
// @Success 200 {object} HealthStatus
// @Failure 503 {object} HealthStatus
// @Router /health/ready [get]
func (h *HealthHandler) ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := HealthStatus{Status: "ready", Timestamp: time.Now().UTC(), Checks: make(map[string]string, len(names))}
	code := http.StatusOK
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			logger.Warn().Err(err).Str("dependency", name).Msg("Readiness check failed")
			status.Checks[name] = "unavailable"
			status.Status = "unready"
			code = http.StatusServiceUnavailable
			continue
		}
		status.Checks[name] = "ok"
	}
	c.JSON(code, status)
}

// @Summary Liveness probe
// @Tags health
// @Success 200
// @Router /health/live [get]
func (h *HealthHandler) live(c *gin.Context) {
	c.Status(http.StatusOK)
}
