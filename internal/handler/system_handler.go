package handler

import (
	"context"
	"net/http"
	"runtime"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/neetquiz-backend/internal/response"
)

const healthTimeout = 3 * time.Second

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// SystemHandler reports service health.
type SystemHandler struct {
	checks    map[string]HealthCheck
	startTime time.Time
	log       zerolog.Logger
}

func NewSystemHandler(checks map[string]HealthCheck, log zerolog.Logger) *SystemHandler {
	return &SystemHandler{
		checks:    checks,
		startTime: time.Now(),
		log:       log.With().Str("component", "system_handler").Logger(),
	}
}

type healthReport struct {
	Status     string            `json:"status"`
	Uptime     string            `json:"uptime"`
	GoVersion  string            `json:"go_version"`
	Goroutines int               `json:"goroutines"`
	Checks     map[string]string `json:"checks"`
}

// Health godoc
// GET /health
// Probes every registered dependency; any failure yields 503.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	report := healthReport{
		Status:     "ok",
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
		GoVersion:  runtime.Version(),
		Goroutines: runtime.NumGoroutine(),
		Checks:     make(map[string]string, len(h.checks)),
	}

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			h.log.Warn().Err(err).Str("dependency", name).Msg("Health check failed")
			report.Checks[name] = "down"
			report.Status = "degraded"
			continue
		}
		report.Checks[name] = "up"
	}

	status := http.StatusOK
	if report.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	response.Success(c, status, report)
}
