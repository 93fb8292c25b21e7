package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"taskmanager/internal/logger"

	"github.com/gin-gonic/gin"
)

// Check is a named readiness check; a nil error means healthy.
type Check func(ctx context.Context) error

type HealthHandler struct {
	checks    map[string]Check
	startTime time.Time
	version   string
}

func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{
		checks:    make(map[string]Check),
		startTime: time.Now(),
		version:   version,
	}
}

// AddCheck registers fn under name. Registration is not safe once the
// handler is serving.
func (h *HealthHandler) AddCheck(name string, fn Check) {
	h.checks[name] = fn
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version,omitempty"`
	Uptime    string            `json:"uptime"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Liveness answers as long as the process serves requests.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness runs every registered check and answers 503 if any fails.
// Failure details are logged, not returned.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make(map[string]string, len(names))
	ready := true
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			logger.WithContext(ctx).Warn("readiness check failed", "check", name, "error", err)
			results[name] = "unavailable"
			ready = false
			continue
		}
		results[name] = "ok"
	}

	res := HealthResponse{
		Status:    "ready",
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    results,
	}
	code := http.StatusOK
	if !ready {
		res.Status = "unavailable"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, res)
}
