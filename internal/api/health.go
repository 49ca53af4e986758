package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	checks  map[string]HealthCheck
	timeout time.Duration
}

// NewHealthHandler creates a health handler. The "database" check, when
// present, is critical; every other failing check only degrades the status.
func NewHealthHandler(checks map[string]HealthCheck, timeout time.Duration) *HealthHandler {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HealthHandler{checks: checks, timeout: timeout}
}

// Health returns the health status of the API and its dependencies.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	checks := map[string]string{"api": "ok"}
	status := "healthy"
	statusCode := http.StatusOK

	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			slog.Error("Health check failed", "check", name, "error", err)
			checks[name] = "unreachable"
			status = "degraded"
			if name == "database" {
				statusCode = http.StatusServiceUnavailable
			}
			continue
		}
		checks[name] = "ok"
	}

	JSON(w, statusCode, map[string]any{
		"status": status,
		"checks": checks,
	})
}

// RegisterHealth registers the health check route.
func (h *HealthHandler) RegisterHealth(r chi.Router) {
	r.Get("/health", h.Health)
}
