package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Health handles GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	Text(w, http.StatusOK, "healthy")
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadinessCheck names one dependency probed by /ready.
type ReadinessCheck struct {
	Name   string
	Pinger Pinger
}

// ReadinessHandler answers 200 only when every dependency responds.
type ReadinessHandler struct {
	checks  []ReadinessCheck
	timeout time.Duration
}

// NewReadinessHandler creates a ReadinessHandler. Checks run in order
// and share one timeout.
func NewReadinessHandler(timeout time.Duration, checks ...ReadinessCheck) *ReadinessHandler {
	return &ReadinessHandler{checks: checks, timeout: timeout}
}

// Ready handles GET /ready
func (h *ReadinessHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	for _, c := range h.checks {
		if err := c.Pinger.Ping(ctx); err != nil {
			logFailure(r, "readiness check failed", fmt.Errorf("%s: %w", c.Name, err))
			Text(w, http.StatusServiceUnavailable, c.Name+" unavailable")
			return
		}
	}

	Text(w, http.StatusOK, "ready")
}
