// Package api assembles the HTTP gateway.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hszk-dev/vidingest/internal/api/handler"
	"github.com/hszk-dev/vidingest/internal/api/middleware"
)

// RouterConfig holds gateway-level limits.
type RouterConfig struct {
	// MaxBodyBytes caps bodies on every route except the streaming upload.
	MaxBodyBytes int64
	// StreamMaxBodyBytes caps the streaming upload; zero means unlimited.
	StreamMaxBodyBytes int64
	CORS               middleware.CORSConfig
}

// Handlers groups the route handlers.
type Handlers struct {
	Users   *handler.UserHandler
	Videos  *handler.VideoHandler
	Uploads *handler.UploadHandler
	// Ready is optional; /ready is only mounted when it is set.
	Ready *handler.ReadinessHandler
}

// NewRouter wires middleware and routes.
func NewRouter(logger *slog.Logger, h Handlers, cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.CORS(cfg.CORS))

	r.Get("/health", handler.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	if h.Ready != nil {
		r.Get("/ready", h.Ready.Ready)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.BodyLimit(cfg.MaxBodyBytes, handler.RequestTooLarge))

		r.Post("/users", h.Users.Create)
		r.Get("/users", h.Users.List)
		r.Get("/users/id/{user_id}", h.Users.GetByID)
		r.Get("/users/username", h.Users.GetByUsername)
		r.Get("/users/email", h.Users.GetByEmail)

		r.Get("/videos", h.Videos.List)
		r.Get("/videos/id", h.Videos.GetByID)
		r.Get("/videos/path", h.Videos.GetByPath)

		r.Post("/upload-video", h.Uploads.UploadVideo)
	})

	r.With(middleware.BodyLimit(cfg.StreamMaxBodyBytes, handler.StreamTooLarge)).
		Post("/upload-raw-video/{bucket}/{object}", h.Uploads.StreamObject)

	return r
}
