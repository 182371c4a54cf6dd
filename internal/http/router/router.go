package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/duscraft/garry/internal/http/handler"
	"github.com/duscraft/garry/internal/http/middleware"
	"github.com/duscraft/garry/internal/security"
)

// Dependencies carries everything the router needs. Wired by the di package.
type Dependencies struct {
	WarrantyHandler *handler.WarrantyHandler
	CategoryHandler *handler.CategoryHandler
	HealthHandler   *handler.HealthHandler
	JWTManager      *security.JWTManager
	RateLimiter     *middleware.RateLimiter
	CORSOrigins     string
	Logger          *slog.Logger
}

func New(dep Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(dep.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORSWithOrigins(dep.CORSOrigins))

	r.Get("/health", dep.HealthHandler.Check)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/categories", dep.CategoryHandler.List)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthRequired(dep.JWTManager))
			if dep.RateLimiter != nil {
				r.Use(dep.RateLimiter.Middleware())
			}

			r.Route("/warranties", func(r chi.Router) {
				r.Get("/", dep.WarrantyHandler.List)
				r.Post("/", dep.WarrantyHandler.Create)
				r.Get("/expiring", dep.WarrantyHandler.ListExpiring)
				r.Get("/{id}", dep.WarrantyHandler.Get)
				r.Put("/{id}", dep.WarrantyHandler.Update)
				r.Delete("/{id}", dep.WarrantyHandler.Delete)
				r.Post("/{id}/receipt", dep.WarrantyHandler.UploadReceipt)
			})
			r.Get("/stats", dep.WarrantyHandler.Stats)
		})
	})

	return r
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", chimiddleware.GetReqID(r.Context()),
			)
		})
	}
}
