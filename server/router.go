// Package server wires the bucketfs HTTP gateway: routing, middleware and
// request handlers over a backends.FileSystem.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ebogdum/bucketfs/backends"
	"github.com/ebogdum/bucketfs/config"
	"github.com/ebogdum/bucketfs/metrics"
	"github.com/ebogdum/bucketfs/server/handlers"
	"github.com/ebogdum/bucketfs/server/middleware"
)

// NewRouter creates and configures the HTTP router
func NewRouter(fs backends.FileSystem, serverConfig *config.ServerConfig, logger *zap.Logger) chi.Router {
	r := chi.NewRouter()

	// Basic middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(serverConfig.FileOpTimeout))

	// Custom logging and metrics middleware
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			duration := time.Since(start)

			metrics.HTTPRequestsTotal.WithLabelValues(
				r.Method,
				r.URL.Path,
				http.StatusText(ww.Status()),
			).Inc()

			metrics.HTTPRequestDuration.WithLabelValues(
				r.Method,
				r.URL.Path,
			).Observe(duration.Seconds())

			logger.Info("HTTP request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", duration),
				zap.String("remote_addr", r.RemoteAddr))
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			logger.Error("Failed to write health check response", zap.Error(err))
		}
	})

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// Mutating requests share one fixed-rate limiter
	writeLimiter := rate.NewLimiter(rate.Limit(serverConfig.WriteRPS), serverConfig.WriteBurst)
	limited := middleware.RateLimit(writeLimiter, logger)

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		r.Route("/files", func(r chi.Router) {
			r.Get("/*", handlers.GetFile(fs, logger))
			r.Head("/*", handlers.HeadFile(fs, logger))
			r.With(limited).Put("/*", handlers.PutFile(fs, logger))
			r.With(limited).Post("/*", handlers.MoveFile(fs, logger))
			r.With(limited).Patch("/*", handlers.UpdateMetadata(fs, logger))
			r.With(limited).Delete("/*", handlers.DeleteFile(fs, logger))
		})

		r.Route("/directories", func(r chi.Router) {
			r.Get("/*", handlers.ListDirectory(fs, logger))
			r.With(limited).Post("/*", handlers.PostDirectory(fs, logger))
			r.With(limited).Delete("/*", handlers.DeleteDirectory(fs, logger))
		})
	})

	logger.Info("HTTP router configured successfully")

	return r
}
