package handlers

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ebogdum/bucketfs/backends"
	"github.com/ebogdum/bucketfs/metrics"
)

// GetFile handles GET /v1/files/{path} requests, streaming file content with
// info headers.
func GetFile(fs backends.FileSystem, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		defer func() {
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, "/v1/files/*").Observe(time.Since(start).Seconds())
		}()

		path := requestPath(r)

		info, err := fs.Stat(r.Context(), path)
		if err != nil {
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/v1/files/*", "404").Inc()
			SendErrorResponse(w, logger, err, http.StatusInternalServerError)
			return
		}
		if info.IsDir() {
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/v1/files/*", "400").Inc()
			SendErrorResponse(w, logger, fmt.Errorf("path is a directory"), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Length", fmt.Sprintf("%d", info.Size))
		w.Header().Set("X-BucketFS-Content-MD5", info.ContentMD5)
		w.Header().Set("X-BucketFS-MTime", info.ModifiedAt.Format(time.RFC3339))

		if err := fs.ReadFile(r.Context(), path, w); err != nil {
			// Headers are already written; log and bail
			logger.Error("Failed to stream file content", zap.Error(err))
			return
		}

		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/v1/files/*", "200").Inc()
		logger.Info("File served",
			zap.String("path", path),
			zap.Int64("size", info.Size))
	}
}

// HeadFile handles HEAD /v1/files/{path} requests, returning link info as
// headers without a body.
func HeadFile(fs backends.FileSystem, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info, err := fs.Stat(r.Context(), requestPath(r))
		if err != nil {
			SendErrorResponse(w, logger, err, http.StatusInternalServerError)
			return
		}

		w.Header().Set("X-BucketFS-Type", info.Kind.String())
		w.Header().Set("X-BucketFS-Size", fmt.Sprintf("%d", info.Size))
		w.Header().Set("X-BucketFS-Content-MD5", info.ContentMD5)
		w.Header().Set("X-BucketFS-MTime", info.ModifiedAt.Format(time.RFC3339))
		w.WriteHeader(http.StatusOK)
	}
}
