package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ebogdum/bucketfs/backends"
	"github.com/ebogdum/bucketfs/metrics"
)

// PutFile handles PUT /v1/files/{path} requests, uploading the request body
// as the file content. Existing content is overwritten unconditionally.
func PutFile(fs backends.FileSystem, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		defer func() {
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, "/v1/files/*").Observe(time.Since(start).Seconds())
		}()

		path := requestPath(r)

		info, err := fs.WriteFile(r.Context(), path, r.Body, true)
		if err != nil {
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/v1/files/*", "500").Inc()
			SendErrorResponse(w, logger, err, http.StatusInternalServerError)
			return
		}

		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/v1/files/*", "201").Inc()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		SendJSONResponse(w, toLinkInfo(info))

		logger.Info("File written via API",
			zap.String("path", path),
			zap.Int64("size", info.Size))
	}
}
