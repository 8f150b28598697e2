package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ebogdum/bucketfs/backends"
	"github.com/ebogdum/bucketfs/metrics"
)

// DeleteFile handles DELETE /v1/files/{path} requests.
func DeleteFile(fs backends.FileSystem, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := requestPath(r)

		if err := fs.DeleteFile(r.Context(), path); err != nil {
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/v1/files/*", "500").Inc()
			SendErrorResponse(w, logger, err, http.StatusInternalServerError)
			return
		}

		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/v1/files/*", "204").Inc()
		w.WriteHeader(http.StatusNoContent)

		logger.Info("File deleted via API", zap.String("path", path))
	}
}
