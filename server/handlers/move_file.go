package handlers

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/ebogdum/bucketfs/backends"
	"github.com/ebogdum/bucketfs/metrics"
)

// MoveFile handles POST /v1/files/{path}?move_from={src} requests, moving an
// object to the request path via server-side copy and delete.
func MoveFile(fs backends.FileSystem, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dst := requestPath(r)
		src := r.URL.Query().Get("move_from")
		if src == "" {
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/v1/files/*", "400").Inc()
			SendErrorResponse(w, logger, fmt.Errorf("move_from query parameter is required"), http.StatusBadRequest)
			return
		}

		info, err := fs.MoveFile(r.Context(), src, dst, true)
		if err != nil {
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/v1/files/*", "500").Inc()
			SendErrorResponse(w, logger, err, http.StatusInternalServerError)
			return
		}

		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/v1/files/*", "200").Inc()
		SendJSONResponse(w, toLinkInfo(info))

		logger.Info("File moved via API",
			zap.String("from", src),
			zap.String("to", dst))
	}
}
