package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ebogdum/bucketfs/backends"
	"github.com/ebogdum/bucketfs/metrics"
)

// PostDirectory handles POST /v1/directories/{path} requests. Without query
// parameters it creates the directory marker; with move_from={src} it
// relocates the marker from src (children stay under the old prefix).
func PostDirectory(fs backends.FileSystem, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := requestPath(r)

		if src := r.URL.Query().Get("move_from"); src != "" {
			info, err := fs.MoveDirectory(r.Context(), src, path)
			if err != nil {
				metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/v1/directories/*", "500").Inc()
				SendErrorResponse(w, logger, err, http.StatusInternalServerError)
				return
			}

			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/v1/directories/*", "200").Inc()
			SendJSONResponse(w, toLinkInfo(info))
			logger.Info("Directory moved via API",
				zap.String("from", src),
				zap.String("to", path))
			return
		}

		info, err := fs.CreateDirectory(r.Context(), path)
		if err != nil {
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/v1/directories/*", "500").Inc()
			SendErrorResponse(w, logger, err, http.StatusInternalServerError)
			return
		}

		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/v1/directories/*", "201").Inc()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		SendJSONResponse(w, toLinkInfo(info))

		logger.Info("Directory created via API", zap.String("path", path))
	}
}

// DeleteDirectory handles DELETE /v1/directories/{path} requests. With
// recursive=true only the marker object is removed; descendant objects are
// the caller's responsibility.
func DeleteDirectory(fs backends.FileSystem, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := requestPath(r)
		recursive := r.URL.Query().Get("recursive") == "true"

		if err := fs.DeleteDirectory(r.Context(), path, recursive); err != nil {
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/v1/directories/*", "500").Inc()
			SendErrorResponse(w, logger, err, http.StatusInternalServerError)
			return
		}

		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/v1/directories/*", "204").Inc()
		w.WriteHeader(http.StatusNoContent)

		logger.Info("Directory deleted via API",
			zap.String("path", path),
			zap.Bool("recursive", recursive))
	}
}
