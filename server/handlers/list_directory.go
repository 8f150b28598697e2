package handlers

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ebogdum/bucketfs/backends"
	"github.com/ebogdum/bucketfs/fslink"
	"github.com/ebogdum/bucketfs/metrics"
)

// DirectoryListingResponse represents the response for directory listing operations
type DirectoryListingResponse struct {
	Path      string     `json:"path"`
	Type      string     `json:"type"` // "directory"
	Recursive bool       `json:"recursive"`
	Count     int        `json:"count"`
	Items     []LinkInfo `json:"items"`
}

// ListDirectory handles GET /v1/directories/{path} requests.
// Query parameters: recursive=true for a flat enumeration of all
// descendants, dirs=false to omit emulated subdirectory entries.
func ListDirectory(fs backends.FileSystem, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		defer func() {
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, "/v1/directories/*").Observe(time.Since(start).Seconds())
		}()

		path := requestPath(r)

		info, err := fs.Stat(r.Context(), path)
		if err != nil {
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/v1/directories/*", "404").Inc()
			SendErrorResponse(w, logger, err, http.StatusInternalServerError)
			return
		}
		if !info.IsDir() {
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/v1/directories/*", "400").Inc()
			SendErrorResponse(w, logger, fmt.Errorf("path is not a directory"), http.StatusBadRequest)
			return
		}

		opts := &fslink.ListOptions{
			Recursive:          r.URL.Query().Get("recursive") == "true",
			IncludeDirectories: r.URL.Query().Get("dirs") != "false",
		}

		children, err := fs.ListChildren(r.Context(), path, opts)
		if err != nil {
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/v1/directories/*", "500").Inc()
			SendErrorResponse(w, logger, err, http.StatusInternalServerError)
			return
		}

		items := make([]LinkInfo, 0, len(children))
		for _, child := range children {
			items = append(items, toLinkInfo(child))
		}

		response := DirectoryListingResponse{
			Path:      path,
			Type:      "directory",
			Recursive: opts.Recursive,
			Count:     len(items),
			Items:     items,
		}

		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "/v1/directories/*", "200").Inc()
		SendJSONResponse(w, response)

		logger.Info("Directory listed via API",
			zap.String("path", path),
			zap.Bool("recursive", opts.Recursive),
			zap.Int("items_count", len(items)))
	}
}
