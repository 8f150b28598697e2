package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ebogdum/bucketfs/fslink"
)

// LinkInfo represents file/directory information for JSON responses
type LinkInfo struct {
	Name       string `json:"name"`
	Path       string `json:"path"`
	Type       string `json:"type"`
	Size       int64  `json:"size"`
	ContentMD5 string `json:"content_md5,omitempty"`
	MTime      string `json:"mtime"`
}

// toLinkInfo maps an fslink.Info into the response shape.
func toLinkInfo(info *fslink.Info) LinkInfo {
	return LinkInfo{
		Name:       info.Name(),
		Path:       info.Path,
		Type:       info.Kind.String(),
		Size:       info.Size,
		ContentMD5: info.ContentMD5,
		MTime:      info.ModifiedAt.Format(time.RFC3339),
	}
}

// requestPath extracts the rooted link path from the wildcard URL segment.
func requestPath(r *http.Request) string {
	return "/" + chi.URLParam(r, "*")
}
