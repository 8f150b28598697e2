package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ebogdum/bucketfs/backends"
	"github.com/ebogdum/bucketfs/fslink"
)

// MetadataRequest is the PATCH body for metadata updates. None of the
// attributes are settable on the backing store; the call refreshes and
// returns current info.
type MetadataRequest struct {
	Hidden        *bool      `json:"hidden,omitempty"`
	ReadOnly      *bool      `json:"read_only,omitempty"`
	LastWriteTime *time.Time `json:"last_write_time,omitempty"`
}

// UpdateMetadata handles PATCH /v1/files/{path} requests.
func UpdateMetadata(fs backends.FileSystem, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := requestPath(r)

		var req MetadataRequest
		if r.Body != nil {
			// An empty body is a plain refresh
			_ = json.NewDecoder(r.Body).Decode(&req)
		}

		info, err := fs.UpdateMetadata(r.Context(), path, fslink.MetadataChanges{
			Hidden:        req.Hidden,
			ReadOnly:      req.ReadOnly,
			LastWriteTime: req.LastWriteTime,
		})
		if err != nil {
			SendErrorResponse(w, logger, err, http.StatusInternalServerError)
			return
		}

		SendJSONResponse(w, toLinkInfo(info))
	}
}
