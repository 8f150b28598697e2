// Package fslink defines the link model for the emulated file-system tree:
// link-info records projected from object-storage records, the file/directory
// classification, and the sentinel errors shared by all backends.
package fslink

import (
	"errors"
	"strings"
	"time"
)

// Separator is the directory separator exposed to callers.
const Separator = "/"

// DirectoryContentType is the reserved content type of directory marker
// objects. An object is a directory marker iff its content type equals this
// value; the backing store has no other is-directory flag.
const DirectoryContentType = "application/x-directory"

// Common link errors
var (
	ErrNotFound = errors.New("link not found")
	ErrNotEmpty = errors.New("folder is not empty")
)

// Kind distinguishes the two link variants.
type Kind int

const (
	// KindFile is a leaf link backed by a regular object.
	KindFile Kind = iota
	// KindDirectory is an internal node backed by a zero-byte marker object
	// whose key carries a trailing separator.
	KindDirectory
)

// String returns the kind as a lowercase word for logs and JSON responses.
func (k Kind) String() string {
	if k == KindDirectory {
		return "directory"
	}
	return "file"
}

// Classify decides the link kind for an object record. The content type
// sentinel is authoritative; listing records carry no content type, so a
// trailing-separator key shape is accepted as the marker there. The decision
// is made exactly once here, never re-derived by callers.
func Classify(key, contentType string) Kind {
	if contentType == DirectoryContentType {
		return KindDirectory
	}
	if contentType == "" && strings.HasSuffix(key, Separator) {
		return KindDirectory
	}
	return KindFile
}

// Info is a read-only projection of an object record into file-system terms.
// An Info always describes an existing link: absence is reported through
// ErrNotFound, never through a constructed value.
type Info struct {
	Path       string    `json:"path"` // full name, rooted at Separator
	Kind       Kind      `json:"-"`
	Size       int64     `json:"size"`
	ContentMD5 string    `json:"content_md5,omitempty"` // files only
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`

	// Unsupported by the backing store; always false.
	Hidden   bool `json:"hidden"`
	ReadOnly bool `json:"read_only"`
}

// IsDir reports whether the info describes a directory link.
func (i *Info) IsDir() bool {
	return i.Kind == KindDirectory
}

// Name returns the last path element of the link.
func (i *Info) Name() string {
	p := strings.TrimSuffix(i.Path, Separator)
	if idx := strings.LastIndex(p, Separator); idx >= 0 {
		return p[idx+1:]
	}
	return p
}

// ListOptions controls child enumeration.
type ListOptions struct {
	// Recursive enumerates all descendants flat instead of one level with
	// delimiter grouping.
	Recursive bool

	// IncludeDirectories surfaces emulated subdirectories (trailing-delimiter
	// common-prefix entries) alongside files.
	IncludeDirectories bool

	// RecursionHandled is set by the backend when it performed the recursive
	// enumeration itself, so the calling framework does not attempt its own
	// client-side traversal on top.
	RecursionHandled bool
}

// MetadataChanges is the set of attributes a caller may ask to change.
// The capability table declares all of them unsupported; they are accepted
// for interface compatibility only.
type MetadataChanges struct {
	Hidden        *bool
	ReadOnly      *bool
	LastWriteTime *time.Time
}

// Capabilities declares which metadata attributes a backend can actually set.
type Capabilities struct {
	SetHidden        bool
	SetReadOnly      bool
	SetLastWriteTime bool
}
