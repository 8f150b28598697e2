// Package backends defines the file-system contract consumed by the bucketfs
// server and CLI, implemented by storage backend adapters.
package backends

import (
	"context"
	"io"

	"github.com/ebogdum/bucketfs/fslink"
)

// FileSystem is the file-system-shaped contract over a storage backend.
// All lookups report absence through fslink.ErrNotFound so callers can
// distinguish "does not exist" from "could not determine".
type FileSystem interface {
	// Stat returns link info for the given path. For paths without an
	// extension-like suffix a failed file lookup is retried once against the
	// path normalized as a directory key.
	Stat(ctx context.Context, path string) (*fslink.Info, error)

	// Open opens a file for reading and returns a ReadCloser over its full
	// content. Partial or range reads are not supported.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// ReadFile streams the file's full content into the given sink.
	ReadFile(ctx context.Context, path string, w io.Writer) error

	// WriteFile uploads the stream as the object at path, unconditionally
	// overwriting prior content. The overwrite flag is accepted for interface
	// compatibility only; the underlying store is last-writer-wins.
	WriteFile(ctx context.Context, path string, r io.Reader, overwrite bool) (*fslink.Info, error)

	// MoveFile copies src to dst server-side and then deletes src. The pair
	// is not atomic: a failure between copy and delete leaves both objects
	// present and no rollback is attempted.
	MoveFile(ctx context.Context, src, dst string, overwrite bool) (*fslink.Info, error)

	// DeleteFile removes the object at path.
	DeleteFile(ctx context.Context, path string) error

	// CreateDirectory uploads the zero-byte directory marker for path,
	// creating or overwriting it.
	CreateDirectory(ctx context.Context, path string) (*fslink.Info, error)

	// MoveDirectory relocates the directory marker only; objects nested
	// under the source prefix stay where they are.
	MoveDirectory(ctx context.Context, src, dst string) (*fslink.Info, error)

	// DeleteDirectory removes the directory marker. When recursive is false
	// it fails with fslink.ErrNotEmpty if any child besides the marker
	// itself exists. When recursive is true only the marker is removed;
	// descendant objects are the caller's responsibility.
	DeleteDirectory(ctx context.Context, path string, recursive bool) error

	// ListChildren enumerates the children of a directory, paginating the
	// underlying listing until exhausted and skipping the directory's own
	// marker. Sets opts.RecursionHandled when recursion was performed here.
	ListChildren(ctx context.Context, path string, opts *fslink.ListOptions) ([]*fslink.Info, error)

	// UpdateMetadata applies the supported subset of changes and returns
	// refreshed info. See Capabilities for what is actually settable.
	UpdateMetadata(ctx context.Context, path string, changes fslink.MetadataChanges) (*fslink.Info, error)

	// Capabilities reports which metadata attributes the backend can set.
	Capabilities() fslink.Capabilities

	// Close releases the backend's connection handle if one was created.
	Close() error
}
