package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ebogdum/bucketfs/fslink"
	"github.com/ebogdum/bucketfs/server/handlers"
)

// fakeFS is an in-memory backends.FileSystem covering what the handlers
// exercise. Directories are paths with a registered marker entry.
type fakeFS struct {
	files map[string][]byte
	dirs  map[string]bool
}

func newFakeFS() *fakeFS {
	return &fakeFS{
		files: map[string][]byte{},
		dirs:  map[string]bool{"/": true},
	}
}

func (f *fakeFS) Stat(ctx context.Context, path string) (*fslink.Info, error) {
	if f.dirs[path] {
		return &fslink.Info{Path: path, Kind: fslink.KindDirectory}, nil
	}
	if data, ok := f.files[path]; ok {
		return &fslink.Info{Path: path, Kind: fslink.KindFile, Size: int64(len(data))}, nil
	}
	return nil, fslink.ErrNotFound
}

func (f *fakeFS) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	data, ok := f.files[path]
	if !ok {
		return nil, fslink.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeFS) ReadFile(ctx context.Context, path string, w io.Writer) error {
	body, err := f.Open(ctx, path)
	if err != nil {
		return err
	}
	defer body.Close()
	_, err = io.Copy(w, body)
	return err
}

func (f *fakeFS) WriteFile(ctx context.Context, path string, r io.Reader, overwrite bool) (*fslink.Info, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f.files[path] = data
	return f.Stat(ctx, path)
}

func (f *fakeFS) MoveFile(ctx context.Context, src, dst string, overwrite bool) (*fslink.Info, error) {
	data, ok := f.files[src]
	if !ok {
		return nil, fslink.ErrNotFound
	}
	f.files[dst] = data
	delete(f.files, src)
	return f.Stat(ctx, dst)
}

func (f *fakeFS) DeleteFile(ctx context.Context, path string) error {
	delete(f.files, path)
	return nil
}

func (f *fakeFS) CreateDirectory(ctx context.Context, path string) (*fslink.Info, error) {
	f.dirs[path] = true
	return f.Stat(ctx, path)
}

func (f *fakeFS) MoveDirectory(ctx context.Context, src, dst string) (*fslink.Info, error) {
	if !f.dirs[src] {
		return nil, fslink.ErrNotFound
	}
	delete(f.dirs, src)
	f.dirs[dst] = true
	return f.Stat(ctx, dst)
}

func (f *fakeFS) DeleteDirectory(ctx context.Context, path string, recursive bool) error {
	if !recursive {
		prefix := strings.TrimSuffix(path, "/") + "/"
		for file := range f.files {
			if strings.HasPrefix(file, prefix) {
				return fslink.ErrNotEmpty
			}
		}
	}
	delete(f.dirs, path)
	return nil
}

func (f *fakeFS) ListChildren(ctx context.Context, path string, opts *fslink.ListOptions) ([]*fslink.Info, error) {
	if opts == nil {
		opts = &fslink.ListOptions{}
	}
	opts.RecursionHandled = true

	prefix := strings.TrimSuffix(path, "/") + "/"
	var infos []*fslink.Info
	for file, data := range f.files {
		if !strings.HasPrefix(file, prefix) {
			continue
		}
		rest := strings.TrimPrefix(file, prefix)
		if !opts.Recursive && strings.Contains(rest, "/") {
			continue
		}
		infos = append(infos, &fslink.Info{Path: file, Kind: fslink.KindFile, Size: int64(len(data))})
	}
	if opts.IncludeDirectories {
		for dir := range f.dirs {
			rest := strings.TrimPrefix(dir, prefix)
			if dir == path || !strings.HasPrefix(dir, prefix) {
				continue
			}
			if !opts.Recursive && strings.Contains(rest, "/") {
				continue
			}
			infos = append(infos, &fslink.Info{Path: dir, Kind: fslink.KindDirectory})
		}
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Path < infos[j].Path })
	return infos, nil
}

func (f *fakeFS) UpdateMetadata(ctx context.Context, path string, changes fslink.MetadataChanges) (*fslink.Info, error) {
	return f.Stat(ctx, path)
}

func (f *fakeFS) Capabilities() fslink.Capabilities { return fslink.Capabilities{} }

func (f *fakeFS) Close() error { return nil }

func newTestRouter(fs *fakeFS) chi.Router {
	logger := zap.NewNop()
	r := chi.NewRouter()
	r.Route("/v1", func(r chi.Router) {
		r.Route("/files", func(r chi.Router) {
			r.Get("/*", handlers.GetFile(fs, logger))
			r.Head("/*", handlers.HeadFile(fs, logger))
			r.Put("/*", handlers.PutFile(fs, logger))
			r.Post("/*", handlers.MoveFile(fs, logger))
			r.Patch("/*", handlers.UpdateMetadata(fs, logger))
			r.Delete("/*", handlers.DeleteFile(fs, logger))
		})
		r.Route("/directories", func(r chi.Router) {
			r.Get("/*", handlers.ListDirectory(fs, logger))
			r.Post("/*", handlers.PostDirectory(fs, logger))
			r.Delete("/*", handlers.DeleteDirectory(fs, logger))
		})
	})
	return r
}

func TestPutThenGetFile(t *testing.T) {
	fs := newFakeFS()
	router := newTestRouter(fs)

	put := httptest.NewRequest(http.MethodPut, "/v1/files/docs/a.txt", strings.NewReader("hello"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, put)

	if rec.Code != http.StatusCreated {
		t.Fatalf("PUT status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body)
	}

	get := httptest.NewRequest(http.MethodGet, "/v1/files/docs/a.txt", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, get)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Body.String() != "hello" {
		t.Errorf("GET body = %q, want %q", rec.Body.String(), "hello")
	}
}

func TestGetFileNotFound(t *testing.T) {
	router := newTestRouter(newFakeFS())

	req := httptest.NewRequest(http.MethodGet, "/v1/files/missing.txt", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	var resp handlers.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp.Code != "LINK_NOT_FOUND" {
		t.Errorf("error code = %q, want LINK_NOT_FOUND", resp.Code)
	}
}

func TestGetFileOnDirectory(t *testing.T) {
	fs := newFakeFS()
	fs.dirs["/docs"] = true
	router := newTestRouter(fs)

	req := httptest.NewRequest(http.MethodGet, "/v1/files/docs", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestMoveFileEndpoint(t *testing.T) {
	fs := newFakeFS()
	fs.files["/x"] = []byte("payload")
	router := newTestRouter(fs)

	req := httptest.NewRequest(http.MethodPost, "/v1/files/y?move_from=/x", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body)
	}
	if _, ok := fs.files["/x"]; ok {
		t.Error("source still present after move")
	}
	if string(fs.files["/y"]) != "payload" {
		t.Error("destination content missing after move")
	}
}

func TestMoveFileRequiresSource(t *testing.T) {
	router := newTestRouter(newFakeFS())

	req := httptest.NewRequest(http.MethodPost, "/v1/files/y", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestListDirectoryEndpoint(t *testing.T) {
	fs := newFakeFS()
	fs.dirs["/a"] = true
	fs.dirs["/a/sub"] = true
	fs.files["/a/top.txt"] = []byte("t")
	fs.files["/a/sub/deep.txt"] = []byte("d")
	router := newTestRouter(fs)

	req := httptest.NewRequest(http.MethodGet, "/v1/directories/a", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body)
	}

	var resp handlers.DirectoryListingResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Count != 2 {
		t.Fatalf("count = %d, want 2 (%+v)", resp.Count, resp.Items)
	}

	types := map[string]string{}
	for _, item := range resp.Items {
		types[item.Path] = item.Type
	}
	if types["/a/sub"] != "directory" {
		t.Errorf("expected directory entry for /a/sub, got %v", types)
	}
	if types["/a/top.txt"] != "file" {
		t.Errorf("expected file entry for /a/top.txt, got %v", types)
	}
}

func TestDeleteDirectoryConflict(t *testing.T) {
	fs := newFakeFS()
	fs.dirs["/a"] = true
	fs.files["/a/f.txt"] = []byte("f")
	router := newTestRouter(fs)

	req := httptest.NewRequest(http.MethodDelete, "/v1/directories/a", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusConflict)
	}

	var resp handlers.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp.Code != "FOLDER_NOT_EMPTY" {
		t.Errorf("error code = %q, want FOLDER_NOT_EMPTY", resp.Code)
	}
}

func TestCreateDirectoryEndpoint(t *testing.T) {
	fs := newFakeFS()
	router := newTestRouter(fs)

	req := httptest.NewRequest(http.MethodPost, "/v1/directories/a/b", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body)
	}
	if !fs.dirs["/a/b"] {
		t.Error("directory not created")
	}
}

func TestUpdateMetadataRefresh(t *testing.T) {
	fs := newFakeFS()
	fs.files["/a.txt"] = []byte("aaa")
	router := newTestRouter(fs)

	req := httptest.NewRequest(http.MethodPatch, "/v1/files/a.txt", strings.NewReader(`{"hidden":true}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body)
	}

	var info handlers.LinkInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if info.Size != 3 {
		t.Errorf("size = %d, want 3", info.Size)
	}
}
