package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"go.uber.org/zap"

	"github.com/ebogdum/bucketfs/fslink"
	"github.com/ebogdum/bucketfs/internal/pathutil"
)

// Stat returns link info for a path. The file key is probed first; when that
// misses and the path has no extension-like suffix, the lookup is retried
// once against the directory marker key. Absence is fslink.ErrNotFound;
// transient faults propagate wrapped so callers can tell the two apart.
func (a *Adapter) Stat(ctx context.Context, path string) (*fslink.Info, error) {
	defer observe("stat")()

	fileKey := pathutil.FileKey(path)
	if fileKey == "" {
		// The root always exists, marker object or not.
		return &fslink.Info{Path: "/", Kind: fslink.KindDirectory}, nil
	}

	info, err := a.statKey(ctx, fileKey)
	if err == nil {
		return info, nil
	}
	if err != fslink.ErrNotFound {
		return nil, err
	}

	// A path like "a/b" is ambiguous between a file named "b" and the
	// directory marker "a/b/". Paths with an extension are unambiguous, so
	// the fallback only fires without one.
	if pathutil.HasExtension(path) {
		return nil, fslink.ErrNotFound
	}

	return a.statKey(ctx, pathutil.DirectoryKey(path))
}

// statKey looks up a single object key and maps its record to link info.
func (a *Adapter) statKey(ctx context.Context, key string) (*fslink.Info, error) {
	client, err := a.conn()
	if err != nil {
		return nil, err
	}

	result, err := client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(a.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fslink.ErrNotFound
		}
		return nil, fmt.Errorf("failed to stat object: %w", err)
	}

	return infoFromHead(key, result), nil
}

// Open opens a file for reading.
func (a *Adapter) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	defer observe("open")()

	client, err := a.conn()
	if err != nil {
		return nil, err
	}

	key := pathutil.FileKey(path)
	result, err := client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fslink.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get object: %w", err)
	}

	a.logger.Debug("File opened",
		zap.String("bucket", a.bucketName),
		zap.String("key", key))

	return result.Body, nil
}

// ReadFile streams the object's full content into w.
func (a *Adapter) ReadFile(ctx context.Context, path string, w io.Writer) error {
	body, err := a.Open(ctx, path)
	if err != nil {
		return err
	}
	defer body.Close()

	if _, err := io.Copy(w, body); err != nil {
		return fmt.Errorf("failed to read object content: %w", err)
	}
	return nil
}

// WriteFile uploads the stream as the object at path with a generic binary
// content type. The put is unconditional: the overwrite flag is accepted for
// interface compatibility, but the store is last-writer-wins either way.
func (a *Adapter) WriteFile(ctx context.Context, path string, r io.Reader, overwrite bool) (*fslink.Info, error) {
	defer observe("write_file")()

	client, err := a.conn()
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input stream: %w", err)
	}

	key := pathutil.FileKey(path)
	_, err = client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(binaryContentType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to put object: %w", err)
	}

	a.logger.Debug("File written",
		zap.String("bucket", a.bucketName),
		zap.String("key", key),
		zap.Int("size", len(data)))

	return a.statKey(ctx, key)
}

// MoveFile copies src to dst server-side, then deletes src. Not atomic: a
// failure after the copy leaves both objects present and nothing is rolled
// back.
func (a *Adapter) MoveFile(ctx context.Context, src, dst string, overwrite bool) (*fslink.Info, error) {
	defer observe("move_file")()

	if err := a.copyKey(ctx, pathutil.FileKey(src), pathutil.FileKey(dst)); err != nil {
		return nil, err
	}
	if err := a.DeleteFile(ctx, src); err != nil {
		return nil, err
	}

	return a.statKey(ctx, pathutil.FileKey(dst))
}

// DeleteFile removes the object at path. A provider fault is wrapped into a
// generic failure carrying the original message.
func (a *Adapter) DeleteFile(ctx context.Context, path string) error {
	defer observe("delete_file")()

	client, err := a.conn()
	if err != nil {
		return err
	}

	key := pathutil.FileKey(path)
	_, err = client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}

	a.logger.Debug("File deleted",
		zap.String("bucket", a.bucketName),
		zap.String("key", key))

	return nil
}

// UpdateMetadata accepts the requested changes for interface compatibility
// but applies none of them: hidden, read-only and last-write-time are all
// unsupported by the store. The current info is re-fetched and returned.
func (a *Adapter) UpdateMetadata(ctx context.Context, path string, changes fslink.MetadataChanges) (*fslink.Info, error) {
	defer observe("update_metadata")()
	return a.Stat(ctx, path)
}

// copyKey performs a server-side object copy within the bucket.
func (a *Adapter) copyKey(ctx context.Context, srcKey, dstKey string) error {
	client, err := a.conn()
	if err != nil {
		return err
	}

	_, err = client.CopyObjectWithContext(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(a.bucketName),
		Key:        aws.String(dstKey),
		CopySource: aws.String(url.PathEscape(a.bucketName + "/" + srcKey)),
	})
	if err != nil {
		if isNotFound(err) {
			return fslink.ErrNotFound
		}
		return fmt.Errorf("failed to copy object: %w", err)
	}

	return nil
}

// infoFromHead maps a head-object record to link info. Classification is the
// fslink classifier's decision; it is not re-derived here.
func infoFromHead(key string, out *s3.HeadObjectOutput) *fslink.Info {
	info := &fslink.Info{
		Path: pathutil.ToPath(key),
		Kind: fslink.Classify(key, aws.StringValue(out.ContentType)),
	}

	if out.ContentLength != nil {
		info.Size = *out.ContentLength
	}
	if out.LastModified != nil {
		info.CreatedAt = *out.LastModified
		info.ModifiedAt = *out.LastModified
	}
	if info.Kind == fslink.KindFile {
		info.ContentMD5 = etagToMD5(aws.StringValue(out.ETag))
	}

	return info
}

// etagToMD5 strips the quoting from an ETag. For single-part uploads the
// ETag is the object's MD5 hex digest.
func etagToMD5(etag string) string {
	return strings.Trim(etag, `"`)
}
