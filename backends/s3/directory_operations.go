package s3

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"go.uber.org/zap"

	"github.com/ebogdum/bucketfs/fslink"
	"github.com/ebogdum/bucketfs/internal/pathutil"
)

// CreateDirectory uploads the zero-byte marker object for path. Directory
// existence is nothing but this marker: a prefix that only has children and
// no marker of its own will not resolve via a direct lookup.
func (a *Adapter) CreateDirectory(ctx context.Context, path string) (*fslink.Info, error) {
	defer observe("create_directory")()

	client, err := a.conn()
	if err != nil {
		return nil, err
	}

	key := pathutil.DirectoryKey(path)
	_, err = client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader([]byte{}),
		ContentType: aws.String(fslink.DirectoryContentType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create directory marker: %w", err)
	}

	a.logger.Debug("Directory created",
		zap.String("bucket", a.bucketName),
		zap.String("key", key))

	return a.statKey(ctx, key)
}

// MoveDirectory copies the marker object to the destination key and deletes
// the source marker. Objects nested under the source prefix are not
// relocated; moving a directory in this emulation moves its marker only.
func (a *Adapter) MoveDirectory(ctx context.Context, src, dst string) (*fslink.Info, error) {
	defer observe("move_directory")()

	srcKey := pathutil.DirectoryKey(src)
	dstKey := pathutil.DirectoryKey(dst)

	if err := a.copyKey(ctx, srcKey, dstKey); err != nil {
		return nil, err
	}
	if err := a.deleteKey(ctx, srcKey); err != nil {
		return nil, err
	}

	return a.statKey(ctx, dstKey)
}

// DeleteDirectory removes the directory marker. When recursive is false the
// directory must be empty: one delimiter-grouped page of size two is enough
// to find a child besides the marker itself. When recursive is true only the
// marker is deleted; descendant objects remain and are the caller's to
// remove per object.
func (a *Adapter) DeleteDirectory(ctx context.Context, path string, recursive bool) error {
	defer observe("delete_directory")()

	client, err := a.conn()
	if err != nil {
		return err
	}

	key := pathutil.DirectoryKey(path)

	if !recursive {
		result, err := client.ListObjectsV2WithContext(ctx, &s3.ListObjectsV2Input{
			Bucket:    aws.String(a.bucketName),
			Prefix:    aws.String(key),
			Delimiter: aws.String(fslink.Separator),
			MaxKeys:   aws.Int64(emptyCheckPageSize),
		})
		if err != nil {
			return fmt.Errorf("failed to list directory: %w", err)
		}

		for _, object := range result.Contents {
			if aws.StringValue(object.Key) != key {
				return fslink.ErrNotEmpty
			}
		}
		if len(result.CommonPrefixes) > 0 {
			return fslink.ErrNotEmpty
		}
	}

	return a.deleteKey(ctx, key)
}

// ListChildren enumerates the children of a directory. The underlying
// listing is paginated until the continuation token runs out; the entry for
// the directory's own marker key is skipped. Non-recursive listings group
// one level with the delimiter; recursive listings enumerate all descendants
// flat. Emulated subdirectories are surfaced only when requested.
func (a *Adapter) ListChildren(ctx context.Context, path string, opts *fslink.ListOptions) ([]*fslink.Info, error) {
	defer observe("list_children")()

	if opts == nil {
		opts = &fslink.ListOptions{}
	}
	// Recursion happens here; the caller must not traverse again.
	opts.RecursionHandled = true

	client, err := a.conn()
	if err != nil {
		return nil, err
	}

	prefix := pathutil.DirectoryKey(path)
	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(a.bucketName),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int64(listPageSize),
	}
	if !opts.Recursive {
		input.Delimiter = aws.String(fslink.Separator)
	}

	var results []*fslink.Info

	for {
		result, err := client.ListObjectsV2WithContext(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}

		// Emulated subdirectories (delimiter-grouped common prefixes).
		if opts.IncludeDirectories {
			for _, commonPrefix := range result.CommonPrefixes {
				childKey := aws.StringValue(commonPrefix.Prefix)
				if childKey == "" {
					continue
				}
				results = append(results, &fslink.Info{
					Path: pathutil.ToPath(childKey),
					Kind: fslink.KindDirectory,
				})
			}
		}

		for _, object := range result.Contents {
			key := aws.StringValue(object.Key)

			// The directory's own marker is not a child.
			if key == prefix {
				continue
			}

			info := infoFromObject(key, object)
			if info.IsDir() && !opts.IncludeDirectories {
				continue
			}
			results = append(results, info)
		}

		if result.NextContinuationToken == nil || aws.StringValue(result.NextContinuationToken) == "" {
			break
		}
		input.ContinuationToken = result.NextContinuationToken
	}

	a.logger.Debug("Directory listed",
		zap.String("bucket", a.bucketName),
		zap.String("prefix", prefix),
		zap.Bool("recursive", opts.Recursive),
		zap.Int("count", len(results)))

	return results, nil
}

// deleteKey removes a single object key, wrapping provider faults.
func (a *Adapter) deleteKey(ctx context.Context, key string) error {
	client, err := a.conn()
	if err != nil {
		return err
	}

	_, err = client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// infoFromObject maps a listing record to link info. Listing records carry
// no content type, so classification falls back to the marker key shape.
func infoFromObject(key string, object *s3.Object) *fslink.Info {
	info := &fslink.Info{
		Path: pathutil.ToPath(key),
		Kind: fslink.Classify(key, ""),
	}

	if object.Size != nil {
		info.Size = *object.Size
	}
	if object.LastModified != nil {
		info.CreatedAt = *object.LastModified
		info.ModifiedAt = *object.LastModified
	}
	if info.Kind == fslink.KindFile {
		info.ContentMD5 = etagToMD5(aws.StringValue(object.ETag))
	}

	return info
}
