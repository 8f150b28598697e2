package s3

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// fakeObject is one stored object in the fake bucket.
type fakeObject struct {
	data        []byte
	contentType string
	modified    time.Time
}

// fakeS3 is an in-memory S3API implementation covering the calls the adapter
// issues: head, get, put, copy, delete and paginated prefix/delimiter
// listing.
type fakeS3 struct {
	s3iface.S3API

	mu      sync.Mutex
	objects map[string]*fakeObject
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string]*fakeObject{}}
}

func (f *fakeS3) put(key string, data []byte, contentType string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = &fakeObject{
		data:        data,
		contentType: contentType,
		modified:    time.Now(),
	}
}

func (f *fakeS3) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

func etagOf(data []byte) string {
	return fmt.Sprintf("%q", fmt.Sprintf("%x", md5.Sum(data)))
}

func (f *fakeS3) HeadObjectWithContext(_ aws.Context, in *s3.HeadObjectInput, _ ...request.Option) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	obj, ok := f.objects[aws.StringValue(in.Key)]
	if !ok {
		return nil, awserr.New("NotFound", "Not Found", nil)
	}

	return &s3.HeadObjectOutput{
		ContentLength: aws.Int64(int64(len(obj.data))),
		ContentType:   aws.String(obj.contentType),
		LastModified:  aws.Time(obj.modified),
		ETag:          aws.String(etagOf(obj.data)),
	}, nil
}

func (f *fakeS3) GetObjectWithContext(_ aws.Context, in *s3.GetObjectInput, _ ...request.Option) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	obj, ok := f.objects[aws.StringValue(in.Key)]
	if !ok {
		return nil, awserr.New("NoSuchKey", "The specified key does not exist.", nil)
	}

	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(obj.data)),
		ContentLength: aws.Int64(int64(len(obj.data))),
		ContentType:   aws.String(obj.contentType),
		LastModified:  aws.Time(obj.modified),
		ETag:          aws.String(etagOf(obj.data)),
	}, nil
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}

	f.put(aws.StringValue(in.Key), data, aws.StringValue(in.ContentType))
	return &s3.PutObjectOutput{ETag: aws.String(etagOf(data))}, nil
}

func (f *fakeS3) CopyObjectWithContext(_ aws.Context, in *s3.CopyObjectInput, _ ...request.Option) (*s3.CopyObjectOutput, error) {
	source, err := url.PathUnescape(aws.StringValue(in.CopySource))
	if err != nil {
		return nil, err
	}
	srcKey := source[strings.Index(source, "/")+1:]

	f.mu.Lock()
	defer f.mu.Unlock()

	obj, ok := f.objects[srcKey]
	if !ok {
		return nil, awserr.New("NoSuchKey", "The specified key does not exist.", nil)
	}

	f.objects[aws.StringValue(in.Key)] = &fakeObject{
		data:        append([]byte(nil), obj.data...),
		contentType: obj.contentType,
		modified:    time.Now(),
	}
	return &s3.CopyObjectOutput{}, nil
}

func (f *fakeS3) DeleteObjectWithContext(_ aws.Context, in *s3.DeleteObjectInput, _ ...request.Option) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Deleting a missing key is not an error, per S3 semantics.
	delete(f.objects, aws.StringValue(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2WithContext(_ aws.Context, in *s3.ListObjectsV2Input, _ ...request.Option) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	prefix := aws.StringValue(in.Prefix)
	delimiter := aws.StringValue(in.Delimiter)
	token := aws.StringValue(in.ContinuationToken)
	maxKeys := int(aws.Int64Value(in.MaxKeys))
	if maxKeys <= 0 {
		maxKeys = 1000
	}

	var keys []string
	for key := range f.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	out := &s3.ListObjectsV2Output{}
	seenPrefixes := map[string]bool{}
	count := 0
	var lastMarker string

	for _, key := range keys {
		if token != "" && key <= token {
			continue
		}
		if count >= maxKeys {
			out.IsTruncated = aws.Bool(true)
			out.NextContinuationToken = aws.String(lastMarker)
			break
		}

		rest := strings.TrimPrefix(key, prefix)
		if delimiter != "" {
			if idx := strings.Index(rest, delimiter); idx >= 0 {
				// grouped under a common prefix; the marker skips the whole
				// group on resumption, as S3 never splits a group over pages
				cp := prefix + rest[:idx+1]
				lastMarker = cp + "\xff"
				if !seenPrefixes[cp] {
					seenPrefixes[cp] = true
					out.CommonPrefixes = append(out.CommonPrefixes, &s3.CommonPrefix{Prefix: aws.String(cp)})
					count++
				}
				continue
			}
		}

		obj := f.objects[key]
		out.Contents = append(out.Contents, &s3.Object{
			Key:          aws.String(key),
			Size:         aws.Int64(int64(len(obj.data))),
			LastModified: aws.Time(obj.modified),
			ETag:         aws.String(etagOf(obj.data)),
		})
		count++
		lastMarker = key
	}

	return out, nil
}
