// Package s3 implements the backends.FileSystem interface over an
// S3-compatible object store. Directories are emulated with zero-byte marker
// objects whose key carries a trailing separator and whose content type is
// the fslink.DirectoryContentType sentinel.
package s3

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	awscreds "github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"go.uber.org/zap"

	"github.com/ebogdum/bucketfs/fslink"
	"github.com/ebogdum/bucketfs/metrics"
)

const (
	// listPageSize is the page size of the continuation-token listing loop.
	listPageSize = 100

	// emptyCheckPageSize is the page size of the is-directory-empty probe:
	// the directory's own marker plus at most one child is enough to decide.
	emptyCheckPageSize = 2

	binaryContentType = "application/octet-stream"
)

// Credentials is the JSON credential blob accepted by New.
type Credentials struct {
	AccessKeyID     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
	SessionToken    string `json:"session_token,omitempty"`
	Region          string `json:"region"`
	Endpoint        string `json:"endpoint,omitempty"` // custom endpoint, e.g. MinIO
}

// ParseCredentials decodes and validates a JSON credential blob.
func ParseCredentials(raw []byte) (Credentials, error) {
	if len(raw) == 0 {
		return Credentials{}, fmt.Errorf("credentials payload is required")
	}

	var creds Credentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		return Credentials{}, fmt.Errorf("failed to parse credentials: %w", err)
	}

	if creds.AccessKeyID == "" || creds.SecretAccessKey == "" {
		return Credentials{}, fmt.Errorf("credentials must include access_key_id and secret_access_key")
	}
	if creds.Region == "" {
		creds.Region = "us-east-1"
	}

	return creds, nil
}

// Adapter implements backends.FileSystem for an S3-compatible object store.
// It holds no authoritative state of its own besides the lazily-initialized,
// reused client handle.
type Adapter struct {
	bucketName string
	creds      Credentials
	logger     *zap.Logger

	connOnce sync.Once
	client   s3iface.S3API
	connErr  error
}

// New creates an adapter bound to a bucket and a JSON credential blob.
// The client handle is not dialed until the first operation.
func New(bucketName string, credentialsJSON []byte, logger *zap.Logger) (*Adapter, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("bucket name is required")
	}

	creds, err := ParseCredentials(credentialsJSON)
	if err != nil {
		return nil, err
	}

	return &Adapter{
		bucketName: bucketName,
		creds:      creds,
		logger:     logger,
	}, nil
}

// conn returns the shared client handle, dialing it on first use. sync.Once
// guards the transition so concurrent first calls cannot construct and leak
// extra handles.
func (a *Adapter) conn() (s3iface.S3API, error) {
	a.connOnce.Do(func() {
		if a.client != nil {
			return
		}

		awsConfig := &aws.Config{
			Region: aws.String(a.creds.Region),
			Credentials: awscreds.NewStaticCredentials(
				a.creds.AccessKeyID,
				a.creds.SecretAccessKey,
				a.creds.SessionToken,
			),
		}

		// Custom endpoints (MinIO and friends) need path-style addressing.
		if a.creds.Endpoint != "" {
			awsConfig.Endpoint = aws.String(a.creds.Endpoint)
			awsConfig.S3ForcePathStyle = aws.Bool(true)
		}

		sess, err := session.NewSession(awsConfig)
		if err != nil {
			a.connErr = fmt.Errorf("failed to create storage session: %w", err)
			return
		}

		a.client = s3.New(sess)
		a.logger.Debug("Storage client initialized",
			zap.String("bucket", a.bucketName),
			zap.String("region", a.creds.Region))
	})

	return a.client, a.connErr
}

// Capabilities reports the metadata attributes the store can set: none.
// Hidden, read-only and last-write-time have no representation in the
// backing store.
func (a *Adapter) Capabilities() fslink.Capabilities {
	return fslink.Capabilities{}
}

// Close releases the client handle if one was created.
func (a *Adapter) Close() error {
	// The SDK client holds no closable resources.
	return nil
}

// observe records backend operation metrics and returns a done func for the
// duration sample.
func observe(op string) func() {
	start := time.Now()
	metrics.BackendOpsTotal.WithLabelValues("s3", op).Inc()
	return func() {
		metrics.BackendOpDuration.WithLabelValues("s3", op).Observe(time.Since(start).Seconds())
	}
}

// isNotFound checks if an error indicates the object was not found.
func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "NoSuchKey") || strings.Contains(err.Error(), "NotFound")
}
