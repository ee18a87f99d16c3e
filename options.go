// Package s3stream provides functional options for configuring client and
// writer behavior. These options follow the functional options pattern for
// clean, composable configuration.
package s3stream

import (
	"math"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"go.uber.org/zap"
)

// Default sizing for the buffering and chunking policy.
const (
	// DefaultPartSize is the size of each uploaded part when none is configured.
	DefaultPartSize = 8 * 1024 * 1024

	// DefaultMultipartThreshold is the stream size at which uploads switch
	// from a single put to a multipart session.
	DefaultMultipartThreshold = 16 * 1024 * 1024

	// DefaultInitialBufferSize is the starting capacity of the write buffer.
	DefaultInitialBufferSize = 1024 * 1024

	// DefaultContentType is used when content type detection fails.
	DefaultContentType = "application/octet-stream"

	// maxBufferSize is the largest byte count an in-memory buffer can address.
	maxBufferSize = math.MaxInt
)

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	region          string
	endpoint        string
	forcePathStyle  bool
	httpClient      *http.Client
	customAWSConfig *aws.Config
	concurrency     int
	logger          *zap.Logger
}

// WithRegion sets the AWS region for uploads.
// If not specified, uses the default region from the credential chain.
func WithRegion(region string) Option {
	return func(c *clientConfig) {
		c.region = region
	}
}

// WithEndpoint sets a custom endpoint URL.
// This is useful for S3-compatible services or local testing.
func WithEndpoint(endpoint string) Option {
	return func(c *clientConfig) {
		c.endpoint = endpoint
	}
}

// WithForcePathStyle forces path-style URLs instead of virtual-hosted style.
// This is required for S3-compatible services that don't support virtual hosting.
func WithForcePathStyle(forcePathStyle bool) Option {
	return func(c *clientConfig) {
		c.forcePathStyle = forcePathStyle
	}
}

// WithHTTPClient allows providing a custom HTTP client.
// This gives full control over HTTP behavior including timeouts and proxies.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithAWSConfig allows providing a custom AWS configuration.
// This overrides the default configuration loading behavior.
func WithAWSConfig(config *aws.Config) Option {
	return func(c *clientConfig) {
		c.customAWSConfig = config
	}
}

// WithConcurrency sets the number of parts that may upload in parallel on
// the client's default executor. Default is 5.
func WithConcurrency(concurrency int) Option {
	return func(c *clientConfig) {
		if concurrency > 0 {
			c.concurrency = concurrency
		}
	}
}

// WithLogger sets the logger used for warnings (config clamping, abort
// failures). Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *clientConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WriterOption configures a single Writer.
type WriterOption func(*writerConfig)

type writerConfig struct {
	partSize          int64
	threshold         int64
	initialBufferSize int64
	contentType       string
	metadata          map[string]string
	storageClass      StorageClass
	acl               ObjectACL
	tracker           ProgressTracker
	executor          Executor
}

// WithPartSize sets the size of each part in a multipart upload (except the
// last part). Non-positive values fall back to DefaultPartSize.
func WithPartSize(partSize int64) WriterOption {
	return func(c *writerConfig) {
		c.partSize = partSize
	}
}

// WithMultipartThreshold sets the stream size at which the writer switches
// from a single put to a multipart upload. Non-positive values fall back to
// DefaultMultipartThreshold.
func WithMultipartThreshold(threshold int64) WriterOption {
	return func(c *writerConfig) {
		c.threshold = threshold
	}
}

// WithInitialBufferSize sets the starting capacity of the write buffer.
// Values above the multipart threshold are clamped to it.
func WithInitialBufferSize(size int64) WriterOption {
	return func(c *writerConfig) {
		c.initialBufferSize = size
	}
}

// WithContentType sets the content type of the object. When unset, the
// content type is sniffed from the first buffered bytes at upload time.
func WithContentType(contentType string) WriterOption {
	return func(c *writerConfig) {
		c.contentType = contentType
	}
}

// WithMetadata sets user metadata stored with the object.
func WithMetadata(metadata map[string]string) WriterOption {
	return func(c *writerConfig) {
		if c.metadata == nil {
			c.metadata = make(map[string]string)
		}
		for k, v := range metadata {
			c.metadata[k] = v
		}
	}
}

// WithStorageClass sets the storage class of the object.
func WithStorageClass(storageClass StorageClass) WriterOption {
	return func(c *writerConfig) {
		c.storageClass = storageClass
	}
}

// WithACL sets the canned ACL applied to the object.
func WithACL(acl ObjectACL) WriterOption {
	return func(c *writerConfig) {
		c.acl = acl
	}
}

// WithProgress sets a progress tracker for the stream.
func WithProgress(tracker ProgressTracker) WriterOption {
	return func(c *writerConfig) {
		c.tracker = tracker
	}
}

// WithExecutor sets the executor that runs part-upload tasks, replacing the
// client's default pool for this writer.
func WithExecutor(executor Executor) WriterOption {
	return func(c *writerConfig) {
		c.executor = executor
	}
}

// normalize applies defaults and clamps out-of-range sizes. Misconfiguration
// is observable through warnings, never fatal.
func (c *writerConfig) normalize(logger *zap.Logger) (partSize, threshold, initialBufferSize int) {
	ps := c.partSize
	if ps <= 0 {
		if ps < 0 {
			logger.Warn("part size should be a positive number, using default",
				zap.Int64("partSize", ps), zap.Int("default", DefaultPartSize))
		}
		ps = DefaultPartSize
	}
	if ps > maxBufferSize {
		ps = maxBufferSize
	}

	th := c.threshold
	if th <= 0 {
		if th < 0 {
			logger.Warn("multipart threshold should be a positive number, using default",
				zap.Int64("threshold", th), zap.Int("default", DefaultMultipartThreshold))
		}
		th = DefaultMultipartThreshold
	}
	if th > maxBufferSize {
		th = maxBufferSize
	}

	ib := c.initialBufferSize
	if ib <= 0 {
		if ib < 0 {
			logger.Warn("initial buffer size should be a positive number, using default",
				zap.Int64("initialBufferSize", ib), zap.Int("default", DefaultInitialBufferSize))
		}
		ib = DefaultInitialBufferSize
	}
	if ib > th {
		logger.Warn("initial buffer size adjusted to not exceed the multipart threshold",
			zap.Int64("initialBufferSize", ib), zap.Int64("threshold", th))
		ib = th
	}

	return int(ps), int(th), int(ib)
}
