// Package s3stream provides client initialization and configuration.
//
// The Client holds the storage connection and the shared executor that
// writers schedule their part uploads on.
package s3stream

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	serrors "github.com/blobforge/s3stream/errors"
	"github.com/blobforge/s3stream/internal/s3api"
	"github.com/blobforge/s3stream/internal/task"
	"github.com/blobforge/s3stream/internal/validation"
)

// Client creates writers that stream objects into a bucket.
// A single client may serve many concurrent writers; they share the
// client's executor, so total part-upload concurrency is bounded by it.
type Client struct {
	api    s3api.S3API
	pool   *task.Pool
	logger *zap.Logger
}

// New creates a new client with the provided options.
// It loads AWS credentials using the default credential chain
// and applies the specified configuration options.
//
// Example:
//
//	client, err := s3stream.New(ctx,
//	    s3stream.WithRegion("us-west-2"),
//	    s3stream.WithConcurrency(8),
//	)
func New(ctx context.Context, opts ...Option) (*Client, error) {
	clientCfg := &clientConfig{
		concurrency: task.DefaultSize,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(clientCfg)
	}

	var cfg aws.Config
	var err error

	if clientCfg.customAWSConfig != nil {
		cfg = *clientCfg.customAWSConfig
	} else {
		cfg, err = config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, serrors.NewError("client initialization", err)
		}
	}

	if clientCfg.region != "" {
		cfg.Region = clientCfg.region
	} else if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	var s3Opts []func(*s3.Options)
	if clientCfg.endpoint != "" {
		endpoint := clientCfg.endpoint
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	}
	if clientCfg.forcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}
	if clientCfg.httpClient != nil {
		httpClient := clientCfg.httpClient
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.HTTPClient = httpClient
		})
	}

	return &Client{
		api:    s3.NewFromConfig(cfg, s3Opts...),
		pool:   task.NewPool(clientCfg.concurrency),
		logger: clientCfg.logger,
	}, nil
}

// NewWithClient creates a client backed by a custom storage implementation.
// This is primarily used for testing with mocked clients or for
// S3-compatible backends constructed elsewhere.
func NewWithClient(api s3api.S3API, opts ...Option) *Client {
	clientCfg := &clientConfig{
		concurrency: task.DefaultSize,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(clientCfg)
	}

	return &Client{
		api:    api,
		pool:   task.NewPool(clientCfg.concurrency),
		logger: clientCfg.logger,
	}
}

// NewWriter opens a write-only stream for the given bucket and key.
// Bytes written to it are buffered in memory and uploaded as a single put
// or as a multipart upload depending on how much data arrives before Close.
// The ctx governs every upload call made on behalf of this writer;
// cancelling it fails the stream.
func (c *Client) NewWriter(ctx context.Context, bucket, key string, opts ...WriterOption) (*Writer, error) {
	if err := validation.ValidateBucketName(bucket); err != nil {
		return nil, err
	}
	if err := validation.ValidateObjectKey(key); err != nil {
		return nil, err
	}

	cfg := &writerConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	executor := cfg.executor
	if executor == nil {
		executor = c.pool
	}

	return newWriter(ctx, c.api, executor, c.logger, bucket, key, cfg), nil
}

// Close waits for every upload task submitted through the client's default
// executor to finish. Call it after all writers are closed.
func (c *Client) Close() error {
	c.pool.Wait()
	return nil
}
