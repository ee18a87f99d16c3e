package s3stream

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	serrors "github.com/blobforge/s3stream/errors"
	"github.com/blobforge/s3stream/internal/testutil"
)

// TestMultipartUpload_AbortFailureIsLogged verifies that a failing abort is
// logged and never masks the part failure that triggered it.
func TestMultipartUpload_AbortFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	logger := zap.New(core)

	mock := &testutil.MockS3Client{}
	partErr := errors.New("part failed")
	mock.UploadPartFunc = func(ctx context.Context, params *s3.UploadPartInput, optFns ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
		return nil, partErr
	}
	abortErr := errors.New("abort failed")
	mock.AbortMultipartUploadFunc = func(ctx context.Context, params *s3.AbortMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
		return nil, abortErr
	}

	client := NewWithClient(mock, WithLogger(logger))
	w, err := client.NewWriter(context.Background(), "test-bucket", "test-key",
		WithMultipartThreshold(4), WithPartSize(4))
	require.NoError(t, err)

	_, err = w.Write([]byte("12345678"))
	require.NoError(t, err)

	err = w.Close()
	require.Error(t, err)
	assert.ErrorIs(t, err, partErr)
	assert.NotErrorIs(t, err, abortErr)

	assert.Equal(t, int32(1), mock.AbortMultipartUploadCalls.Load())
	entries := logs.FilterMessageSnippet("unable to abort").All()
	require.Len(t, entries, 1)
}

// TestMultipartUpload_AbortRunsDetached verifies abort still reaches the
// backend after the stream context is cancelled.
func TestMultipartUpload_AbortRunsDetached(t *testing.T) {
	mock := &testutil.MockS3Client{}
	release := make(chan struct{})
	mock.UploadPartFunc = func(ctx context.Context, params *s3.UploadPartInput, optFns ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
		<-release
		<-ctx.Done()
		return nil, ctx.Err()
	}
	var abortCtxErr error
	mock.AbortMultipartUploadFunc = func(ctx context.Context, params *s3.AbortMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
		abortCtxErr = ctx.Err()
		return &s3.AbortMultipartUploadOutput{}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	client := NewWithClient(mock)
	w, err := client.NewWriter(ctx, "test-bucket", "test-key",
		WithMultipartThreshold(4), WithPartSize(4))
	require.NoError(t, err)

	_, err = w.Write([]byte("12345678"))
	require.NoError(t, err)

	cancel()
	close(release)

	err = w.Close()
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, serrors.IsAborted(err))

	assert.Equal(t, int32(1), mock.AbortMultipartUploadCalls.Load())
	assert.NoError(t, abortCtxErr, "abort must not run on the cancelled stream context")
}

// TestMultipartUpload_FirstFailureCancelsRemaining verifies that once a part
// fails, parts that have not started yet are cancelled instead of uploaded.
func TestMultipartUpload_FirstFailureCancelsRemaining(t *testing.T) {
	mock := &testutil.MockS3Client{}
	mock.UploadPartFunc = func(ctx context.Context, params *s3.UploadPartInput, optFns ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
		if aws.ToInt32(params.PartNumber) == 1 {
			return nil, errors.New("part 1 failed")
		}
		// later parts wait until the failure has been observed and the
		// session context cancelled
		<-ctx.Done()
		return nil, ctx.Err()
	}

	client := NewWithClient(mock)
	w, err := client.NewWriter(context.Background(), "test-bucket", "test-key",
		WithMultipartThreshold(4), WithPartSize(4))
	require.NoError(t, err)

	_, err = w.Write(sequence(12))
	require.NoError(t, err)

	err = w.Close()
	require.Error(t, err)
	assert.True(t, serrors.IsAborted(err))
	assert.Equal(t, int32(1), mock.AbortMultipartUploadCalls.Load())
	assert.Equal(t, int32(0), mock.CompleteMultipartUploadCalls.Load())
}

// TestMultipartUpload_CompleteFailure verifies a failed completion surfaces
// without an abort, leaving the session for the caller or a lifecycle rule.
func TestMultipartUpload_CompleteFailure(t *testing.T) {
	mock := &testutil.MockS3Client{}
	completeErr := errors.New("complete failed")
	mock.CompleteMultipartUploadFunc = func(ctx context.Context, params *s3.CompleteMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
		return nil, completeErr
	}

	client := NewWithClient(mock)
	w, err := client.NewWriter(context.Background(), "test-bucket", "test-key",
		WithMultipartThreshold(4), WithPartSize(4))
	require.NoError(t, err)

	_, err = w.Write([]byte("12345678"))
	require.NoError(t, err)

	err = w.Close()
	require.Error(t, err)
	assert.ErrorIs(t, err, completeErr)
	assert.False(t, serrors.IsAborted(err))
	assert.Equal(t, int32(0), mock.AbortMultipartUploadCalls.Load())
	assert.Nil(t, w.Result())
}
