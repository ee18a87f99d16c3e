package s3stream

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serrors "github.com/blobforge/s3stream/errors"
	"github.com/blobforge/s3stream/internal/testutil"
)

func TestClient_NewWriter_Validation(t *testing.T) {
	tests := []struct {
		name    string
		bucket  string
		key     string
		wantErr error
	}{
		{
			name:    "empty bucket",
			bucket:  "",
			key:     "key",
			wantErr: serrors.ErrInvalidBucketName,
		},
		{
			name:    "bucket too short",
			bucket:  "ab",
			key:     "key",
			wantErr: serrors.ErrInvalidBucketName,
		},
		{
			name:    "bucket with uppercase",
			bucket:  "MyBucket",
			key:     "key",
			wantErr: serrors.ErrInvalidBucketName,
		},
		{
			name:    "empty key",
			bucket:  "valid-bucket",
			key:     "",
			wantErr: serrors.ErrInvalidObjectKey,
		},
		{
			name:    "path traversal key",
			bucket:  "valid-bucket",
			key:     "a/../b",
			wantErr: serrors.ErrInvalidObjectKey,
		},
		{
			name:   "valid inputs",
			bucket: "valid-bucket",
			key:    "some/object.bin",
		},
	}

	client := NewWithClient(&testutil.MockS3Client{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := client.NewWriter(context.Background(), tt.bucket, tt.key)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, serrors.IsInvalidInput(err))
				assert.Nil(t, w)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, w)
			require.NoError(t, w.Close())
		})
	}
}

// syncExecutor runs tasks inline, useful for asserting executor overrides.
type syncExecutor struct {
	submitted int
}

func (e *syncExecutor) Submit(task func()) {
	e.submitted++
	task()
}

func TestClient_NewWriter_ExecutorOverride(t *testing.T) {
	mock := &testutil.MockS3Client{}
	exec := &syncExecutor{}

	client := NewWithClient(mock)
	w, err := client.NewWriter(context.Background(), "test-bucket", "test-key",
		WithExecutor(exec))
	require.NoError(t, err)

	_, err = w.Write([]byte("data"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.Equal(t, 1, exec.submitted)
	assert.Equal(t, int32(1), mock.PutObjectCalls.Load())
}

func TestClient_Close(t *testing.T) {
	client := NewWithClient(&testutil.MockS3Client{})
	w, err := client.NewWriter(context.Background(), "test-bucket", "test-key")
	require.NoError(t, err)
	_, err = w.Write([]byte("data"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, client.Close())
}
