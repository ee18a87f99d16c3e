package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Error(t *testing.T) {
	base := errors.New("access denied")
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "with bucket and key",
			err:  NewObjectError("uploadPart", "my-bucket", "my-key", base),
			want: "s3stream.uploadPart my-bucket/my-key: access denied",
		},
		{
			name: "with bucket only",
			err:  NewError("putObject", base).WithBucket("my-bucket"),
			want: "s3stream.putObject bucket my-bucket: access denied",
		},
		{
			name: "with key only",
			err:  NewError("putObject", base).WithKey("my-key"),
			want: "s3stream.putObject object my-key: access denied",
		},
		{
			name: "operation only",
			err:  NewError("client initialization", base),
			want: "s3stream.client initialization: access denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	base := errors.New("underlying")
	err := NewObjectError("uploadPart", "b", "k", base)
	assert.ErrorIs(t, err, base)
	require.Equal(t, base, errors.Unwrap(err))
}

func TestError_WithMessage(t *testing.T) {
	err := NewError("validateObjectKey", ErrInvalidObjectKey).
		WithMessage("object key cannot be empty")
	assert.ErrorIs(t, err, ErrInvalidObjectKey)
	assert.Contains(t, err.Error(), "object key cannot be empty")
}

func TestHelpers(t *testing.T) {
	assert.True(t, IsClosed(NewObjectError("write", "b", "k", ErrClosed)))
	assert.False(t, IsClosed(errors.New("other")))

	assert.True(t, IsInvalidInput(NewError("op", ErrInvalidInput)))
	assert.True(t, IsInvalidInput(NewError("op", ErrInvalidBucketName)))
	assert.True(t, IsInvalidInput(NewError("op", ErrInvalidObjectKey)))
	assert.False(t, IsInvalidInput(NewError("op", errors.New("other"))))

	assert.True(t, IsAborted(NewObjectError("multipart upload", "b", "k", ErrUploadAborted)))
	assert.False(t, IsAborted(ErrClosed))
}
