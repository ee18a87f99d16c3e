package s3stream

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	serrors "github.com/blobforge/s3stream/errors"
	"github.com/blobforge/s3stream/internal/s3api"
)

// partFuture is the handle for one asynchronously uploading part.
// done is closed when the task settles; exactly one of etag/err is set.
type partFuture struct {
	num  int32
	done chan struct{}
	etag string
	err  error
}

// multipartUpload owns one server-side multipart session: the upload id,
// part-number assignment, the ordered list of part handles, and the
// completion/abort protocol. A writer creates at most one.
type multipartUpload struct {
	ctx     context.Context
	cancel  context.CancelFunc
	api     s3api.S3API
	exec    Executor
	logger  *zap.Logger
	sink    *progressSink
	recycle func([]byte)

	bucket   string
	key      string
	uploadID string

	mu      sync.Mutex
	futures []*partFuture
}

func newMultipartUpload(w *Writer, uploadID string) *multipartUpload {
	ctx, cancel := context.WithCancel(w.ctx)
	m := &multipartUpload{
		ctx:      ctx,
		cancel:   cancel,
		api:      w.api,
		exec:     w.exec,
		logger:   w.logger,
		sink:     w.sink,
		recycle:  w.bufPool.Put,
		bucket:   w.bucket,
		key:      w.key,
		uploadID: uploadID,
	}
	m.logger.Debug("initiated multipart upload",
		zap.String("bucket", m.bucket), zap.String("key", m.key),
		zap.String("uploadId", uploadID))
	return m
}

// uploadPartAsync assigns the next part number and schedules the upload of
// buf as that part. Numbering happens under the session lock strictly before
// the task is handed to the executor, so part numbers follow byte order even
// though tasks complete in any order. buf is owned by the task from here on
// and must not be touched again; when reuse is set the task returns it to
// the writer's buffer pool once the part settles.
func (m *multipartUpload) uploadPartAsync(buf []byte, reuse bool) {
	m.mu.Lock()
	num := int32(len(m.futures) + 1)
	f := &partFuture{num: num, done: make(chan struct{})}
	m.futures = append(m.futures, f)
	m.mu.Unlock()

	m.exec.Submit(func() {
		defer close(f.done)
		if reuse {
			defer m.recycle(buf)
		}
		if err := m.ctx.Err(); err != nil {
			f.err = serrors.NewObjectError("uploadPart", m.bucket, m.key, err)
			return
		}
		m.logger.Debug("uploading part",
			zap.Int32("partNumber", num), zap.String("uploadId", m.uploadID),
			zap.Int("size", len(buf)))
		out, err := m.api.UploadPart(m.ctx, &s3.UploadPartInput{
			Bucket:        aws.String(m.bucket),
			Key:           aws.String(m.key),
			UploadId:      aws.String(m.uploadID),
			PartNumber:    aws.Int32(num),
			Body:          m.sink.reader(bytes.NewReader(buf)),
			ContentLength: aws.Int64(int64(len(buf))),
		})
		if err != nil {
			f.err = serrors.NewObjectError("uploadPart", m.bucket, m.key, err)
			return
		}
		f.etag = aws.ToString(out.ETag)
	})
}

// waitForAll blocks until every submitted part has settled and returns the
// completion tokens in part-number order. On the first observed failure it
// cancels the remaining in-flight parts best-effort, aborts the session to
// reclaim server-side state, and reports the failure. Cancellation of the
// stream context while waiting is propagated after the same cleanup.
func (m *multipartUpload) waitForAll() ([]types.CompletedPart, error) {
	m.mu.Lock()
	futures := make([]*partFuture, len(m.futures))
	copy(futures, m.futures)
	m.mu.Unlock()

	parts := make([]types.CompletedPart, 0, len(futures))
	var firstErr error
	for _, f := range futures {
		select {
		case <-f.done:
		case <-m.ctx.Done():
			// in-flight parts fail fast once the context is cancelled
			m.cancel()
			<-f.done
		}
		if f.err != nil {
			if firstErr == nil {
				firstErr = f.err
				m.cancel()
			}
			continue
		}
		parts = append(parts, types.CompletedPart{
			ETag:       aws.String(f.etag),
			PartNumber: aws.Int32(f.num),
		})
	}

	if firstErr == nil {
		return parts, nil
	}
	m.abort()
	return nil, serrors.NewObjectError("multipart upload", m.bucket, m.key,
		fmt.Errorf("%w: %w", serrors.ErrUploadAborted, firstErr))
}

// complete finalizes the session from the ordered completion tokens and
// returns the stored object's ETag.
func (m *multipartUpload) complete(parts []types.CompletedPart) (string, error) {
	m.logger.Debug("completing multipart upload",
		zap.String("key", m.key), zap.String("uploadId", m.uploadID),
		zap.Int("parts", len(parts)))
	out, err := m.api.CompleteMultipartUpload(m.ctx, &s3.CompleteMultipartUploadInput{
		Bucket:   aws.String(m.bucket),
		Key:      aws.String(m.key),
		UploadId: aws.String(m.uploadID),
		MultipartUpload: &types.CompletedMultipartUpload{
			Parts: parts,
		},
	})
	if err != nil {
		return "", serrors.NewObjectError("complete multipart upload", m.bucket, m.key, err)
	}
	return aws.ToString(out.ETag), nil
}

// abort discards the server-side session. It is best-effort: failure is
// logged and never masks the error that triggered it. The session context
// is typically cancelled by the time abort runs, so the call is detached
// from it.
func (m *multipartUpload) abort() {
	m.logger.Warn("aborting multipart upload", zap.String("uploadId", m.uploadID))
	ctx := context.WithoutCancel(m.ctx)
	_, err := m.api.AbortMultipartUpload(ctx, &s3.AbortMultipartUploadInput{
		Bucket:   aws.String(m.bucket),
		Key:      aws.String(m.key),
		UploadId: aws.String(m.uploadID),
	})
	if err != nil {
		m.logger.Warn("unable to abort multipart upload, uploaded parts may need purging",
			zap.String("uploadId", m.uploadID), zap.Error(err))
	}
}
