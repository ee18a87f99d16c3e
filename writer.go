package s3stream

import (
	"bytes"
	"context"
	"io"
	"mime"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	serrors "github.com/blobforge/s3stream/errors"
	"github.com/blobforge/s3stream/internal/pool"
	"github.com/blobforge/s3stream/internal/s3api"
)

// Writer uploads a stream of bytes to object storage from memory.
//
// Bytes accumulate in an in-memory buffer whose limit starts at the
// multipart threshold. If Close arrives before the limit is ever reached,
// the whole stream is stored with a single put. The first write that fills
// the buffer instead initiates a multipart upload; from then on the buffer
// limit is the part size and every filled buffer is submitted to the
// executor as a part as soon as it is full, rather than after the stream
// is closed.
//
// Writes are serialized by the writer's lock and never block on network
// results; only Close does. All upload failures, from either path, surface
// at Close. Writer is write-only: there is no read or seek access.
type Writer struct {
	api    s3api.S3API
	exec   Executor
	logger *zap.Logger
	sink   *progressSink

	bucket string
	key    string
	cfg    *writerConfig

	partSize  int
	threshold int
	bufPool   *pool.BufferPool
	start     time.Time

	mu       sync.Mutex
	buf      uploadBuffer
	mpu      *multipartUpload
	closed   bool
	closeErr error
	failure  error
	written  int64
	result   *UploadResult

	// ctx governs every upload issued for this stream
	ctx context.Context
}

var (
	_ io.WriteCloser = (*Writer)(nil)
	_ io.ByteWriter  = (*Writer)(nil)
)

func newWriter(
	ctx context.Context,
	api s3api.S3API,
	exec Executor,
	logger *zap.Logger,
	bucket, key string,
	cfg *writerConfig,
) *Writer {
	partSize, threshold, initialBufferSize := cfg.normalize(logger)

	w := &Writer{
		api:       api,
		exec:      exec,
		logger:    logger,
		sink:      newProgressSink(cfg.tracker, logger),
		bucket:    bucket,
		key:       key,
		cfg:       cfg,
		partSize:  partSize,
		threshold: threshold,
		bufPool:   pool.New(partSize),
		start:     time.Now(),
		buf: uploadBuffer{
			data:  make([]byte, 0, initialBufferSize),
			limit: threshold,
		},
		ctx: ctx,
	}
	logger.Debug("opened stream writer",
		zap.String("bucket", bucket), zap.String("key", key),
		zap.Int("partSize", partSize), zap.Int("multipartThreshold", threshold))
	return w
}

// WriteByte appends one byte to the buffer. If this fills the buffer to its
// limit, the buffered bytes are handed off for upload.
func (w *Writer) WriteByte(b byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.writable(); err != nil {
		return err
	}
	w.buf.data = append(w.buf.data, b)
	w.written++
	w.sink.wrote(1)
	if w.buf.len() == w.buf.limit {
		return w.flush()
	}
	return nil
}

// Write appends p to the buffer. Whenever the buffer fills to its limit the
// filled prefix is handed off for upload and the remainder keeps filling the
// fresh buffer, so a single large write may produce several parts. Every byte
// lands in exactly one part regardless of how callers chunk their writes.
func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.writable(); err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, nil
	}

	n := 0
	for {
		rest := len(p) - n
		if w.buf.len()+rest < w.buf.limit {
			w.buf.append(p[n:])
			w.written += int64(rest)
			w.sink.wrote(int64(rest))
			return len(p), nil
		}
		head := w.buf.room()
		w.buf.append(p[n : n+head])
		w.written += int64(head)
		w.sink.wrote(int64(head))
		n += head
		if err := w.flush(); err != nil {
			return n, err
		}
		if n == len(p) {
			return len(p), nil
		}
	}
}

// writable reports whether the stream still accepts bytes.
func (w *Writer) writable() error {
	if w.closed {
		return serrors.NewObjectError("write", w.bucket, w.key, serrors.ErrClosed)
	}
	if w.failure != nil {
		return w.failure
	}
	return nil
}

// flush hands the filled buffer to the multipart session. On the very first
// flush the session is created and the accumulated bytes are sliced into as
// many full-size parts as fit, in write order; the remainder seeds a fresh
// buffer whose limit is now the part size. Later flushes submit the whole
// buffer as the next part. Flush blocks only on the hand-off to the
// executor, never on the upload itself.
func (w *Writer) flush() error {
	if w.mpu == nil {
		mpu, err := w.initiate()
		if err != nil {
			w.failure = err
			return err
		}
		w.mpu = mpu

		all := w.buf.data
		w.logger.Debug("slicing initial buffer into parts", zap.Int("length", len(all)))
		pos := 0
		for len(all)-pos >= w.partSize {
			w.mpu.uploadPartAsync(all[pos:pos+w.partSize], false)
			pos += w.partSize
		}
		w.buf.limit = w.partSize
		w.buf.data = append(w.bufPool.Get(), all[pos:]...)
		return nil
	}

	w.mpu.uploadPartAsync(w.buf.data, true)
	w.buf.data = w.bufPool.Get()
	return nil
}

// initiate starts the multipart session. Failure poisons the stream: no
// session is left half-open and every later call returns the same error.
func (w *Writer) initiate() (*multipartUpload, error) {
	input := &s3.CreateMultipartUploadInput{
		Bucket:      aws.String(w.bucket),
		Key:         aws.String(w.key),
		ContentType: aws.String(w.resolveContentType(w.buf.data)),
	}
	if len(w.cfg.metadata) > 0 {
		input.Metadata = w.cfg.metadata
	}
	if w.cfg.storageClass != "" {
		input.StorageClass = types.StorageClass(w.cfg.storageClass)
	}
	if w.cfg.acl != "" {
		input.ACL = types.ObjectCannedACL(w.cfg.acl)
	}

	out, err := w.api.CreateMultipartUpload(w.ctx, input)
	if err != nil {
		return nil, serrors.NewObjectError("initiate multipart upload", w.bucket, w.key, err)
	}
	return newMultipartUpload(w, aws.ToString(out.UploadId)), nil
}

// Close finalizes the stream. It does not return until the object is durably
// stored or the failure is surfaced: the single-object path issues one put,
// the multipart path flushes the remaining bytes as a final short part,
// waits for every submitted part, and completes the session — or aborts it
// when any part failed. Close is idempotent; repeat calls return the
// original outcome without touching the network again.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return w.closeErr
	}
	w.closed = true
	w.closeErr = w.finalize()
	w.buf.data = nil
	if w.closeErr == nil {
		w.logger.Debug("upload complete",
			zap.String("bucket", w.bucket), zap.String("key", w.key),
			zap.Int64("size", w.written))
	}
	return w.closeErr
}

func (w *Writer) finalize() error {
	if w.failure != nil {
		return w.failure
	}

	if w.mpu == nil {
		etag, err := w.putObject()
		if err != nil {
			w.sink.fail(err)
			return err
		}
		w.result = &UploadResult{
			Key:      w.key,
			Size:     w.written,
			ETag:     etag,
			Duration: time.Since(w.start),
		}
		w.sink.complete()
		return nil
	}

	if w.buf.len() > 0 {
		// send the tail as a final, possibly shorter, part
		w.mpu.uploadPartAsync(w.buf.data, true)
		w.buf.data = nil
	}
	parts, err := w.mpu.waitForAll()
	if err != nil {
		w.sink.fail(err)
		return err
	}
	etag, err := w.mpu.complete(parts)
	if err != nil {
		w.sink.fail(err)
		return err
	}
	w.result = &UploadResult{
		Key:      w.key,
		Size:     w.written,
		ETag:     etag,
		Parts:    len(parts),
		Duration: time.Since(w.start),
	}
	w.sink.complete()
	return nil
}

// putObject stores the whole buffered stream with a single put. The call
// runs on the executor like any other upload; Close blocks on its handle.
func (w *Writer) putObject() (string, error) {
	data := w.buf.data
	w.logger.Debug("executing regular upload",
		zap.String("bucket", w.bucket), zap.String("key", w.key), zap.Int("size", len(data)))

	input := &s3.PutObjectInput{
		Bucket:        aws.String(w.bucket),
		Key:           aws.String(w.key),
		Body:          w.sink.reader(bytes.NewReader(data)),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(w.resolveContentType(data)),
	}
	if len(w.cfg.metadata) > 0 {
		input.Metadata = w.cfg.metadata
	}
	if w.cfg.storageClass != "" {
		input.StorageClass = types.StorageClass(w.cfg.storageClass)
	}
	if w.cfg.acl != "" {
		input.ACL = types.ObjectCannedACL(w.cfg.acl)
	}

	type putResult struct {
		etag string
		err  error
	}
	done := make(chan putResult, 1)
	w.exec.Submit(func() {
		out, err := w.api.PutObject(w.ctx, input)
		if err != nil {
			done <- putResult{err: serrors.NewObjectError("putObject", w.bucket, w.key, err)}
			return
		}
		done <- putResult{etag: aws.ToString(out.ETag)}
	})

	select {
	case r := <-done:
		return r.etag, r.err
	case <-w.ctx.Done():
		return "", serrors.NewObjectError("putObject", w.bucket, w.key, w.ctx.Err())
	}
}

// Result returns metadata about the stored object. It is nil until Close
// has returned successfully.
func (w *Writer) Result() *UploadResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.result
}

// resolveContentType prefers the configured content type, then sniffs the
// first buffered bytes, then falls back to the key's extension.
func (w *Writer) resolveContentType(head []byte) string {
	if w.cfg.contentType != "" {
		return w.cfg.contentType
	}
	if len(head) > 0 {
		if mt := mimetype.Detect(head); mt != nil {
			return mt.String()
		}
	}
	if ext := strings.ToLower(path.Ext(w.key)); ext != "" {
		if byExt := mime.TypeByExtension(ext); byExt != "" {
			return byExt
		}
	}
	return DefaultContentType
}
