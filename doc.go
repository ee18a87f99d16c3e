// Package s3stream provides write-only streaming uploads to S3-compatible
// object storage from memory.
//
// A Writer buffers caller bytes and decides transparently between a single
// put and a multipart upload: streams that close before reaching the
// multipart threshold are stored with one PutObject call, while larger
// streams switch to a multipart session whose parts are uploaded
// concurrently as soon as each one fills, instead of after the whole
// object is buffered. Memory use stays bounded by the part size times the
// upload concurrency.
//
// Failed multipart uploads are aborted so no server-side state is leaked;
// the caller retries the whole stream from scratch. There are no retries,
// no read or seek access, and no state that survives a process restart.
//
// Example usage:
//
//	client, err := s3stream.New(ctx, s3stream.WithRegion("us-west-2"))
//	if err != nil {
//	    return err
//	}
//
//	w, err := client.NewWriter(ctx, "my-bucket", "path/object.bin",
//	    s3stream.WithPartSize(8*1024*1024),
//	)
//	if err != nil {
//	    return err
//	}
//	if _, err := io.Copy(w, src); err != nil {
//	    w.Close()
//	    return err
//	}
//	if err := w.Close(); err != nil {
//	    return err
//	}
package s3stream
