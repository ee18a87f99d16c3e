package s3stream

import (
	"time"
)

// StorageClass represents the storage class applied to the uploaded object.
type StorageClass string

// Predefined storage classes
const (
	// StorageClassStandard is the default storage class
	StorageClassStandard StorageClass = "STANDARD"

	// StorageClassStandardIA provides infrequent access storage
	StorageClassStandardIA StorageClass = "STANDARD_IA"

	// StorageClassOneZoneIA provides one zone infrequent access storage
	StorageClassOneZoneIA StorageClass = "ONEZONE_IA"

	// StorageClassIntelligentTiering provides intelligent tiering storage
	StorageClassIntelligentTiering StorageClass = "INTELLIGENT_TIERING"

	// StorageClassGlacier provides Glacier archival storage
	StorageClassGlacier StorageClass = "GLACIER"
)

// ObjectACL represents the canned access control list for the uploaded object.
type ObjectACL string

// Predefined object ACLs
const (
	// ACLPrivate grants private access (default)
	ACLPrivate ObjectACL = "private"

	// ACLPublicRead grants public read access
	ACLPublicRead ObjectACL = "public-read"

	// ACLAuthenticatedRead grants authenticated users read access
	ACLAuthenticatedRead ObjectACL = "authenticated-read"

	// ACLBucketOwnerFullControl grants bucket owner full control
	ACLBucketOwnerFullControl ObjectACL = "bucket-owner-full-control"
)

// UploadResult describes a successfully stored object.
// It is available from Writer.Result after a successful Close.
type UploadResult struct {
	// Key is the object key that was written
	Key string

	// Size is the total number of bytes uploaded
	Size int64

	// ETag is the entity tag of the stored object
	ETag string

	// Parts is the number of parts uploaded; zero for a single-shot put
	Parts int

	// Duration is how long the stream was open, creation to close
	Duration time.Duration
}

// Executor schedules upload tasks on behalf of a writer. Submit must return
// once the task is handed off and must eventually run every submitted task.
// Implementations bound the upload concurrency; the writer imposes no
// backpressure of its own.
type Executor interface {
	Submit(task func())
}

// ProgressTracker receives transfer progress for a stream.
// Implementations must tolerate concurrent calls: parts upload in parallel
// and each in-flight part reports through the same tracker.
type ProgressTracker interface {
	// Update is called as bytes reach the wire, with the cumulative number
	// of bytes transferred and the number of bytes written to the stream
	Update(bytesTransferred, bytesWritten int64)

	// Complete is called when the object is durably stored
	Complete()

	// Error is called when the upload fails
	Error(err error)
}
