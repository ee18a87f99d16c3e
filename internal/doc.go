// Package internal contains private implementation details for the s3stream
// module. These packages are not intended for external use and may change
// without notice.
//
// The internal packages are organized as follows:
//   - s3api: The subset of the S3 client surface the uploader depends on
//   - task: Bounded-concurrency task execution
//   - pool: Part buffer recycling
//   - validation: Input validation logic
//   - testutil: Mocks for tests
package internal
