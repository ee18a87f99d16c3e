// Package pool provides buffer reuse for part uploads.
// Part-size buffers cycle between the writer and the upload tasks that
// retire them, reducing allocations on long streams.
package pool

import (
	"sync"
)

// BufferPool manages reusable part buffers of a single fixed capacity.
type BufferPool struct {
	size int
	pool sync.Pool
}

// New creates a pool of buffers with the given capacity.
func New(size int) *BufferPool {
	bp := &BufferPool{size: size}
	bp.pool.New = func() interface{} {
		buf := make([]byte, 0, size)
		return &buf
	}
	return bp
}

// Get returns an empty buffer with the pool's capacity.
// The caller owns the buffer until it is handed back with Put.
func (bp *BufferPool) Get() []byte {
	bufPtr := bp.pool.Get().(*[]byte)
	// Reset length to 0 but keep capacity
	return (*bufPtr)[:0]
}

// Put returns a buffer to the pool. Buffers whose capacity does not match
// the pool's size are dropped rather than pooled.
// The buffer must not be used after calling Put.
func (bp *BufferPool) Put(buf []byte) {
	if cap(buf) != bp.size {
		return
	}
	buf = buf[:0]
	bp.pool.Put(&buf)
}
