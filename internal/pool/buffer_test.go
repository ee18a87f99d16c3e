package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferPool_Get(t *testing.T) {
	bp := New(1024)
	buf := bp.Get()
	assert.Len(t, buf, 0)
	assert.Equal(t, 1024, cap(buf))
}

func TestBufferPool_PutAndReuse(t *testing.T) {
	bp := New(64)
	buf := bp.Get()
	buf = append(buf, []byte("some part data")...)
	bp.Put(buf)

	// recycled buffers must come back empty
	next := bp.Get()
	assert.Len(t, next, 0)
	assert.Equal(t, 64, cap(next))
}

func TestBufferPool_PutWrongCapacity(t *testing.T) {
	bp := New(64)
	// buffers that grew past the pool size are dropped, not pooled
	bp.Put(make([]byte, 0, 128))
	buf := bp.Get()
	assert.Equal(t, 64, cap(buf))
}
