package task

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPool_RunsAllTasks(t *testing.T) {
	p := NewPool(3)
	var done atomic.Int32
	for i := 0; i < 50; i++ {
		p.Submit(func() {
			done.Add(1)
		})
	}
	p.Wait()
	assert.Equal(t, int32(50), done.Load())
}

func TestPool_BoundsConcurrency(t *testing.T) {
	const size = 4
	p := NewPool(size)

	var running, peak atomic.Int32
	var mu sync.Mutex
	for i := 0; i < 40; i++ {
		p.Submit(func() {
			n := running.Add(1)
			mu.Lock()
			if n > peak.Load() {
				peak.Store(n)
			}
			mu.Unlock()
			running.Add(-1)
		})
	}
	p.Wait()
	assert.LessOrEqual(t, peak.Load(), int32(size))
}

func TestPool_SubmitDoesNotBlockOnTask(t *testing.T) {
	p := NewPool(1)
	release := make(chan struct{})
	p.Submit(func() { <-release })

	// a second submit must return even though the pool is saturated
	ran := make(chan struct{})
	p.Submit(func() { close(ran) })

	close(release)
	p.Wait()
	<-ran
}

func TestNewPool_InvalidSize(t *testing.T) {
	p := NewPool(0)
	assert.Equal(t, DefaultSize, cap(p.sem))
	p = NewPool(-3)
	assert.Equal(t, DefaultSize, cap(p.sem))
}
