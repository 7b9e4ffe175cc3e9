package workpool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/atomic"
)

func TestPoolRunsEveryJob(t *testing.T) {
	p := New(3)
	var done atomic.Int64
	for i := 0; i < 50; i++ {
		p.Queue(func() { done.Inc() })
	}
	p.Wait()
	assert.Equal(t, int64(50), done.Load())
	assert.Equal(t, int64(0), p.Pending())
}

func TestPoolRespectsLimit(t *testing.T) {
	const limit = 2
	p := New(limit)
	var (
		mu      sync.Mutex
		running int
		peak    int
	)
	for i := 0; i < 20; i++ {
		p.Queue(func() {
			mu.Lock()
			running++
			if running > peak {
				peak = running
			}
			mu.Unlock()

			mu.Lock()
			running--
			mu.Unlock()
		})
	}
	p.Wait()
	assert.LessOrEqual(t, peak, limit)
}

func TestDefaultSize(t *testing.T) {
	assert.GreaterOrEqual(t, DefaultSize(), 2)
	p := New(0)
	p.Queue(func() {})
	p.Wait()
}
