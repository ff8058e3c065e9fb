package processor

import (
	"errors"
	"runtime"

	"golang.org/x/sync/semaphore"
)

var errNoCapacity = errors.New("worker capacity is in use by other runs")

// capacity bounds the texture workers of all runs in the process.
var capacity = newPool(runtime.NumCPU())

type pool struct {
	size int
	sem  *semaphore.Weighted
}

func newPool(size int) *pool {
	return &pool{size: size, sem: semaphore.NewWeighted(int64(size))}
}

// acquire takes up to n workers without blocking. It returns the number
// taken, which is 0 when the capacity is exhausted.
func (p *pool) acquire(n int) (int, error) {
	n = min(max(n, 1), p.size)
	if !p.sem.TryAcquire(int64(n)) {
		return 0, errNoCapacity
	}
	return n, nil
}

func (p *pool) release(n int) {
	if n > 0 {
		p.sem.Release(int64(n))
	}
}
