package renderer

import (
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// WorkerPool runs the same work loop on a fixed number of goroutines. The
// calling goroutine is one of them, so a pool of one spawns nothing.
type WorkerPool struct {
	numWorkers int
}

// NewWorkerPool creates a worker pool with the specified number of workers
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{numWorkers: numWorkers}
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// Run starts numWorkers-1 goroutines, runs work on the caller as worker 0,
// and waits for all of them. The first error wins; a panicking worker is
// reported as an error instead of crashing the process.
func (wp *WorkerPool) Run(work func(worker int) error) error {
	var g errgroup.Group
	for i := 1; i < wp.numWorkers; i++ {
		i := i
		g.Go(func() error {
			return runProtected(i, work)
		})
	}

	callerErr := runProtected(0, work)
	if err := g.Wait(); err != nil {
		return err
	}
	return callerErr
}

func runProtected(worker int, work func(worker int) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("worker %d panicked: %v", worker, r)
		}
	}()
	return work(worker)
}
