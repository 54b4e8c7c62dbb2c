package usecase

import (
	"context"
	"sync"

	"github.com/user/schema-scanner/pkg/metrics"
)

// scanTask is a queued site scan. run owns the record until it returns.
type scanTask struct {
	run func(ctx context.Context)
}

// ScanPool runs site scans in the background on a fixed number of workers.
type ScanPool struct {
	workers   int
	taskQueue chan scanTask
	metrics   *metrics.Metrics
	wg        sync.WaitGroup

	mu      sync.Mutex
	stopped bool
}

// NewScanPool creates a pool with the given worker count and queue capacity.
func NewScanPool(workers, queueSize int, m *metrics.Metrics) *ScanPool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	return &ScanPool{
		workers:   workers,
		taskQueue: make(chan scanTask, queueSize),
		metrics:   m,
	}
}

// Start launches the workers.
func (p *ScanPool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// Stop stops accepting scans and waits for queued and in-flight scans to finish.
func (p *ScanPool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.taskQueue)
	p.mu.Unlock()
	p.wg.Wait()
}

// submit enqueues a task without blocking.
func (p *ScanPool) submit(task scanTask) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return ErrScannerStopped
	}
	select {
	case p.taskQueue <- task:
		p.metrics.ScansInQueue.Inc()
		return nil
	default:
		return ErrScanQueueFull
	}
}

func (p *ScanPool) worker() {
	defer p.wg.Done()
	for task := range p.taskQueue {
		p.metrics.ScansInQueue.Dec()
		// Scans are only bounded by their budgets and fetch timeouts.
		task.run(context.Background())
	}
}
