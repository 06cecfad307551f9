package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// ErrPoolStopped is returned when tasks are submitted to a stopped pool
var ErrPoolStopped = errors.New("worker pool is stopped")

// PoolMetrics provides metrics about the worker pool's performance
type PoolMetrics struct {
	TotalTasks         int64
	CompletedTasks     int64
	FailedTasks        int64
	SkippedTasks       int64
	CurrentWorkers     int64
	PeakWorkers        int64
	AverageExecutionMs int64
	TotalExecutionMs   int64
}

// Task represents a unit of work to be executed
type Task func(ctx context.Context) error

// Pool manages a fixed number of workers executing tasks concurrently
type Pool struct {
	maxWorkers int
	jobs       chan func()
	wg         sync.WaitGroup

	// mu guards stopped against concurrent submission
	mu      sync.RWMutex
	stopped bool
	started bool

	running int64

	metricsMu sync.Mutex
	metrics   PoolMetrics
}

// NewPool creates a new worker pool with the specified number of workers.
// Values below one are raised to one.
func NewPool(maxWorkers int) *Pool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &Pool{
		maxWorkers: maxWorkers,
		jobs:       make(chan func()),
	}
}

// MaxWorkers returns the pool size
func (p *Pool) MaxWorkers() int {
	return p.maxWorkers
}

// Start starts the worker goroutines. Calling it twice is a no-op.
func (p *Pool) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.stopped {
		return
	}
	p.started = true
	for i := 0; i < p.maxWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// Stop waits for running tasks and shuts the workers down
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.jobs)
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		job()
	}
}

// ExecuteTasks runs tasks on the pool and waits for them. Tasks that have not
// started when ctx is cancelled are skipped, in which case ctx.Err() is
// returned. Task errors are counted in the metrics but not returned.
func (p *Pool) ExecuteTasks(ctx context.Context, tasks []Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped || !p.started {
		return ErrPoolStopped
	}

	p.metricsMu.Lock()
	p.metrics.TotalTasks += int64(len(tasks))
	p.metricsMu.Unlock()

	var wg sync.WaitGroup
	for i, task := range tasks {
		t := task
		wg.Add(1)
		job := func() {
			defer wg.Done()
			p.run(ctx, t)
		}

		select {
		case p.jobs <- job:
		case <-ctx.Done():
			wg.Done()
			p.skip(int64(len(tasks) - i))
			wg.Wait()
			return ctx.Err()
		}
	}
	wg.Wait()

	return ctx.Err()
}

func (p *Pool) run(ctx context.Context, task Task) {
	if ctx.Err() != nil {
		p.skip(1)
		return
	}

	current := atomic.AddInt64(&p.running, 1)
	p.metricsMu.Lock()
	if current > p.metrics.PeakWorkers {
		p.metrics.PeakWorkers = current
	}
	p.metricsMu.Unlock()

	start := time.Now()
	err := task(ctx)
	executionMs := time.Since(start).Milliseconds()
	atomic.AddInt64(&p.running, -1)

	p.metricsMu.Lock()
	defer p.metricsMu.Unlock()
	p.metrics.TotalExecutionMs += executionMs
	if err != nil {
		p.metrics.FailedTasks++
	} else {
		p.metrics.CompletedTasks++
	}
}

func (p *Pool) skip(n int64) {
	p.metricsMu.Lock()
	p.metrics.SkippedTasks += n
	p.metricsMu.Unlock()
}

// GetMetrics returns the current metrics for the pool
func (p *Pool) GetMetrics() PoolMetrics {
	p.metricsMu.Lock()
	defer p.metricsMu.Unlock()

	m := p.metrics
	m.CurrentWorkers = atomic.LoadInt64(&p.running)
	if done := m.CompletedTasks + m.FailedTasks; done > 0 {
		m.AverageExecutionMs = m.TotalExecutionMs / done
	}
	return m
}
