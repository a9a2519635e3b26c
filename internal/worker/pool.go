package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nvoronin/golab/internal/log"
	"github.com/nvoronin/golab/internal/metrics"
)

var (
	// ErrQueueFull is returned by Submit when the job queue is saturated.
	ErrQueueFull = errors.New("worker: queue full")
	// ErrPoolClosed is returned by Submit after Stop has been called.
	ErrPoolClosed = errors.New("worker: pool closed")
)

// Job is a unit of work executed by the pool. The context passed in is the
// pool context and is cancelled when the pool shuts down hard.
type Job func(ctx context.Context) error

// PoolConfig defines configuration for the Pool.
type PoolConfig struct {
	Workers   int
	QueueSize int
}

// Pool runs jobs on a fixed set of workers over a bounded queue.
type Pool struct {
	jobs    chan Job
	workers int

	ctx    context.Context
	cancel context.CancelFunc

	wg       sync.WaitGroup
	stopOnce sync.Once

	mu     sync.Mutex
	closed bool

	processed Counter
	failed    Counter
}

// NewPool starts a pool with the given configuration. Zero or negative
// values fall back to one worker and an unbuffered queue of one slot.
func NewPool(cfg PoolConfig) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		jobs:    make(chan Job, cfg.QueueSize),
		workers: cfg.Workers,
		ctx:     ctx,
		cancel:  cancel,
	}

	logger := log.WithComponent("worker-pool")
	for i := 0; i < cfg.Workers; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			for job := range p.jobs {
				p.run(id, job)
			}
			logger.Debug().Int(log.FieldWorker, id).Msg("worker drained")
		}(i)
	}
	return p
}

// run executes one job, isolating panics so a bad job cannot kill a worker.
func (p *Pool) run(id int, job Job) {
	logger := log.WithComponent("worker-pool")
	defer func() {
		if rec := recover(); rec != nil {
			p.failed.Inc()
			metrics.PoolJob("failed")
			logger.Error().
				Int(log.FieldWorker, id).
				Interface("panic_value", rec).
				Msg("job panicked")
		}
	}()

	if err := job(p.ctx); err != nil {
		p.failed.Inc()
		metrics.PoolJob("failed")
		logger.Warn().
			Int(log.FieldWorker, id).
			Err(err).
			Msg("job failed")
		return
	}
	p.processed.Inc()
	metrics.PoolJob("processed")
}

// Submit enqueues a job. It returns ErrQueueFull when the queue is
// saturated and ErrPoolClosed after Stop.
func (p *Pool) Submit(job Job) error {
	if job == nil {
		return fmt.Errorf("worker: nil job")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		metrics.PoolJob("rejected")
		return ErrPoolClosed
	}
	select {
	case p.jobs <- job:
		return nil
	default:
		metrics.PoolJob("rejected")
		return ErrQueueFull
	}
}

// Stop closes the queue, waits for queued and in-flight jobs to finish and
// then releases the pool context. Stop is idempotent.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.jobs)
		p.mu.Unlock()

		p.wg.Wait()
		p.cancel()
	})
}

// Processed returns the number of successfully completed jobs.
func (p *Pool) Processed() int64 { return p.processed.Value() }

// Failed returns the number of jobs that returned an error or panicked.
func (p *Pool) Failed() int64 { return p.failed.Value() }
