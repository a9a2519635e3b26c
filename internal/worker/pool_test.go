package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestPoolProcessesAllJobs(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := NewPool(PoolConfig{Workers: 4, QueueSize: 64})

	var counter Counter
	for i := 0; i < 50; i++ {
		err := p.Submit(func(ctx context.Context) error {
			counter.Inc()
			return nil
		})
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}
	p.Stop()

	if counter.Value() != 50 {
		t.Errorf("counter = %d, want 50", counter.Value())
	}
	if p.Processed() != 50 {
		t.Errorf("Processed = %d, want 50", p.Processed())
	}
}

func TestPoolCountsFailures(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := NewPool(PoolConfig{Workers: 2, QueueSize: 8})
	boom := errors.New("boom")

	_ = p.Submit(func(ctx context.Context) error { return boom })
	_ = p.Submit(func(ctx context.Context) error { panic("bad job") })
	_ = p.Submit(func(ctx context.Context) error { return nil })
	p.Stop()

	if p.Failed() != 2 {
		t.Errorf("Failed = %d, want 2", p.Failed())
	}
	if p.Processed() != 1 {
		t.Errorf("Processed = %d, want 1", p.Processed())
	}
}

func TestPoolQueueFull(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := NewPool(PoolConfig{Workers: 1, QueueSize: 1})
	defer p.Stop()

	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	// Occupy the single worker.
	_ = p.Submit(func(ctx context.Context) error {
		defer wg.Done()
		<-release
		return nil
	})

	// Fill the queue, then expect rejection.
	deadline := time.After(time.Second)
	for {
		err := p.Submit(func(ctx context.Context) error { return nil })
		if errors.Is(err, ErrQueueFull) {
			break
		}
		select {
		case <-deadline:
			t.Fatal("never saw ErrQueueFull")
		default:
		}
	}

	close(release)
	wg.Wait()
}

func TestPoolSubmitAfterStop(t *testing.T) {
	p := NewPool(PoolConfig{Workers: 1, QueueSize: 1})
	p.Stop()
	p.Stop() // idempotent

	if err := p.Submit(func(ctx context.Context) error { return nil }); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Submit after Stop = %v, want ErrPoolClosed", err)
	}
}

func TestParallelPropagatesFirstError(t *testing.T) {
	boom := errors.New("boom")
	var sawCancel bool

	err := Parallel(context.Background(),
		func(ctx context.Context) error { return boom },
		func(ctx context.Context) error {
			select {
			case <-ctx.Done():
				sawCancel = true
				return nil
			case <-time.After(5 * time.Second):
				return errors.New("sibling was not cancelled")
			}
		},
	)
	if !errors.Is(err, boom) {
		t.Fatalf("Parallel = %v, want boom", err)
	}
	if !sawCancel {
		t.Error("sibling did not observe cancellation")
	}
}

func TestWithTimeout(t *testing.T) {
	err := WithTimeout(context.Background(), 50*time.Millisecond, func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
			return nil
		}
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("WithTimeout = %v, want deadline exceeded", err)
	}

	if err := WithTimeout(context.Background(), time.Second, func(ctx context.Context) error {
		return nil
	}); err != nil {
		t.Fatalf("fast fn should succeed, got %v", err)
	}
}

func TestCounterConcurrent(t *testing.T) {
	var c Counter
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				c.Inc()
			}
		}()
	}
	wg.Wait()
	if c.Value() != 8000 {
		t.Errorf("Value = %d, want 8000", c.Value())
	}
}
