package worker

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Parallel runs all fns concurrently and waits for them. The first error
// cancels the shared context and is returned.
func Parallel(ctx context.Context, fns ...func(ctx context.Context) error) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, fn := range fns {
		g.Go(func() error { return fn(ctx) })
	}
	return g.Wait()
}

// WithTimeout runs fn under a derived deadline. When the deadline fires
// first, the context error is returned instead of fn's result.
func WithTimeout(ctx context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- fn(ctx) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
