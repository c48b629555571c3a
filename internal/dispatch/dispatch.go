// Package dispatch runs side effects after their triggering transaction commits. Each task is
// retried with exponential backoff independently of the others.
package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"storefront-backend/internal/config"

	"github.com/cenkalti/backoff/v4"
)

type Task func(ctx context.Context) error

type Dispatcher interface {
	// Dispatch schedules task in the background. attrs are added to every log line about it.
	Dispatch(name string, task Task, attrs ...any)
	// Wait blocks until every dispatched task has finished.
	Wait()
	// Close stops accepting tasks and waits for running ones until ctx is done, after which
	// their contexts are cancelled.
	Close(ctx context.Context) error
}

type dispatcherImpl struct {
	cfg    config.Retry
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(cfg config.Retry, logger *slog.Logger) Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &dispatcherImpl{
		cfg:    cfg,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

func (d *dispatcherImpl) Dispatch(name string, task Task, attrs ...any) {
	logger := d.logger.With("task", name).With(attrs...)

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		logger.Warn("dispatcher closed, task dropped")
		return
	}
	d.wg.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.wg.Done()
		d.run(logger, task)
	}()
}

func (d *dispatcherImpl) run(logger *slog.Logger, task Task) {
	attempt := 0
	op := func() error {
		attempt++
		ctx, cancel := context.WithTimeout(d.ctx, d.cfg.TaskTimeout)
		defer cancel()
		return task(ctx)
	}
	notify := func(err error, next time.Duration) {
		logger.Warn("task failed, retrying", "attempt", attempt, "retry_in", next, "error", err)
	}

	err := backoff.RetryNotify(op, d.policy(), notify)
	if err != nil {
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			err = permanent.Err
		}
		logger.Error("task failed", "attempts", attempt, "error", err)
		return
	}
	logger.Debug("task done", "attempts", attempt)
}

func (d *dispatcherImpl) policy() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = d.cfg.InitialInterval
	b.MaxInterval = d.cfg.MaxInterval
	b.Multiplier = d.cfg.Multiplier
	// attempts are bounded by count, not elapsed time
	b.MaxElapsedTime = 0

	retries := uint64(0)
	if d.cfg.MaxAttempts > 1 {
		retries = d.cfg.MaxAttempts - 1
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, retries), d.ctx)
}

func (d *dispatcherImpl) Wait() {
	d.wg.Wait()
}

func (d *dispatcherImpl) Close(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		<-done
		return ctx.Err()
	}
}
