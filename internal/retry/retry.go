// Package retry runs remote operations with exponential backoff.
package retry

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"bikerental/tracker/internal/logging"
)

const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = time.Second
)

// Policy controls how Do retries. The zero value uses the defaults.
type Policy struct {
	// Name identifies the operation in logs and metrics.
	Name        string
	MaxAttempts int
	BaseDelay   time.Duration

	Logger *zap.SugaredLogger
	// OnRetry fires once per failed non-final attempt.
	OnRetry func(name string, attempt int, delay time.Duration, err error)
	// Sleep waits for d or until ctx is done. Defaults to a timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultPolicy returns 3 attempts with a 1s base delay.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: DefaultMaxAttempts, BaseDelay: DefaultBaseDelay}
}

// Named returns a copy of p labelled with name.
func (p Policy) Named(name string) Policy {
	p.Name = name
	return p
}

// Delay is the wait after the given failed attempt (1-based): BaseDelay * 2^(attempt-1).
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return p.baseDelay() << (attempt - 1)
}

func (p Policy) attempts() int {
	if p.MaxAttempts < 1 {
		return DefaultMaxAttempts
	}
	return p.MaxAttempts
}

func (p Policy) baseDelay() time.Duration {
	if p.BaseDelay < 0 {
		return 0
	}
	if p.BaseDelay == 0 && p.MaxAttempts == 0 {
		return DefaultBaseDelay
	}
	return p.BaseDelay
}

// Do invokes op until it succeeds or MaxAttempts is reached, sleeping
// Delay(n) after the n-th failure. The last error is returned on exhaustion.
// A done context stops the loop with the context's error.
func Do[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	logger := p.Logger
	if logger == nil {
		logger = logging.Named("retry")
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	maxAttempts := p.attempts()
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return zero, errors.Join(err, lastErr)
			}
			return zero, err
		}

		val, err := op(ctx)
		if err == nil {
			return val, nil
		}
		lastErr = err

		if attempt == maxAttempts || isContextErr(err) {
			break
		}

		delay := p.Delay(attempt)
		logger.Warnw("Remote operation failed, retrying",
			"operation", p.Name,
			"attempt", attempt,
			"max_attempts", maxAttempts,
			"delay_ms", delay.Milliseconds(),
			"error", err.Error(),
		)
		if p.OnRetry != nil {
			p.OnRetry(p.Name, attempt, delay, err)
		}

		if err := sleep(ctx, delay); err != nil {
			return zero, errors.Join(err, lastErr)
		}
	}
	return zero, lastErr
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
