// Package retry provides a bounded-retry executor for flaky local
// operations such as directory removal while a file watcher still holds
// handles inside the tree.
package retry

import (
	"context"
	stderrors "errors"
	"io/fs"
	"syscall"
	"time"

	"demoforge/internal/errors"
	"demoforge/internal/logger"
)

// Options configures one retry loop.
type Options struct {
	// MaxAttempts is the total attempt budget, including the first try.
	MaxAttempts int
	// Delay is the fixed wait between attempts.
	Delay time.Duration
	// DelayFunc, when set, computes the wait from the 1-based attempt
	// number and takes precedence over Delay. The fixed delay remains the
	// default behavior; backoff is one instantiation of this hook.
	DelayFunc func(attempt int) time.Duration
	// IsRetryable decides whether an error is worth another attempt. A
	// nil classifier treats every error as retryable.
	IsRetryable func(error) bool
}

// Do runs operation until it succeeds, a non-retryable error occurs, or
// the attempt budget is exhausted. Non-retryable errors are returned
// unchanged after exactly one failing attempt; exhaustion wraps the last
// error with the attempt count.
func Do[T any](ctx context.Context, operation func() (T, error), opts Options) (T, error) {
	var zero T

	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		result, err := operation()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if opts.IsRetryable != nil && !opts.IsRetryable(err) {
			return zero, err
		}
		if attempt == opts.MaxAttempts {
			break
		}

		logger.WithFields(logger.Fields{
			"attempt":      attempt,
			"max_attempts": opts.MaxAttempts,
		}).WithError(err).Debug("Operation failed, retrying")

		delay := opts.Delay
		if opts.DelayFunc != nil {
			delay = opts.DelayFunc(attempt)
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}
	}

	return zero, errors.RetryExhausted("retry", opts.MaxAttempts, lastErr)
}

// IsTransientFSError classifies filesystem errors for directory removal.
// Non-empty and busy conditions come and go as other processes release
// handles; permission problems and unknown failures do not heal on their
// own and fail on the first attempt.
func IsTransientFSError(err error) bool {
	if err == nil {
		return false
	}

	var errno syscall.Errno
	if stderrors.As(err, &errno) {
		switch errno {
		case syscall.ENOTEMPTY, syscall.EBUSY, syscall.EAGAIN:
			return true
		default:
			return false
		}
	}

	if stderrors.Is(err, fs.ErrPermission) {
		return false
	}

	return false
}
