// Package retry wraps fallible remote calls with exponential backoff.
package retry

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// DefaultMaxAttempts matches the attempt budget used for both login and
// paged queries.
const DefaultMaxAttempts = 5

// ExhaustedError reports that every attempt of an operation failed. It
// carries the last underlying failure.
type ExhaustedError struct {
	Op       string
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("max retries reached, %s failed after %d attempts: %v", e.Op, e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

// Config controls backoff behavior. The zero value is usable: 5 attempts,
// one-second backoff unit, uniform [0,1) jitter.
type Config struct {
	MaxAttempts int
	BaseDelay   time.Duration  // unit for the 2^attempt wait, default 1s
	Jitter      func() float64 // default rand.Float64
	Logger      *zap.Logger
}

func (c Config) withDefaults() Config {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = time.Second
	}
	if c.Jitter == nil {
		c.Jitter = rand.Float64
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}

// wait computes the backoff before the next attempt: 2^attempt + jitter
// backoff units, jitter drawn uniformly from [0,1).
func (c Config) wait(attempt int) time.Duration {
	return time.Duration((float64(int64(1)<<attempt) + c.Jitter()) * float64(c.BaseDelay))
}

// Do invokes fn, retrying on failure with a wait of 2^attempt + jitter
// backoff units between attempts. After MaxAttempts failures it returns an
// *ExhaustedError wrapping the last error. The wait suspends only the
// calling goroutine and is interrupted by context cancellation.
func Do[T any](ctx context.Context, cfg Config, op string, fn func() (T, error)) (T, error) {
	cfg = cfg.withDefaults()

	var zero T
	var lastErr error

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == cfg.MaxAttempts-1 {
			break
		}

		wait := cfg.wait(attempt)
		cfg.Logger.Warn("operation failed, retrying",
			zap.String("op", op),
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", cfg.MaxAttempts),
			zap.Duration("wait", wait),
			zap.Error(err))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, fmt.Errorf("%s cancelled during backoff: %w", op, ctx.Err())
		case <-timer.C:
		}
	}

	return zero, &ExhaustedError{Op: op, Attempts: cfg.MaxAttempts, Last: lastErr}
}
