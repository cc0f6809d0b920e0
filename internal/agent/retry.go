package agent

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"ctchen222/LLM-Arena/internal/game"
)

// RetryOptions tunes the retry/rate-limit wrapper around a provider.
type RetryOptions struct {
	// MaxRetries is the number of attempts after the first one.
	MaxRetries uint64
	// MinInterval is the minimum spacing between calls to the wrapped
	// provider, across retries and across turns.
	MinInterval time.Duration
	// AttemptTimeout bounds each individual attempt.
	AttemptTimeout time.Duration
	// InitialBackoff seeds the exponential backoff between attempts.
	InitialBackoff time.Duration
}

// DefaultRetryOptions matches the spacing the hosted APIs tolerate.
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{
		MaxRetries:     3,
		MinInterval:    3 * time.Second,
		AttemptTimeout: 30 * time.Second,
		InitialBackoff: 2 * time.Second,
	}
}

// RetryingProvider decorates a MoveProvider with exponential backoff,
// per-attempt timeouts and a minimum inter-call interval.
type RetryingProvider struct {
	inner MoveProvider
	opts  RetryOptions

	mu       sync.Mutex
	lastCall time.Time
}

// WithRetry wraps inner in a RetryingProvider.
func WithRetry(inner MoveProvider, opts RetryOptions) *RetryingProvider {
	return &RetryingProvider{inner: inner, opts: opts}
}

// Name returns the wrapped provider's display name.
func (p *RetryingProvider) Name() string {
	return p.inner.Name()
}

// ProposeMove delegates to the wrapped provider, retrying transient failures
// with exponential backoff until the retry budget or the context runs out.
func (p *RetryingProvider) ProposeMove(ctx context.Context, snap *Snapshot) (game.Move, error) {
	var move game.Move

	operation := func() error {
		if err := p.waitForInterval(ctx); err != nil {
			return backoff.Permanent(err)
		}

		attemptCtx := ctx
		if p.opts.AttemptTimeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, p.opts.AttemptTimeout)
			defer cancel()
		}

		m, err := p.inner.ProposeMove(attemptCtx, snap)
		p.markCall()
		if err != nil {
			slog.WarnContext(ctx, "provider attempt failed", "agent", p.inner.Name(), "error", err)
			return err
		}

		move = m
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	if p.opts.InitialBackoff > 0 {
		bo.InitialInterval = p.opts.InitialBackoff
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, p.opts.MaxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return game.Move{}, fmt.Errorf("%s produced no usable move: %w", p.inner.Name(), err)
	}

	return move, nil
}

// waitForInterval blocks until MinInterval has elapsed since the last call.
func (p *RetryingProvider) waitForInterval(ctx context.Context) error {
	p.mu.Lock()
	var wait time.Duration
	if !p.lastCall.IsZero() {
		wait = p.opts.MinInterval - time.Since(p.lastCall)
	}
	p.mu.Unlock()

	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (p *RetryingProvider) markCall() {
	p.mu.Lock()
	p.lastCall = time.Now()
	p.mu.Unlock()
}
