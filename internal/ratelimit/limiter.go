package ratelimit

import (
	"context"
	"time"

	"github.com/klap2026/klap/domain"
)

// Limiter is a fixed-window counter over a Store. The first request
// for a key opens a window; requests inside the window increment the
// count and are denied once it exceeds max; a request after the reset
// time discards the old window and opens a fresh one. A caller can
// therefore burst up to 2×max across a window seam, which is an
// accepted property of the fixed-window shape, not a bug.
type Limiter struct {
	store Store
	now   func() time.Time
}

// New creates a Limiter over store.
func New(store Store) *Limiter {
	return &Limiter{store: store, now: time.Now}
}

// Check admits or denies one request for key within a window of the
// given length admitting at most max requests. The store increment is
// atomic, so concurrent callers each consume a distinct slot and at
// most max of them are admitted per window.
func (l *Limiter) Check(ctx context.Context, key string, window time.Duration, max int) (domain.RateLimitResult, error) {
	rec, err := l.store.Incr(ctx, key, window)
	if err != nil {
		return domain.RateLimitResult{}, err
	}

	remaining := max - rec.Count
	if remaining < 0 {
		remaining = 0
	}
	return domain.RateLimitResult{
		Allowed:   rec.Count <= max,
		Limit:     max,
		Remaining: remaining,
		ResetAt:   rec.ResetAt,
	}, nil
}

// Clear removes a key immediately. Used after a successful OTP
// verification so a legitimate user is not penalized by their own
// earlier attempts.
func (l *Limiter) Clear(ctx context.Context, key string) error {
	return l.store.Delete(ctx, key)
}

// StartSweeper runs a background sweep every interval until ctx is
// cancelled.
func (l *Limiter) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_ = l.store.Sweep(ctx, l.now())
			}
		}
	}()
}
