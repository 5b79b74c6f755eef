package mocks

import (
	"context"
	"time"

	"github.com/klap2026/klap/domain"
)

// MockRateLimiter implements domain.RateLimiter for testing
type MockRateLimiter struct {
	CheckFunc func(ctx context.Context, key string, window time.Duration, max int) (domain.RateLimitResult, error)
	ClearFunc func(ctx context.Context, key string) error
	Cleared   []string
}

func NewMockRateLimiter() *MockRateLimiter {
	return &MockRateLimiter{}
}

func (m *MockRateLimiter) Check(ctx context.Context, key string, window time.Duration, max int) (domain.RateLimitResult, error) {
	if m.CheckFunc != nil {
		return m.CheckFunc(ctx, key, window, max)
	}
	return domain.RateLimitResult{
		Allowed:   true,
		Limit:     max,
		Remaining: max - 1,
		ResetAt:   time.Now().Add(window),
	}, nil
}

func (m *MockRateLimiter) Clear(ctx context.Context, key string) error {
	m.Cleared = append(m.Cleared, key)
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx, key)
	}
	return nil
}

var _ domain.RateLimiter = (*MockRateLimiter)(nil)
