package mocks

import (
	"context"
	"time"

	"github.com/klap2026/klap/domain"
)

// MockOtpRepository implements domain.OtpRepository for testing
type MockOtpRepository struct {
	CreateFunc        func(ctx context.Context, code *domain.OtpCode) error
	LatestOpenFunc    func(ctx context.Context, phone string, now time.Time) (*domain.OtpCode, error)
	RecordAttemptFunc func(ctx context.Context, id string, verified bool) error
	DeleteFunc        func(ctx context.Context, id string) error
}

func NewMockOtpRepository() *MockOtpRepository {
	return &MockOtpRepository{}
}

func (m *MockOtpRepository) Create(ctx context.Context, code *domain.OtpCode) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, code)
	}
	if code.ID == "" {
		code.ID = "otp-1"
	}
	return nil
}

func (m *MockOtpRepository) LatestOpen(ctx context.Context, phone string, now time.Time) (*domain.OtpCode, error) {
	if m.LatestOpenFunc != nil {
		return m.LatestOpenFunc(ctx, phone, now)
	}
	return nil, domain.ErrOTPNotFound
}

func (m *MockOtpRepository) RecordAttempt(ctx context.Context, id string, verified bool) error {
	if m.RecordAttemptFunc != nil {
		return m.RecordAttemptFunc(ctx, id, verified)
	}
	return nil
}

func (m *MockOtpRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

var _ domain.OtpRepository = (*MockOtpRepository)(nil)
