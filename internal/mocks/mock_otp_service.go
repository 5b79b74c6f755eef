package mocks

import (
	"context"
	"time"

	"github.com/klap2026/klap/domain"
)

// MockOTPService implements domain.OTPService for testing
type MockOTPService struct {
	IssueFunc  func(ctx context.Context, phone string) (*domain.OTPIssue, error)
	VerifyFunc func(ctx context.Context, phone, code string) error
}

func NewMockOTPService() *MockOTPService {
	return &MockOTPService{}
}

func (m *MockOTPService) Issue(ctx context.Context, phone string) (*domain.OTPIssue, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(ctx, phone)
	}
	return &domain.OTPIssue{Phone: phone, MockCode: "123456", ExpiresAt: time.Now().Add(5 * time.Minute)}, nil
}

func (m *MockOTPService) Verify(ctx context.Context, phone, code string) error {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, phone, code)
	}
	return nil
}

var _ domain.OTPService = (*MockOTPService)(nil)
