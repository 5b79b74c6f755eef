package mocks

import (
	"context"
	"time"

	"github.com/klap2026/klap/domain"
)

// MockAuthService implements domain.AuthService for testing
type MockAuthService struct {
	VerifyOTPFunc  func(ctx context.Context, phone, code string) (*domain.AuthResult, error)
	UpdateRoleFunc func(ctx context.Context, userID, role string) (*domain.AuthResult, error)
	LogoutFunc     func(ctx context.Context, token string) error
	ProfileFunc    func(ctx context.Context, userID string) (*domain.UserProfile, error)
}

func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

func (m *MockAuthService) VerifyOTP(ctx context.Context, phone, code string) (*domain.AuthResult, error) {
	if m.VerifyOTPFunc != nil {
		return m.VerifyOTPFunc(ctx, phone, code)
	}
	return &domain.AuthResult{
		User:      &domain.User{ID: "user-1", Phone: phone},
		Token:     "token-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func (m *MockAuthService) UpdateRole(ctx context.Context, userID, role string) (*domain.AuthResult, error) {
	if m.UpdateRoleFunc != nil {
		return m.UpdateRoleFunc(ctx, userID, role)
	}
	return &domain.AuthResult{
		User:      &domain.User{ID: userID, Role: role},
		Token:     "token-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func (m *MockAuthService) Logout(ctx context.Context, token string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, token)
	}
	return nil
}

func (m *MockAuthService) Profile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	if m.ProfileFunc != nil {
		return m.ProfileFunc(ctx, userID)
	}
	return &domain.UserProfile{User: &domain.User{ID: userID}}, nil
}

var _ domain.AuthService = (*MockAuthService)(nil)
