package mocks

import (
	"time"

	"github.com/klap2026/klap/domain"
)

// MockTokenService implements domain.TokenService for testing
type MockTokenService struct {
	SignFunc   func(claims domain.TokenClaims) (string, time.Time, error)
	VerifyFunc func(token string) (*domain.TokenClaims, error)
}

func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

func (m *MockTokenService) Sign(claims domain.TokenClaims) (string, time.Time, error) {
	if m.SignFunc != nil {
		return m.SignFunc(claims)
	}
	return "token-" + claims.UserID, time.Now().Add(time.Hour), nil
}

func (m *MockTokenService) Verify(token string) (*domain.TokenClaims, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(token)
	}
	return nil, domain.ErrTokenInvalid
}

var _ domain.TokenService = (*MockTokenService)(nil)
