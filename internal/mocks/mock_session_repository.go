package mocks

import (
	"context"

	"github.com/klap2026/klap/domain"
)

// MockSessionRepository implements domain.SessionRepository for testing
type MockSessionRepository struct {
	CreateFunc        func(ctx context.Context, session *domain.Session) error
	DeleteByTokenFunc func(ctx context.Context, token string) error
	DeleteByUserFunc  func(ctx context.Context, userID string) error
}

func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{}
}

func (m *MockSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, session)
	}
	return nil
}

func (m *MockSessionRepository) DeleteByToken(ctx context.Context, token string) error {
	if m.DeleteByTokenFunc != nil {
		return m.DeleteByTokenFunc(ctx, token)
	}
	return nil
}

func (m *MockSessionRepository) DeleteByUser(ctx context.Context, userID string) error {
	if m.DeleteByUserFunc != nil {
		return m.DeleteByUserFunc(ctx, userID)
	}
	return nil
}

var _ domain.SessionRepository = (*MockSessionRepository)(nil)
