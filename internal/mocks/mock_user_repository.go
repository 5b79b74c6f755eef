package mocks

import (
	"context"

	"github.com/klap2026/klap/domain"
)

// MockUserRepository implements domain.UserRepository for testing
type MockUserRepository struct {
	CreateFunc      func(ctx context.Context, user *domain.User) error
	FindByPhoneFunc func(ctx context.Context, phone string) (*domain.User, error)
	FindByIDFunc    func(ctx context.Context, id string) (*domain.User, error)
	UpdateRoleFunc  func(ctx context.Context, id, role string) (*domain.User, error)
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	if user.ID == "" {
		user.ID = "user-1"
	}
	return nil
}

func (m *MockUserRepository) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	if m.FindByPhoneFunc != nil {
		return m.FindByPhoneFunc(ctx, phone)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, id, role string) (*domain.User, error) {
	if m.UpdateRoleFunc != nil {
		return m.UpdateRoleFunc(ctx, id, role)
	}
	return &domain.User{ID: id, Role: role}, nil
}

var _ domain.UserRepository = (*MockUserRepository)(nil)
