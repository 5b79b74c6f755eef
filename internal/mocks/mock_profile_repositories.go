package mocks

import (
	"context"

	"github.com/klap2026/klap/domain"
)

// MockCustomerRepository implements domain.CustomerRepository for testing
type MockCustomerRepository struct {
	CreateFunc     func(ctx context.Context, customer *domain.Customer) error
	FindByUserFunc func(ctx context.Context, userID string) (*domain.Customer, error)
	FindByIDFunc   func(ctx context.Context, id string) (*domain.Customer, error)
	UpdateFunc     func(ctx context.Context, customer *domain.Customer) error
}

func NewMockCustomerRepository() *MockCustomerRepository {
	return &MockCustomerRepository{}
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, customer)
	}
	if customer.ID == "" {
		customer.ID = "customer-1"
	}
	return nil
}

func (m *MockCustomerRepository) FindByUser(ctx context.Context, userID string) (*domain.Customer, error) {
	if m.FindByUserFunc != nil {
		return m.FindByUserFunc(ctx, userID)
	}
	return nil, domain.ErrProfileNotFound
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id string) (*domain.Customer, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrProfileNotFound
}

func (m *MockCustomerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, customer)
	}
	return nil
}

var _ domain.CustomerRepository = (*MockCustomerRepository)(nil)

// MockTechnicianRepository implements domain.TechnicianRepository for testing
type MockTechnicianRepository struct {
	CreateFunc     func(ctx context.Context, technician *domain.Technician) error
	FindByUserFunc func(ctx context.Context, userID string) (*domain.Technician, error)
	FindByIDFunc   func(ctx context.Context, id string) (*domain.Technician, error)
	UpdateFunc     func(ctx context.Context, technician *domain.Technician) error
}

func NewMockTechnicianRepository() *MockTechnicianRepository {
	return &MockTechnicianRepository{}
}

func (m *MockTechnicianRepository) Create(ctx context.Context, technician *domain.Technician) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, technician)
	}
	if technician.ID == "" {
		technician.ID = "technician-1"
	}
	return nil
}

func (m *MockTechnicianRepository) FindByUser(ctx context.Context, userID string) (*domain.Technician, error) {
	if m.FindByUserFunc != nil {
		return m.FindByUserFunc(ctx, userID)
	}
	return nil, domain.ErrProfileNotFound
}

func (m *MockTechnicianRepository) FindByID(ctx context.Context, id string) (*domain.Technician, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrProfileNotFound
}

func (m *MockTechnicianRepository) Update(ctx context.Context, technician *domain.Technician) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, technician)
	}
	return nil
}

var _ domain.TechnicianRepository = (*MockTechnicianRepository)(nil)
