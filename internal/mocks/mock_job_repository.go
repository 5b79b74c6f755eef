package mocks

import (
	"context"

	"github.com/klap2026/klap/domain"
)

// MockJobRepository implements domain.JobRepository for testing
type MockJobRepository struct {
	CreateFunc   func(ctx context.Context, job *domain.Job) error
	FindByIDFunc func(ctx context.Context, id string) (*domain.Job, error)
	ListFunc     func(ctx context.Context, filter domain.JobFilter) ([]*domain.Job, error)
	UpdateFunc   func(ctx context.Context, job *domain.Job) error
}

func NewMockJobRepository() *MockJobRepository {
	return &MockJobRepository{}
}

func (m *MockJobRepository) Create(ctx context.Context, job *domain.Job) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, job)
	}
	if job.ID == "" {
		job.ID = "job-1"
	}
	return nil
}

func (m *MockJobRepository) FindByID(ctx context.Context, id string) (*domain.Job, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrJobNotFound
}

func (m *MockJobRepository) List(ctx context.Context, filter domain.JobFilter) ([]*domain.Job, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, nil
}

func (m *MockJobRepository) Update(ctx context.Context, job *domain.Job) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, job)
	}
	return nil
}

var _ domain.JobRepository = (*MockJobRepository)(nil)
