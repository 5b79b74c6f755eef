package services

import (
	"context"

	"github.com/klap2026/klap/domain"
)

// ProfileService owns caller-scoped customer and technician profile
// CRUD. Every operation is keyed by the calling user's id, which the
// gateway resolved from the token; a caller can only ever touch their
// own profile through this service.
type ProfileService struct {
	customerRepo   domain.CustomerRepository
	technicianRepo domain.TechnicianRepository
}

// NewProfileService creates a new profile service
func NewProfileService(customerRepo domain.CustomerRepository, technicianRepo domain.TechnicianRepository) *ProfileService {
	return &ProfileService{
		customerRepo:   customerRepo,
		technicianRepo: technicianRepo,
	}
}

// CustomerInput carries customer profile fields. Pointer fields
// distinguish absent from empty on update.
type CustomerInput struct {
	Name    *string
	Phone   *string
	Address *string
	Lat     *float64
	Lng     *float64
}

// TechnicianInput carries technician profile fields.
type TechnicianInput struct {
	Name            *string
	Phone           *string
	Specializations []string
	WorkingHours    *string
}

// CreateCustomer creates the caller's customer profile.
func (s *ProfileService) CreateCustomer(ctx context.Context, userID string, in CustomerInput) (*domain.Customer, error) {
	customer := &domain.Customer{
		UserID:  userID,
		Name:    deref(in.Name),
		Phone:   deref(in.Phone),
		Address: deref(in.Address),
		Lat:     in.Lat,
		Lng:     in.Lng,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer returns the caller's customer profile or
// ErrProfileNotFound.
func (s *ProfileService) GetCustomer(ctx context.Context, userID string) (*domain.Customer, error) {
	return s.customerRepo.FindByUser(ctx, userID)
}

// UpdateCustomer applies the provided fields to the caller's profile.
func (s *ProfileService) UpdateCustomer(ctx context.Context, userID string, in CustomerInput) (*domain.Customer, error) {
	customer, err := s.customerRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		customer.Name = *in.Name
	}
	if in.Phone != nil {
		customer.Phone = *in.Phone
	}
	if in.Address != nil {
		customer.Address = *in.Address
	}
	if in.Lat != nil {
		customer.Lat = in.Lat
	}
	if in.Lng != nil {
		customer.Lng = in.Lng
	}
	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// CreateTechnician creates the caller's technician profile.
func (s *ProfileService) CreateTechnician(ctx context.Context, userID string, in TechnicianInput) (*domain.Technician, error) {
	technician := &domain.Technician{
		UserID:          userID,
		Name:            deref(in.Name),
		Phone:           deref(in.Phone),
		Specializations: in.Specializations,
		WorkingHours:    deref(in.WorkingHours),
	}
	if err := s.technicianRepo.Create(ctx, technician); err != nil {
		return nil, err
	}
	return technician, nil
}

// GetTechnician returns the caller's technician profile or
// ErrProfileNotFound.
func (s *ProfileService) GetTechnician(ctx context.Context, userID string) (*domain.Technician, error) {
	return s.technicianRepo.FindByUser(ctx, userID)
}

// UpdateTechnician applies the provided fields to the caller's profile.
func (s *ProfileService) UpdateTechnician(ctx context.Context, userID string, in TechnicianInput) (*domain.Technician, error) {
	technician, err := s.technicianRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		technician.Name = *in.Name
	}
	if in.Phone != nil {
		technician.Phone = *in.Phone
	}
	if in.Specializations != nil {
		technician.Specializations = in.Specializations
	}
	if in.WorkingHours != nil {
		technician.WorkingHours = *in.WorkingHours
	}
	if err := s.technicianRepo.Update(ctx, technician); err != nil {
		return nil, err
	}
	return technician, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
