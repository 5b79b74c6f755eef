package services

import (
	"context"

	"github.com/klap2026/klap/domain"
)

// JobService owns job CRUD with the ownership rule: a caller may read
// or mutate a job only as the owning user of its customer profile or
// of its assigned technician profile.
type JobService struct {
	jobRepo      domain.JobRepository
	customerRepo domain.CustomerRepository
}

// NewJobService creates a new job service
func NewJobService(jobRepo domain.JobRepository, customerRepo domain.CustomerRepository) *JobService {
	return &JobService{jobRepo: jobRepo, customerRepo: customerRepo}
}

// JobInput carries the creatable job fields.
type JobInput struct {
	CustomerID  string
	Description string
	Address     string
	Lat         float64
	Lng         float64
	Photos      []string
	Category    string
}

// JobPatch carries the mutable job fields; nil means leave unchanged.
type JobPatch struct {
	Status       *string
	TechnicianID *string
	Description  *string
	Category     *string
}

// Create starts a new job in request_received for the given customer
// profile, which must belong to the calling user.
func (s *JobService) Create(ctx context.Context, userID string, in JobInput) (*domain.Job, error) {
	customer, err := s.customerRepo.FindByID(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer.UserID != userID {
		return nil, domain.ErrForbidden
	}

	job := &domain.Job{
		CustomerID:  in.CustomerID,
		Description: in.Description,
		ChatSummary: in.Description,
		Address:     in.Address,
		Lat:         in.Lat,
		Lng:         in.Lng,
		Photos:      in.Photos,
		Category:    in.Category,
		Status:      domain.JobStatusRequestReceived,
	}
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// List returns jobs matching the filter, newest first.
func (s *JobService) List(ctx context.Context, filter domain.JobFilter) ([]*domain.Job, error) {
	return s.jobRepo.List(ctx, filter)
}

// Get returns one job after the ownership check.
func (s *JobService) Get(ctx context.Context, userID, jobID string) (*domain.Job, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !ownsJob(job, userID) {
		return nil, domain.ErrForbidden
	}
	return job, nil
}

// Patch applies the provided fields after the ownership check. Status
// values are validated for membership only; there is no transition
// engine, the clients drive the lifecycle.
func (s *JobService) Patch(ctx context.Context, userID, jobID string, patch JobPatch) (*domain.Job, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !ownsJob(job, userID) {
		return nil, domain.ErrForbidden
	}

	if patch.Status != nil {
		if !domain.ValidJobStatus(*patch.Status) {
			return nil, domain.ErrInvalidStatus
		}
		job.Status = *patch.Status
	}
	if patch.TechnicianID != nil {
		job.TechnicianID = *patch.TechnicianID
	}
	if patch.Description != nil {
		job.Description = *patch.Description
	}
	if patch.Category != nil {
		job.Category = *patch.Category
	}

	if err := s.jobRepo.Update(ctx, job); err != nil {
		return nil, err
	}
	return s.jobRepo.FindByID(ctx, jobID)
}

func ownsJob(job *domain.Job, userID string) bool {
	if job.Customer != nil && job.Customer.UserID == userID {
		return true
	}
	if job.Technician != nil && job.Technician.UserID == userID {
		return true
	}
	return false
}
