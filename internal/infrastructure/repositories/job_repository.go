package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/klap2026/klap/domain"
)

// JobRepositoryImpl implements domain.JobRepository using GORM
type JobRepositoryImpl struct {
	db *gorm.DB
}

// DBJob represents the database model for Job. Photos is a
// JSON-encoded string array.
type DBJob struct {
	ID           string `gorm:"primaryKey;size:36"`
	CustomerID   string `gorm:"index;size:36"`
	TechnicianID string `gorm:"index;size:36"`
	Description  string `gorm:"type:text"`
	ChatSummary  string `gorm:"type:text"`
	Address      string `gorm:"size:512"`
	Lat          float64
	Lng          float64
	Photos       string `gorm:"type:text"`
	Category     string `gorm:"size:64"`
	Status       string `gorm:"index;size:32"`
	CreatedAt    time.Time `gorm:"index"`
	UpdatedAt    time.Time

	Customer   *DBCustomer   `gorm:"foreignKey:CustomerID"`
	Technician *DBTechnician `gorm:"foreignKey:TechnicianID"`
}

// TableName returns the table name for GORM
func (DBJob) TableName() string {
	return "jobs"
}

// NewJobRepository creates a new job repository
func NewJobRepository(db *gorm.DB) domain.JobRepository {
	return &JobRepositoryImpl{db: db}
}

// Create implements domain.JobRepository
func (r *JobRepositoryImpl) Create(ctx context.Context, job *domain.Job) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	dbJob := jobToDB(job)
	if err := r.db.WithContext(ctx).Create(dbJob).Error; err != nil {
		return err
	}
	job.CreatedAt = dbJob.CreatedAt
	job.UpdatedAt = dbJob.UpdatedAt
	return nil
}

// FindByID implements domain.JobRepository. The customer and
// technician profiles ride along because the ownership check needs
// their owning user ids.
func (r *JobRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.Job, error) {
	var dbJob DBJob
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Technician").
		Where("id = ?", id).
		First(&dbJob).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrJobNotFound
		}
		return nil, err
	}
	return jobToDomain(&dbJob), nil
}

// List implements domain.JobRepository, newest first.
func (r *JobRepositoryImpl) List(ctx context.Context, filter domain.JobFilter) ([]*domain.Job, error) {
	query := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Technician").
		Order("created_at DESC")
	if filter.CustomerID != "" {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.TechnicianID != "" {
		query = query.Where("technician_id = ?", filter.TechnicianID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var dbJobs []DBJob
	if err := query.Find(&dbJobs).Error; err != nil {
		return nil, err
	}

	jobs := make([]*domain.Job, 0, len(dbJobs))
	for i := range dbJobs {
		jobs = append(jobs, jobToDomain(&dbJobs[i]))
	}
	return jobs, nil
}

// Update implements domain.JobRepository
func (r *JobRepositoryImpl) Update(ctx context.Context, job *domain.Job) error {
	job.UpdatedAt = time.Now()
	dbJob := jobToDB(job)
	return r.db.WithContext(ctx).Omit("Customer", "Technician").Save(dbJob).Error
}

func jobToDB(job *domain.Job) *DBJob {
	photos, _ := json.Marshal(job.Photos)
	return &DBJob{
		ID:           job.ID,
		CustomerID:   job.CustomerID,
		TechnicianID: job.TechnicianID,
		Description:  job.Description,
		ChatSummary:  job.ChatSummary,
		Address:      job.Address,
		Lat:          job.Lat,
		Lng:          job.Lng,
		Photos:       string(photos),
		Category:     job.Category,
		Status:       job.Status,
		CreatedAt:    job.CreatedAt,
		UpdatedAt:    job.UpdatedAt,
	}
}

func jobToDomain(dbJob *DBJob) *domain.Job {
	var photos []string
	if dbJob.Photos != "" {
		_ = json.Unmarshal([]byte(dbJob.Photos), &photos)
	}
	job := &domain.Job{
		ID:           dbJob.ID,
		CustomerID:   dbJob.CustomerID,
		TechnicianID: dbJob.TechnicianID,
		Description:  dbJob.Description,
		ChatSummary:  dbJob.ChatSummary,
		Address:      dbJob.Address,
		Lat:          dbJob.Lat,
		Lng:          dbJob.Lng,
		Photos:       photos,
		Category:     dbJob.Category,
		Status:       dbJob.Status,
		CreatedAt:    dbJob.CreatedAt,
		UpdatedAt:    dbJob.UpdatedAt,
	}
	if dbJob.Customer != nil {
		job.Customer = customerToDomain(dbJob.Customer)
	}
	if dbJob.Technician != nil {
		job.Technician = technicianToDomain(dbJob.Technician)
	}
	return job
}
