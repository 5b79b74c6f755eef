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

// DBCustomer represents the database model for Customer
type DBCustomer struct {
	ID        string `gorm:"primaryKey;size:36"`
	UserID    string `gorm:"uniqueIndex;size:36"`
	Name      string `gorm:"size:255"`
	Phone     string `gorm:"size:32"`
	Address   string `gorm:"size:512"`
	Lat       *float64
	Lng       *float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (DBCustomer) TableName() string { return "customers" }

// DBTechnician represents the database model for Technician.
// Specializations is a JSON-encoded string array.
type DBTechnician struct {
	ID              string `gorm:"primaryKey;size:36"`
	UserID          string `gorm:"uniqueIndex;size:36"`
	Name            string `gorm:"size:255"`
	Phone           string `gorm:"size:32"`
	Specializations string `gorm:"type:text"`
	WorkingHours    string `gorm:"type:text"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (DBTechnician) TableName() string { return "technicians" }

// CustomerRepositoryImpl implements domain.CustomerRepository using GORM
type CustomerRepositoryImpl struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) domain.CustomerRepository {
	return &CustomerRepositoryImpl{db: db}
}

func (r *CustomerRepositoryImpl) Create(ctx context.Context, customer *domain.Customer) error {
	if customer.ID == "" {
		customer.ID = uuid.NewString()
	}
	dbCustomer := customerToDB(customer)
	if err := r.db.WithContext(ctx).Create(dbCustomer).Error; err != nil {
		return err
	}
	customer.CreatedAt = dbCustomer.CreatedAt
	customer.UpdatedAt = dbCustomer.UpdatedAt
	return nil
}

func (r *CustomerRepositoryImpl) FindByUser(ctx context.Context, userID string) (*domain.Customer, error) {
	var dbCustomer DBCustomer
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&dbCustomer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return customerToDomain(&dbCustomer), nil
}

func (r *CustomerRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.Customer, error) {
	var dbCustomer DBCustomer
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbCustomer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return customerToDomain(&dbCustomer), nil
}

func (r *CustomerRepositoryImpl) Update(ctx context.Context, customer *domain.Customer) error {
	customer.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(customerToDB(customer)).Error
}

func customerToDB(c *domain.Customer) *DBCustomer {
	return &DBCustomer{
		ID:        c.ID,
		UserID:    c.UserID,
		Name:      c.Name,
		Phone:     c.Phone,
		Address:   c.Address,
		Lat:       c.Lat,
		Lng:       c.Lng,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func customerToDomain(c *DBCustomer) *domain.Customer {
	return &domain.Customer{
		ID:        c.ID,
		UserID:    c.UserID,
		Name:      c.Name,
		Phone:     c.Phone,
		Address:   c.Address,
		Lat:       c.Lat,
		Lng:       c.Lng,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// TechnicianRepositoryImpl implements domain.TechnicianRepository using GORM
type TechnicianRepositoryImpl struct {
	db *gorm.DB
}

// NewTechnicianRepository creates a new technician repository
func NewTechnicianRepository(db *gorm.DB) domain.TechnicianRepository {
	return &TechnicianRepositoryImpl{db: db}
}

func (r *TechnicianRepositoryImpl) Create(ctx context.Context, technician *domain.Technician) error {
	if technician.ID == "" {
		technician.ID = uuid.NewString()
	}
	dbTechnician := technicianToDB(technician)
	if err := r.db.WithContext(ctx).Create(dbTechnician).Error; err != nil {
		return err
	}
	technician.CreatedAt = dbTechnician.CreatedAt
	technician.UpdatedAt = dbTechnician.UpdatedAt
	return nil
}

func (r *TechnicianRepositoryImpl) FindByUser(ctx context.Context, userID string) (*domain.Technician, error) {
	var dbTechnician DBTechnician
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&dbTechnician).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return technicianToDomain(&dbTechnician), nil
}

func (r *TechnicianRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.Technician, error) {
	var dbTechnician DBTechnician
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbTechnician).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return technicianToDomain(&dbTechnician), nil
}

func (r *TechnicianRepositoryImpl) Update(ctx context.Context, technician *domain.Technician) error {
	technician.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(technicianToDB(technician)).Error
}

func technicianToDB(t *domain.Technician) *DBTechnician {
	specializations, _ := json.Marshal(t.Specializations)
	return &DBTechnician{
		ID:              t.ID,
		UserID:          t.UserID,
		Name:            t.Name,
		Phone:           t.Phone,
		Specializations: string(specializations),
		WorkingHours:    t.WorkingHours,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func technicianToDomain(t *DBTechnician) *domain.Technician {
	var specializations []string
	if t.Specializations != "" {
		_ = json.Unmarshal([]byte(t.Specializations), &specializations)
	}
	return &domain.Technician{
		ID:              t.ID,
		UserID:          t.UserID,
		Name:            t.Name,
		Phone:           t.Phone,
		Specializations: specializations,
		WorkingHours:    t.WorkingHours,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}
