package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/klap2026/klap/domain"
)

// OtpRepositoryImpl implements domain.OtpRepository using GORM
type OtpRepositoryImpl struct {
	db *gorm.DB
}

// DBOtpCode represents the database model for OtpCode
type DBOtpCode struct {
	ID        string `gorm:"primaryKey;size:36"`
	Phone     string `gorm:"index;size:32"`
	CodeHash  string `gorm:"size:128"`
	ExpiresAt time.Time
	Attempts  int
	Verified  bool
	CreatedAt time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBOtpCode) TableName() string {
	return "otp_codes"
}

// NewOtpRepository creates a new OTP code repository
func NewOtpRepository(db *gorm.DB) domain.OtpRepository {
	return &OtpRepositoryImpl{db: db}
}

// Create implements domain.OtpRepository
func (r *OtpRepositoryImpl) Create(ctx context.Context, code *domain.OtpCode) error {
	if code.ID == "" {
		code.ID = uuid.NewString()
	}
	dbCode := &DBOtpCode{
		ID:        code.ID,
		Phone:     code.Phone,
		CodeHash:  code.CodeHash,
		ExpiresAt: code.ExpiresAt,
		Attempts:  code.Attempts,
		Verified:  code.Verified,
		CreatedAt: code.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(dbCode).Error; err != nil {
		return err
	}
	code.CreatedAt = dbCode.CreatedAt
	return nil
}

// LatestOpen implements domain.OtpRepository: the most recently created
// unverified code for phone is the authoritative one. If that code has
// already expired the result is ErrOTPExpired, not ErrOTPNotFound, so
// callers can tell a stale code apart from no code at all.
func (r *OtpRepositoryImpl) LatestOpen(ctx context.Context, phone string, now time.Time) (*domain.OtpCode, error) {
	var dbCode DBOtpCode
	err := r.db.WithContext(ctx).
		Where("phone = ? AND verified = ?", phone, false).
		Order("created_at DESC").
		First(&dbCode).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOTPNotFound
		}
		return nil, err
	}
	if dbCode.ExpiresAt.Before(now) {
		return nil, domain.ErrOTPExpired
	}
	return &domain.OtpCode{
		ID:        dbCode.ID,
		Phone:     dbCode.Phone,
		CodeHash:  dbCode.CodeHash,
		ExpiresAt: dbCode.ExpiresAt,
		Attempts:  dbCode.Attempts,
		Verified:  dbCode.Verified,
		CreatedAt: dbCode.CreatedAt,
	}, nil
}

// RecordAttempt implements domain.OtpRepository. The attempt counter
// and the verified flag move in one update so a matching submission
// consumes the code atomically.
func (r *OtpRepositoryImpl) RecordAttempt(ctx context.Context, id string, verified bool) error {
	updates := map[string]any{"attempts": gorm.Expr("attempts + 1")}
	if verified {
		updates["verified"] = true
	}
	res := r.db.WithContext(ctx).Model(&DBOtpCode{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrOTPNotFound
	}
	return nil
}

// Delete implements domain.OtpRepository
func (r *OtpRepositoryImpl) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&DBOtpCode{}, "id = ?", id).Error
}
