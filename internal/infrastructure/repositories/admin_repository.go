package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/klap2026/klap/domain"
)

// AdminRepositoryImpl implements domain.AdminRepository using GORM
type AdminRepositoryImpl struct {
	db *gorm.DB
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db *gorm.DB) domain.AdminRepository {
	return &AdminRepositoryImpl{db: db}
}

// DeleteUserCascade implements domain.AdminRepository. Everything
// referencing the user goes in one transaction: sessions, OTP codes
// issued to the user's phone, jobs owned by the customer profile, both
// profiles, then the user row itself. Jobs a technician was assigned to
// are not deleted, only unassigned.
func (r *AdminRepositoryImpl) DeleteUserCascade(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user DBUser
		if err := tx.Where("id = ?", userID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrUserNotFound
			}
			return err
		}

		if err := tx.Delete(&DBSession{}, "user_id = ?", userID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&DBOtpCode{}, "phone = ?", user.Phone).Error; err != nil {
			return err
		}

		var customer DBCustomer
		err := tx.Where("user_id = ?", userID).First(&customer).Error
		switch {
		case err == nil:
			if err := tx.Delete(&DBJob{}, "customer_id = ?", customer.ID).Error; err != nil {
				return err
			}
			if err := tx.Delete(&DBCustomer{}, "id = ?", customer.ID).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// no customer profile
		default:
			return err
		}

		var technician DBTechnician
		err = tx.Where("user_id = ?", userID).First(&technician).Error
		switch {
		case err == nil:
			// Jobs assigned to this technician stay with the customer,
			// back in the unassigned pool.
			if err := tx.Model(&DBJob{}).
				Where("technician_id = ?", technician.ID).
				Update("technician_id", gorm.Expr("NULL")).Error; err != nil {
				return err
			}
			if err := tx.Delete(&DBTechnician{}, "id = ?", technician.ID).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// no technician profile
		default:
			return err
		}

		return tx.Delete(&DBUser{}, "id = ?", userID).Error
	})
}
