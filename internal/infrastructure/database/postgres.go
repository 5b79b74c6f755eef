package database

import (
	"fmt"

	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/klap2026/klap/internal/infrastructure/repositories"
)

// Open creates a new database connection.
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
}

// AutoMigrate creates or updates every table the service owns,
// including the casbin policy table.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&repositories.DBUser{},
		&repositories.DBOtpCode{},
		&repositories.DBSession{},
		&repositories.DBCustomer{},
		&repositories.DBTechnician{},
		&repositories.DBJob{},
	); err != nil {
		return fmt.Errorf("failed to migrate tables: %w", err)
	}

	if _, err := gormadapter.NewAdapterByDB(db); err != nil {
		return fmt.Errorf("failed to initialize casbin adapter: %w", err)
	}

	return nil
}
