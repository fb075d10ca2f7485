package database

import (
	"fmt"

	"footwork_backend/internal/config"
	"footwork_backend/internal/logger"
	"footwork_backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var gormDB *gorm.DB

// ConnectGorm initializes the GORM connection from configuration.
func ConnectGorm() (*gorm.DB, error) {
	if gormDB != nil {
		return gormDB, nil
	}

	cfg := config.GetConfig()
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to GORM: %w", err)
	}

	gormDB = db
	return db, nil
}

// AutoMigrate migrates all models and applies the raw DDL GORM cannot
// express.
func AutoMigrate() error {
	db, err := ConnectGorm()
	if err != nil {
		return err
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("failed to create uuid extension: %w", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Membership{},
		&models.PaymentEventRecord{},
	)
	if err != nil {
		return fmt.Errorf("AutoMigrate failed: %w", err)
	}

	// Partial unique index enforcing at most one active membership per user.
	// Postgres-only; GORM tags cannot express the WHERE clause.
	err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS ux_memberships_user_active
		ON memberships (user_id)
		WHERE status = 'active'
	`).Error
	if err != nil {
		return fmt.Errorf("failed to create active-membership index: %w", err)
	}

	logger.Info("AutoMigrate completed")
	return nil
}
