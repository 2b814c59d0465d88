package db

import (
	"fmt"

	"gorm.io/gorm"

	"userapi/internal/config"
	"userapi/internal/model"
)

// Open connects to the database selected by cfg.DBDriver.
func Open(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case config.DriverMySQL:
		return NewMySQL(cfg.MySQLDSN)
	case config.DriverSQLite:
		return NewSQLite(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// Migrate creates or updates the users table and its unique indexes.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.User{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// Reset drops the users table.
func Reset(db *gorm.DB) error {
	if err := db.Migrator().DropTable(&model.User{}); err != nil {
		return fmt.Errorf("drop users: %w", err)
	}
	return nil
}
