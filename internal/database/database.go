package database

import (
	"context"
	"fmt"
	"time"

	"usersvc/internal/config"
	"usersvc/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the store named by creds, verifies the connection and
// migrates the users table.
func Open(ctx context.Context, creds config.StoreCredentials) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch creds.Driver {
	case "postgres":
		dialector = postgres.Open(creds.DSN)
	case "sqlite":
		dialector = sqlite.Open(creds.DSN)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", creds.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to store: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 8*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("store rejected connection: %w", err)
	}

	if err := db.WithContext(ctx).AutoMigrate(&models.User{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate users: %w", err)
	}
	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
