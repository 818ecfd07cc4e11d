package database

import (
	"fmt"
	"time"

	"whiteboard-service/pkg/logger"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewPostgresConnection opens dburi and migrates the given models
func NewPostgresConnection(dburi string, log *logger.Logger, models ...any) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dburi), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		PrepareStmt:                              false,
		SkipDefaultTransaction:                   true,
		AllowGlobalUpdate:                        false,
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	log.Info("Postgres connection established successfully", "models", len(models))
	return db, nil
}
