package gormstore

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/satriahrh/mockview/domain/entities"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config selects the relational backend
type Config struct {
	Driver string
	DSN    string
	// AutoMigrate creates or updates the tables on startup
	AutoMigrate bool
}

// ValidateConfig validates the Config
func ValidateConfig(config Config) error {
	switch config.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported database driver %q", config.Driver)
	}
	if config.DSN == "" {
		return fmt.Errorf("database DSN is required")
	}
	return nil
}

// Open connects to the configured database and optionally migrates the schema
func Open(config Config, logger *zap.Logger) (*gorm.DB, error) {
	if err := ValidateConfig(config); err != nil {
		return nil, err
	}

	var dialector gorm.Dialector
	switch config.Driver {
	case DriverPostgres:
		dialector = postgres.Open(config.DSN)
	case DriverSQLite:
		dialector = sqlite.Open(config.DSN)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", config.Driver, err)
	}

	if config.AutoMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}

	logger.Info("Connected to relational database", zap.String("driver", config.Driver))
	return db, nil
}

// Migrate creates or updates the interview and answer tables
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entities.Interview{}, &entities.UserAnswer{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
