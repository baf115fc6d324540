package storage

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"linkcut/internal/models"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open connects to the database selected by driver, runs the schema
// migration and returns the handle. TranslateError is enabled so duplicate
// key and not-found conditions are detected portably across drivers.
func Open(driver, dsn string, logger gormlogger.Interface) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger:         logger,
		TranslateError: true,
	}

	var db *gorm.DB
	var err error
	switch driver {
	case DriverPostgres:
		db, err = gorm.Open(postgres.Open(dsn), cfg)
	case DriverSQLite:
		db, err = gorm.Open(sqlite.Open(dsn), cfg)
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	if err := db.AutoMigrate(&models.Link{}); err != nil {
		return nil, fmt.Errorf("migrate links table: %w", err)
	}
	return db, nil
}
