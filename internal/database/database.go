package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/ggorockee/localdirectory/internal/config"
	"github.com/ggorockee/localdirectory/internal/logger"
	"github.com/ggorockee/localdirectory/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const sqlitePrefix = "sqlite://"

type DB struct {
	*gorm.DB
}

// Connect opens Postgres, or SQLite when DATABASE_URL starts with sqlite://
// (local development and tests).
func Connect(cfg *config.Config) (*DB, error) {
	log := logger.GetLogger("database")

	logLevel := gormlogger.Silent
	if cfg.ServerEnv == "development" {
		logLevel = gormlogger.Info
	}

	isSQLite := strings.HasPrefix(cfg.DatabaseURL, sqlitePrefix)
	var dialector gorm.Dialector
	if isSQLite {
		dialector = sqlite.Open(strings.TrimPrefix(cfg.DatabaseURL, sqlitePrefix))
	} else {
		dialector = postgres.Open(cfg.DatabaseURL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(logLevel),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Prometheus 메트릭 플러그인 등록
	if err := db.Use(&MetricsPlugin{}); err != nil {
		log.Warnf("Failed to register metrics plugin: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	if isSQLite {
		// SQLite는 단일 writer
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
	}
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	log.Infof("Database connected (%s)", dialector.Name())
	return &DB{db}, nil
}

// Migrate runs AutoMigrate for all models
func Migrate(db *DB) error {
	if err := db.AutoMigrate(
		&models.PlacesCache{},
		&models.RateLimitCounter{},
		&models.Inquiry{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Close 커넥션 풀 종료
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
