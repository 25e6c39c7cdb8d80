package db

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/monocle-dev/tasksync/internal/config"
	"github.com/monocle-dev/tasksync/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the datastore named by cfg and applies pool limits.
func Connect(cfg config.Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg.DatabaseDriver, cfg.DatabaseURL)

	if err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:         NewLogger(cfg.DBLogLevel),
		TranslateError: true,
	})

	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	sqlDB, err := gdb.DB()

	if err != nil {
		return nil, fmt.Errorf("access db pool: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return gdb, nil
}

// Dialector picks the gorm driver for a DATABASE_DRIVER value.
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	dsn, err := NormalizeDSN(driver, dsn)

	if err != nil {
		return nil, err
	}

	switch driver {
	case config.DriverPostgres, "":
		return postgres.Open(dsn), nil
	case config.DriverMySQL:
		return mysql.Open(dsn), nil
	case config.DriverSQLite:
		if err := ensureDirForSQLite(dsn); err != nil {
			return nil, err
		}
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// NormalizeDSN rejects malformed connection strings before dialing.
// Postgres URLs become key=value form; MySQL DSNs always scan DATETIME
// columns into time.Time in UTC.
func NormalizeDSN(driver, dsn string) (string, error) {
	switch driver {
	case config.DriverPostgres, "":
		if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
			converted, err := pq.ParseURL(dsn)
			if err != nil {
				return "", fmt.Errorf("parse postgres url: %w", err)
			}
			return converted, nil
		}
		return dsn, nil
	case config.DriverMySQL:
		cfg, err := mysqldriver.ParseDSN(dsn)
		if err != nil {
			return "", fmt.Errorf("parse mysql dsn: %w", err)
		}
		cfg.ParseTime = true
		cfg.Loc = time.UTC
		return cfg.FormatDSN(), nil
	default:
		return dsn, nil
	}
}

// NewLogger routes gorm output through the standard logger.
func NewLogger(level string) logger.Interface {
	return logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  parseLogLevel(level),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// MigrateDatabase creates missing tables. Parents come before children so
// foreign keys resolve.
func MigrateDatabase(gdb *gorm.DB) error {
	models := []interface{}{
		&models.User{},
		&models.Category{},
		&models.Project{},
		&models.Section{},
		&models.Task{},
		&models.EarnedRewards{},
		&models.ActivityLog{},
	}

	migrator := gdb.Migrator()

	for _, model := range models {
		if !migrator.HasTable(model) {
			if err := gdb.AutoMigrate(model); err != nil {
				return err
			}
		}
	}

	return nil
}

// ensureDirForSQLite creates the parent dir for a SQLite file if needed.
func ensureDirForSQLite(dsn string) error {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}

	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)

	if dir == "." || dir == "" {
		return nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}

	return nil
}
