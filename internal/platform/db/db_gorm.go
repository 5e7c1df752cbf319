// Package db opens and migrates the relational store behind every repository.
package db

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"foodie/internal/platform/config"
)

const (
	// DriverPostgres selects PostgreSQL.
	DriverPostgres = "postgres"
	// DriverSQLite selects a local SQLite file, used for development and demos.
	DriverSQLite = "sqlite"

	retryInterval  = 3 * time.Second
	connectTimeout = 60 * time.Second
)

// Config holds database connection settings.
type Config struct {
	Driver        string
	User          string
	Password      string
	Name          string
	Host          string
	Port          string
	SSLMode       string
	Path          string // SQLite file path
	SlowThreshold time.Duration
	RunMigrations bool
}

// Opener opens a gorm connection for a DSN. It is replaced in tests.
type Opener func(dsn string) (*gorm.DB, error)

// LoadConfigFromEnv reads database settings from environment variables.
func LoadConfigFromEnv() Config {
	return Config{
		Driver:        config.String("DB_DRIVER", DriverPostgres),
		User:          os.Getenv("DB_USER"),
		Password:      os.Getenv("DB_PASSWORD"),
		Name:          os.Getenv("DB_NAME"),
		Host:          config.String("DB_HOST", "localhost"),
		Port:          config.String("DB_PORT", "5432"),
		SSLMode:       config.String("DB_SSLMODE", "disable"),
		Path:          config.String("DB_PATH", "./foodie.db"),
		SlowThreshold: time.Duration(config.Int("DB_SLOW_QUERY_MS", 500)) * time.Millisecond,
		RunMigrations: config.Bool("RUN_MIGRATIONS", false),
	}
}

// SQLiteDSN adds the option that makes SQLite enforce foreign keys, which it
// does not do by default.
func SQLiteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=1"
}

// BuildDSN returns the connection string for cfg's driver.
func BuildDSN(cfg Config) string {
	if cfg.Driver == DriverSQLite {
		return SQLiteDSN(cfg.Path)
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, cfg.SSLMode)
}

// ConnectWithRetry calls open until it succeeds or timeout elapses.
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().Add(retryInterval).After(deadline) {
			return nil, fmt.Errorf("db connect failed after %v: %w", timeout, err)
		}
		slog.Warn("db connect failed, retrying", "error", err, "retry_in", retryInterval)
		time.Sleep(retryInterval)
	}
}

// GormConfig returns the gorm settings shared by every connection.
func GormConfig(slowThreshold time.Duration) *gorm.Config {
	return &gorm.Config{
		Logger: logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			logger.Config{
				SlowThreshold:             slowThreshold,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
		TranslateError: true,
	}
}

// OpenDB connects to the database described by cfg and tunes its pool.
func OpenDB(cfg Config) (*gorm.DB, error) {
	gcfg := GormConfig(cfg.SlowThreshold)

	var open Opener
	switch cfg.Driver {
	case DriverPostgres:
		open = func(dsn string) (*gorm.DB, error) { return gorm.Open(postgres.Open(dsn), gcfg) }
	case DriverSQLite:
		open = func(dsn string) (*gorm.DB, error) { return gorm.Open(sqlite.Open(dsn), gcfg) }
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}

	db, err := ConnectWithRetry(BuildDSN(cfg), connectTimeout, open)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	if cfg.Driver == DriverSQLite {
		// SQLite allows a single writer.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(50)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(time.Hour)
		sqlDB.SetConnMaxIdleTime(15 * time.Minute)
	}

	slog.Info("database connected", "driver", cfg.Driver)
	return db, nil
}

// Migrate creates or updates the tables of models.
func Migrate(db *gorm.DB, models ...interface{}) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
