package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/carehouse/backend/internal/infrastructure/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const connectTimeout = 10 * time.Second

// Database wraps the shared GORM handle. Repositories take Database.DB.
type Database struct {
	DB *gorm.DB
}

// DatabaseOption customizes how the connection is opened
type DatabaseOption func(*gorm.Config)

// WithGormLogger routes GORM's query log through l
func WithGormLogger(l logger.Interface) DatabaseOption {
	return func(c *gorm.Config) { c.Logger = l }
}

// WithoutPreparedStatements disables the prepared statement cache, e.g. behind pgbouncer
func WithoutPreparedStatements() DatabaseOption {
	return func(c *gorm.Config) { c.PrepareStmt = false }
}

// NewDatabase connects to PostgreSQL, sizes the pool from cfg and verifies the
// connection before returning. GORM logging is silent unless WithGormLogger is given.
func NewDatabase(cfg *config.DatabaseConfig, opts ...DatabaseOption) (*Database, error) {
	gormConfig := &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	}
	for _, opt := range opts {
		opt(gormConfig)
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	d := &Database{DB: db}

	sqlDB, err := d.SQLDB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := d.Ping(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return d, nil
}

// SQLDB returns the pool under the GORM handle, shared with migrations and pool metrics
func (d *Database) SQLDB() (*sql.DB, error) {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB, nil
}

// Ping checks the connection, for the health endpoint
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.SQLDB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the pool
func (d *Database) Close() error {
	sqlDB, err := d.SQLDB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
