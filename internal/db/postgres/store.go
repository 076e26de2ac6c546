// Package postgres is the relational athlete store backed by gorm.
package postgres

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kailas-cloud/athletedex/internal/db"
	"github.com/kailas-cloud/athletedex/internal/metrics"
)

// Config holds connection parameters.
type Config struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// Store reads athletes, schools, sports and categories.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// Open connects to PostgreSQL.
func Open(cfg Config, logger *zap.Logger) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("dsn is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	gdb, err := gorm.Open(pgdriver.Open(cfg.DSN), &gorm.Config{
		Logger:               gormlogger.Default.LogMode(gormlogger.Silent),
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	return &Store{db: gdb, logger: logger}, nil
}

// NewStoreForTest wraps an existing gorm handle (test-only).
func NewStoreForTest(gdb *gorm.DB) *Store {
	return &Store{db: gdb, logger: zap.NewNop()}
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// WaitForReady polls Ping until the database responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		if err := s.Ping(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

// AutoMigrate creates or updates the tables.
func (s *Store) AutoMigrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return &db.Error{Op: db.OpMigrate, Err: err}
	}
	s.logger.Info("Database schema migrated")
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	sqlDB, err := s.db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		s.logger.Warn("Failed to close database", zap.Error(err))
	}
}

// observe records query latency and wraps err with op.
func observe(op string, start time.Time, err error) error {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.StoreQueryDuration.WithLabelValues(op, status).Observe(time.Since(start).Seconds())
	if err != nil {
		return &db.Error{Op: op, Err: err}
	}
	return nil
}
