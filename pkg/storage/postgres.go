package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// DatabaseManager is the Postgres KV backend. Its connection is watched by
// a Monitor and reopened when the server goes away.
type DatabaseManager struct {
	monitor *Monitor
	logger  *zap.Logger
}

// NewDatabaseManager connects to dsn and starts monitoring the connection
func NewDatabaseManager(dsn string, logger *zap.Logger) (*DatabaseManager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := connectDatabase(dsn)
	if err != nil {
		return nil, err
	}

	dm := &DatabaseManager{
		monitor: NewMonitor(db, func() (*sql.DB, error) { return connectDatabase(dsn) }, 30*time.Second, logger),
		logger:  logger,
	}
	dm.monitor.Start()
	return dm, nil
}

// GetDB returns the current database connection
func (dm *DatabaseManager) GetDB() *sql.DB {
	return dm.monitor.DB()
}

// Close stops monitoring and closes the connection
func (dm *DatabaseManager) Close() error {
	if err := dm.monitor.Stop(); err != nil {
		dm.logger.Warn("storage monitor stopped with error", zap.Error(err))
	}
	if db := dm.GetDB(); db != nil {
		return db.Close()
	}
	return nil
}

// Health implements HealthReporter
func (dm *DatabaseManager) Health(ctx context.Context) error {
	return dm.monitor.Ensure(ctx)
}

// Init runs the embedded migrations
func (dm *DatabaseManager) Init() error {
	dm.logger.Info("running database migrations")

	runner, err := NewMigrationsRunner(dm.GetDB(), DriverPostgres, dm.logger)
	if err != nil {
		return fmt.Errorf("failed to create migration runner: %w", err)
	}

	if err := runner.Run(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	dm.logger.Info("✓ database initialization completed")
	return nil
}

// Get implements KV
func (dm *DatabaseManager) Get(ctx context.Context, key string) (string, bool, error) {
	if err := dm.monitor.Ensure(ctx); err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}

	var value string
	err := dm.GetDB().QueryRowContext(ctx, "SELECT value FROM kv_store WHERE key = $1", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

// Set implements KV. Running out of disk or hitting a server size limit is
// reported as ErrQuotaExceeded.
func (dm *DatabaseManager) Set(ctx context.Context, key, value string) error {
	if err := dm.monitor.Ensure(ctx); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	query := `
        INSERT INTO kv_store (key, value, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
    `
	if _, err := dm.GetDB().ExecContext(ctx, query, key, value); err != nil {
		if isQuotaError(err) {
			return fmt.Errorf("failed to write %s: %w", key, ErrQuotaExceeded)
		}
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// isQuotaError matches disk_full (53100) and program_limit_exceeded (54000)
func isQuotaError(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "53100" || pqErr.Code == "54000"
}

func connectDatabase(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, errors.New("postgres storage requires a dsn")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// the layout is three rows; a small pool is plenty
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(1)

	return db, nil
}
