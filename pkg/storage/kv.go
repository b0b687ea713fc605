package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// KV is a string key-value store that survives process restarts
type KV interface {
	// Get returns the stored value. A missing key is reported with ok=false
	// and a nil error.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// HealthReporter is implemented by backends whose connection can fail
// after Open
type HealthReporter interface {
	Health(ctx context.Context) error
}

// CheckHealth reports whether kv is usable. Backends that cannot lose a
// connection are always healthy.
func CheckHealth(ctx context.Context, kv KV) error {
	if hr, ok := kv.(HealthReporter); ok {
		return hr.Health(ctx)
	}
	return nil
}

// ErrQuotaExceeded is returned by Set when the store has no room for the value
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Supported backends
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
	DriverFile     = "file"
)

// Config selects and configures a backend
type Config struct {
	Driver     string
	Path       string // sqlite and file
	DSN        string // postgres
	QuotaBytes int    // memory, 0 means unlimited
}

// Open creates the backend named by cfg.Driver
func Open(cfg Config, logger *zap.Logger) (KV, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" {
		driver = DriverSQLite
	}

	switch driver {
	case DriverSQLite:
		path, err := pathOrDefault(cfg.Path, "layout.db")
		if err != nil {
			return nil, err
		}
		return OpenSQLite(path)
	case DriverPostgres:
		dm, err := NewDatabaseManager(cfg.DSN, logger)
		if err != nil {
			return nil, err
		}
		if err := dm.Init(); err != nil {
			dm.Close()
			return nil, err
		}
		return dm, nil
	case DriverMemory:
		return NewMemoryStore(cfg.QuotaBytes)
	case DriverFile:
		path, err := pathOrDefault(cfg.Path, "layout.json")
		if err != nil {
			return nil, err
		}
		return OpenFileStore(path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// DefaultDir returns the per-user directory the on-device backends write to
func DefaultDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return "", fmt.Errorf("failed to locate config directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "switchmaestro"), nil
}

func pathOrDefault(path, name string) (string, error) {
	if path != "" {
		return path, nil
	}
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
