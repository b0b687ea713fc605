package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"
)

//go:embed sql
var migrationFiles embed.FS

// Migration is one schema step, loaded from sql/<driver>/NNNNNN_name.up.sql
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// dialect holds the statements that differ between the SQL backends
type dialect struct {
	dir         string
	createTable string
	record      string
}

var dialects = map[string]dialect{
	DriverPostgres: {
		dir: "sql/postgres",
		createTable: `
        CREATE TABLE IF NOT EXISTS schema_migrations (
            version INTEGER PRIMARY KEY,
            name VARCHAR(255) NOT NULL,
            applied_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        )`,
		record: "INSERT INTO schema_migrations (version, name) VALUES ($1, $2)",
	},
	DriverSQLite: {
		dir: "sql/sqlite",
		createTable: `
        CREATE TABLE IF NOT EXISTS schema_migrations (
            version INTEGER PRIMARY KEY,
            name TEXT NOT NULL,
            applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,
		record: "INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
	},
}

// MigrationsRunner applies the embedded migrations of one SQL backend
type MigrationsRunner struct {
	db         *sql.DB
	dialect    dialect
	migrations []Migration
	logger     *zap.Logger
}

// NewMigrationsRunner loads the migrations for driver, which must be
// DriverPostgres or DriverSQLite
func NewMigrationsRunner(db *sql.DB, driver string, logger *zap.Logger) (*MigrationsRunner, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("no migrations for storage driver %q", driver)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	runner := &MigrationsRunner{
		db:      db,
		dialect: d,
		logger:  logger.With(zap.String("driver", driver)),
	}
	if err := runner.loadMigrations(); err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}
	return runner, nil
}

// DisableLogging silences the runner
func (r *MigrationsRunner) DisableLogging() {
	r.logger = zap.NewNop()
}

func (r *MigrationsRunner) loadMigrations() error {
	entries, err := migrationFiles.ReadDir(r.dialect.dir)
	if err != nil {
		return fmt.Errorf("failed to read migration directory: %w", err)
	}

	for _, entry := range entries {
		filename := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(filename, ".up.sql") {
			continue
		}

		version, name, ok := parseMigrationName(filename)
		if !ok {
			r.logger.Warn("skipping invalid migration file", zap.String("file", filename))
			continue
		}

		content, err := migrationFiles.ReadFile(path.Join(r.dialect.dir, filename))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", filename, err)
		}

		r.migrations = append(r.migrations, Migration{Version: version, Name: name, SQL: string(content)})
	}

	sort.Slice(r.migrations, func(i, j int) bool {
		return r.migrations[i].Version < r.migrations[j].Version
	})
	return nil
}

func parseMigrationName(filename string) (int, string, bool) {
	prefix, rest, found := strings.Cut(filename, "_")
	if !found {
		return 0, "", false
	}

	var version int
	if _, err := fmt.Sscanf(prefix, "%d", &version); err != nil || version <= 0 {
		return 0, "", false
	}
	return version, strings.TrimSuffix(rest, ".up.sql"), true
}

// Pending returns the migrations not yet recorded in schema_migrations
func (r *MigrationsRunner) Pending() ([]Migration, error) {
	if _, err := r.db.Exec(r.dialect.createTable); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	rows, err := r.db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var pending []Migration
	for _, m := range r.migrations {
		if !applied[m.Version] {
			pending = append(pending, m)
		}
	}
	return pending, nil
}

// Run applies every pending migration in version order, each in its own
// transaction
func (r *MigrationsRunner) Run() error {
	pending, err := r.Pending()
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		r.logger.Debug("no pending migrations")
		return nil
	}

	r.logger.Info("found pending migrations", zap.Int("count", len(pending)))
	for _, m := range pending {
		if err := r.apply(m); err != nil {
			return err
		}
		r.logger.Info("✓ applied migration", zap.Int("version", m.Version), zap.String("name", m.Name))
	}
	return nil
}

func (r *MigrationsRunner) apply(m Migration) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	if _, err := tx.Exec(m.SQL); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to apply migration %d (%s): %w", m.Version, m.Name, err)
	}
	if _, err := tx.Exec(r.dialect.record, m.Version, m.Name); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
	}
	return nil
}
