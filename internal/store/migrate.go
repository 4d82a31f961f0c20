package store

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file" //nolint:blankimports // file source driver

	"github.com/jonesrussell/llmstxt-pipeline/internal/logger"
)

// migrationsURL resolves the migrations directory relative to the binary's
// working directory, falling back to the relative path if Abs fails.
func migrationsURL(migrationsPath string) string {
	if migrationsPath == "" {
		migrationsPath = "internal/store/migrations"
	}
	if absPath, err := filepath.Abs(migrationsPath); err == nil {
		migrationsPath = absPath
	}
	return fmt.Sprintf("file://%s", migrationsPath)
}

func newMigrate(dsn, migrationsPath string) (*migrate.Migrate, func() error, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open database connection: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("create postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(migrationsURL(migrationsPath), "postgres", driver)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("create migrate instance: %w", err)
	}

	return m, db.Close, nil
}

// RunMigrations applies every pending migration. Called at cmd/api startup.
func RunMigrations(dsn, migrationsPath string, log logger.Logger) error {
	m, closeDB, err := newMigrate(dsn, migrationsPath)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("no pending migrations", logger.String("migrations_path", migrationsPath))
			return nil
		}
		return fmt.Errorf("run migrations: %w", err)
	}

	log.Info("migrations applied successfully", logger.String("migrations_path", migrationsPath))
	return nil
}

// MigrateDown rolls back steps migrations (default 1). Used by cmd/tool.
func MigrateDown(dsn, migrationsPath string, steps int, log logger.Logger) error {
	m, closeDB, err := newMigrate(dsn, migrationsPath)
	if err != nil {
		return err
	}
	defer closeDB()

	if steps <= 0 {
		steps = 1
	}

	if err := m.Steps(-steps); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("no migrations to roll back", logger.String("migrations_path", migrationsPath))
			return nil
		}
		return fmt.Errorf("roll back migrations: %w", err)
	}

	log.Info("migrations rolled back", logger.String("migrations_path", migrationsPath), logger.Int("steps", steps))
	return nil
}
