package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/llmstxt-pipeline/internal/config"
	"github.com/jonesrussell/llmstxt-pipeline/internal/logger"
	"github.com/jonesrussell/llmstxt-pipeline/internal/store"
)

func newMigrateCommand() *cobra.Command {
	var migrationsPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}
	cmd.PersistentFlags().StringVar(&migrationsPath, "path", "", "migrations directory (default internal/store/migrations)")

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := toolDeps()
			if err != nil {
				return err
			}
			return store.RunMigrations(cfg.Database.URL, migrationsPath, log)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations (default 1 step)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid steps %q: %w", args[0], err)
				}
				steps = n
			}
			cfg, log, err := toolDeps()
			if err != nil {
				return err
			}
			return store.MigrateDown(cfg.Database.URL, migrationsPath, steps, log)
		},
	})

	return cmd
}

func toolDeps() (*config.Config, logger.Logger, error) {
	cfg, err := loadToolConfig()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.NewFromLoggingConfig(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}
	return cfg, log, nil
}
