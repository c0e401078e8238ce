package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql (migrations)
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-blueprint/pkg/config"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/database"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/logging"
)

// Version is set at build time via ldflags
var Version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:           "ekaya-blueprint",
	Short:         "Generate and manage SaaS product blueprints",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath, "Path to optional YAML config file")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadRuntime reads configuration and builds the process logger.
func loadRuntime() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadFrom(configPath, Version)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, logger, nil
}

// newLogger returns a console logger for local development and a JSON
// production logger everywhere else.
func newLogger(env string) (*zap.Logger, error) {
	if strings.EqualFold(env, "local") {
		logConfig := zap.NewDevelopmentConfig()
		logConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		return logConfig.Build()
	}
	return zap.NewProduction()
}

// migrateDatabase applies pending migrations through database/sql, which
// golang-migrate requires.
func migrateDatabase(cfg *config.Config, logger *zap.Logger) error {
	connStr := cfg.Database.ConnectionString()
	logger.Info("Running migrations", zap.String("database", logging.SanitizeConnectionString(connStr)))

	sqlDB, err := sql.Open("pgx", connStr)
	if err != nil {
		return fmt.Errorf("failed to open sql connection: %w", err)
	}
	defer sqlDB.Close()

	return database.RunMigrations(sqlDB, logger.Named("migrations"))
}

// openDatabase creates the pgx pool used for request handling.
func openDatabase(ctx context.Context, cfg *config.Config) (*database.DB, error) {
	return database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
		MinConnections: cfg.Database.MaxIdleConns,
	})
}
