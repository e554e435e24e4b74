package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/ogurasousui/codex-employee-api/internal/platform/config"
	"github.com/ogurasousui/codex-employee-api/internal/platform/logger"
)

func main() {
	var (
		configPath    = flag.String("config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
		migrationsDir = flag.String("dir", "assets/migrations", "directory containing migration files")
	)
	flag.Parse()

	action := "up"
	if flag.NArg() > 0 {
		action = flag.Arg(0)
	}

	ctx := context.Background()

	if err := config.LoadDotEnv(".env"); err != nil {
		fatal(ctx, err, "failed to load .env")
	}

	cfgPath := effectiveConfigPath(*configPath)
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fatal(ctx, err, "failed to load config")
	}
	if cfg.Database.Driver != config.DriverPostgres {
		fatal(ctx, fmt.Errorf("database.driver is %q", cfg.Database.Driver), "migrations require the postgres driver")
	}

	if _, err := logger.Init(cfg.Log.Level, ""); err != nil {
		fatal(ctx, err, "failed to init logger")
	}

	if err := runMigration(ctx, action, *migrationsDir, cfg.Database.DSN()); err != nil {
		fatal(ctx, err, "migration %s failed", action)
	}

	logger.Info(ctx, "migration %s completed", action)
}

func fatal(ctx context.Context, err error, msg string, args ...any) {
	logger.Error(ctx, err, msg, args...)
	os.Exit(1)
}

func effectiveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("CONFIG_PATH"); env != "" {
		return env
	}
	return "assets/local.yaml"
}

func runMigration(ctx context.Context, action, dir, dsn string) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve path for %s: %w", dir, err)
	}
	absDir = filepath.ToSlash(absDir)

	m, err := migrate.New(fmt.Sprintf("file://%s", absDir), dsn)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	switch action {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		return nil
	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		return nil
	case "drop":
		return m.Drop()
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			if errors.Is(err, migrate.ErrNilVersion) {
				logger.Info(ctx, "no migration applied")
				return nil
			}
			return err
		}
		logger.Info(ctx, "version=%d dirty=%t", version, dirty)
		return nil
	default:
		return fmt.Errorf("unsupported action %q", action)
	}
}
