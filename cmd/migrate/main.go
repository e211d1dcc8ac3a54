package main

import (
	"errors"
	"flag"
	"os"
	"redcable_club/internal/pkg/config"
	"redcable_club/pkg/database"
	"redcable_club/pkg/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

func main() {
	action := flag.String("action", "up", "up | down | version")
	steps := flag.Int("steps", 0, "number of migrations to apply for up/down, 0 means all")
	source := flag.String("path", "migrations", "migration files directory")
	fixDirty := flag.Bool("fix-dirty", false, "roll back the dirty marker and retry once")
	flag.Parse()

	config.LoadConfig()
	cfg := config.GlobalConfig
	if err := logger.Init(cfg.App.Env, cfg.App.Debug); err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	m, err := migrate.New("file://"+*source, database.MigrateURL(cfg.Database))
	if err != nil {
		logger.Log.Fatal("failed to open migrations", zap.Error(err))
	}
	defer m.Close()

	if *action == "version" {
		version, dirty, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			logger.Log.Fatal("failed to read version", zap.Error(err))
		}
		logger.Log.Info("current version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		return
	}

	err = run(m, *action, *steps)
	var dirty migrate.ErrDirty
	if errors.As(err, &dirty) && *fixDirty {
		// 回退脏版本标记后重试一次
		target := dirty.Version - 1
		if target == 0 {
			target = -1
		}
		logger.Log.Warn("database is dirty, forcing version", zap.Int("dirty", dirty.Version), zap.Int("force", target))
		if err := m.Force(target); err != nil {
			logger.Log.Fatal("failed to force version", zap.Error(err))
		}
		err = run(m, *action, *steps)
	}
	if err != nil {
		logger.Log.Fatal("migration failed", zap.String("action", *action), zap.Error(err))
	}

	logger.Log.Info("migration successful", zap.String("action", *action))
}

func run(m *migrate.Migrate, action string, steps int) error {
	var err error
	switch {
	case action == "up" && steps > 0:
		err = m.Steps(steps)
	case action == "up":
		err = m.Up()
	case action == "down" && steps > 0:
		err = m.Steps(-steps)
	case action == "down":
		err = m.Down()
	default:
		return errors.New("unknown action " + action)
	}
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}
