package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/l1jgo/bombarena/internal/arena"
	"github.com/l1jgo/bombarena/internal/config"
	"github.com/l1jgo/bombarena/internal/data"
	"github.com/l1jgo/bombarena/internal/game"
)

const defaultConfigPath = "config/arena.toml"

// app is what every subcommand starts from.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	registry *game.Registry
}

func loadConfig() (*config.Config, error) {
	path := flagConfig
	if path == "" {
		path = os.Getenv("ARENA_CONFIG")
	}
	if path == "" {
		if _, err := os.Stat(defaultConfigPath); errors.Is(err, fs.ErrNotExist) {
			return config.Default(), nil
		}
		path = defaultConfigPath
	}
	return config.Load(path)
}

// newApp loads config, builds the logger, initializes Sentry and registers
// the games. The returned func flushes and syncs; always call it.
func newApp() (*app, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			ServerName:  cfg.Server.Name,
		}); err != nil {
			log.Sync()
			return nil, nil, fmt.Errorf("init sentry: %w", err)
		}
	}
	cleanup := func() {
		sentry.Flush(cfg.Sentry.FlushTimeout)
		log.Sync()
	}

	powerups, err := data.LoadPowerupTable(cfg.Data.PowerupTable)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	log.Debug("powerup table loaded", zap.Int("kinds", powerups.Count()), zap.Int("total_weight", powerups.TotalWeight()))

	reg := game.NewRegistry()
	if err := arena.Register(reg, cfg.Arena.Rules(powerups.Weights())); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("register %s: %w", arena.GameID, err)
	}

	return &app{cfg: cfg, log: log, registry: reg}, cleanup, nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
