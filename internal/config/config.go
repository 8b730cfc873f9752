package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/l1jgo/bombarena/internal/world"
)

type Config struct {
	Server    ServerConfig    `toml:"server"`
	Arena     ArenaConfig     `toml:"arena"`
	Database  DatabaseConfig  `toml:"database"`
	Logging   LoggingConfig   `toml:"logging"`
	Sentry    SentryConfig    `toml:"sentry"`
	Scripting ScriptingConfig `toml:"scripting"`
	Data      DataConfig      `toml:"data"`
}

type ServerConfig struct {
	Name     string `toml:"name"`
	TickRate int    `toml:"tick_rate"` // ticks per second

	BindAddress  string `toml:"bind_address"`
	InQueueSize  int    `toml:"in_queue_size"`
	OutQueueSize int    `toml:"out_queue_size"`
	MaxMsgPerSec int    `toml:"max_msg_per_sec"` // 0 disables the limit
}

// TickInterval is the wall-clock time between two ticks.
func (s ServerConfig) TickInterval() time.Duration {
	if s.TickRate <= 0 {
		return time.Second / 20
	}
	return time.Second / time.Duration(s.TickRate)
}

// ArenaConfig overrides bomberman rule constants. The powerup table comes
// from [data], not from here.
type ArenaConfig struct {
	Width            int     `toml:"width"`
	Height           int     `toml:"height"`
	MinPlayers       int     `toml:"min_players"`
	MaxPlayers       int     `toml:"max_players"`
	BlockDensity     float64 `toml:"block_density"`
	DropChance       float64 `toml:"drop_chance"`
	FuseTicks        int     `toml:"fuse_ticks"`
	FlameTicks       int     `toml:"flame_ticks"`
	BaseMoveTicks    int     `toml:"base_move_ticks"`
	MinMoveTicks     int     `toml:"min_move_ticks"`
	BombSlideTicks   int     `toml:"bomb_slide_ticks"`
	ThrowDistance    int     `toml:"throw_distance"`
	MaxTicks         uint64  `toml:"max_ticks"`
	StartBombLimit   int     `toml:"start_bomb_limit"`
	StartBlastRadius int     `toml:"start_blast_radius"`
	MaxBombLimit     int     `toml:"max_bomb_limit"`
	MaxBlastRadius   int     `toml:"max_blast_radius"`
	MaxSpeedTier     int     `toml:"max_speed_tier"`
}

// Rules builds world rules with the given powerup weights.
func (a ArenaConfig) Rules(powerups []world.PowerupWeight) world.Rules {
	return world.Rules{
		Width:            a.Width,
		Height:           a.Height,
		MinPlayers:       a.MinPlayers,
		MaxPlayers:       a.MaxPlayers,
		BlockDensity:     a.BlockDensity,
		DropChance:       a.DropChance,
		Powerups:         powerups,
		FuseTicks:        a.FuseTicks,
		FlameTicks:       a.FlameTicks,
		BaseMoveTicks:    a.BaseMoveTicks,
		MinMoveTicks:     a.MinMoveTicks,
		BombSlideTicks:   a.BombSlideTicks,
		ThrowDistance:    a.ThrowDistance,
		MaxTicks:         a.MaxTicks,
		StartBombLimit:   a.StartBombLimit,
		StartBlastRadius: a.StartBlastRadius,
		MaxBombLimit:     a.MaxBombLimit,
		MaxBlastRadius:   a.MaxBlastRadius,
		MaxSpeedTier:     a.MaxSpeedTier,
	}
}

type DatabaseConfig struct {
	Driver          string        `toml:"driver"` // "postgres", "sqlite" or "none"
	DSN             string        `toml:"dsn"`
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type SentryConfig struct {
	DSN          string        `toml:"dsn"` // empty disables reporting
	Environment  string        `toml:"environment"`
	FlushTimeout time.Duration `toml:"flush_timeout"`
}

type ScriptingConfig struct {
	Dir string `toml:"dir"`
}

type DataConfig struct {
	PowerupTable string `toml:"powerup_table"` // empty uses the embedded table
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the built-in configuration used when no file exists.
func Default() *Config {
	return defaults()
}

func defaults() *Config {
	r := world.DefaultRules()
	return &Config{
		Server: ServerConfig{
			Name:         "bombarena",
			TickRate:     20,
			BindAddress:  "0.0.0.0:7100",
			InQueueSize:  64,
			OutQueueSize: 512,
			MaxMsgPerSec: 60,
		},
		Arena: ArenaConfig{
			Width:            r.Width,
			Height:           r.Height,
			MinPlayers:       r.MinPlayers,
			MaxPlayers:       r.MaxPlayers,
			BlockDensity:     r.BlockDensity,
			DropChance:       r.DropChance,
			FuseTicks:        r.FuseTicks,
			FlameTicks:       r.FlameTicks,
			BaseMoveTicks:    r.BaseMoveTicks,
			MinMoveTicks:     r.MinMoveTicks,
			BombSlideTicks:   r.BombSlideTicks,
			ThrowDistance:    r.ThrowDistance,
			MaxTicks:         r.MaxTicks,
			StartBombLimit:   r.StartBombLimit,
			StartBlastRadius: r.StartBlastRadius,
			MaxBombLimit:     r.MaxBombLimit,
			MaxBlastRadius:   r.MaxBlastRadius,
			MaxSpeedTier:     r.MaxSpeedTier,
		},
		Database: DatabaseConfig{
			Driver:          "none",
			DSN:             "",
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Sentry: SentryConfig{
			Environment:  "development",
			FlushTimeout: 2 * time.Second,
		},
		Scripting: ScriptingConfig{
			Dir: "scripts",
		},
	}
}
