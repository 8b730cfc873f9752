package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/bombarena/internal/world"
)

func TestDefaultsMatchRules(t *testing.T) {
	cfg := Default()
	def := world.DefaultRules()
	assert.Equal(t, def, cfg.Arena.Rules(def.Powerups))
	assert.Equal(t, 50*time.Millisecond, cfg.Server.TickInterval())
	assert.Equal(t, "none", cfg.Database.Driver)
	assert.Equal(t, "0.0.0.0:7100", cfg.Server.BindAddress)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
tick_rate = 10

[arena]
max_ticks = 600
fuse_ticks = 45

[database]
driver = "sqlite"
dsn = "arena.db"
conn_max_lifetime = "5m"

[sentry]
flush_timeout = "500ms"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 100*time.Millisecond, cfg.Server.TickInterval())
	assert.Equal(t, uint64(600), cfg.Arena.MaxTicks)
	assert.Equal(t, 45, cfg.Arena.FuseTicks)
	assert.Equal(t, 15, cfg.Arena.Width, "untouched keys keep defaults")
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 500*time.Millisecond, cfg.Sentry.FlushTimeout)
}

func TestShippedConfigLoads(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config", "arena.toml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Arena.Rules(world.DefaultRules().Powerups).Validate())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\n"), 0o644))
	_, err = Load(path)
	require.Error(t, err)
}
