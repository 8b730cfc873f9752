package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/l1jgo/bombarena/internal/arena"
	"github.com/l1jgo/bombarena/internal/config"
	"github.com/l1jgo/bombarena/internal/replay"
)

func TestNewLogger(t *testing.T) {
	log, err := newLogger(config.LoggingConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))

	log, err = newLogger(config.LoggingConfig{Level: "nonsense", Format: "json"})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
}

func TestWithTickCap(t *testing.T) {
	tl := &replay.Timeline{Ticks: 80, Options: map[string]string{arena.OptionMovement: "true_transit"}}
	capped := withTickCap(tl)
	assert.Equal(t, "80", capped.Options[arena.OptionMaxTicks])
	assert.Equal(t, "true_transit", capped.Options[arena.OptionMovement])
	assert.NotContains(t, tl.Options, arena.OptionMaxTicks, "original untouched")

	tl.Options[arena.OptionMaxTicks] = "40"
	assert.Equal(t, "40", withTickCap(tl).Options[arena.OptionMaxTicks])
	tl.Options[arena.OptionMaxTicks] = "4000"
	assert.Equal(t, "80", withTickCap(tl).Options[arena.OptionMaxTicks])
}

func TestCommandsRegistered(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"run", "serve", "verify", "leaderboard", "games"})
}

func TestSplitPlayers(t *testing.T) {
	assert.Equal(t, []string{"alice", "bob"}, splitPlayers(" alice, ,bob,"))
	assert.Nil(t, splitPlayers(""))
}
