// Package arena is the bomberman game module. It wires world setup and the
// system pipeline behind the game.Module contract.
package arena

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/l1jgo/bombarena/internal/game"
	"github.com/l1jgo/bombarena/internal/system"
	"github.com/l1jgo/bombarena/internal/world"
)

const (
	GameID    = "bomberman"
	gameTitle = "Bomberman"

	OptionMovement = "movement"
	OptionMaxTicks = "max_ticks"
)

var (
	ErrPlayerCount   = world.ErrPlayerCount
	ErrMovementModel = world.ErrMovementModel
	ErrOption        = errors.New("arena: invalid option")
	ErrInput         = errors.New("arena: foreign input value")
)

// Module creates bomberman matches from a fixed rule set.
type Module struct {
	rules world.Rules
}

func NewModule(rules world.Rules) (*Module, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &Module{rules: rules}, nil
}

func (m *Module) ID() string    { return GameID }
func (m *Module) Title() string { return gameTitle }
func (m *Module) Rules() world.Rules {
	r := m.rules
	r.Powerups = append([]world.PowerupWeight(nil), m.rules.Powerups...)
	return r
}

// CreateGame builds a match. Options: movement (grid_smooth, true_transit)
// and max_ticks. Unknown options are rejected.
func (m *Module) CreateGame(cfg game.MatchConfig, seed uint32) (game.Instance, error) {
	rules := m.Rules()
	movement := world.MovementGridSmooth

	keys := make([]string, 0, len(cfg.Options))
	for k := range cfg.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := cfg.Options[k]
		switch k {
		case OptionMovement:
			mm, err := world.ParseMovementModel(v)
			if err != nil {
				return nil, err
			}
			movement = mm
		case OptionMaxTicks:
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil || n == 0 {
				return nil, fmt.Errorf("%w: %s=%q", ErrOption, k, v)
			}
			rules.MaxTicks = n
		default:
			return nil, fmt.Errorf("%w: unknown option %q", ErrOption, k)
		}
	}

	state, err := world.New(world.Config{
		Players:  cfg.Players,
		Movement: movement,
		Rules:    rules,
		Seed:     seed,
	})
	if err != nil {
		return nil, err
	}
	pipeline, err := system.NewPipeline(movement)
	if err != nil {
		return nil, err
	}
	return &Instance{state: state, pipeline: pipeline}, nil
}

// Register adds a bomberman module built from rules to reg.
func Register(reg *game.Registry, rules world.Rules) error {
	m, err := NewModule(rules)
	if err != nil {
		return err
	}
	return reg.Register(m)
}
