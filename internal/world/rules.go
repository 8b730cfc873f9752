package world

import (
	"errors"
	"fmt"

	"github.com/l1jgo/bombarena/internal/component"
)

var (
	ErrPlayerCount     = errors.New("world: player count out of range")
	ErrDuplicatePlayer = errors.New("world: duplicate player id")
	ErrMovementModel   = errors.New("world: unknown movement model")
	ErrRules           = errors.New("world: invalid rules")
)

// MovementModel selects the movement strategy for a match.
type MovementModel string

const (
	MovementGridSmooth  MovementModel = "grid_smooth"
	MovementTrueTransit MovementModel = "true_transit"
)

func ParseMovementModel(s string) (MovementModel, error) {
	switch MovementModel(s) {
	case MovementGridSmooth, MovementTrueTransit:
		return MovementModel(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrMovementModel, s)
	}
}

// PowerupWeight is one entry of the weighted drop table.
type PowerupWeight struct {
	Kind   component.PowerupKind
	Weight int
}

// Rules are the match constants. They are part of the deterministic input:
// two runs only match when their rules match.
type Rules struct {
	Width  int
	Height int

	MinPlayers int
	MaxPlayers int

	BlockDensity float64
	DropChance   float64
	Powerups     []PowerupWeight

	FuseTicks      int
	FlameTicks     int
	BaseMoveTicks  int
	MinMoveTicks   int
	BombSlideTicks int
	ThrowDistance  int
	MaxTicks       uint64

	StartBombLimit   int
	StartBlastRadius int
	MaxBombLimit     int
	MaxBlastRadius   int
	MaxSpeedTier     int
}

func DefaultRules() Rules {
	return Rules{
		Width:        15,
		Height:       13,
		MinPlayers:   2,
		MaxPlayers:   4,
		BlockDensity: 0.70,
		DropChance:   0.30,
		Powerups: []PowerupWeight{
			{Kind: component.PowerupBombUp, Weight: 30},
			{Kind: component.PowerupFireUp, Weight: 30},
			{Kind: component.PowerupSpeedUp, Weight: 20},
			{Kind: component.PowerupRemote, Weight: 6},
			{Kind: component.PowerupKick, Weight: 8},
			{Kind: component.PowerupThrow, Weight: 6},
		},
		FuseTicks:        60,
		FlameTicks:       10,
		BaseMoveTicks:    4,
		MinMoveTicks:     1,
		BombSlideTicks:   2,
		ThrowDistance:    3,
		MaxTicks:         3600,
		StartBombLimit:   1,
		StartBlastRadius: 1,
		MaxBombLimit:     8,
		MaxBlastRadius:   8,
		MaxSpeedTier:     3,
	}
}

// Validate rejects rule sets that cannot produce a playable map.
func (r Rules) Validate() error {
	switch {
	case r.Width < 5 || r.Height < 5:
		return fmt.Errorf("%w: map %dx%d is smaller than 5x5", ErrRules, r.Width, r.Height)
	case r.Width%2 == 0 || r.Height%2 == 0:
		return fmt.Errorf("%w: map dimensions must be odd, got %dx%d", ErrRules, r.Width, r.Height)
	case r.MinPlayers < 2 || r.MaxPlayers > len(spawnCorners) || r.MinPlayers > r.MaxPlayers:
		return fmt.Errorf("%w: player bounds %d..%d", ErrRules, r.MinPlayers, r.MaxPlayers)
	case r.BlockDensity < 0 || r.BlockDensity > 1 || r.DropChance < 0 || r.DropChance > 1:
		return fmt.Errorf("%w: probabilities must be within [0,1]", ErrRules)
	case r.FuseTicks < 1 || r.BombSlideTicks < 1:
		return fmt.Errorf("%w: timers must be positive", ErrRules)
	case r.FlameTicks < 2:
		// a flame burns down once on the tick it appears, before eliminations
		return fmt.Errorf("%w: flame ticks must be at least 2, got %d", ErrRules, r.FlameTicks)
	case r.MinMoveTicks < 1 || r.BaseMoveTicks < r.MinMoveTicks:
		return fmt.Errorf("%w: move ticks base=%d min=%d", ErrRules, r.BaseMoveTicks, r.MinMoveTicks)
	case r.MaxTicks < 1:
		return fmt.Errorf("%w: max ticks must be positive", ErrRules)
	case r.StartBombLimit < 1 || r.StartBlastRadius < 1:
		return fmt.Errorf("%w: start bomb limit and blast radius must be positive", ErrRules)
	}
	total := 0
	for _, w := range r.Powerups {
		if w.Weight < 0 {
			return fmt.Errorf("%w: negative weight for %s", ErrRules, w.Kind)
		}
		total += w.Weight
	}
	if r.DropChance > 0 && total == 0 {
		return fmt.Errorf("%w: drop chance set but powerup table is empty", ErrRules)
	}
	return nil
}

// MoveTicks is the per-tile movement duration for a speed tier.
func (r Rules) MoveTicks(speedTier int) int {
	return max(r.MinMoveTicks, r.BaseMoveTicks-speedTier)
}
