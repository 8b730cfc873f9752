package system

import (
	coresys "github.com/l1jgo/bombarena/internal/core/system"
	"github.com/l1jgo/bombarena/internal/world"
)

// NewPipeline registers the fixed tick pipeline for one match:
// input, movement, bomb, bomb motion, flame, powerup, round end.
func NewPipeline(model world.MovementModel) (*coresys.Runner[*world.State], error) {
	strategy, err := NewStrategy(model)
	if err != nil {
		return nil, err
	}
	r := coresys.NewRunner[*world.State]()
	r.Register(NewInputSystem())
	r.Register(NewMovementSystem(strategy))
	r.Register(NewBombSystem())
	r.Register(NewBombMotionSystem())
	r.Register(NewFlameSystem())
	r.Register(NewPowerupSystem())
	r.Register(NewRoundEndSystem())
	return r, nil
}
