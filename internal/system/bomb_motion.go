package system

import (
	"github.com/l1jgo/bombarena/internal/component"
	coresys "github.com/l1jgo/bombarena/internal/core/system"
	"github.com/l1jgo/bombarena/internal/world"
)

// BombMotionSystem advances kicked bombs one tile per BombSlideTicks.
// A bomb stops in front of a wall, block, bomb or alive player.
// Phase 3 (BombMotion).
type BombMotionSystem struct{}

func NewBombMotionSystem() *BombMotionSystem { return &BombMotionSystem{} }

func (BombMotionSystem) Phase() coresys.Phase { return coresys.PhaseBombMotion }

func (BombMotionSystem) Update(s *world.State) {
	for _, id := range s.World.Query(s.Bombs, s.Positions) {
		b, _ := s.Bombs.Get(id)
		if b.Slide == component.DirNone {
			continue
		}
		if b.SlideCooldown > 0 {
			b.SlideCooldown--
			continue
		}
		pos, _ := s.Positions.Get(id)
		next := pos.Step(b.Slide)
		if s.BlockedForBomb(next) {
			b.Slide = component.DirNone
			continue
		}
		*pos = next
		b.OwnerCanPass = false
		b.SlideCooldown = s.Rules.BombSlideTicks - 1
	}
}
