package system

import (
	"github.com/l1jgo/bombarena/internal/component"
	coresys "github.com/l1jgo/bombarena/internal/core/system"
	"github.com/l1jgo/bombarena/internal/world"
)

// FlameSystem burns flames down and reveals pending drops whose tile is
// clear of fire and of other powerups. Phase 4 (Flame).
type FlameSystem struct{}

func NewFlameSystem() *FlameSystem { return &FlameSystem{} }

func (FlameSystem) Phase() coresys.Phase { return coresys.PhaseFlame }

func (FlameSystem) Update(s *world.State) {
	for _, id := range s.World.Query(s.Flames) {
		f, _ := s.Flames.Get(id)
		f.Remaining--
		if f.Remaining <= 0 {
			s.World.DestroyEntity(id)
		}
	}

	for _, id := range s.World.Query(s.Drops, s.Positions) {
		pos, _ := s.Positions.Get(id)
		at := *pos
		if _, burning := s.FlameAt(at); burning {
			continue
		}
		if _, taken := s.PowerupAt(at); taken {
			continue
		}
		drop, _ := s.Drops.Get(id)
		kind := drop.Kind
		s.World.DestroyEntity(id)

		e := s.World.CreateEntity()
		s.Positions.Add(e, at)
		s.Powerups.Add(e, component.Powerup{Kind: kind})
		s.Emit(world.PowerupSpawned{Position: at, Kind: kind})
	}
}
