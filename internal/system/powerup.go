package system

import (
	"github.com/l1jgo/bombarena/internal/component"
	"github.com/l1jgo/bombarena/internal/core/assert"
	coresys "github.com/l1jgo/bombarena/internal/core/system"
	"github.com/l1jgo/bombarena/internal/world"
)

// PowerupSystem lets alive players collect the powerup on their logical
// tile. Players are visited in original order, so the first one wins a
// shared tile. Phase 5 (Powerup).
type PowerupSystem struct{}

func NewPowerupSystem() *PowerupSystem { return &PowerupSystem{} }

func (PowerupSystem) Phase() coresys.Phase { return coresys.PhasePowerup }

func (PowerupSystem) Update(s *world.State) {
	for _, id := range s.PlayerEntities() {
		p, pos := s.Player(id)
		if !p.Alive {
			continue
		}
		puID, ok := s.PowerupAt(*pos)
		if !ok {
			continue
		}
		pu, _ := s.Powerups.Get(puID)
		kind := pu.Kind
		applyPowerup(s.Rules, p, kind)
		s.World.DestroyEntity(puID)
		s.Emit(world.PowerupCollected{PlayerID: p.PlayerID, Position: *pos, Kind: kind})
	}
}

// applyPowerup raises an ability up to its cap. A speed change applies to
// the next segment; a running cooldown is clamped to the new duration.
func applyPowerup(r world.Rules, p *component.Player, kind component.PowerupKind) {
	a := &p.Abilities
	switch kind {
	case component.PowerupBombUp:
		a.BombLimit = min(a.BombLimit+1, r.MaxBombLimit)
	case component.PowerupFireUp:
		a.BlastRadius = min(a.BlastRadius+1, r.MaxBlastRadius)
	case component.PowerupSpeedUp:
		a.SpeedTier = min(a.SpeedTier+1, r.MaxSpeedTier)
	case component.PowerupRemote:
		a.Remote = true
	case component.PowerupKick:
		a.Kick = true
	case component.PowerupThrow:
		a.Throw = true
	default:
		assert.Fail("unknown powerup kind %d", kind)
	}
	p.MoveTicks = r.MoveTicks(a.SpeedTier)
	p.Cooldown = min(p.Cooldown, p.MoveTicks)
}
