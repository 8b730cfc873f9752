package system

import (
	"github.com/l1jgo/bombarena/internal/component"
	"github.com/l1jgo/bombarena/internal/core/ecs"
	coresys "github.com/l1jgo/bombarena/internal/core/system"
	"github.com/l1jgo/bombarena/internal/world"
)

// BombSystem turns bomb intents into bombs, clears owner pass-over, runs
// fuses and resolves detonations. Phase 2 (Bomb).
type BombSystem struct{}

func NewBombSystem() *BombSystem { return &BombSystem{} }

func (BombSystem) Phase() coresys.Phase { return coresys.PhaseBomb }

func (BombSystem) Update(s *world.State) {
	for _, id := range s.PlayerEntities() {
		p, pos := s.Player(id)
		if p.Alive {
			if p.WantBomb {
				placeBomb(s, p, *pos)
			}
			if p.WantDetonate && p.Abilities.Remote {
				if bombID, ok := oldestBomb(s, p.PlayerID); ok {
					Detonate(s, bombID, false)
				}
			}
			if p.WantThrow && p.Abilities.Throw {
				throwBomb(s, p, *pos)
			}
		}
		p.WantBomb, p.WantDetonate, p.WantThrow = false, false, false
	}

	clearPassOver(s)

	for _, id := range s.World.Query(s.Bombs) {
		b, ok := s.Bombs.Get(id)
		if !ok {
			// already taken by a chain this tick
			continue
		}
		if b.PlacedTick == s.Tick {
			continue
		}
		b.Fuse--
		if b.Fuse <= 0 {
			Detonate(s, id, false)
		}
	}
}

func ownedBombs(s *world.State, owner string) []ecs.EntityID {
	var out []ecs.EntityID
	for _, id := range s.World.Query(s.Bombs) {
		if b, _ := s.Bombs.Get(id); b.Owner == owner {
			out = append(out, id)
		}
	}
	return out
}

func oldestBomb(s *world.State, owner string) (ecs.EntityID, bool) {
	owned := ownedBombs(s, owner)
	if len(owned) == 0 {
		return ecs.NilEntity, false
	}
	return owned[0], true
}

func placeBomb(s *world.State, p *component.Player, at component.Position) {
	if len(ownedBombs(s, p.PlayerID)) >= p.Abilities.BombLimit {
		return
	}
	if _, taken := s.BombAt(at); taken {
		return
	}
	e := s.World.CreateEntity()
	s.Positions.Add(e, at)
	s.Bombs.Add(e, component.Bomb{
		Owner:        p.PlayerID,
		Fuse:         s.Rules.FuseTicks,
		Radius:       p.Abilities.BlastRadius,
		OwnerCanPass: true,
		PlacedTick:   s.Tick,
	})
	s.Emit(world.BombPlaced{PlayerID: p.PlayerID, Position: at, Fuse: s.Rules.FuseTicks, Radius: p.Abilities.BlastRadius})
}

// throwBomb lifts the bomb under the player and lands it ThrowDistance
// tiles ahead, sliding further while the landing tile is occupied. A throw
// that would leave the map is cancelled.
func throwBomb(s *world.State, p *component.Player, at component.Position) {
	bombID, ok := s.BombAt(at)
	if !ok || p.Facing == component.DirNone {
		return
	}
	landing := at
	for i := 0; i < s.Rules.ThrowDistance; i++ {
		landing = landing.Step(p.Facing)
	}
	for s.Grid.InBounds(landing) && s.BlockedForBomb(landing) {
		landing = landing.Step(p.Facing)
	}
	if !s.Grid.InBounds(landing) {
		return
	}
	b, _ := s.Bombs.Get(bombID)
	pos, _ := s.Positions.Get(bombID)
	*pos = landing
	b.OwnerCanPass = false
	b.Slide = component.DirNone
	s.Emit(world.BombThrown{PlayerID: p.PlayerID, From: at, To: landing})
}

// clearPassOver drops the owner's pass-over once the owner has left the
// bomb's tile. It never comes back.
func clearPassOver(s *world.State) {
	for _, id := range s.World.Query(s.Bombs, s.Positions) {
		b, _ := s.Bombs.Get(id)
		if !b.OwnerCanPass {
			continue
		}
		pos, _ := s.Positions.Get(id)
		ownerID, ok := s.PlayerEntity(b.Owner)
		if !ok {
			b.OwnerCanPass = false
			continue
		}
		owner, ownerPos := s.Player(ownerID)
		if !owner.Alive || *ownerPos != *pos {
			b.OwnerCanPass = false
		}
	}
}

// Detonate explodes a bomb: the centre and up to Radius tiles in each
// direction catch fire. Walls stop a ray. A soft block is destroyed and
// stops the ray. Another bomb stops the ray and detonates immediately,
// depth-first, so chains fully resolve inside the calling tick.
func Detonate(s *world.State, bombID ecs.EntityID, chained bool) {
	b, ok := s.Bombs.Get(bombID)
	if !ok {
		return
	}
	pos, _ := s.Positions.Get(bombID)
	bomb, center := *b, *pos
	// gone before the rays run so a chain cannot come back to it
	s.World.DestroyEntity(bombID)
	s.Emit(world.BombExploded{PlayerID: bomb.Owner, Position: center, Radius: bomb.Radius, Chained: chained})

	ignite(s, center, bomb.Owner)
	for _, d := range component.Directions {
		at := center
		for i := 1; i <= bomb.Radius; i++ {
			at = at.Step(d)
			if s.Grid.IsWall(at) {
				break
			}
			if blockID, ok := s.BlockAt(at); ok {
				ignite(s, at, bomb.Owner)
				s.World.DestroyEntity(blockID)
				s.Emit(world.BlockDestroyed{Position: at, PlayerID: bomb.Owner})
				rollDrop(s, at)
				break
			}
			if otherID, ok := s.BombAt(at); ok {
				ignite(s, at, bomb.Owner)
				Detonate(s, otherID, true)
				break
			}
			ignite(s, at, bomb.Owner)
		}
	}
}

// ignite puts a flame on p or refreshes the one already there.
func ignite(s *world.State, p component.Position, owner string) {
	if id, ok := s.FlameAt(p); ok {
		f, _ := s.Flames.Get(id)
		f.Remaining = s.Rules.FlameTicks
		f.Owner = owner
		return
	}
	e := s.World.CreateEntity()
	s.Positions.Add(e, p)
	s.Flames.Add(e, component.Flame{Remaining: s.Rules.FlameTicks, Owner: owner})
}

// rollDrop draws the drop chance for a destroyed block and, on a hit, a
// weighted kind. The drop is revealed once the tile's flame has gone.
func rollDrop(s *world.State, p component.Position) {
	if s.Rand.NextFloat() >= s.Rules.DropChance {
		return
	}
	kind, ok := pickPowerup(s.Rules.Powerups, s.Rand.NextUint32())
	if !ok {
		return
	}
	e := s.World.CreateEntity()
	s.Positions.Add(e, p)
	s.Drops.Add(e, component.PendingDrop{Kind: kind})
}

func pickPowerup(table []world.PowerupWeight, draw uint32) (component.PowerupKind, bool) {
	total := 0
	for _, w := range table {
		total += w.Weight
	}
	if total == 0 {
		return 0, false
	}
	r := int(draw % uint32(total))
	for _, w := range table {
		if r < w.Weight {
			return w.Kind, true
		}
		r -= w.Weight
	}
	return 0, false
}
