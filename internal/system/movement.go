package system

import (
	"fmt"

	"github.com/l1jgo/bombarena/internal/component"
	"github.com/l1jgo/bombarena/internal/core/ecs"
	coresys "github.com/l1jgo/bombarena/internal/core/system"
	"github.com/l1jgo/bombarena/internal/world"
)

// MovementStrategy is one movement model. Step must be a pure function of
// the state and the player's intent; there is no clock.
type MovementStrategy interface {
	Model() world.MovementModel
	Step(s *world.State, id ecs.EntityID, p *component.Player, pos *component.Position)
}

// NewStrategy returns the strategy for a model. There are exactly two.
func NewStrategy(model world.MovementModel) (MovementStrategy, error) {
	switch model {
	case world.MovementGridSmooth:
		return GridSmooth{}, nil
	case world.MovementTrueTransit:
		return TrueTransit{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", world.ErrMovementModel, model)
	}
}

// MovementSystem dispatches every alive player to the match's strategy.
// Phase 1 (Movement).
type MovementSystem struct {
	strategy MovementStrategy
}

func NewMovementSystem(strategy MovementStrategy) *MovementSystem {
	return &MovementSystem{strategy: strategy}
}

func (s *MovementSystem) Phase() coresys.Phase { return coresys.PhaseMovement }

func (s *MovementSystem) Update(st *world.State) {
	for _, id := range st.PlayerEntities() {
		p, pos := st.Player(id)
		if !p.Alive {
			continue
		}
		s.strategy.Step(st, id, p, pos)
	}
}

// tryEnter checks the tile in front of the player. A bomb there is kicked
// when the player can kick; the player then stays put.
func tryEnter(s *world.State, p *component.Player, pos component.Position, dir component.Direction) (component.Position, bool) {
	dest := pos.Step(dir)
	if s.Walkable(dest, p.PlayerID) {
		return dest, true
	}
	if !p.Abilities.Kick {
		return dest, false
	}
	if bombID, ok := s.BombAt(dest); ok {
		b, _ := s.Bombs.Get(bombID)
		if b.Slide != dir {
			b.Slide = dir
			b.SlideCooldown = 0
			s.Emit(world.BombKicked{PlayerID: p.PlayerID, Position: dest, Direction: dir})
		}
	}
	return dest, false
}

// advanceSegment moves the segment one tick forward and updates the render
// position. It reports whether the segment completed on this tick.
func advanceSegment(p *component.Player) bool {
	seg := &p.Segment
	if !seg.Active {
		return false
	}
	seg.Elapsed++
	p.RenderX = lerp(seg.Origin.X, seg.Dest.X, seg.Elapsed, seg.Duration)
	p.RenderY = lerp(seg.Origin.Y, seg.Dest.Y, seg.Elapsed, seg.Duration)
	if seg.Elapsed >= seg.Duration {
		seg.Active = false
		return true
	}
	return false
}

// lerp uses one integer numerator and one division so the result is exact
// and identical on every platform.
func lerp(from, to, elapsed, duration int) float64 {
	if elapsed >= duration {
		return float64(to)
	}
	return float64(from*duration+(to-from)*elapsed) / float64(duration)
}

func startSegment(p *component.Player, dir component.Direction, from, to component.Position) {
	p.Segment = component.Transit{
		Active:   true,
		Dir:      dir,
		Origin:   from,
		Dest:     to,
		Duration: p.MoveTicks,
	}
}
