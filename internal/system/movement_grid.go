package system

import (
	"github.com/l1jgo/bombarena/internal/component"
	"github.com/l1jgo/bombarena/internal/core/ecs"
	"github.com/l1jgo/bombarena/internal/world"
)

// GridSmooth moves the logical tile the moment the cooldown allows and
// emits movement-completed in that same tick. The segment it starts is
// only for render interpolation.
type GridSmooth struct{}

func (GridSmooth) Model() world.MovementModel { return world.MovementGridSmooth }

func (GridSmooth) Step(s *world.State, _ ecs.EntityID, p *component.Player, pos *component.Position) {
	advanceSegment(p)

	if p.Cooldown > 0 {
		p.Cooldown--
	}
	if p.Cooldown > 0 || p.Desired == component.DirNone {
		return
	}
	dest, ok := tryEnter(s, p, *pos, p.Desired)
	if !ok {
		return
	}
	from := *pos
	*pos = dest
	p.Cooldown = p.MoveTicks
	s.Emit(world.MovementCompleted{PlayerID: p.PlayerID, From: from, To: dest, Direction: p.Desired})

	startSegment(p, p.Desired, from, dest)
	advanceSegment(p)
}
