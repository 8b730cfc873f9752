package system

import (
	"github.com/l1jgo/bombarena/internal/component"
	"github.com/l1jgo/bombarena/internal/core/ecs"
	"github.com/l1jgo/bombarena/internal/world"
)

// TrueTransit moves through a multi-tick segment. The logical tile and the
// movement-completed event only change when the segment finishes; until
// then the render position carries the fractional coordinate.
type TrueTransit struct{}

func (TrueTransit) Model() world.MovementModel { return world.MovementTrueTransit }

func (TrueTransit) Step(s *world.State, _ ecs.EntityID, p *component.Player, pos *component.Position) {
	if !p.Segment.Active && p.Desired != component.DirNone {
		if dest, ok := tryEnter(s, p, *pos, p.Desired); ok {
			// duration is fixed here; later speed changes only affect the next segment
			startSegment(p, p.Desired, *pos, dest)
		}
	}
	if !advanceSegment(p) {
		return
	}
	from := *pos
	*pos = p.Segment.Dest
	s.Emit(world.MovementCompleted{PlayerID: p.PlayerID, From: from, To: *pos, Direction: p.Segment.Dir})
}
