package system

import (
	"github.com/l1jgo/bombarena/internal/component"
	coresys "github.com/l1jgo/bombarena/internal/core/system"
	"github.com/l1jgo/bombarena/internal/world"
)

// RoundEndSystem eliminates players standing in fire and decides whether
// the round is over. Phase 6 (RoundEnd).
type RoundEndSystem struct{}

func NewRoundEndSystem() *RoundEndSystem { return &RoundEndSystem{} }

func (RoundEndSystem) Phase() coresys.Phase { return coresys.PhaseRoundEnd }

func (RoundEndSystem) Update(s *world.State) {
	for _, id := range s.PlayerEntities() {
		p, pos := s.Player(id)
		if !p.Alive {
			continue
		}
		flameID, burning := s.FlameAt(*pos)
		if !burning {
			continue
		}
		f, _ := s.Flames.Get(flameID)
		tick := s.Tick
		p.Alive = false
		p.EliminatedAtTick = &tick
		p.Desired = component.DirNone
		p.Segment.Active = false
		s.Emit(world.PlayerEliminated{PlayerID: p.PlayerID, Position: *pos, KilledBy: f.Owner})
	}

	// with nobody left alive the round runs on to the tick cap
	switch {
	case s.AlivePlayers() == 1:
		s.Finish(world.ReasonLastPlayerStanding, lastStanding(s))
	case s.Tick >= s.Rules.MaxTicks:
		s.Finish(world.ReasonTickLimit, "")
	}
}

func lastStanding(s *world.State) string {
	for _, id := range s.PlayerEntities() {
		if p, _ := s.Player(id); p.Alive {
			return p.PlayerID
		}
	}
	return ""
}
