package system

import (
	"github.com/l1jgo/bombarena/internal/component"
	"github.com/l1jgo/bombarena/internal/core/assert"
	coresys "github.com/l1jgo/bombarena/internal/core/system"
	"github.com/l1jgo/bombarena/internal/world"
)

// InputSystem drains the inputs due this tick into player intents.
// Phase 0 (Input). Inputs for eliminated players are dropped.
type InputSystem struct{}

func NewInputSystem() *InputSystem { return &InputSystem{} }

func (InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (InputSystem) Update(s *world.State) {
	for _, e := range s.Inputs.DrainReady(s.Tick) {
		id, ok := s.PlayerEntity(e.PlayerID)
		assert.True(ok, "queued input for unknown player %q", e.PlayerID)
		p, _ := s.Player(id)
		if !p.Alive {
			continue
		}
		switch e.Input.Kind {
		case world.InputMove:
			p.Desired = e.Input.Direction
			p.Facing = e.Input.Direction
		case world.InputStop:
			p.Desired = component.DirNone
		case world.InputPlaceBomb:
			p.WantBomb = true
		case world.InputDetonate:
			p.WantDetonate = true
		case world.InputThrow:
			p.WantThrow = true
		default:
			assert.Fail("unhandled input kind %d", e.Input.Kind)
		}
	}
}
