package world

import (
	"fmt"

	"github.com/l1jgo/bombarena/internal/component"
)

// Config is everything a match is created from. Together with the input
// timeline it fully determines the match.
type Config struct {
	Players  []string
	Movement MovementModel
	Rules    Rules
	Seed     uint32
}

// New builds the Simulation State: validates the config, spawns players
// in input order, then places soft blocks from the seed.
func New(cfg Config) (*State, error) {
	if err := cfg.Rules.Validate(); err != nil {
		return nil, err
	}
	if _, err := ParseMovementModel(string(cfg.Movement)); err != nil {
		return nil, err
	}
	n := len(cfg.Players)
	if n < cfg.Rules.MinPlayers || n > cfg.Rules.MaxPlayers {
		return nil, fmt.Errorf("%w: got %d, want %d..%d", ErrPlayerCount, n, cfg.Rules.MinPlayers, cfg.Rules.MaxPlayers)
	}
	seen := make(map[string]bool, n)
	for _, id := range cfg.Players {
		if id == "" || seen[id] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePlayer, id)
		}
		seen[id] = true
	}

	s := newState(cfg.Rules, cfg.Movement, cfg.Seed)
	s.spawnPlayers(cfg.Players)
	s.placeBlocks()
	return s, nil
}

func (s *State) spawnPlayers(ids []string) {
	spawns := s.Grid.Spawns()
	moveTicks := s.Rules.MoveTicks(0)
	for i, pid := range ids {
		e := s.World.CreateEntity()
		at := spawns[i]
		s.Positions.Add(e, at)
		s.Players.Add(e, component.Player{
			PlayerID:  pid,
			Order:     i,
			Alive:     true,
			Facing:    component.DirDown,
			MoveTicks: moveTicks,
			Abilities: component.Abilities{
				BombLimit:   s.Rules.StartBombLimit,
				BlastRadius: s.Rules.StartBlastRadius,
			},
			RenderX: float64(at.X),
			RenderY: float64(at.Y),
		})
		s.playerIndex[pid] = e
		s.playerOrder = append(s.playerOrder, e)
	}
}

// placeBlocks draws one float per candidate tile in row-major order. The
// layout is a pure function of the seed and the rules.
func (s *State) placeBlocks() {
	g := s.Grid
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			p := component.Position{X: x, Y: y}
			if g.IsWall(p) || g.spawnProtected(p) {
				continue
			}
			if s.Rand.NextFloat() < s.Rules.BlockDensity {
				e := s.World.CreateEntity()
				s.Positions.Add(e, p)
				s.Blocks.Add(e, component.Block{})
			}
		}
	}
}

// BlockLayout lists soft block tiles in creation order.
func (s *State) BlockLayout() []component.Position {
	var out []component.Position
	for _, id := range s.World.Query(s.Blocks, s.Positions) {
		pos, _ := s.Positions.Get(id)
		out = append(out, *pos)
	}
	return out
}
