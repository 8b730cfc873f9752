package world

import (
	"github.com/l1jgo/bombarena/internal/component"
	"github.com/l1jgo/bombarena/internal/core/assert"
	"github.com/l1jgo/bombarena/internal/core/ecs"
	"github.com/l1jgo/bombarena/internal/core/event"
	"github.com/l1jgo/bombarena/internal/core/input"
	"github.com/l1jgo/bombarena/internal/core/rng"
	"github.com/l1jgo/bombarena/internal/game"
)

// Phase is the match lifecycle. It only moves in_progress → finished, once.
type Phase uint8

const (
	PhaseInProgress Phase = iota
	PhaseFinished
)

func (p Phase) String() string {
	if p == PhaseFinished {
		return "finished"
	}
	return "in_progress"
}

// State is the Simulation State of one match. It is owned exclusively by
// that match and accessed only from its tick goroutine, without locks.
type State struct {
	World     *ecs.World
	Positions *ecs.Store[component.Position]
	Players   *ecs.Store[component.Player]
	Bombs     *ecs.Store[component.Bomb]
	Flames    *ecs.Store[component.Flame]
	Blocks    *ecs.Store[component.Block]
	Powerups  *ecs.Store[component.Powerup]
	Drops     *ecs.Store[component.PendingDrop]

	Grid     *Grid
	Rules    Rules
	Movement MovementModel
	Rand     *rng.Source
	Inputs   *input.Queue[Input]
	Events   *event.Log[game.EventPayload]

	Tick      uint64
	Phase     Phase
	Winner    string
	EndReason RoundOverReason

	playerIndex map[string]ecs.EntityID
	playerOrder []ecs.EntityID
}

func newState(rules Rules, movement MovementModel, seed uint32) *State {
	w := ecs.NewWorld()
	return &State{
		World:       w,
		Positions:   ecs.NewStore[component.Position](w),
		Players:     ecs.NewStore[component.Player](w),
		Bombs:       ecs.NewStore[component.Bomb](w),
		Flames:      ecs.NewStore[component.Flame](w),
		Blocks:      ecs.NewStore[component.Block](w),
		Powerups:    ecs.NewStore[component.Powerup](w),
		Drops:       ecs.NewStore[component.PendingDrop](w),
		Grid:        NewGrid(rules.Width, rules.Height),
		Rules:       rules,
		Movement:    movement,
		Rand:        rng.New(seed),
		Inputs:      input.NewQueue[Input](),
		Events:      event.NewLog[game.EventPayload](),
		playerIndex: make(map[string]ecs.EntityID),
	}
}

// Emit appends an event stamped with the current tick.
func (s *State) Emit(p game.EventPayload) {
	s.Events.Append(s.Tick, p)
}

// Finish ends the round. Finishing twice is a contract violation.
func (s *State) Finish(reason RoundOverReason, winner string) {
	assert.True(s.Phase == PhaseInProgress, "round already finished at tick %d", s.Tick)
	s.Phase = PhaseFinished
	s.Winner = winner
	s.EndReason = reason
	s.Emit(RoundOver{Reason: reason, WinnerID: winner})
}

func (s *State) Finished() bool { return s.Phase == PhaseFinished }

// PlayerEntity looks up a player's entity by player ID.
func (s *State) PlayerEntity(playerID string) (ecs.EntityID, bool) {
	id, ok := s.playerIndex[playerID]
	return id, ok
}

// PlayerEntities returns every player entity in original player order.
// Player entities are never destroyed, so the list is stable.
func (s *State) PlayerEntities() []ecs.EntityID {
	return s.playerOrder
}

// Player returns the player component; the entity must be a player.
func (s *State) Player(id ecs.EntityID) (*component.Player, *component.Position) {
	p, ok := s.Players.Get(id)
	assert.True(ok, "entity %d is not a player", id)
	pos, ok := s.Positions.Get(id)
	assert.True(ok, "player entity %d has no position", id)
	return p, pos
}

// AlivePlayers counts players still in the round.
func (s *State) AlivePlayers() int {
	n := 0
	for _, id := range s.playerOrder {
		if p, _ := s.Players.Get(id); p.Alive {
			n++
		}
	}
	return n
}

// entityAt returns the first member of store standing on p, in creation
// order. The grid is small and fixed, so a scan is enough.
func entityAt[T any](s *State, store *ecs.Store[T], p component.Position) (ecs.EntityID, bool) {
	for _, id := range s.World.Query(store, s.Positions) {
		if pos, _ := s.Positions.Get(id); *pos == p {
			return id, true
		}
	}
	return ecs.NilEntity, false
}

func (s *State) BombAt(p component.Position) (ecs.EntityID, bool) {
	return entityAt(s, s.Bombs, p)
}

func (s *State) BlockAt(p component.Position) (ecs.EntityID, bool) {
	return entityAt(s, s.Blocks, p)
}

func (s *State) FlameAt(p component.Position) (ecs.EntityID, bool) {
	return entityAt(s, s.Flames, p)
}

func (s *State) PowerupAt(p component.Position) (ecs.EntityID, bool) {
	return entityAt(s, s.Powerups, p)
}

// AlivePlayerAt reports whether an alive player's logical tile is p.
func (s *State) AlivePlayerAt(p component.Position) bool {
	for _, id := range s.playerOrder {
		pl, pos := s.Player(id)
		if pl.Alive && *pos == p {
			return true
		}
	}
	return false
}

// Walkable reports whether mover may enter p: inside the map, no wall, no
// soft block, and no bomb unless mover owns it and still has pass-over.
// Players never block players.
func (s *State) Walkable(p component.Position, mover string) bool {
	if s.Grid.IsWall(p) {
		return false
	}
	if _, ok := s.BlockAt(p); ok {
		return false
	}
	if id, ok := s.BombAt(p); ok {
		b, _ := s.Bombs.Get(id)
		return b.OwnerCanPass && b.Owner == mover
	}
	return true
}

// BlockedForBomb reports whether a sliding or thrown bomb cannot occupy p.
func (s *State) BlockedForBomb(p component.Position) bool {
	if s.Grid.IsWall(p) {
		return true
	}
	if _, ok := s.BlockAt(p); ok {
		return true
	}
	if _, ok := s.BombAt(p); ok {
		return true
	}
	return s.AlivePlayerAt(p)
}
