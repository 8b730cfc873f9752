package arena

import (
	"encoding/binary"
	"math"

	"github.com/l1jgo/bombarena/internal/component"
	"github.com/l1jgo/bombarena/internal/game"
	"github.com/l1jgo/bombarena/internal/world"
)

type PlayerView struct {
	ID        string              `json:"id"`
	Tile      component.Position  `json:"tile"`
	X         float64             `json:"x"`
	Y         float64             `json:"y"`
	Alive     bool                `json:"alive"`
	Facing    string              `json:"facing"`
	InTransit bool                `json:"in_transit"`
	Abilities component.Abilities `json:"abilities"`
}

type BombView struct {
	Owner    string             `json:"owner"`
	Position component.Position `json:"position"`
	Fuse     int                `json:"fuse"`
	Radius   int                `json:"radius"`
	Sliding  string             `json:"sliding,omitempty"`
}

type FlameView struct {
	Position  component.Position `json:"position"`
	Remaining int                `json:"remaining"`
}

type PowerupView struct {
	Position component.Position `json:"position"`
	Kind     string             `json:"kind"`
}

// Snapshot is a materialized copy of the renderable state. Nothing in it
// aliases the live match.
type Snapshot struct {
	Tick     uint64               `json:"tick"`
	Phase    string               `json:"phase"`
	Players  []PlayerView         `json:"players"`
	Bombs    []BombView           `json:"bombs"`
	Flames   []FlameView          `json:"flames"`
	Blocks   []component.Position `json:"blocks"`
	Powerups []PowerupView        `json:"powerups"`
}

func (s *Snapshot) TickNumber() uint64 { return s.Tick }

func buildSnapshot(s *world.State) *Snapshot {
	snap := &Snapshot{Tick: s.Tick, Phase: s.Phase.String()}

	for _, id := range s.PlayerEntities() {
		p, pos := s.Player(id)
		snap.Players = append(snap.Players, PlayerView{
			ID:        p.PlayerID,
			Tile:      *pos,
			X:         p.RenderX,
			Y:         p.RenderY,
			Alive:     p.Alive,
			Facing:    p.Facing.String(),
			InTransit: p.Segment.Active,
			Abilities: p.Abilities,
		})
	}
	for _, id := range s.World.Query(s.Bombs, s.Positions) {
		b, _ := s.Bombs.Get(id)
		pos, _ := s.Positions.Get(id)
		v := BombView{Owner: b.Owner, Position: *pos, Fuse: b.Fuse, Radius: b.Radius}
		if b.Slide != component.DirNone {
			v.Sliding = b.Slide.String()
		}
		snap.Bombs = append(snap.Bombs, v)
	}
	for _, id := range s.World.Query(s.Flames, s.Positions) {
		f, _ := s.Flames.Get(id)
		pos, _ := s.Positions.Get(id)
		snap.Flames = append(snap.Flames, FlameView{Position: *pos, Remaining: f.Remaining})
	}
	snap.Blocks = s.BlockLayout()
	for _, id := range s.World.Query(s.Powerups, s.Positions) {
		pu, _ := s.Powerups.Get(id)
		pos, _ := s.Positions.Get(id)
		snap.Powerups = append(snap.Powerups, PowerupView{Position: *pos, Kind: pu.Kind.String()})
	}
	return snap
}

func appendPos(dst []byte, p component.Position) []byte {
	dst = game.AppendInt(dst, p.X)
	return game.AppendInt(dst, p.Y)
}

func appendFloat(dst []byte, f float64) []byte {
	return binary.LittleEndian.AppendUint64(dst, math.Float64bits(f))
}

func appendAbilities(dst []byte, a component.Abilities) []byte {
	dst = game.AppendInt(dst, a.BombLimit)
	dst = game.AppendInt(dst, a.BlastRadius)
	dst = game.AppendInt(dst, a.SpeedTier)
	dst = game.AppendBool(dst, a.Remote)
	dst = game.AppendBool(dst, a.Kick)
	return game.AppendBool(dst, a.Throw)
}

// AppendCanonical encodes every field in a fixed order. Sections are
// length-prefixed so adjacent lists cannot run into each other.
func (s *Snapshot) AppendCanonical(dst []byte) []byte {
	dst = binary.LittleEndian.AppendUint64(dst, s.Tick)
	dst = game.AppendString(dst, s.Phase)

	dst = game.AppendInt(dst, len(s.Players))
	for _, p := range s.Players {
		dst = game.AppendString(dst, p.ID)
		dst = appendPos(dst, p.Tile)
		dst = appendFloat(dst, p.X)
		dst = appendFloat(dst, p.Y)
		dst = game.AppendBool(dst, p.Alive)
		dst = game.AppendString(dst, p.Facing)
		dst = game.AppendBool(dst, p.InTransit)
		dst = appendAbilities(dst, p.Abilities)
	}
	dst = game.AppendInt(dst, len(s.Bombs))
	for _, b := range s.Bombs {
		dst = game.AppendString(dst, b.Owner)
		dst = appendPos(dst, b.Position)
		dst = game.AppendInt(dst, b.Fuse)
		dst = game.AppendInt(dst, b.Radius)
		dst = game.AppendString(dst, b.Sliding)
	}
	dst = game.AppendInt(dst, len(s.Flames))
	for _, f := range s.Flames {
		dst = appendPos(dst, f.Position)
		dst = game.AppendInt(dst, f.Remaining)
	}
	dst = game.AppendInt(dst, len(s.Blocks))
	for _, b := range s.Blocks {
		dst = appendPos(dst, b)
	}
	dst = game.AppendInt(dst, len(s.Powerups))
	for _, p := range s.Powerups {
		dst = appendPos(dst, p.Position)
		dst = game.AppendString(dst, p.Kind)
	}
	return dst
}
