package world

import (
	"github.com/l1jgo/bombarena/internal/component"
	"github.com/l1jgo/bombarena/internal/game"
)

// Event kinds as they appear on the wire and in logs.
const (
	KindMovementCompleted = "movement_completed"
	KindBombPlaced        = "bomb_placed"
	KindBombExploded      = "bomb_exploded"
	KindBombKicked        = "bomb_kicked"
	KindBombThrown        = "bomb_thrown"
	KindBlockDestroyed    = "block_destroyed"
	KindPowerupSpawned    = "powerup_spawned"
	KindPowerupCollected  = "powerup_collected"
	KindPlayerEliminated  = "player_eliminated"
	KindRoundOver         = "round_over"
)

// RoundOverReason says why a round ended.
type RoundOverReason string

const (
	ReasonLastPlayerStanding RoundOverReason = "last_player_standing"
	ReasonTickLimit          RoundOverReason = "tick_limit"
)

func appendPos(dst []byte, p component.Position) []byte {
	dst = game.AppendInt(dst, p.X)
	return game.AppendInt(dst, p.Y)
}

type MovementCompleted struct {
	PlayerID  string
	From      component.Position
	To        component.Position
	Direction component.Direction
}

func (MovementCompleted) EventKind() string { return KindMovementCompleted }

func (e MovementCompleted) AppendCanonical(dst []byte) []byte {
	dst = game.AppendString(dst, e.PlayerID)
	dst = appendPos(dst, e.From)
	dst = appendPos(dst, e.To)
	return append(dst, byte(e.Direction))
}

type BombPlaced struct {
	PlayerID string
	Position component.Position
	Fuse     int
	Radius   int
}

func (BombPlaced) EventKind() string { return KindBombPlaced }

func (e BombPlaced) AppendCanonical(dst []byte) []byte {
	dst = game.AppendString(dst, e.PlayerID)
	dst = appendPos(dst, e.Position)
	dst = game.AppendInt(dst, e.Fuse)
	return game.AppendInt(dst, e.Radius)
}

// BombExploded is emitted before the blast's own block and chain events.
type BombExploded struct {
	PlayerID string
	Position component.Position
	Radius   int
	Chained  bool
}

func (BombExploded) EventKind() string { return KindBombExploded }

func (e BombExploded) AppendCanonical(dst []byte) []byte {
	dst = game.AppendString(dst, e.PlayerID)
	dst = appendPos(dst, e.Position)
	dst = game.AppendInt(dst, e.Radius)
	return game.AppendBool(dst, e.Chained)
}

type BombKicked struct {
	PlayerID  string
	Position  component.Position
	Direction component.Direction
}

func (BombKicked) EventKind() string { return KindBombKicked }

func (e BombKicked) AppendCanonical(dst []byte) []byte {
	dst = game.AppendString(dst, e.PlayerID)
	dst = appendPos(dst, e.Position)
	return append(dst, byte(e.Direction))
}

type BombThrown struct {
	PlayerID string
	From     component.Position
	To       component.Position
}

func (BombThrown) EventKind() string { return KindBombThrown }

func (e BombThrown) AppendCanonical(dst []byte) []byte {
	dst = game.AppendString(dst, e.PlayerID)
	dst = appendPos(dst, e.From)
	return appendPos(dst, e.To)
}

type BlockDestroyed struct {
	Position component.Position
	PlayerID string // owner of the blast
}

func (BlockDestroyed) EventKind() string { return KindBlockDestroyed }

func (e BlockDestroyed) AppendCanonical(dst []byte) []byte {
	dst = appendPos(dst, e.Position)
	return game.AppendString(dst, e.PlayerID)
}

type PowerupSpawned struct {
	Position component.Position
	Kind     component.PowerupKind
}

func (PowerupSpawned) EventKind() string { return KindPowerupSpawned }

func (e PowerupSpawned) AppendCanonical(dst []byte) []byte {
	dst = appendPos(dst, e.Position)
	return append(dst, byte(e.Kind))
}

type PowerupCollected struct {
	PlayerID string
	Position component.Position
	Kind     component.PowerupKind
}

func (PowerupCollected) EventKind() string { return KindPowerupCollected }

func (e PowerupCollected) AppendCanonical(dst []byte) []byte {
	dst = game.AppendString(dst, e.PlayerID)
	dst = appendPos(dst, e.Position)
	return append(dst, byte(e.Kind))
}

type PlayerEliminated struct {
	PlayerID string
	Position component.Position
	// KilledBy is the owner of the flame, empty when unknown.
	KilledBy string
}

func (PlayerEliminated) EventKind() string { return KindPlayerEliminated }

func (e PlayerEliminated) AppendCanonical(dst []byte) []byte {
	dst = game.AppendString(dst, e.PlayerID)
	dst = appendPos(dst, e.Position)
	return game.AppendString(dst, e.KilledBy)
}

// RoundOver is the terminal event. WinnerID is empty when there is none.
type RoundOver struct {
	Reason   RoundOverReason
	WinnerID string
}

func (RoundOver) EventKind() string { return KindRoundOver }

func (e RoundOver) AppendCanonical(dst []byte) []byte {
	dst = game.AppendString(dst, string(e.Reason))
	return game.AppendString(dst, e.WinnerID)
}
