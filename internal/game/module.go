// Package game is the contract between the surrounding server and any
// concrete tick-based game. The host creates, drives and queries matches
// through these interfaces without knowing simulation internals.
package game

import "errors"

var (
	ErrUnknownGame   = errors.New("game: unknown game")
	ErrDuplicateGame = errors.New("game: duplicate game id")
	ErrNotFinished   = errors.New("game: match still in progress")
	ErrUnknownPlayer = errors.New("game: unknown player")
)

// Input is a validated, game-specific input value produced by
// Module.ValidateInput.
type Input interface {
	InputKind() string
}

// MatchConfig is what the room layer hands to CreateGame. Options carry
// game-specific settings and are validated at creation time.
type MatchConfig struct {
	Players []string
	Options map[string]string
}

// Module is one concrete game.
type Module interface {
	ID() string
	Title() string
	// CreateGame rejects bad configuration before any tick runs.
	CreateGame(cfg MatchConfig, seed uint32) (Instance, error)
	// ValidateInput never panics on malformed input.
	ValidateInput(raw any) Validation
}

// Instance is one running match. It is not safe for concurrent use; the
// host serializes every call.
type Instance interface {
	// ApplyInput buffers the input for the named tick. It never mutates
	// world state synchronously.
	ApplyInput(playerID string, in Input, tick uint64) error
	// Tick advances the simulation by exactly one step.
	Tick()
	// CurrentTick is the number of the last completed tick.
	CurrentTick() uint64
	Snapshot() Snapshot
	// EventsSince returns every event with ID > lastEventID, ascending.
	EventsSince(lastEventID uint64) []Event
	IsGameOver() bool
	// Results returns ErrNotFinished until IsGameOver is true.
	Results() (*Results, error)
}

// Canonical values have a fixed binary encoding used for digests.
type Canonical interface {
	AppendCanonical(dst []byte) []byte
}

// Snapshot is a fully materialized, read-only view of renderable state.
type Snapshot interface {
	Canonical
	TickNumber() uint64
}

// EventPayload is one game-specific event variant.
type EventPayload interface {
	Canonical
	EventKind() string
}

type Event struct {
	ID      uint64
	Tick    uint64
	Payload EventPayload
}

// Result is one player's final standing.
type Result struct {
	PlayerID         string
	Rank             int
	Score            int
	Alive            bool
	EliminatedAtTick *uint64
}

// Results is the final, deterministic ranking. Entries hold one entry per
// original player ordered by rank ascending. WinnerID is empty when the
// round ended without a winner.
type Results struct {
	Reason   string
	WinnerID string
	Ticks    uint64
	Entries  []Result
}
