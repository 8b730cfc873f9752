package arena

import (
	"fmt"

	coresys "github.com/l1jgo/bombarena/internal/core/system"
	"github.com/l1jgo/bombarena/internal/game"
	"github.com/l1jgo/bombarena/internal/world"
)

// Instance is one bomberman match. It is not safe for concurrent use.
type Instance struct {
	state    *world.State
	pipeline *coresys.Runner[*world.State]
}

// ApplyInput queues a validated input for the given tick. Inputs for a tick
// that already ran are applied on the next one.
func (i *Instance) ApplyInput(playerID string, in game.Input, tick uint64) error {
	if _, ok := i.state.PlayerEntity(playerID); !ok {
		return fmt.Errorf("%w: %q", game.ErrUnknownPlayer, playerID)
	}
	wi, ok := in.(world.Input)
	if !ok {
		return fmt.Errorf("%w: %T", ErrInput, in)
	}
	i.state.Inputs.Enqueue(playerID, tick, wi)
	return nil
}

// Tick runs the pipeline once. A finished match does not advance.
func (i *Instance) Tick() {
	if i.state.Finished() {
		return
	}
	i.state.Tick++
	i.pipeline.Tick(i.state)
}

func (i *Instance) CurrentTick() uint64 { return i.state.Tick }

func (i *Instance) IsGameOver() bool { return i.state.Finished() }

func (i *Instance) Movement() world.MovementModel { return i.state.Movement }

func (i *Instance) EventsSince(lastEventID uint64) []game.Event {
	records := i.state.Events.Since(lastEventID)
	if len(records) == 0 {
		return nil
	}
	out := make([]game.Event, len(records))
	for n, r := range records {
		out[n] = game.Event{ID: r.ID, Tick: r.Tick, Payload: r.Payload}
	}
	return out
}

func (i *Instance) Snapshot() game.Snapshot {
	return buildSnapshot(i.state)
}

func (i *Instance) Results() (*game.Results, error) {
	if !i.state.Finished() {
		return nil, game.ErrNotFinished
	}
	return buildResults(i.state), nil
}
