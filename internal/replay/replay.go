package replay

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/l1jgo/bombarena/internal/game"
)

var (
	ErrRejected = errors.New("replay: input rejected")
	ErrMismatch = errors.New("replay: runs diverged")
)

// Outcome summarizes one run.
type Outcome struct {
	Digest    uint64
	Snapshots int
	Events    int
	Ticks     uint64
	Finished  bool
	Results   *game.Results
}

// Run creates the match, applies every input in file order, ticks until the
// cap or game over, and folds each tick's snapshot and new events into the
// digest. Observe, when set, sees every tick's new events.
func Run(reg *game.Registry, tl *Timeline, observe func(tick uint64, events []game.Event)) (*Outcome, error) {
	mod, err := reg.Get(tl.Game)
	if err != nil {
		return nil, err
	}
	inst, err := mod.CreateGame(game.MatchConfig{Players: tl.Players, Options: tl.Options}, tl.Seed)
	if err != nil {
		return nil, fmt.Errorf("replay: create %s: %w", tl.Game, err)
	}
	for i, entry := range tl.Inputs {
		v := mod.ValidateInput(entry.Input)
		if !v.OK {
			return nil, fmt.Errorf("%w: input %d at tick %d: %s", ErrRejected, i, entry.Tick, v.Reason)
		}
		if err := inst.ApplyInput(entry.Player, v.Value, entry.Tick); err != nil {
			return nil, fmt.Errorf("replay: input %d: %w", i, err)
		}
	}

	out := &Outcome{}
	d := game.NewDigest()
	var lastID uint64
	for !inst.IsGameOver() && (tl.Ticks == 0 || inst.CurrentTick() < tl.Ticks) {
		inst.Tick()
		d.AddSnapshot(inst.Snapshot())
		out.Snapshots++

		events := inst.EventsSince(lastID)
		for _, e := range events {
			d.AddEvent(e)
			lastID = e.ID
		}
		out.Events += len(events)
		if observe != nil && len(events) > 0 {
			observe(inst.CurrentTick(), events)
		}
	}

	out.Digest = d.Sum64()
	out.Ticks = inst.CurrentTick()
	out.Finished = inst.IsGameOver()
	if out.Finished {
		if out.Results, err = inst.Results(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Verify runs the timeline twice on fresh matches and requires identical
// outcomes.
func Verify(reg *game.Registry, tl *Timeline) (*Outcome, error) {
	first, err := Run(reg, tl, nil)
	if err != nil {
		return nil, err
	}
	second, err := Run(reg, tl, nil)
	if err != nil {
		return nil, err
	}
	if first.Digest != second.Digest {
		return first, fmt.Errorf("%w: digest %016x != %016x", ErrMismatch, first.Digest, second.Digest)
	}
	if !reflect.DeepEqual(first, second) {
		return first, fmt.Errorf("%w: outcome differs", ErrMismatch)
	}
	return first, nil
}
