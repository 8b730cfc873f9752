// Package host drives matches in real time. Each match owns its instance,
// scheduler and mutex; matches never share state.
package host

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/l1jgo/bombarena/internal/core/sched"
	"github.com/l1jgo/bombarena/internal/game"
)

var (
	ErrRejected    = errors.New("host: input rejected")
	ErrMatchFailed = errors.New("host: match failed")
	ErrRunning     = errors.New("host: match already running")
)

const defaultInterval = 50 * time.Millisecond

type Options struct {
	Interval time.Duration
	Log      *zap.Logger
	// OnEvents receives each tick's new events on the scheduler goroutine.
	OnEvents func(m *Match, events []game.Event)
}

// Match serializes every call into its Instance with one mutex. The tick
// callback and Submit may race; the instance never sees it.
type Match struct {
	ID        string
	GameID    string
	Seed      uint32
	Players   []string
	Options   map[string]string
	StartedAt time.Time

	mu         sync.Mutex
	mod        game.Module
	inst       game.Instance
	lastEvent  uint64
	journal    []Accepted
	err        error
	finishedAt time.Time
	started    bool

	sched    *sched.Scheduler
	interval time.Duration
	log      *zap.Logger
	hub      *sentry.Hub
	onEvents func(*Match, []game.Event)

	done     chan struct{}
	doneOnce sync.Once
}

// NewMatch creates the game instance. Configuration errors surface here,
// before any tick runs.
func NewMatch(mod game.Module, cfg game.MatchConfig, seed uint32, opts Options) (*Match, error) {
	inst, err := mod.CreateGame(cfg, seed)
	if err != nil {
		return nil, fmt.Errorf("host: create %s: %w", mod.ID(), err)
	}
	if opts.Interval <= 0 {
		opts.Interval = defaultInterval
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}

	id := uuid.NewString()
	log := opts.Log.With(zap.String("match", id), zap.String("game", mod.ID()))
	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("match_id", id)
		scope.SetTag("game", mod.ID())
	})

	return &Match{
		ID:       id,
		GameID:   mod.ID(),
		Seed:     seed,
		Players:  append([]string(nil), cfg.Players...),
		Options:  cfg.Options,
		mod:      mod,
		inst:     inst,
		sched:    sched.New(log),
		interval: opts.Interval,
		log:      log,
		hub:      hub,
		onEvents: opts.OnEvents,
		done:     make(chan struct{}),
	}, nil
}

// Accepted is one input the instance took, with the tick it was queued for.
type Accepted struct {
	Tick   uint64
	Player string
	Raw    any
}

// Submit validates an untrusted input and queues it for tick.
func (m *Match) Submit(playerID string, raw any, tick uint64) error {
	v := m.mod.ValidateInput(raw)
	if !v.OK {
		return fmt.Errorf("%w: %s", ErrRejected, v.Reason)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accept(playerID, raw, v.Value, tick)
}

// SubmitNext queues an input for the next tick to run.
func (m *Match) SubmitNext(playerID string, raw any) error {
	_, err := m.Queue(playerID, raw)
	return err
}

// Queue is SubmitNext that also reports the tick the input landed on.
// The tick is read under the same lock that queues the input, so the
// journal matches what the instance applies.
func (m *Match) Queue(playerID string, raw any) (uint64, error) {
	v := m.mod.ValidateInput(raw)
	if !v.OK {
		return 0, fmt.Errorf("%w: %s", ErrRejected, v.Reason)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	next := m.inst.CurrentTick() + 1
	if err := m.accept(playerID, raw, v.Value, next); err != nil {
		return 0, err
	}
	return next, nil
}

// accept queues under m.mu. A tick that already ran is journaled as the
// next one, which is where the instance applies it.
func (m *Match) accept(playerID string, raw any, value game.Input, tick uint64) error {
	tick = max(tick, m.inst.CurrentTick()+1)
	if err := m.inst.ApplyInput(playerID, value, tick); err != nil {
		return err
	}
	m.journal = append(m.journal, Accepted{Tick: tick, Player: playerID, Raw: raw})
	return nil
}

// Journal returns every accepted input in the order it was queued.
func (m *Match) Journal() []Accepted {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Accepted(nil), m.journal...)
}

// Run ticks the match until it is over, ctx is done, or a tick panics.
// A match runs at most once.
func (m *Match) Run(ctx context.Context) (*game.Results, error) {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return nil, ErrRunning
	}
	m.started = true
	m.StartedAt = time.Now()
	m.mu.Unlock()

	m.log.Info("match started", zap.Strings("players", m.Players), zap.Uint32("seed", m.Seed))
	m.sched.Start(m.interval, m.tick)

	select {
	case <-m.done:
	case <-ctx.Done():
		m.finish(ctx.Err())
	}
	m.sched.Stop()
	<-m.sched.Done()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	res, err := m.inst.Results()
	if err != nil {
		return nil, err
	}
	m.log.Info("match finished",
		zap.String("reason", res.Reason),
		zap.String("winner", res.WinnerID),
		zap.Uint64("ticks", res.Ticks),
		zap.Duration("elapsed", m.finishedAt.Sub(m.StartedAt)),
	)
	return res, nil
}

// tick is the scheduler callback. A panic inside the instance is a broken
// contract: the match is stopped and never ticked again.
func (m *Match) tick() {
	defer func() {
		if rec := recover(); rec != nil {
			m.hub.Recover(rec)
			m.log.Error("tick panic recovered", zap.Any("panic", rec))
			m.sched.Stop()
			m.finish(fmt.Errorf("%w: %v", ErrMatchFailed, rec))
		}
	}()

	tick, events, over := m.step()
	if m.log.Core().Enabled(zap.DebugLevel) {
		for _, e := range events {
			m.log.Debug("event",
				zap.Uint64("id", e.ID),
				zap.Uint64("tick", e.Tick),
				zap.String("kind", e.Payload.EventKind()),
			)
		}
	}
	if m.onEvents != nil && len(events) > 0 {
		m.onEvents(m, events)
	}
	if over {
		m.log.Debug("game over", zap.Uint64("tick", tick))
		m.sched.Stop()
		m.finish(nil)
	}
}

func (m *Match) step() (uint64, []game.Event, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inst.Tick()
	events := m.inst.EventsSince(m.lastEvent)
	if n := len(events); n > 0 {
		m.lastEvent = events[n-1].ID
	}
	return m.inst.CurrentTick(), events, m.inst.IsGameOver()
}

func (m *Match) finish(err error) {
	m.doneOnce.Do(func() {
		m.mu.Lock()
		m.err = err
		m.finishedAt = time.Now()
		m.mu.Unlock()
		close(m.done)
	})
}

// Snapshot returns the current snapshot under the match lock.
func (m *Match) Snapshot() game.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inst.Snapshot()
}

func (m *Match) FinishedAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.finishedAt
}

// Done is closed when the match stops for any reason.
func (m *Match) Done() <-chan struct{} { return m.done }
