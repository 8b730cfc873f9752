// Package persist stores finished matches. It sits outside the simulation:
// nothing here is read back into a running match.
package persist

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/bombarena/internal/config"
	"github.com/l1jgo/bombarena/internal/game"
)

var (
	ErrNotFound  = errors.New("persist: match not found")
	ErrDuplicate = errors.New("persist: match already stored")
	ErrDriver    = errors.New("persist: unknown driver")
)

// PlayerRecord is one player's row of a finished match.
type PlayerRecord struct {
	PlayerID         string
	Rank             int
	Score            int
	Alive            bool
	EliminatedAtTick *uint64
	Points           int
}

// MatchRecord is everything stored about one finished match.
type MatchRecord struct {
	ID         string
	Game       string
	Seed       uint32
	Movement   string
	Reason     string
	Winner     string
	Ticks      uint64
	Digest     uint64
	StartedAt  time.Time
	FinishedAt time.Time
	Players    []PlayerRecord
}

// LeaderRow is one aggregated leaderboard line.
type LeaderRow struct {
	PlayerID string
	Points   int
	Matches  int
	Wins     int
}

type Sink interface {
	SaveMatch(ctx context.Context, rec *MatchRecord) error
	LoadMatch(ctx context.Context, id string) (*MatchRecord, error)
	TopPlayers(ctx context.Context, limit int) ([]LeaderRow, error)
	Close() error
}

// NewMatchRecord joins results with leaderboard points. points[i] belongs
// to res.Entries[i]; a missing entry scores zero.
func NewMatchRecord(id, gameID string, seed uint32, movement string, digest uint64, started, finished time.Time, res *game.Results, points []int) *MatchRecord {
	rec := &MatchRecord{
		ID:         id,
		Game:       gameID,
		Seed:       seed,
		Movement:   movement,
		Reason:     res.Reason,
		Winner:     res.WinnerID,
		Ticks:      res.Ticks,
		Digest:     digest,
		StartedAt:  started.UTC(),
		FinishedAt: finished.UTC(),
		Players:    make([]PlayerRecord, len(res.Entries)),
	}
	for i, e := range res.Entries {
		p := PlayerRecord{
			PlayerID:         e.PlayerID,
			Rank:             e.Rank,
			Score:            e.Score,
			Alive:            e.Alive,
			EliminatedAtTick: e.EliminatedAtTick,
		}
		if i < len(points) {
			p.Points = points[i]
		}
		rec.Players[i] = p
	}
	return rec
}

// Open returns the sink selected by cfg.Driver. Migrations run before the
// sink is returned.
func Open(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (Sink, error) {
	if log == nil {
		log = zap.NewNop()
	}
	switch cfg.Driver {
	case "", "none":
		return NopSink{}, nil
	case "postgres":
		db, err := NewDB(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		if err := RunMigrations(ctx, db.Pool); err != nil {
			db.Close()
			return nil, err
		}
		log.Info("postgres sink ready")
		return NewMatchRepo(db), nil
	case "sqlite":
		s, err := OpenSQLite(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		log.Info("sqlite sink ready", zap.String("path", cfg.DSN))
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrDriver, cfg.Driver)
	}
}

// NopSink drops everything.
type NopSink struct{}

func (NopSink) SaveMatch(context.Context, *MatchRecord) error { return nil }
func (NopSink) LoadMatch(context.Context, string) (*MatchRecord, error) {
	return nil, ErrNotFound
}
func (NopSink) TopPlayers(context.Context, int) ([]LeaderRow, error) { return nil, nil }
func (NopSink) Close() error                                         { return nil }

func digestHex(d uint64) string { return fmt.Sprintf("%016x", d) }

func parseDigest(s string) (uint64, error) {
	d, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("parse digest %q: %w", s, err)
	}
	return d, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func tickToInt(t *uint64) *int64 {
	if t == nil {
		return nil
	}
	v := int64(*t)
	return &v
}

func intToTick(v *int64) *uint64 {
	if v == nil {
		return nil
	}
	t := uint64(*v)
	return &t
}
