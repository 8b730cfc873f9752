package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// MatchRepo is the Postgres sink.
type MatchRepo struct {
	db *DB
}

func NewMatchRepo(db *DB) *MatchRepo {
	return &MatchRepo{db: db}
}

// SaveMatch writes the match and its player rows in one transaction.
func (r *MatchRepo) SaveMatch(ctx context.Context, rec *MatchRecord) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO matches (id, game, seed, movement, reason, winner, ticks, digest, started_at, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rec.ID, rec.Game, int64(rec.Seed), rec.Movement, rec.Reason, nullString(rec.Winner),
		int64(rec.Ticks), digestHex(rec.Digest), rec.StartedAt, rec.FinishedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("%w: %s", ErrDuplicate, rec.ID)
		}
		return fmt.Errorf("insert match: %w", err)
	}

	for _, p := range rec.Players {
		_, err = tx.Exec(ctx,
			`INSERT INTO match_players (match_id, player_id, rank, score, alive, eliminated_at_tick, points)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			rec.ID, p.PlayerID, p.Rank, p.Score, p.Alive, tickToInt(p.EliminatedAtTick), p.Points)
		if err != nil {
			return fmt.Errorf("insert player %s: %w", p.PlayerID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	r.db.log.Debug("match saved")
	return nil
}

func (r *MatchRepo) LoadMatch(ctx context.Context, id string) (*MatchRecord, error) {
	rec := &MatchRecord{ID: id}
	var (
		seed, ticks int64
		winner      *string
		digest      string
		started     time.Time
		finished    time.Time
	)
	err := r.db.Pool.QueryRow(ctx,
		`SELECT game, seed, movement, reason, winner, ticks, digest, started_at, finished_at
		 FROM matches WHERE id = $1`, id,
	).Scan(&rec.Game, &seed, &rec.Movement, &rec.Reason, &winner, &ticks, &digest, &started, &finished)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	rec.Seed = uint32(seed)
	rec.Ticks = uint64(ticks)
	rec.StartedAt = started.UTC()
	rec.FinishedAt = finished.UTC()
	if winner != nil {
		rec.Winner = *winner
	}
	if rec.Digest, err = parseDigest(digest); err != nil {
		return nil, err
	}

	rows, err := r.db.Pool.Query(ctx,
		`SELECT player_id, rank, score, alive, eliminated_at_tick, points
		 FROM match_players WHERE match_id = $1 ORDER BY rank`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var p PlayerRecord
		var elim *int64
		if err := rows.Scan(&p.PlayerID, &p.Rank, &p.Score, &p.Alive, &elim, &p.Points); err != nil {
			return nil, err
		}
		p.EliminatedAtTick = intToTick(elim)
		rec.Players = append(rec.Players, p)
	}
	return rec, rows.Err()
}

// TopPlayers ranks players by total points, then by ID.
func (r *MatchRepo) TopPlayers(ctx context.Context, limit int) ([]LeaderRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT player_id, SUM(points), COUNT(*), SUM(CASE WHEN rank = 1 THEN 1 ELSE 0 END)
		 FROM match_players
		 GROUP BY player_id
		 ORDER BY SUM(points) DESC, player_id
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LeaderRow
	for rows.Next() {
		var row LeaderRow
		var points, matches, wins int64
		if err := rows.Scan(&row.PlayerID, &points, &matches, &wins); err != nil {
			return nil, err
		}
		row.Points, row.Matches, row.Wins = int(points), int(matches), int(wins)
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *MatchRepo) Close() error {
	r.db.Close()
	return nil
}
