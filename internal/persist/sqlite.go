package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore is the local single-file sink.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path and migrates it.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite: empty path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: create directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// one writer; concurrent matches queue on the pool
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: pragma: %w", err)
	}
	if err := runSQLiteMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) SaveMatch(ctx context.Context, rec *MatchRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO matches (id, game, seed, movement, reason, winner, ticks, digest, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Game, int64(rec.Seed), rec.Movement, rec.Reason, nullString(rec.Winner),
		int64(rec.Ticks), digestHex(rec.Digest),
		rec.StartedAt.UTC().Format(time.RFC3339Nano), rec.FinishedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: %s", ErrDuplicate, rec.ID)
		}
		return fmt.Errorf("sqlite: insert match: %w", err)
	}

	for _, p := range rec.Players {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO match_players (match_id, player_id, rank, score, alive, eliminated_at_tick, points)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, p.PlayerID, p.Rank, p.Score, p.Alive, tickToInt(p.EliminatedAtTick), p.Points)
		if err != nil {
			return fmt.Errorf("sqlite: insert player %s: %w", p.PlayerID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) LoadMatch(ctx context.Context, id string) (*MatchRecord, error) {
	rec := &MatchRecord{ID: id}
	var (
		seed, ticks       int64
		winner            sql.NullString
		digest            string
		started, finished string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT game, seed, movement, reason, winner, ticks, digest, started_at, finished_at
		 FROM matches WHERE id = ?`, id,
	).Scan(&rec.Game, &seed, &rec.Movement, &rec.Reason, &winner, &ticks, &digest, &started, &finished)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	rec.Seed = uint32(seed)
	rec.Ticks = uint64(ticks)
	rec.Winner = winner.String
	if rec.Digest, err = parseDigest(digest); err != nil {
		return nil, err
	}
	if rec.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return nil, err
	}
	if rec.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT player_id, rank, score, alive, eliminated_at_tick, points
		 FROM match_players WHERE match_id = ? ORDER BY rank`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var p PlayerRecord
		var elim sql.NullInt64
		if err := rows.Scan(&p.PlayerID, &p.Rank, &p.Score, &p.Alive, &elim, &p.Points); err != nil {
			return nil, err
		}
		if elim.Valid {
			p.EliminatedAtTick = intToTick(&elim.Int64)
		}
		rec.Players = append(rec.Players, p)
	}
	return rec, rows.Err()
}

func (s *SQLiteStore) TopPlayers(ctx context.Context, limit int) ([]LeaderRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT player_id, SUM(points), COUNT(*), SUM(CASE WHEN rank = 1 THEN 1 ELSE 0 END)
		 FROM match_players
		 GROUP BY player_id
		 ORDER BY SUM(points) DESC, player_id
		 LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LeaderRow
	for rows.Next() {
		var row LeaderRow
		if err := rows.Scan(&row.PlayerID, &row.Points, &row.Matches, &row.Wins); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
