package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PlayerStats struct {
	UserID      string
	GamesPlayed int
	Wins        int
	TotalScore  int64
	BestScore   *int
	UpdatedAt   time.Time
}

// PlayerResult is one seat's outcome in a finished game.
type PlayerResult struct {
	UserID string
	Score  int
	Won    bool
}

// GameRecord is a finished game as written to the stats tables.
type GameRecord struct {
	GameID  string
	MatchID string
	Rounds  int
	Results []PlayerResult
}

type StatsStore struct {
	db *pgxpool.Pool
}

func NewStatsStore(db *pgxpool.Pool) *StatsStore {
	return &StatsStore{db: db}
}

func (s *StatsStore) InitForUser(ctx context.Context, userID string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO player_stats (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`, userID)
	return err
}

func (s *StatsStore) Get(ctx context.Context, userID string) (PlayerStats, error) {
	var st PlayerStats
	err := s.db.QueryRow(ctx, `
		SELECT user_id, games_played, wins, total_score, best_score, updated_at
		FROM player_stats
		WHERE user_id=$1
	`, userID).Scan(&st.UserID, &st.GamesPlayed, &st.Wins, &st.TotalScore, &st.BestScore, &st.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		// no games yet counts as zeros
		return PlayerStats{UserID: userID}, nil
	}
	if err != nil {
		return PlayerStats{}, err
	}
	return st, nil
}

// RecordGame stores a finished game and folds its results into each
// player's stats. Recording the same game twice is a no-op. Results for
// users without an account are skipped.
func (s *StatsStore) RecordGame(ctx context.Context, rec GameRecord) error {
	return pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			INSERT INTO games (id, match_id, rounds, player_count)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO NOTHING
		`, rec.GameID, rec.MatchID, rec.Rounds, len(rec.Results))
		if err != nil {
			return fmt.Errorf("insert game: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil
		}

		batch := &pgx.Batch{}
		for _, r := range rec.Results {
			wins := 0
			if r.Won {
				wins = 1
			}
			batch.Queue(`
				INSERT INTO player_stats (user_id, games_played, wins, total_score, best_score)
				SELECT id, 1, $2::int, $3::bigint, $4::int FROM users WHERE id = $1
				ON CONFLICT (user_id) DO UPDATE SET
					games_played = player_stats.games_played + 1,
					wins         = player_stats.wins + EXCLUDED.wins,
					total_score  = player_stats.total_score + EXCLUDED.total_score,
					best_score   = GREATEST(COALESCE(player_stats.best_score, EXCLUDED.best_score), EXCLUDED.best_score),
					updated_at   = now()
			`, r.UserID, wins, r.Score, r.Score)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("update player stats: %w", err)
		}
		return nil
	})
}
