package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/pingpong-tournament/models"
)

type ScoreRepository interface {
	// Upsert replaces the score of score.MatchID, inserting it if absent.
	Upsert(ctx context.Context, score models.Score) error
	GetByMatchID(ctx context.Context, matchID string) (*models.Score, error)
	List(ctx context.Context) ([]models.Score, error)
}

type postgresScoreRepository struct {
	exec SQLExecutor
}

func NewPostgresScoreRepository(exec SQLExecutor) ScoreRepository {
	return &postgresScoreRepository{exec: exec}
}

func (r *postgresScoreRepository) Upsert(ctx context.Context, score models.Score) error {
	query := `
		INSERT INTO scores (match_id, player1_score, player2_score, winner_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (match_id) DO UPDATE SET
			player1_score = EXCLUDED.player1_score,
			player2_score = EXCLUDED.player2_score,
			winner_id = EXCLUDED.winner_id`
	_, err := r.exec.ExecContext(ctx, query, score.MatchID, score.Player1Score, score.Player2Score, score.WinnerID)
	if err != nil {
		return fmt.Errorf("failed to upsert score for match %s: %w", score.MatchID, handleError(err))
	}
	return nil
}

func (r *postgresScoreRepository) GetByMatchID(ctx context.Context, matchID string) (*models.Score, error) {
	query := `SELECT match_id, player1_score, player2_score, winner_id FROM scores WHERE match_id = $1`

	score, err := scanScore(r.exec.QueryRowContext(ctx, query, matchID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScoreNotFound
		}
		return nil, fmt.Errorf("failed to scan score of match %s: %w", matchID, handleError(err))
	}
	return score, nil
}

func (r *postgresScoreRepository) List(ctx context.Context) ([]models.Score, error) {
	rows, err := r.exec.QueryContext(ctx, `SELECT match_id, player1_score, player2_score, winner_id FROM scores ORDER BY match_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", handleError(err))
	}
	defer rows.Close()

	scores := make([]models.Score, 0)
	for rows.Next() {
		score, scanErr := scanScore(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan score row: %w", scanErr)
		}
		scores = append(scores, *score)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during score rows iteration: %w", handleError(err))
	}
	return scores, nil
}

func scanScore(rowScanner interface{ Scan(...interface{}) error }) (*models.Score, error) {
	var (
		s        models.Score
		winnerID sql.NullString
	)
	if err := rowScanner.Scan(&s.MatchID, &s.Player1Score, &s.Player2Score, &winnerID); err != nil {
		return nil, err
	}
	if winnerID.Valid {
		s.WinnerID = &winnerID.String
	}
	return &s, nil
}
