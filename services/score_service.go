package services

import (
	"context"
	"log/slog"
	"math"

	"github.com/Dosada05/pingpong-tournament/brackets"
	"github.com/Dosada05/pingpong-tournament/models"
	"github.com/Dosada05/pingpong-tournament/repositories"
)

// RecordScoreInput carries both scores; a missing one is rejected rather than
// read as zero.
type RecordScoreInput struct {
	Player1Score *int `json:"player1_score" required:"true" minimum:"0"`
	Player2Score *int `json:"player2_score" required:"true" minimum:"0"`
}

// MaxScore is the largest score the score columns can hold.
const MaxScore = math.MaxInt32

func (in RecordScoreInput) validate() (int, int, error) {
	if in.Player1Score == nil || in.Player2Score == nil {
		return 0, 0, ErrScoreRequired
	}
	p1, p2 := *in.Player1Score, *in.Player2Score
	if p1 < 0 || p2 < 0 {
		return 0, 0, ErrNegativeScore
	}
	if p1 > MaxScore || p2 > MaxScore {
		return 0, 0, ErrScoreTooLarge
	}
	return p1, p2, nil
}

type ScoreService interface {
	// MatchScore returns ErrScoreNotFound while no result is recorded.
	MatchScore(ctx context.Context, matchID string) (*models.Score, error)
	// RecordScore stores the result of a match, replacing any earlier one,
	// and marks the match completed.
	RecordScore(ctx context.Context, matchID string, input RecordScoreInput) (*models.Score, error)
}

type scoreService struct {
	store  repositories.Store
	cache  *Cache
	logger *slog.Logger
}

func NewScoreService(store repositories.Store, cache *Cache, logger *slog.Logger) ScoreService {
	return &scoreService{store: store, cache: cache, logger: logger}
}

func (s *scoreService) MatchScore(ctx context.Context, matchID string) (*models.Score, error) {
	snap, err := s.cache.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := snap.FindMatch(matchID); !ok {
		return nil, ErrMatchNotFound
	}
	score, ok := snap.ScoreByMatch()[matchID]
	if !ok {
		return nil, ErrScoreNotFound
	}
	return &score, nil
}

func (s *scoreService) RecordScore(ctx context.Context, matchID string, input RecordScoreInput) (*models.Score, error) {
	p1, p2, err := input.validate()
	if err != nil {
		return nil, err
	}

	var score models.Score

	defer s.cache.Invalidate()
	err = s.store.WithTx(ctx, func(tx repositories.Store) error {
		match, err := tx.Matches().GetByID(ctx, matchID)
		if err != nil {
			return err
		}

		score = models.Score{
			MatchID:      match.ID,
			Player1Score: p1,
			Player2Score: p2,
			WinnerID:     brackets.ResolveWinner(*match, p1, p2),
		}
		if err := tx.Scores().Upsert(ctx, score); err != nil {
			return err
		}
		return tx.Matches().MarkCompleted(ctx, match.ID)
	})
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	s.logger.InfoContext(ctx, "score recorded",
		slog.String("match_id", matchID),
		slog.Int("player1_score", score.Player1Score),
		slog.Int("player2_score", score.Player2Score),
	)
	return &score, nil
}
