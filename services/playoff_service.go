package services

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"github.com/Dosada05/pingpong-tournament/brackets"
	"github.com/Dosada05/pingpong-tournament/models"
	"github.com/Dosada05/pingpong-tournament/repositories"
)

type PlayoffService interface {
	// GeneratePlayoffs replaces the playoff matches with a fresh first round
	// between the top two of every group. Group matches are kept.
	GeneratePlayoffs(ctx context.Context) ([]models.Match, error)
	ListPlayoffMatches(ctx context.Context) ([]models.Match, error)
	Bracket(ctx context.Context) ([]brackets.RoundView, error)
}

type playoffService struct {
	store     repositories.Store
	cache     *Cache
	generator brackets.BracketGenerator
	logger    *slog.Logger
}

func NewPlayoffService(store repositories.Store, cache *Cache, rng *rand.Rand, logger *slog.Logger) PlayoffService {
	return &playoffService{
		store:     store,
		cache:     cache,
		generator: brackets.NewSingleEliminationGenerator(rng),
		logger:    logger,
	}
}

func (s *playoffService) GeneratePlayoffs(ctx context.Context) ([]models.Match, error) {
	var created []models.Match
	var qualifiers []models.Player
	var unpaired *models.Player
	var removed int64

	defer s.cache.Invalidate()
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		var err error
		removed, err = tx.Matches().DeleteByPlayoff(ctx, true)
		if err != nil {
			return err
		}

		snap, err := loadSnapshot(ctx, tx, 1)
		if err != nil {
			return err
		}
		qualifiers = brackets.Qualifiers(groupTables(snap))

		matches, err := s.generator.GenerateBracket(ctx, brackets.GenerateBracketParams{Participants: qualifiers})
		if err != nil {
			return err
		}
		for _, m := range matches {
			if err := tx.Matches().Create(ctx, m); err != nil {
				return err
			}
			created = append(created, *m)
		}
		unpaired = brackets.Unpaired(qualifiers, matches)
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "playoff generation failed", slog.Any("error", err))
		return nil, handleRepositoryError(err)
	}

	attrs := []any{
		slog.String("generator", s.generator.GetName()),
		slog.Int("qualifiers", len(qualifiers)),
		slog.Int64("removed", removed),
		slog.Int("created", len(created)),
	}
	if unpaired != nil {
		attrs = append(attrs, slog.String("unpaired_player_id", unpaired.ID))
	}
	s.logger.InfoContext(ctx, "playoff matches generated", attrs...)

	if created == nil {
		created = []models.Match{}
	}
	return created, nil
}

func (s *playoffService) ListPlayoffMatches(ctx context.Context) ([]models.Match, error) {
	snap, err := s.cache.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	playoff := true
	return filterMatches(snap.Matches, models.MatchFilter{IsPlayoff: &playoff}), nil
}

func (s *playoffService) Bracket(ctx context.Context) ([]brackets.RoundView, error) {
	matches, err := s.ListPlayoffMatches(ctx)
	if err != nil {
		return nil, err
	}
	return brackets.GroupByRound(matches), nil
}
