package services

import (
	"context"
	"log/slog"

	"github.com/Dosada05/pingpong-tournament/brackets"
	"github.com/Dosada05/pingpong-tournament/models"
	"github.com/Dosada05/pingpong-tournament/repositories"
)

// GroupSchedule lists the round-robin matches of one group.
type GroupSchedule struct {
	Group   models.Group   `json:"group"`
	Matches []models.Match `json:"matches"`
}

type MatchService interface {
	// GenerateRoundRobinMatches drops every group match and recreates one
	// match per member pair in every group. Playoff matches are kept.
	GenerateRoundRobinMatches(ctx context.Context) ([]models.Match, error)
	ListMatches(ctx context.Context, filter models.MatchFilter) ([]models.Match, error)
	MatchByID(ctx context.Context, matchID string) (*models.Match, error)
	GenerateSchedule(ctx context.Context) ([]GroupSchedule, error)
}

type matchService struct {
	store     repositories.Store
	cache     *Cache
	generator brackets.BracketGenerator
	logger    *slog.Logger
}

func NewMatchService(store repositories.Store, cache *Cache, logger *slog.Logger) MatchService {
	return &matchService{
		store:     store,
		cache:     cache,
		generator: brackets.NewRoundRobinGenerator(),
		logger:    logger,
	}
}

func (s *matchService) GenerateRoundRobinMatches(ctx context.Context) ([]models.Match, error) {
	var created []models.Match
	var removed int64

	defer s.cache.Invalidate()
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		var err error
		removed, err = tx.Matches().DeleteByPlayoff(ctx, false)
		if err != nil {
			return err
		}

		groups, err := tx.Groups().List(ctx)
		if err != nil {
			return err
		}
		for _, g := range groups {
			members, err := tx.Groups().ListMembers(ctx, g.ID)
			if err != nil {
				return err
			}
			groupID := g.ID
			matches, err := s.generator.GenerateBracket(ctx, brackets.GenerateBracketParams{
				GroupID:      &groupID,
				Participants: members,
			})
			if err != nil {
				return err
			}
			for _, m := range matches {
				if err := tx.Matches().Create(ctx, m); err != nil {
					return err
				}
				created = append(created, *m)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "round-robin generation failed", slog.Any("error", err))
		return nil, handleRepositoryError(err)
	}

	s.logger.InfoContext(ctx, "round-robin matches generated",
		slog.String("generator", s.generator.GetName()),
		slog.Int64("removed", removed),
		slog.Int("created", len(created)),
	)
	if created == nil {
		created = []models.Match{}
	}
	return created, nil
}

func (s *matchService) ListMatches(ctx context.Context, filter models.MatchFilter) ([]models.Match, error) {
	snap, err := s.cache.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return filterMatches(snap.Matches, filter), nil
}

func (s *matchService) MatchByID(ctx context.Context, matchID string) (*models.Match, error) {
	snap, err := s.cache.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	m, ok := snap.FindMatch(matchID)
	if !ok {
		return nil, ErrMatchNotFound
	}
	return &m, nil
}

func (s *matchService) GenerateSchedule(ctx context.Context) ([]GroupSchedule, error) {
	snap, err := s.cache.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	schedule := make([]GroupSchedule, 0, len(snap.Groups))
	for _, g := range snap.Groups {
		groupID := g.ID
		schedule = append(schedule, GroupSchedule{
			Group:   g,
			Matches: filterMatches(snap.Matches, models.MatchFilter{GroupID: &groupID}),
		})
	}
	return schedule, nil
}

func filterMatches(matches []models.Match, filter models.MatchFilter) []models.Match {
	out := make([]models.Match, 0, len(matches))
	for _, m := range matches {
		if filter.IsPlayoff != nil && m.IsPlayoff != *filter.IsPlayoff {
			continue
		}
		if filter.GroupID != nil && !m.InGroup(*filter.GroupID) {
			continue
		}
		out = append(out, m)
	}
	return out
}
