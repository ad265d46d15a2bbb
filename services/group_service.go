package services

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/Dosada05/pingpong-tournament/brackets"
	"github.com/Dosada05/pingpong-tournament/models"
	"github.com/Dosada05/pingpong-tournament/repositories"
)

type GroupService interface {
	ListGroups(ctx context.Context) ([]models.Group, error)
	GroupMembers(ctx context.Context, groupID string) ([]models.Player, error)
	// AssignRandomGroups replaces every group with count fresh ones and deals
	// all players into them. Group matches go with the old groups.
	AssignRandomGroups(ctx context.Context, count int) ([]models.Group, error)
}

type groupService struct {
	store  repositories.Store
	cache  *Cache
	rng    *rand.Rand
	logger *slog.Logger
}

func NewGroupService(store repositories.Store, cache *Cache, rng *rand.Rand, logger *slog.Logger) GroupService {
	return &groupService{store: store, cache: cache, rng: rng, logger: logger}
}

func (s *groupService) ListGroups(ctx context.Context) ([]models.Group, error) {
	snap, err := s.cache.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return append([]models.Group{}, snap.Groups...), nil
}

func (s *groupService) GroupMembers(ctx context.Context, groupID string) ([]models.Player, error) {
	snap, err := s.cache.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := snap.FindGroup(groupID); !ok {
		return nil, ErrGroupNotFound
	}
	return snap.GroupMembers(groupID), nil
}

func (s *groupService) AssignRandomGroups(ctx context.Context, count int) ([]models.Group, error) {
	if err := brackets.ValidateGroupCount(count); err != nil {
		return nil, ErrInvalidGroupCount
	}

	var created []models.Group
	var playerCount int

	defer s.cache.Invalidate()
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		players, err := tx.Players().List(ctx)
		if err != nil {
			return err
		}
		playerCount = len(players)

		groups, memberships, err := brackets.AssignGroups(s.rng, players, count, time.Now().UTC())
		if err != nil {
			return err
		}

		if err := tx.Groups().DeleteAll(ctx); err != nil {
			return err
		}
		for i := range groups {
			if err := tx.Groups().Create(ctx, &groups[i]); err != nil {
				return err
			}
		}
		for _, m := range memberships {
			if err := tx.Groups().AddMember(ctx, m); err != nil {
				return err
			}
		}
		created = groups
		return nil
	})
	if err != nil {
		if errors.Is(err, brackets.ErrInvalidGroupCount) {
			return nil, ErrInvalidGroupCount
		}
		s.logger.ErrorContext(ctx, "group assignment failed", slog.Int("count", count), slog.Any("error", err))
		return nil, handleRepositoryError(err)
	}

	s.logger.InfoContext(ctx, "groups assigned",
		slog.Int("groups", len(created)),
		slog.Int("players", playerCount),
	)
	return created, nil
}
