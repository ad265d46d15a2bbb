package services

import (
	"context"

	"github.com/Dosada05/pingpong-tournament/brackets"
	"github.com/Dosada05/pingpong-tournament/models"
)

type StandingsService interface {
	GroupStandings(ctx context.Context, groupID string) ([]models.Standing, error)
	AllStandings(ctx context.Context) ([]models.GroupStandings, error)
}

type standingsService struct {
	cache *Cache
}

func NewStandingsService(cache *Cache) StandingsService {
	return &standingsService{cache: cache}
}

func (s *standingsService) GroupStandings(ctx context.Context, groupID string) ([]models.Standing, error) {
	snap, err := s.cache.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := snap.FindGroup(groupID); !ok {
		return nil, ErrGroupNotFound
	}
	return groupTable(snap, groupID, snap.ScoreByMatch()), nil
}

func (s *standingsService) AllStandings(ctx context.Context) ([]models.GroupStandings, error) {
	snap, err := s.cache.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return groupTables(snap), nil
}

// groupTables ranks every group of snap, in group order.
func groupTables(snap *models.Snapshot) []models.GroupStandings {
	scores := snap.ScoreByMatch()
	tables := make([]models.GroupStandings, 0, len(snap.Groups))
	for _, g := range snap.Groups {
		tables = append(tables, models.GroupStandings{
			Group:     g,
			Standings: groupTable(snap, g.ID, scores),
		})
	}
	return tables
}

func groupTable(snap *models.Snapshot, groupID string, scores map[string]models.Score) []models.Standing {
	matches := filterMatches(snap.Matches, models.MatchFilter{GroupID: &groupID})
	return brackets.ComputeStandings(snap.GroupMembers(groupID), matches, scores)
}
