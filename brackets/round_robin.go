package brackets

import (
	"context"
	"errors"

	"github.com/Dosada05/pingpong-tournament/models"
	"github.com/google/uuid"
)

var ErrGroupRequired = errors.New("round-robin generation requires a group")

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() BracketGenerator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobin"
}

// GenerateBracket creates one match for every pair of group members, in the
// order the members are listed. All group matches are round 1. A group with
// fewer than two members yields no matches.
func (g *RoundRobinGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*models.Match, error) {
	if params.GroupID == nil {
		return nil, ErrGroupRequired
	}

	pairs := Pairs(params.Participants)
	matches := make([]*models.Match, 0, len(pairs))
	for _, pair := range pairs {
		groupID := *params.GroupID
		matches = append(matches, &models.Match{
			ID:        uuid.NewString(),
			Player1ID: pair[0].ID,
			Player2ID: pair[1].ID,
			GroupID:   &groupID,
			Round:     1,
		})
	}
	return matches, nil
}
