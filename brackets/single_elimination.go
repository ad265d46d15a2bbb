package brackets

import (
	"context"
	"math/rand/v2"

	"github.com/Dosada05/pingpong-tournament/models"
	"github.com/google/uuid"
)

// PlayoffQualifiersPerGroup is how many group leaders advance to the playoffs.
const PlayoffQualifiersPerGroup = 2

type SingleEliminationGenerator struct {
	rng *rand.Rand
}

func NewSingleEliminationGenerator(rng *rand.Rand) BracketGenerator {
	return &SingleEliminationGenerator{rng: rng}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

// GenerateBracket shuffles the qualifiers and pairs neighbours (0,1), (2,3)...
// into first-round playoff matches. With an odd count the last shuffled
// qualifier gets no match; byes are not modeled.
func (g *SingleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*models.Match, error) {
	shuffled := Shuffle(g.rng, params.Participants)

	matches := make([]*models.Match, 0, len(shuffled)/2)
	for i := 0; i+1 < len(shuffled); i += 2 {
		matches = append(matches, &models.Match{
			ID:        uuid.NewString(),
			Player1ID: shuffled[i].ID,
			Player2ID: shuffled[i+1].ID,
			Round:     1,
			IsPlayoff: true,
		})
	}
	return matches, nil
}

// Unpaired returns the participant that appears in none of matches, if any.
func Unpaired(participants []models.Player, matches []*models.Match) *models.Player {
	paired := make(map[string]bool, len(matches)*2)
	for _, m := range matches {
		paired[m.Player1ID] = true
		paired[m.Player2ID] = true
	}
	for i := range participants {
		if !paired[participants[i].ID] {
			p := participants[i]
			return &p
		}
	}
	return nil
}

// Qualifiers collects the top PlayoffQualifiersPerGroup players of every
// group table, in group order.
func Qualifiers(tables []models.GroupStandings) []models.Player {
	out := make([]models.Player, 0, len(tables)*PlayoffQualifiersPerGroup)
	for _, t := range tables {
		n := min(PlayoffQualifiersPerGroup, len(t.Standings))
		for _, s := range t.Standings[:n] {
			out = append(out, s.Player)
		}
	}
	return out
}

// RoundView is one column of the playoff bracket.
type RoundView struct {
	Round   int            `json:"round"`
	Matches []models.Match `json:"matches"`
}

// GroupByRound orders playoff matches into bracket columns, lowest round first.
func GroupByRound(matches []models.Match) []RoundView {
	byRound := make(map[int][]models.Match)
	maxRound := 0
	for _, m := range matches {
		byRound[m.Round] = append(byRound[m.Round], m)
		maxRound = max(maxRound, m.Round)
	}
	rounds := make([]RoundView, 0, len(byRound))
	for r := 1; r <= maxRound; r++ {
		if ms, ok := byRound[r]; ok {
			rounds = append(rounds, RoundView{Round: r, Matches: ms})
		}
	}
	return rounds
}
