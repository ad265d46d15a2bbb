package brackets

import (
	"sort"

	"github.com/Dosada05/pingpong-tournament/models"
)

const (
	PointsForWin  = 2
	PointsForDraw = 1
	PointsForLoss = 0
)

// ResolveWinner returns the id of the player with the strictly higher score,
// or nil on a draw.
func ResolveWinner(match models.Match, player1Score, player2Score int) *string {
	switch {
	case player1Score > player2Score:
		id := match.Player1ID
		return &id
	case player2Score > player1Score:
		id := match.Player2ID
		return &id
	default:
		return nil
	}
}

// ComputeStandings aggregates the completed, scored matches of one group into
// a ranked table. Every member gets a row, even without games. Ranking is
// points desc, wins desc, then player id asc.
func ComputeStandings(members []models.Player, groupMatches []models.Match, scores map[string]models.Score) []models.Standing {
	index := make(map[string]*models.Standing, len(members))
	rows := make([]*models.Standing, 0, len(members))
	for _, p := range members {
		row := &models.Standing{Player: p}
		index[p.ID] = row
		rows = append(rows, row)
	}

	for _, m := range groupMatches {
		if !m.Completed {
			continue
		}
		score, ok := scores[m.ID]
		if !ok {
			continue
		}
		for _, pid := range []string{m.Player1ID, m.Player2ID} {
			row := index[pid]
			if row == nil {
				continue
			}
			row.Played++
			switch {
			case score.WinnerID == nil:
				row.Drawn++
				row.Points += PointsForDraw
			case *score.WinnerID == pid:
				row.Won++
				row.Points += PointsForWin
			default:
				row.Lost++
				row.Points += PointsForLoss
			}
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		if rows[i].Won != rows[j].Won {
			return rows[i].Won > rows[j].Won
		}
		return rows[i].Player.ID < rows[j].Player.ID
	})

	standings := make([]models.Standing, len(rows))
	for i, row := range rows {
		standings[i] = *row
	}
	return standings
}
