package models

import "time"

// Snapshot is the full entity set at one point in time.
type Snapshot struct {
	Players      []Player      `json:"players"`
	Groups       []Group       `json:"groups"`
	PlayerGroups []PlayerGroup `json:"player_groups"`
	Matches      []Match       `json:"matches"`
	Scores       []Score       `json:"scores"`
	TakenAt      time.Time     `json:"taken_at"`
}

// ScoreByMatch indexes scores by match id.
func (s *Snapshot) ScoreByMatch() map[string]Score {
	out := make(map[string]Score, len(s.Scores))
	for _, sc := range s.Scores {
		out[sc.MatchID] = sc
	}
	return out
}

// GroupMembers returns the players of groupID in player list order.
func (s *Snapshot) GroupMembers(groupID string) []Player {
	inGroup := make(map[string]bool)
	for _, pg := range s.PlayerGroups {
		if pg.GroupID == groupID {
			inGroup[pg.PlayerID] = true
		}
	}
	members := make([]Player, 0, len(inGroup))
	for _, p := range s.Players {
		if inGroup[p.ID] {
			members = append(members, p)
		}
	}
	return members
}

func (s *Snapshot) FindGroup(id string) (Group, bool) {
	for _, g := range s.Groups {
		if g.ID == id {
			return g, true
		}
	}
	return Group{}, false
}

func (s *Snapshot) FindMatch(id string) (Match, bool) {
	for _, m := range s.Matches {
		if m.ID == id {
			return m, true
		}
	}
	return Match{}, false
}
