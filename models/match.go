package models

import "time"

// Match is a single game between two players. Round-robin matches belong to a
// group and are always round 1; playoff matches have no group.
type Match struct {
	ID            string     `json:"id" db:"id"`
	Player1ID     string     `json:"player1_id" db:"player1_id"`
	Player2ID     string     `json:"player2_id" db:"player2_id"`
	GroupID       *string    `json:"group_id" db:"group_id"`
	Round         int        `json:"round" db:"round"`
	ScheduledTime *time.Time `json:"scheduled_time" db:"scheduled_time"`
	Completed     bool       `json:"completed" db:"completed"`
	IsPlayoff     bool       `json:"is_playoff" db:"is_playoff"`
}

// HasPlayer reports whether playerID takes part in the match.
func (m Match) HasPlayer(playerID string) bool {
	return m.Player1ID == playerID || m.Player2ID == playerID
}

// InGroup reports whether the match is a round-robin match of groupID.
func (m Match) InGroup(groupID string) bool {
	return m.GroupID != nil && *m.GroupID == groupID
}

// MatchFilter narrows match listings. Nil fields are not applied.
type MatchFilter struct {
	IsPlayoff *bool
	GroupID   *string
}
