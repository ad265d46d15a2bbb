package models

// Score is the recorded result of a match. WinnerID is nil on a draw.
type Score struct {
	MatchID      string  `json:"match_id" db:"match_id"`
	Player1Score int     `json:"player1_score" db:"player1_score"`
	Player2Score int     `json:"player2_score" db:"player2_score"`
	WinnerID     *string `json:"winner_id" db:"winner_id"`
}

func (s Score) IsDraw() bool {
	return s.WinnerID == nil
}
