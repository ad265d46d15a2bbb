package models

// Standing is one ranked row of a group table.
type Standing struct {
	Player Player `json:"player"`
	Played int    `json:"played"`
	Won    int    `json:"won"`
	Drawn  int    `json:"drawn"`
	Lost   int    `json:"lost"`
	Points int    `json:"points"`
}

// GroupStandings is the ranked table of a single group.
type GroupStandings struct {
	Group     Group      `json:"group"`
	Standings []Standing `json:"standings"`
}
