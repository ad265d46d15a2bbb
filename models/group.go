package models

import "time"

type Group struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// PlayerGroup связывает игрока с группой. Игрок состоит не более чем в одной группе.
type PlayerGroup struct {
	PlayerID string `json:"player_id" db:"player_id"`
	GroupID  string `json:"group_id" db:"group_id"`
}
