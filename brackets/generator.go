package brackets

import (
	"context"

	"github.com/Dosada05/pingpong-tournament/models"
)

type GenerateBracketParams struct {
	// GroupID is set for group-stage generation and nil for playoffs.
	GroupID      *string
	Participants []models.Player
}

type BracketGenerator interface {
	GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*models.Match, error)

	GetName() string
}
