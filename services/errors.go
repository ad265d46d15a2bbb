package services

import (
	"errors"
	"fmt"

	"github.com/Dosada05/pingpong-tournament/brackets"
	"github.com/Dosada05/pingpong-tournament/repositories"
)

// Error kinds. Every error returned by a service wraps exactly one of them,
// so callers can branch with errors.Is on the kind.
var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrNotFound           = errors.New("not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

var (
	ErrInvalidGroupCount  = fmt.Errorf("%w: group count must be between %d and %d", ErrInvalidArgument, brackets.MinGroups, brackets.MaxGroups)
	ErrNegativeScore      = fmt.Errorf("%w: scores must not be negative", ErrInvalidArgument)
	ErrScoreRequired      = fmt.Errorf("%w: player1_score and player2_score are required", ErrInvalidArgument)
	ErrScoreTooLarge      = fmt.Errorf("%w: scores must not exceed %d", ErrInvalidArgument, MaxScore)
	ErrPlayerNameRequired = fmt.Errorf("%w: player name is required", ErrInvalidArgument)
	ErrPlayerNameTooLong  = fmt.Errorf("%w: player name is too long", ErrInvalidArgument)
	ErrInvalidEmail       = fmt.Errorf("%w: email address is not valid", ErrInvalidArgument)

	ErrPlayerNotFound = fmt.Errorf("player %w", ErrNotFound)
	ErrGroupNotFound  = fmt.Errorf("group %w", ErrNotFound)
	ErrMatchNotFound  = fmt.Errorf("match %w", ErrNotFound)
	ErrScoreNotFound  = fmt.Errorf("score %w", ErrNotFound)

	// ErrExportDisabled is returned when no object storage is configured.
	ErrExportDisabled = errors.New("snapshot export is not configured")
)

// handleRepositoryError maps repository errors onto the service error kinds.
func handleRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrPlayerNotFound):
		return ErrPlayerNotFound
	case errors.Is(err, repositories.ErrGroupNotFound):
		return ErrGroupNotFound
	case errors.Is(err, repositories.ErrMatchNotFound):
		return ErrMatchNotFound
	case errors.Is(err, repositories.ErrScoreNotFound):
		return ErrScoreNotFound
	case errors.Is(err, repositories.ErrStorageUnavailable):
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	default:
		return err
	}
}
