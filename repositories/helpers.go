package repositories

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/lib/pq"
)

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError
	}
	return nil
}

// constraintErrors maps schema constraint names to domain errors.
var constraintErrors = map[string]error{
	"player_groups_player_id_fkey": ErrPlayerNotFound,
	"player_groups_group_id_fkey":  ErrGroupNotFound,
	"player_groups_player_id_key":  ErrPlayerAlreadyGrouped,
	"matches_player1_id_fkey":      ErrPlayerNotFound,
	"matches_player2_id_fkey":      ErrPlayerNotFound,
	"matches_group_id_fkey":        ErrGroupNotFound,
	"matches_distinct_players":     ErrMatchPlayersInvalid,
	"scores_match_id_fkey":         ErrMatchNotFound,
	"scores_winner_id_fkey":        ErrPlayerNotFound,
}

// handleError translates driver errors: known constraint violations become
// domain errors, lost connections become ErrStorageUnavailable.
func handleError(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if mapped, ok := constraintErrors[pqErr.Constraint]; ok {
			return mapped
		}
		// class 08: connection exception, 57P01..03: server shutting down
		if pqErr.Code.Class() == "08" || pqErr.Code == "57P01" || pqErr.Code == "57P02" || pqErr.Code == "57P03" {
			return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
		return err
	}

	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) || errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return err
}
