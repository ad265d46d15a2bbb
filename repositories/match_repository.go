package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Dosada05/pingpong-tournament/models"
)

type MatchRepository interface {
	Create(ctx context.Context, match *models.Match) error
	GetByID(ctx context.Context, id string) (*models.Match, error)
	List(ctx context.Context, filter models.MatchFilter) ([]models.Match, error)
	// DeleteByPlayoff removes every match of one partition (group matches or
	// playoff matches) together with their scores.
	DeleteByPlayoff(ctx context.Context, isPlayoff bool) (int64, error)
	MarkCompleted(ctx context.Context, id string) error
}

type postgresMatchRepository struct {
	exec SQLExecutor
}

func NewPostgresMatchRepository(exec SQLExecutor) MatchRepository {
	return &postgresMatchRepository{exec: exec}
}

const matchColumns = `id, player1_id, player2_id, group_id, round, scheduled_time, completed, is_playoff`

func (r *postgresMatchRepository) Create(ctx context.Context, match *models.Match) error {
	query := `
		INSERT INTO matches
			(id, player1_id, player2_id, group_id, round, scheduled_time, completed, is_playoff)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.exec.ExecContext(ctx, query,
		match.ID,
		match.Player1ID,
		match.Player2ID,
		match.GroupID,
		match.Round,
		match.ScheduledTime,
		match.Completed,
		match.IsPlayoff,
	)
	if err != nil {
		return fmt.Errorf("failed to insert match: %w", handleError(err))
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id string) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	match, err := scanMatch(r.exec.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match by id %s: %w", id, handleError(err))
	}
	return match, nil
}

func (r *postgresMatchRepository) List(ctx context.Context, filter models.MatchFilter) ([]models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE TRUE`)

	args := []interface{}{}
	placeholderIndex := 1

	if filter.IsPlayoff != nil {
		queryBuilder.WriteString(" AND is_playoff = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *filter.IsPlayoff)
		placeholderIndex++
	}
	if filter.GroupID != nil {
		queryBuilder.WriteString(" AND group_id = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *filter.GroupID)
	}

	queryBuilder.WriteString(" ORDER BY seq ASC")

	rows, err := r.exec.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", handleError(err))
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		match, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, *match)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", handleError(err))
	}
	return matches, nil
}

func (r *postgresMatchRepository) DeleteByPlayoff(ctx context.Context, isPlayoff bool) (int64, error) {
	// scores cascade from matches
	result, err := r.exec.ExecContext(ctx, `DELETE FROM matches WHERE is_playoff = $1`, isPlayoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete matches (playoff=%t): %w", isPlayoff, handleError(err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check affected rows: %w", err)
	}
	return n, nil
}

func (r *postgresMatchRepository) MarkCompleted(ctx context.Context, id string) error {
	result, err := r.exec.ExecContext(ctx, `UPDATE matches SET completed = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark match %s completed: %w", id, handleError(err))
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func scanMatch(rowScanner interface{ Scan(...interface{}) error }) (*models.Match, error) {
	var (
		m             models.Match
		groupID       sql.NullString
		scheduledTime sql.NullTime
	)
	err := rowScanner.Scan(
		&m.ID,
		&m.Player1ID,
		&m.Player2ID,
		&groupID,
		&m.Round,
		&scheduledTime,
		&m.Completed,
		&m.IsPlayoff,
	)
	if err != nil {
		return nil, err
	}
	if groupID.Valid {
		m.GroupID = &groupID.String
	}
	if scheduledTime.Valid {
		m.ScheduledTime = &scheduledTime.Time
	}
	return &m, nil
}
