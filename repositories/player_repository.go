package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/pingpong-tournament/models"
)

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id string) (*models.Player, error)
	List(ctx context.Context) ([]models.Player, error)
	// Delete removes the player together with its memberships, matches and
	// the scores of those matches.
	Delete(ctx context.Context, id string) error
}

type postgresPlayerRepository struct {
	exec SQLExecutor
}

func NewPostgresPlayerRepository(exec SQLExecutor) PlayerRepository {
	return &postgresPlayerRepository{exec: exec}
}

func (r *postgresPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	query := `INSERT INTO players (id, name, email, created_at) VALUES ($1, $2, $3, $4)`
	_, err := r.exec.ExecContext(ctx, query, player.ID, player.Name, player.Email, player.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert player: %w", handleError(err))
	}
	return nil
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id string) (*models.Player, error) {
	query := `SELECT id, name, email, created_at FROM players WHERE id = $1`

	var p models.Player
	err := r.exec.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Email, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to scan player by id %s: %w", id, handleError(err))
	}
	return &p, nil
}

func (r *postgresPlayerRepository) List(ctx context.Context) ([]models.Player, error) {
	query := `SELECT id, name, email, created_at FROM players ORDER BY created_at ASC, id ASC`
	rows, err := r.exec.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", handleError(err))
	}
	return scanPlayers(rows)
}

func (r *postgresPlayerRepository) Delete(ctx context.Context, id string) error {
	// memberships, matches and scores go with the player via ON DELETE CASCADE
	result, err := r.exec.ExecContext(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete player %s: %w", id, handleError(err))
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func scanPlayers(rows *sql.Rows) ([]models.Player, error) {
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during player rows iteration: %w", handleError(err))
	}
	return players, nil
}
