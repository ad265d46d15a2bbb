package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/pingpong-tournament/models"
)

type GroupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	GetByID(ctx context.Context, id string) (*models.Group, error)
	List(ctx context.Context) ([]models.Group, error)
	// DeleteAll removes every group, every membership and every round-robin
	// match (with its score). Playoff matches are kept.
	DeleteAll(ctx context.Context) error

	AddMember(ctx context.Context, membership models.PlayerGroup) error
	ListMembers(ctx context.Context, groupID string) ([]models.Player, error)
	ListMemberships(ctx context.Context) ([]models.PlayerGroup, error)
}

type postgresGroupRepository struct {
	exec SQLExecutor
}

func NewPostgresGroupRepository(exec SQLExecutor) GroupRepository {
	return &postgresGroupRepository{exec: exec}
}

func (r *postgresGroupRepository) Create(ctx context.Context, group *models.Group) error {
	query := `INSERT INTO groups (id, name, created_at) VALUES ($1, $2, $3)`
	if _, err := r.exec.ExecContext(ctx, query, group.ID, group.Name, group.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert group: %w", handleError(err))
	}
	return nil
}

func (r *postgresGroupRepository) GetByID(ctx context.Context, id string) (*models.Group, error) {
	query := `SELECT id, name, created_at FROM groups WHERE id = $1`

	var g models.Group
	if err := r.exec.QueryRowContext(ctx, query, id).Scan(&g.ID, &g.Name, &g.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to scan group by id %s: %w", id, handleError(err))
	}
	return &g, nil
}

func (r *postgresGroupRepository) List(ctx context.Context) ([]models.Group, error) {
	rows, err := r.exec.QueryContext(ctx, `SELECT id, name, created_at FROM groups ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", handleError(err))
	}
	defer rows.Close()

	groups := make([]models.Group, 0)
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group row: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during group rows iteration: %w", handleError(err))
	}
	return groups, nil
}

func (r *postgresGroupRepository) DeleteAll(ctx context.Context) error {
	// player_groups and group matches cascade from groups
	if _, err := r.exec.ExecContext(ctx, `DELETE FROM groups`); err != nil {
		return fmt.Errorf("failed to delete groups: %w", handleError(err))
	}
	return nil
}

func (r *postgresGroupRepository) AddMember(ctx context.Context, membership models.PlayerGroup) error {
	query := `INSERT INTO player_groups (player_id, group_id) VALUES ($1, $2)`
	if _, err := r.exec.ExecContext(ctx, query, membership.PlayerID, membership.GroupID); err != nil {
		return fmt.Errorf("failed to add player %s to group %s: %w", membership.PlayerID, membership.GroupID, handleError(err))
	}
	return nil
}

func (r *postgresGroupRepository) ListMembers(ctx context.Context, groupID string) ([]models.Player, error) {
	query := `
		SELECT p.id, p.name, p.email, p.created_at
		FROM players p
		JOIN player_groups pg ON pg.player_id = p.id
		WHERE pg.group_id = $1
		ORDER BY p.created_at ASC, p.id ASC`
	rows, err := r.exec.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query members of group %s: %w", groupID, handleError(err))
	}
	return scanPlayers(rows)
}

func (r *postgresGroupRepository) ListMemberships(ctx context.Context) ([]models.PlayerGroup, error) {
	rows, err := r.exec.QueryContext(ctx, `SELECT player_id, group_id FROM player_groups ORDER BY group_id ASC, player_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query memberships: %w", handleError(err))
	}
	defer rows.Close()

	memberships := make([]models.PlayerGroup, 0)
	for rows.Next() {
		var pg models.PlayerGroup
		if err := rows.Scan(&pg.PlayerID, &pg.GroupID); err != nil {
			return nil, fmt.Errorf("failed to scan membership row: %w", err)
		}
		memberships = append(memberships, pg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during membership rows iteration: %w", handleError(err))
	}
	return memberships, nil
}
