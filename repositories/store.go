package repositories

import (
	"context"
	"database/sql"
	"errors"
)

// SQLExecutor is satisfied by both *sql.DB and *sql.Tx, so repositories run
// unchanged inside or outside a transaction.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

var (
	ErrPlayerNotFound       = errors.New("player not found")
	ErrGroupNotFound        = errors.New("group not found")
	ErrMatchNotFound        = errors.New("match not found")
	ErrScoreNotFound        = errors.New("score not found")
	ErrPlayerAlreadyGrouped = errors.New("player already belongs to a group")
	ErrMatchPlayersInvalid  = errors.New("match players must be two distinct players")
	ErrStorageUnavailable   = errors.New("storage unavailable")
)

// Store is the entity store: the five tournament collections plus a scoped
// transaction. Inside WithTx every repository obtained from tx writes to the
// same transaction; fn returning an error (or panicking) rolls all of it back.
type Store interface {
	Players() PlayerRepository
	Groups() GroupRepository
	Matches() MatchRepository
	Scores() ScoreRepository

	WithTx(ctx context.Context, fn func(tx Store) error) error
	Ping(ctx context.Context) error
}
