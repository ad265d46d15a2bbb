package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

type PostgresStore struct {
	db   *sql.DB
	exec SQLExecutor
	tx   *sql.Tx
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, exec: db}
}

func (s *PostgresStore) Players() PlayerRepository { return NewPostgresPlayerRepository(s.exec) }
func (s *PostgresStore) Groups() GroupRepository   { return NewPostgresGroupRepository(s.exec) }
func (s *PostgresStore) Matches() MatchRepository  { return NewPostgresMatchRepository(s.exec) }
func (s *PostgresStore) Scores() ScoreRepository   { return NewPostgresScoreRepository(s.exec) }

func (s *PostgresStore) Ping(ctx context.Context) error {
	return handleError(s.db.PingContext(ctx))
}

// WithTx runs fn inside one database transaction. Called on a store that is
// already transactional, fn joins the outer transaction.
func (s *PostgresStore) WithTx(ctx context.Context, fn func(tx Store) error) (txErr error) {
	if s.tx != nil {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", handleError(err))
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Printf("Error during rollback: %v. Original error: %v", rbErr, txErr)
				txErr = fmt.Errorf("%w (rollback also failed: %v)", txErr, rbErr)
			}
		} else if cErr := tx.Commit(); cErr != nil {
			txErr = fmt.Errorf("failed to commit transaction: %w", handleError(cErr))
		}
	}()

	return fn(&PostgresStore{db: s.db, exec: tx, tx: tx})
}
