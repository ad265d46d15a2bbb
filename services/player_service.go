package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Dosada05/pingpong-tournament/models"
	"github.com/Dosada05/pingpong-tournament/repositories"
	"github.com/google/uuid"
)

const MaxPlayerNameLength = 100

type AddPlayerInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type PlayerService interface {
	ListPlayers(ctx context.Context) ([]models.Player, error)
	AddPlayer(ctx context.Context, input AddPlayerInput) (*models.Player, error)
	// RemovePlayer deletes the player together with its membership, every
	// match it plays in and the scores of those matches.
	RemovePlayer(ctx context.Context, playerID string) error
}

type playerService struct {
	store  repositories.Store
	cache  *Cache
	logger *slog.Logger
}

func NewPlayerService(store repositories.Store, cache *Cache, logger *slog.Logger) PlayerService {
	return &playerService{store: store, cache: cache, logger: logger}
}

func (s *playerService) ListPlayers(ctx context.Context) ([]models.Player, error) {
	snap, err := s.cache.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return append([]models.Player{}, snap.Players...), nil
}

func (s *playerService) AddPlayer(ctx context.Context, input AddPlayerInput) (*models.Player, error) {
	name, email, err := validatePlayerInput(input)
	if err != nil {
		return nil, err
	}

	player := &models.Player{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}

	defer s.cache.Invalidate()
	if err := s.store.Players().Create(ctx, player); err != nil {
		return nil, handleRepositoryError(err)
	}

	s.logger.InfoContext(ctx, "player added", slog.String("player_id", player.ID))
	return player, nil
}

func (s *playerService) RemovePlayer(ctx context.Context, playerID string) error {
	defer s.cache.Invalidate()
	if err := s.store.Players().Delete(ctx, playerID); err != nil {
		return handleRepositoryError(err)
	}
	s.logger.InfoContext(ctx, "player removed", slog.String("player_id", playerID))
	return nil
}

func validatePlayerInput(input AddPlayerInput) (string, string, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return "", "", ErrPlayerNameRequired
	}
	if utf8.RuneCountInString(name) > MaxPlayerNameLength {
		return "", "", ErrPlayerNameTooLong
	}

	email := strings.TrimSpace(input.Email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidEmail, input.Email)
	}
	return name, email, nil
}
