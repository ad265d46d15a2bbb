package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/pingpong-tournament/storage"
	"github.com/gosimple/slug"
)

const snapshotKeyTimeFormat = "20060102T150405Z"

type ExportService interface {
	ExportSnapshot(ctx context.Context) (*storage.UploadResult, error)
}

type exportService struct {
	cache          *Cache
	uploader       storage.FileUploader
	tournamentName string
	logger         *slog.Logger
}

// NewExportService returns a service that uploads snapshots through uploader.
// A nil uploader disables exports.
func NewExportService(cache *Cache, uploader storage.FileUploader, tournamentName string, logger *slog.Logger) ExportService {
	return &exportService{
		cache:          cache,
		uploader:       uploader,
		tournamentName: tournamentName,
		logger:         logger,
	}
}

func (s *exportService) ExportSnapshot(ctx context.Context) (*storage.UploadResult, error) {
	if s.uploader == nil {
		return nil, ErrExportDisabled
	}

	snap, err := s.cache.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	body, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	key := SnapshotKey(s.tournamentName, snap.TakenAt)
	result, err := s.uploader.Upload(ctx, key, "application/json", bytes.NewReader(body))
	if err != nil {
		s.logger.ErrorContext(ctx, "snapshot export failed", slog.String("key", key), slog.Any("error", err))
		return nil, err
	}

	s.logger.InfoContext(ctx, "snapshot exported",
		slog.String("key", result.Key),
		slog.Int("bytes", len(body)),
	)
	return result, nil
}

// SnapshotKey is the object key of a snapshot taken at takenAt.
func SnapshotKey(tournamentName string, takenAt time.Time) string {
	return fmt.Sprintf("%s/%s.json", slug.Make(tournamentName), takenAt.UTC().Format(snapshotKeyTimeFormat))
}
